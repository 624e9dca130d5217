package checkout

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// MockCheckouter implements Checkouter. When Block is set, Checkout signals
// Entered and waits for Block to close.
type MockCheckouter struct {
	Err          error
	Block        chan struct{}
	Entered      chan struct{}
	Calls        atomic.Int32
	GotToken     string
	GotAddressID string
}

func (m *MockCheckouter) Checkout(_ context.Context, token, addressID string) error {
	m.Calls.Add(1)
	m.GotToken = token
	m.GotAddressID = addressID
	if m.Entered != nil {
		m.Entered <- struct{}{}
	}
	if m.Block != nil {
		<-m.Block
	}
	return m.Err
}

type MockOrderRecorder struct {
	mu    sync.Mutex
	Saved []domain.OrderConfirmation
	Err   error
}

func (m *MockOrderRecorder) Save(_ context.Context, order domain.OrderConfirmation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Saved = append(m.Saved, order)
	return nil
}

type navigations struct {
	mu  sync.Mutex
	got []domain.Navigation
}

func (n *navigations) Navigate(nav domain.Navigation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, nav)
}

func (n *navigations) all() []domain.Navigation {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Navigation(nil), n.got...)
}
