package reconcile

import (
	"context"
	"sync/atomic"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

type MockCatalog struct {
	Items []domain.Product
	Err   error
	Calls atomic.Int32
}

func (m *MockCatalog) Products(_ context.Context) ([]domain.Product, error) {
	m.Calls.Add(1)
	return m.Items, m.Err
}

type MockCart struct {
	Entries  []domain.RawCartEntry
	Err      error
	GotToken string
	Calls    atomic.Int32
}

func (m *MockCart) Cart(_ context.Context, token string) ([]domain.RawCartEntry, error) {
	m.Calls.Add(1)
	m.GotToken = token
	return m.Entries, m.Err
}
