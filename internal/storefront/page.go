// Package storefront ties cart loading, address management and checkout
// together for one logged-in user.
package storefront

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/address"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/client"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/notify"
	"github.com/fjod/go_cart/storefront/internal/reconcile"
	"github.com/fjod/go_cart/storefront/internal/session"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	MsgCatalogFailed = "Could not fetch products. Check that the backend is running, reachable and returns valid JSON."
	MsgCartFailed    = "Could not fetch cart details. Check that the backend is running, reachable and returns valid JSON."
)

// Summary is what the checkout screen shows.
type Summary struct {
	Items     []domain.LineItem
	ItemCount int
	Subtotal  float64
	Balance   float64
	Addresses domain.AddressSelection
}

type Page struct {
	loader *reconcile.Loader
	book   *address.Book
	orch   *checkout.Orchestrator
	store  session.Store
	sink   notify.Sink
	logger *zap.Logger

	mu   sync.RWMutex
	cart reconcile.Cart
}

func NewPage(loader *reconcile.Loader, book *address.Book, orch *checkout.Orchestrator, store session.Store, sink notify.Sink, logger *zap.Logger) *Page {
	if sink == nil {
		sink = notify.Discard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Page{
		loader: loader,
		book:   book,
		orch:   orch,
		store:  store,
		sink:   sink,
		logger: logger,
		cart:   reconcile.Cart{Items: []domain.LineItem{}},
	}
}

// Open loads the cart and the address list concurrently. A failure in one
// does not stop the other; the returned error joins both.
func (p *Page) Open(ctx context.Context) error {
	token, err := session.Token(ctx, p.store)
	if err != nil {
		return err
	}

	var (
		g                errgroup.Group
		cartErr, addrErr error
	)
	g.Go(func() error {
		cart, err := p.loader.Load(ctx, token)
		p.mu.Lock()
		p.cart = cart
		p.mu.Unlock()
		if err != nil {
			p.notifyLoadFailure(ctx, err)
			cartErr = err
		}
		return nil
	})
	g.Go(func() error {
		// Book notifies on its own
		addrErr = p.book.Refresh(ctx)
		return nil
	})
	_ = g.Wait()

	return errors.Join(cartErr, addrErr)
}

func (p *Page) notifyLoadFailure(ctx context.Context, err error) {
	var fe *reconcile.FetchError
	if !errors.As(err, &fe) {
		p.sink.Notify(ctx, notify.Error(MsgCartFailed))
		return
	}
	if fe.Source == reconcile.SourceCatalog {
		if be, ok := client.AsBackendError(fe.Err); ok {
			p.sink.Notify(ctx, notify.Error(be.Message))
			return
		}
		p.sink.Notify(ctx, notify.Error(MsgCatalogFailed))
		return
	}
	p.sink.Notify(ctx, notify.Error(MsgCartFailed))
}

// Book exposes address management for the page.
func (p *Page) Book() *address.Book {
	return p.book
}

// SelectAddress picks the shipping address; unknown ids are ignored.
func (p *Page) SelectAddress(id string) bool {
	return p.book.Select(id)
}

func (p *Page) Summary(ctx context.Context) (Summary, error) {
	balance, err := session.Balance(ctx, p.store)
	if err != nil {
		return Summary{}, err
	}

	p.mu.RLock()
	items := slices.Clone(p.cart.Items)
	subtotal := p.cart.Subtotal
	p.mu.RUnlock()

	return Summary{
		Items:     items,
		ItemCount: reconcile.Quantity(items),
		Subtotal:  subtotal,
		Balance:   balance,
		Addresses: p.book.Selection(),
	}, nil
}

// PlaceOrder checks out the loaded cart to the selected address. The local
// cart is emptied once the backend accepts the order.
func (p *Page) PlaceOrder(ctx context.Context) (*domain.OrderConfirmation, error) {
	p.mu.RLock()
	items := slices.Clone(p.cart.Items)
	subtotal := p.cart.Subtotal
	p.mu.RUnlock()

	confirmation, err := p.orch.Checkout(ctx, items, subtotal, p.book.Selection())
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cart = reconcile.Cart{Items: []domain.LineItem{}}
	p.mu.Unlock()

	p.logger.Debug("cart cleared after order", zap.String("order_id", confirmation.OrderID))
	return confirmation, nil
}
