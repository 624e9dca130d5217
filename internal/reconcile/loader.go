package reconcile

import (
	"context"
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type CatalogSource interface {
	Products(ctx context.Context) ([]domain.Product, error)
}

type CartSource interface {
	Cart(ctx context.Context, token string) ([]domain.RawCartEntry, error)
}

// Cart is a reconciled cart ready for display and checkout.
type Cart struct {
	Items    []domain.LineItem
	Subtotal float64
}

// FetchError tells which of the two sources failed.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

const (
	SourceCatalog = "catalog"
	SourceCart    = "cart"
)

type Loader struct {
	catalog CatalogSource
	cart    CartSource
	logger  *zap.Logger
}

func NewLoader(catalog CatalogSource, cart CartSource, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{catalog: catalog, cart: cart, logger: logger}
}

// Load fetches the catalog and the raw cart concurrently and reconciles them
// once both have arrived. If either fetch fails the returned cart is empty.
func (l *Loader) Load(ctx context.Context, token string) (Cart, error) {
	var (
		products []domain.Product
		raw      []domain.RawCartEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := l.catalog.Products(gctx)
		if err != nil {
			return &FetchError{Source: SourceCatalog, Err: err}
		}
		products = p
		return nil
	})
	g.Go(func() error {
		r, err := l.cart.Cart(gctx, token)
		if err != nil {
			return &FetchError{Source: SourceCart, Err: err}
		}
		raw = r
		return nil
	})

	if err := g.Wait(); err != nil {
		l.logger.Warn("cart load failed", zap.Error(err))
		return Cart{Items: []domain.LineItem{}}, err
	}

	items := Reconcile(raw, products)
	if dropped := len(raw) - len(items); dropped > 0 {
		l.logger.Debug("dropped cart entries without catalog match", zap.Int("dropped", dropped))
	}
	return Cart{Items: items, Subtotal: Subtotal(items)}, nil
}
