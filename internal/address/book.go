package address

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/storefront/internal/client"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/notify"
	"github.com/fjod/go_cart/storefront/internal/session"
	"go.uber.org/zap"
)

const (
	MsgFetchFailed  = "Could not fetch addresses. Check that the backend is running, reachable and returns valid JSON."
	MsgAddFailed    = "Could not add this address. Check that the backend is running, reachable and returns valid JSON."
	MsgDeleteFailed = "Could not delete this address. Check that the backend is running, reachable and returns valid JSON."
)

// Client is the part of the REST client Book needs.
type Client interface {
	Addresses(ctx context.Context, token string) ([]domain.Address, error)
	AddAddress(ctx context.Context, token, text string) ([]domain.Address, error)
	DeleteAddress(ctx context.Context, token, id string) ([]domain.Address, error)
}

// Book keeps a Selector in step with the backend. Failed calls leave the
// selector untouched and raise a notification.
type Book struct {
	*Selector
	client Client
	store  session.Store
	sink   notify.Sink
	logger *zap.Logger
}

func NewBook(c Client, store session.Store, sink notify.Sink, logger *zap.Logger) *Book {
	if sink == nil {
		sink = notify.Discard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Book{
		Selector: NewSelector(),
		client:   c,
		store:    store,
		sink:     sink,
		logger:   logger,
	}
}

// Refresh reloads the list from the backend.
func (b *Book) Refresh(ctx context.Context) error {
	token, err := session.Token(ctx, b.store)
	if err != nil {
		return err
	}

	addresses, err := b.client.Addresses(ctx, token)
	if err != nil {
		b.fail(ctx, "fetch addresses", MsgFetchFailed, err)
		return err
	}
	b.Load(addresses)
	b.logger.Debug("addresses loaded", zap.Int("count", len(addresses)))
	return nil
}

// Create adds an address on the backend and adopts the returned list.
func (b *Book) Create(ctx context.Context, text string) error {
	token, err := session.Token(ctx, b.store)
	if err != nil {
		return err
	}

	addresses, err := b.client.AddAddress(ctx, token, text)
	if err != nil {
		b.fail(ctx, "add address", MsgAddFailed, err)
		return err
	}
	b.Add(addresses)
	b.logger.Info("address added", zap.Int("count", len(addresses)))
	return nil
}

// Delete removes an address on the backend and adopts the returned list.
func (b *Book) Delete(ctx context.Context, id string) error {
	token, err := session.Token(ctx, b.store)
	if err != nil {
		return err
	}

	addresses, err := b.client.DeleteAddress(ctx, token, id)
	if err != nil {
		b.fail(ctx, "delete address", MsgDeleteFailed, err)
		return err
	}
	b.Remove(id, addresses)
	b.logger.Info("address deleted", zap.String("address_id", id))
	return nil
}

func (b *Book) fail(ctx context.Context, op, connectivityMsg string, err error) {
	b.logger.Warn(op+" failed", zap.Error(err))

	var be *client.BackendError
	if errors.As(err, &be) {
		b.sink.Notify(ctx, notify.Error(be.Message))
		return
	}
	b.sink.Notify(ctx, notify.Error(connectivityMsg))
}
