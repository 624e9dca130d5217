package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/client"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/fjod/go_cart/storefront/internal/notify"
	"github.com/fjod/go_cart/storefront/internal/reconcile"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MsgOrderPlaced    = "Order placed successfully"
	MsgCheckoutFailed = "Could not place the order. Check that the backend is running, reachable and returns valid JSON."
)

// Checkouter submits a checkout to the backend.
type Checkouter interface {
	Checkout(ctx context.Context, token, addressID string) error
}

// OrderRecorder stores confirmations of successful orders.
type OrderRecorder interface {
	Save(ctx context.Context, order domain.OrderConfirmation) error
}

// Navigator receives the signal to move to the confirmation view.
type Navigator interface {
	Navigate(nav domain.Navigation)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(domain.Navigation)

func (f NavigatorFunc) Navigate(nav domain.Navigation) { f(nav) }

type Option func(*Orchestrator)

func WithNavigator(n Navigator) Option {
	return func(o *Orchestrator) { o.nav = n }
}

func WithOrderRecorder(r OrderRecorder) Option {
	return func(o *Orchestrator) { o.orders = r }
}

func WithMetrics(m *metrics.CheckoutMetrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// Orchestrator runs one checkout at a time through
// Idle -> Validating -> Submitting -> Succeeded | Failed -> Idle.
type Orchestrator struct {
	client  Checkouter
	store   session.Store
	sink    notify.Sink
	nav     Navigator
	orders  OrderRecorder
	metrics *metrics.CheckoutMetrics
	logger  *zap.Logger
	now     func() time.Time

	mu     sync.Mutex
	status domain.CheckoutStatus
	last   domain.CheckoutStatus
}

func NewOrchestrator(c Checkouter, store session.Store, sink notify.Sink, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client: c,
		store:  store,
		sink:   sink,
		now:    time.Now,
		status: domain.CheckoutStatusIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.sink == nil {
		o.sink = notify.Discard{}
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// Status is the current state; Idle unless an attempt is running.
func (o *Orchestrator) Status() domain.CheckoutStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// LastOutcome is the terminal state of the most recent attempt, empty before
// the first one finishes.
func (o *Orchestrator) LastOutcome() domain.CheckoutStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// Checkout validates the order locally, submits it and, on success, deducts
// subtotal from the stored balance. A call made while another attempt is
// running returns ErrCheckoutInFlight without touching the backend.
func (o *Orchestrator) Checkout(ctx context.Context, items []domain.LineItem, subtotal float64, sel domain.AddressSelection) (*domain.OrderConfirmation, error) {
	if err := o.begin(); err != nil {
		o.metrics.Observe(metrics.OutcomeAlreadyInProgress, "")
		return nil, err
	}

	sess, err := session.Require(ctx, o.store)
	if err != nil {
		o.finish(domain.CheckoutStatusFailed)
		return nil, err
	}

	if result := Validate(subtotal, sess.Balance, sel); result != Ok {
		o.logger.Info("checkout rejected",
			zap.String("reason", result.String()),
			zap.Float64("subtotal", subtotal),
			zap.Float64("balance", sess.Balance))
		o.sink.Notify(ctx, notify.Warning(result.Message()))
		o.metrics.Observe(metrics.OutcomeRejected, result.String())
		o.finish(domain.CheckoutStatusFailed)
		return nil, &ValidationError{Result: result}
	}

	if err := o.transition(domain.CheckoutStatusSubmitting); err != nil {
		o.finish(domain.CheckoutStatusFailed)
		return nil, err
	}

	start := o.now()
	err = o.client.Checkout(ctx, sess.Token, sel.SelectedID)
	o.metrics.ObserveSubmit(o.now().Sub(start))
	if err != nil {
		o.reportFailure(ctx, err)
		o.finish(domain.CheckoutStatusFailed)
		return nil, err
	}

	confirmation := o.complete(ctx, sess, items, subtotal, sel.SelectedID)
	o.finish(domain.CheckoutStatusSucceeded)
	return confirmation, nil
}

func (o *Orchestrator) complete(ctx context.Context, sess domain.Session, items []domain.LineItem, subtotal float64, addressID string) *domain.OrderConfirmation {
	newBalance := sess.Balance - subtotal
	if err := session.SetBalance(ctx, o.store, newBalance); err != nil {
		// the order is placed; the next login restores the real balance
		o.logger.Error("failed to persist balance", zap.Error(err))
	}

	confirmation := &domain.OrderConfirmation{
		OrderID:    uuid.NewString(),
		Username:   sess.Username,
		AddressID:  addressID,
		Items:      items,
		Subtotal:   subtotal,
		NewBalance: newBalance,
		PlacedAt:   o.now().UTC(),
	}
	if confirmation.Items == nil {
		confirmation.Items = []domain.LineItem{}
	}

	o.logger.Info("order placed",
		zap.String("order_id", confirmation.OrderID),
		zap.String("address_id", addressID),
		zap.Int("quantity", reconcile.Quantity(items)),
		zap.Float64("subtotal", subtotal),
		zap.Float64("new_balance", newBalance))

	o.metrics.Observe(metrics.OutcomeSucceeded, "")
	o.metrics.AddSpent(subtotal)

	if o.orders != nil {
		if err := o.orders.Save(ctx, *confirmation); err != nil {
			o.logger.Warn("failed to record order", zap.String("order_id", confirmation.OrderID), zap.Error(err))
		}
	}

	o.sink.Notify(ctx, notify.Success(MsgOrderPlaced))
	if o.nav != nil {
		o.nav.Navigate(domain.Navigation{To: domain.RouteThanks, From: domain.OriginCheckout})
	}
	return confirmation
}

func (o *Orchestrator) reportFailure(ctx context.Context, err error) {
	if be, ok := client.AsBackendError(err); ok {
		o.logger.Warn("checkout refused by backend", zap.Int("status", be.StatusCode), zap.String("message", be.Message))
		o.sink.Notify(ctx, notify.Error(be.Message))
		o.metrics.Observe(metrics.OutcomeBackendError, "")
		return
	}
	o.logger.Error("checkout request failed", zap.Error(err))
	o.sink.Notify(ctx, notify.Error(MsgCheckoutFailed))
	o.metrics.Observe(metrics.OutcomeTransportError, "")
}

// begin claims the orchestrator for one attempt.
func (o *Orchestrator) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status != domain.CheckoutStatusIdle {
		return ErrCheckoutInFlight
	}
	o.status = domain.CheckoutStatusValidating
	return nil
}

func (o *Orchestrator) transition(next domain.CheckoutStatus) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.status, next)
	}
	o.status = next
	return nil
}

// finish records the terminal state and returns to Idle.
func (o *Orchestrator) finish(terminal domain.CheckoutStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.status.CanTransitionTo(terminal) {
		o.logger.Warn("unexpected checkout transition",
			zap.Stringer("from", o.status),
			zap.Stringer("to", terminal))
	}
	o.last = terminal
	o.status = domain.CheckoutStatusIdle
}
