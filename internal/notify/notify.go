// Package notify delivers human-readable storefront messages.
package notify

import (
	"context"
	"sync"
	"time"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DefaultWarningDuration is how long validation warnings stay visible.
const DefaultWarningDuration = 3000 * time.Millisecond

// Notification is a single message. Duration is a display hint; zero means
// the sink's default.
type Notification struct {
	Message  string        `json:"message"`
	Severity Severity      `json:"severity"`
	Duration time.Duration `json:"-"`
}

// Sink receives notifications. Delivery failures are the sink's problem: a
// notification never fails the operation that raised it.
type Sink interface {
	Notify(ctx context.Context, n Notification)
}

func Info(msg string) Notification {
	return Notification{Message: msg, Severity: SeverityInfo}
}

func Success(msg string) Notification {
	return Notification{Message: msg, Severity: SeveritySuccess}
}

func Warning(msg string) Notification {
	return Notification{Message: msg, Severity: SeverityWarning, Duration: DefaultWarningDuration}
}

func Error(msg string) Notification {
	return Notification{Message: msg, Severity: SeverityError}
}

// Multi fans a notification out to several sinks in order.
type Multi []Sink

func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, s := range m {
		if s != nil {
			s.Notify(ctx, n)
		}
	}
}

// Discard drops everything.
type Discard struct{}

func (Discard) Notify(context.Context, Notification) {}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

// All returns a copy of everything received so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return Notification{}, false
	}
	return r.sent[len(r.sent)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}
