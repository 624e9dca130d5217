// Package auth logs the user in and out of the storefront.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/client"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/notify"
	"github.com/fjod/go_cart/storefront/internal/session"
	"go.uber.org/zap"
)

const (
	MsgUsernameRequired = "Username is a required field"
	MsgPasswordRequired = "Password is a required field"
	MsgLoggedIn         = "Logged in successfully"
	MsgLoggedOut        = "Logged out"
	MsgLoginFailed      = "Something went wrong. Check that the backend is running, reachable and returns valid JSON."
)

var ErrMissingCredentials = errors.New("username and password are required")

type Client interface {
	Login(ctx context.Context, username, password string) (domain.Session, error)
}

type Service struct {
	client Client
	store  session.Store
	sink   notify.Sink
	logger *zap.Logger
}

func NewService(c Client, store session.Store, sink notify.Sink, logger *zap.Logger) *Service {
	if sink == nil {
		sink = notify.Discard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: c, store: store, sink: sink, logger: logger}
}

// Login authenticates and persists the session. Empty fields are rejected
// locally; a 400 from the backend shows its message and anything else shows
// a generic failure.
func (s *Service) Login(ctx context.Context, username, password string) (domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		s.sink.Notify(ctx, notify.Warning(MsgUsernameRequired))
		return domain.Session{}, ErrMissingCredentials
	}
	if password == "" {
		s.sink.Notify(ctx, notify.Warning(MsgPasswordRequired))
		return domain.Session{}, ErrMissingCredentials
	}

	sess, err := s.client.Login(ctx, username, password)
	if err != nil {
		s.logger.Warn("login failed", zap.String("username", username), zap.Error(err))
		if be, ok := client.AsBackendError(err); ok && be.StatusCode == http.StatusBadRequest {
			s.sink.Notify(ctx, withDuration(notify.Error(be.Message)))
		} else {
			s.sink.Notify(ctx, withDuration(notify.Error(MsgLoginFailed)))
		}
		return domain.Session{}, err
	}
	if sess.Username == "" {
		sess.Username = username
	}

	if err := session.Persist(ctx, s.store, sess); err != nil {
		return domain.Session{}, fmt.Errorf("persist session: %w", err)
	}

	s.logger.Info("logged in", zap.String("username", sess.Username))
	s.sink.Notify(ctx, withDuration(notify.Success(MsgLoggedIn)))
	return sess, nil
}

// Logout forgets everything in the session store.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.Info("logged out")
	s.sink.Notify(ctx, notify.Info(MsgLoggedOut))
	return nil
}

// Current returns the stored session or session.ErrNotLoggedIn.
func (s *Service) Current(ctx context.Context) (domain.Session, error) {
	return session.Require(ctx, s.store)
}

func withDuration(n notify.Notification) notify.Notification {
	n.Duration = notify.DefaultWarningDuration
	return n
}
