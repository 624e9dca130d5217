// Package session persists the logged-in user's token, username and wallet
// balance between runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// Store is a small persisted key-value map.
type Store interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Clear removes every key.
	Clear(ctx context.Context) error
}

var (
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrInvalidBalance = errors.New("stored balance is not a number")
)

// Load reads the session from s. A missing token is not an error; use
// Session.LoggedIn or Require for that.
func Load(ctx context.Context, s Store) (domain.Session, error) {
	var sess domain.Session

	token, _, err := s.Get(ctx, domain.SessionKeyToken)
	if err != nil {
		return sess, fmt.Errorf("read token: %w", err)
	}
	username, _, err := s.Get(ctx, domain.SessionKeyUsername)
	if err != nil {
		return sess, fmt.Errorf("read username: %w", err)
	}
	balance, err := Balance(ctx, s)
	if err != nil {
		return sess, err
	}

	sess.Token = token
	sess.Username = username
	sess.Balance = balance
	return sess, nil
}

// Require is Load that fails with ErrNotLoggedIn when there is no token.
func Require(ctx context.Context, s Store) (domain.Session, error) {
	sess, err := Load(ctx, s)
	if err != nil {
		return sess, err
	}
	if !sess.LoggedIn() {
		return sess, ErrNotLoggedIn
	}
	return sess, nil
}

// Persist writes all session fields.
func Persist(ctx context.Context, s Store, sess domain.Session) error {
	if err := s.Set(ctx, domain.SessionKeyUsername, sess.Username); err != nil {
		return fmt.Errorf("write username: %w", err)
	}
	if err := s.Set(ctx, domain.SessionKeyToken, sess.Token); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return SetBalance(ctx, s, sess.Balance)
}

// Token returns the stored token or ErrNotLoggedIn.
func Token(ctx context.Context, s Store) (string, error) {
	token, ok, err := s.Get(ctx, domain.SessionKeyToken)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	if !ok || token == "" {
		return "", ErrNotLoggedIn
	}
	return token, nil
}

// Balance returns the stored wallet balance, 0 when absent.
func Balance(ctx context.Context, s Store) (float64, error) {
	raw, ok, err := s.Get(ctx, domain.SessionKeyBalance)
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	if !ok || raw == "" {
		return 0, nil
	}
	balance, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBalance, raw)
	}
	return balance, nil
}

func SetBalance(ctx context.Context, s Store, balance float64) error {
	if err := s.Set(ctx, domain.SessionKeyBalance, strconv.FormatFloat(balance, 'f', -1, 64)); err != nil {
		return fmt.Errorf("write balance: %w", err)
	}
	return nil
}
