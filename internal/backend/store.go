// Package backend is a small in-memory implementation of the storefront REST
// API, used for local runs and tests.
package backend

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinAddressLength = 20
	MaxQuantity      = 99
)

var (
	ErrUserNotFound        = errors.New("username does not exist")
	ErrWrongPassword       = errors.New("password is incorrect")
	ErrProductNotFound     = errors.New("product does not exist")
	ErrInvalidQuantity     = errors.New("quantity out of range")
	ErrAddressTooShort     = errors.New("address too short")
	ErrAddressNotFound     = errors.New("address not found")
	ErrCartEmpty           = errors.New("cart is empty")
	ErrInsufficientBalance = errors.New("wallet balance not sufficient")
	ErrBadRequest          = errors.New("bad request")
)

// publicMessages are the texts clients show verbatim.
var publicMessages = map[error]string{
	ErrUserNotFound:        "Username does not exist",
	ErrWrongPassword:       "Password is incorrect",
	ErrProductNotFound:     "Product doesn't exist",
	ErrInvalidQuantity:     "Quantity must be between 0 and 99",
	ErrAddressTooShort:     "Address should be greater than 20 characters",
	ErrAddressNotFound:     "Address to delete was not found",
	ErrCartEmpty:           "Cart is empty",
	ErrInsufficientBalance: "Wallet balance not sufficient to place order",
	ErrBadRequest:          "Bad request",
}

type user struct {
	username     string
	passwordHash []byte
	balance      float64
	cart         []domain.RawCartEntry
	addresses    []domain.Address
}

// MemoryStore holds users and the catalog.
type MemoryStore struct {
	mu       sync.RWMutex
	products []domain.Product
	users    map[string]*user
}

func NewMemoryStore(products []domain.Product) *MemoryStore {
	return &MemoryStore{
		products: slices.Clone(products),
		users:    make(map[string]*user),
	}
}

// AddUser registers a user with a bcrypt-hashed password.
func (s *MemoryStore) AddUser(username, password string, balance float64) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = &user{
		username:     username,
		passwordHash: hash,
		balance:      balance,
		cart:         []domain.RawCartEntry{},
		addresses:    []domain.Address{},
	}
	return nil
}

// Authenticate checks the password and returns the user's balance.
func (s *MemoryStore) Authenticate(username, password string) (float64, error) {
	s.mu.RLock()
	u, ok := s.users[username]
	s.mu.RUnlock()
	if !ok {
		return 0, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return 0, ErrWrongPassword
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return u.balance, nil
}

func (s *MemoryStore) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products)
}

func (s *MemoryStore) Balance(username string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return 0, ErrUserNotFound
	}
	return u.balance, nil
}

func (s *MemoryStore) Cart(username string) ([]domain.RawCartEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return slices.Clone(u.cart), nil
}

// SetCartItem sets the quantity of a product in the cart; zero removes it.
func (s *MemoryStore) SetCartItem(username, productID string, qty int) ([]domain.RawCartEntry, error) {
	if qty < 0 || qty > MaxQuantity {
		return nil, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	if !slices.ContainsFunc(s.products, func(p domain.Product) bool { return p.ID == productID }) {
		return nil, ErrProductNotFound
	}

	idx := slices.IndexFunc(u.cart, func(e domain.RawCartEntry) bool { return e.ProductID == productID })
	switch {
	case qty == 0 && idx >= 0:
		u.cart = slices.Delete(u.cart, idx, idx+1)
	case qty > 0 && idx >= 0:
		u.cart[idx].Quantity = qty
	case qty > 0:
		u.cart = append(u.cart, domain.RawCartEntry{ProductID: productID, Quantity: qty})
	}
	return slices.Clone(u.cart), nil
}

func (s *MemoryStore) Addresses(username string) ([]domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return slices.Clone(u.addresses), nil
}

func (s *MemoryStore) AddAddress(username, text string) ([]domain.Address, error) {
	text = strings.TrimSpace(text)
	if len(text) < MinAddressLength {
		return nil, ErrAddressTooShort
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	u.addresses = append(u.addresses, domain.Address{ID: uuid.NewString(), Text: text})
	return slices.Clone(u.addresses), nil
}

func (s *MemoryStore) DeleteAddress(username, id string) ([]domain.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}

	idx := slices.IndexFunc(u.addresses, func(a domain.Address) bool { return a.ID == id })
	if idx < 0 {
		return nil, ErrAddressNotFound
	}
	u.addresses = slices.Delete(u.addresses, idx, idx+1)
	return slices.Clone(u.addresses), nil
}

// Checkout charges the cart to the wallet and empties the cart.
func (s *MemoryStore) Checkout(username, addressID string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return 0, ErrUserNotFound
	}
	if len(u.cart) == 0 {
		return 0, ErrCartEmpty
	}

	var total float64
	for _, e := range u.cart {
		idx := slices.IndexFunc(s.products, func(p domain.Product) bool { return p.ID == e.ProductID })
		if idx < 0 {
			continue
		}
		total += s.products[idx].Cost * float64(e.Quantity)
	}
	if total > u.balance {
		return 0, ErrInsufficientBalance
	}
	if addressID == "" || !slices.ContainsFunc(u.addresses, func(a domain.Address) bool { return a.ID == addressID }) {
		return 0, ErrBadRequest
	}

	u.balance -= total
	u.cart = []domain.RawCartEntry{}
	return u.balance, nil
}
