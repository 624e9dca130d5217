// Package address keeps the user's shipping addresses and the one selected
// for the next order.
package address

import (
	"slices"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// Selector holds the address list mirrored from the backend and at most one
// selected id. The selected id, when set, always names an address in the list.
type Selector struct {
	mu         sync.RWMutex
	addresses  []domain.Address
	selectedID string
}

func NewSelector() *Selector {
	return &Selector{}
}

// Load replaces the list wholesale. The selection survives only if its id is
// still in the new list.
func (s *Selector) Load(addresses []domain.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(addresses)
}

// Select marks id as the shipping address. Unknown ids are ignored and
// Select reports false.
func (s *Selector) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.addresses, id) < 0 {
		return false
	}
	s.selectedID = id
	return true
}

// Add adopts the list the backend returned after adding an address.
func (s *Selector) Add(authoritative []domain.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(authoritative)
}

// Remove adopts the list the backend returned after deleting id. Removing the
// selected address clears the selection.
func (s *Selector) Remove(id string, authoritative []domain.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == s.selectedID {
		s.selectedID = ""
	}
	s.replace(authoritative)
}

// Selection returns a snapshot safe to hand to other goroutines.
func (s *Selector) Selection() domain.AddressSelection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.AddressSelection{
		Addresses:  slices.Clone(s.addresses),
		SelectedID: s.selectedID,
	}
}

// SelectedID returns the selected id or "".
func (s *Selector) SelectedID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedID
}

func (s *Selector) replace(addresses []domain.Address) {
	s.addresses = slices.Clone(addresses)
	if s.selectedID != "" && indexOf(s.addresses, s.selectedID) < 0 {
		s.selectedID = ""
	}
}

func indexOf(addresses []domain.Address, id string) int {
	return slices.IndexFunc(addresses, func(a domain.Address) bool {
		return a.ID == id
	})
}
