package domain

import "slices"

// Address is a shipping address owned by the backend.
type Address struct {
	ID   string `json:"_id"`
	Text string `json:"address"`
}

// AddressSelection is the list of known addresses plus the selected one.
// SelectedID is empty when nothing is selected.
type AddressSelection struct {
	Addresses  []Address
	SelectedID string
}

// HasSelection reports whether SelectedID names one of Addresses.
func (s AddressSelection) HasSelection() bool {
	if s.SelectedID == "" {
		return false
	}
	return slices.ContainsFunc(s.Addresses, func(a Address) bool {
		return a.ID == s.SelectedID
	})
}
