package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddressSelection_HasSelection(t *testing.T) {
	addrs := []Address{{ID: "a1", Text: "1 Main St"}, {ID: "a2", Text: "2 Main St"}}

	assert.False(t, AddressSelection{}.HasSelection())
	assert.False(t, AddressSelection{Addresses: addrs}.HasSelection())
	assert.False(t, AddressSelection{Addresses: addrs, SelectedID: "ghost"}.HasSelection())
	assert.False(t, AddressSelection{SelectedID: "a1"}.HasSelection())
	assert.True(t, AddressSelection{Addresses: addrs, SelectedID: "a2"}.HasSelection())
}
