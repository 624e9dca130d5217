// Package checkout validates and places orders.
package checkout

import "github.com/fjod/go_cart/storefront/internal/domain"

// Result is the outcome of pre-flight validation.
type Result string

const (
	Ok                  Result = "Ok"
	InsufficientBalance Result = "InsufficientBalance"
	NoAddresses         Result = "NoAddresses"
	NoAddressSelected   Result = "NoAddressSelected"
)

var resultMessages = map[Result]string{
	InsufficientBalance: "You do not have enough balance in your wallet for this purchase",
	NoAddresses:         "Please add a new address before proceeding.",
	NoAddressSelected:   "Please select one shipping address to proceed.",
}

// Message is the warning shown to the user, empty for Ok.
func (r Result) Message() string {
	return resultMessages[r]
}

func (r Result) String() string {
	return string(r)
}

// Validate checks, in order, that the balance covers the subtotal, that there
// is at least one address, and that one of them is selected. The first
// failing check wins.
func Validate(subtotal, balance float64, sel domain.AddressSelection) Result {
	if subtotal > balance {
		return InsufficientBalance
	}
	if len(sel.Addresses) == 0 {
		return NoAddresses
	}
	if !sel.HasSelection() {
		return NoAddressSelected
	}
	return Ok
}
