package domain

import "time"

// CheckoutRequest is built for a single checkout attempt and never persisted.
type CheckoutRequest struct {
	SelectedAddressID string
	LineItems         []LineItem
	Subtotal          float64
}

// OrderConfirmation describes an order the backend acknowledged.
type OrderConfirmation struct {
	OrderID    string     `json:"order_id"`
	Username   string     `json:"username"`
	AddressID  string     `json:"address_id"`
	Items      []LineItem `json:"items"`
	Subtotal   float64    `json:"subtotal"`
	NewBalance float64    `json:"new_balance"`
	PlacedAt   time.Time  `json:"placed_at"`
}

// Navigation is the signal emitted after a successful checkout.
type Navigation struct {
	To   string
	From string
}

const (
	RouteThanks    = "/thanks"
	OriginCheckout = "Checkout"
)
