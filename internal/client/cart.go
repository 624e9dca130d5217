package client

import (
	"context"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

type checkoutRequestDTO struct {
	AddressID string `json:"addressId"`
}

type updateCartRequestDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"qty"`
}

// Cart fetches the user's raw cart.
func (c *Client) Cart(ctx context.Context, token string) ([]domain.RawCartEntry, error) {
	data, err := c.do(ctx, "fetch cart", http.MethodGet, "/cart", token, nil)
	if err != nil {
		return nil, err
	}
	return decodeList("fetch cart", data, validCartEntry)
}

// SetCartItem sets the quantity of a product in the cart; zero removes it.
func (c *Client) SetCartItem(ctx context.Context, token, productID string, qty int) ([]domain.RawCartEntry, error) {
	data, err := c.do(ctx, "update cart", http.MethodPut, "/cart", token, updateCartRequestDTO{
		ProductID: productID,
		Quantity:  qty,
	})
	if err != nil {
		return nil, err
	}
	return decodeList("update cart", data, validCartEntry)
}

// Checkout places the order for the cart, shipping to addressID.
func (c *Client) Checkout(ctx context.Context, token, addressID string) error {
	_, err := c.do(ctx, "checkout", http.MethodPost, "/cart/checkout", token, checkoutRequestDTO{AddressID: addressID})
	return err
}

func validCartEntry(e domain.RawCartEntry) bool {
	return e.ProductID != "" && e.Quantity > 0
}
