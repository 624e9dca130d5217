package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

type addAddressRequestDTO struct {
	Address string `json:"address"`
}

func (c *Client) Addresses(ctx context.Context, token string) ([]domain.Address, error) {
	data, err := c.do(ctx, "fetch addresses", http.MethodGet, "/user/addresses", token, nil)
	if err != nil {
		return nil, err
	}
	return decodeList("fetch addresses", data, validAddress)
}

// AddAddress adds an address and returns the full list after the add.
func (c *Client) AddAddress(ctx context.Context, token, text string) ([]domain.Address, error) {
	data, err := c.do(ctx, "add address", http.MethodPost, "/user/addresses", token, addAddressRequestDTO{Address: text})
	if err != nil {
		return nil, err
	}
	return decodeList("add address", data, validAddress)
}

// DeleteAddress deletes an address and returns the full list after the delete.
func (c *Client) DeleteAddress(ctx context.Context, token, id string) ([]domain.Address, error) {
	data, err := c.do(ctx, "delete address", http.MethodDelete, "/user/addresses/"+url.PathEscape(id), token, nil)
	if err != nil {
		return nil, err
	}
	return decodeList("delete address", data, validAddress)
}

func validAddress(a domain.Address) bool {
	return a.ID != ""
}
