package client

import (
	"context"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// Products fetches the full catalog. Malformed products are dropped.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	data, err := c.do(ctx, "fetch products", http.MethodGet, "/products", "", nil)
	if err != nil {
		return nil, err
	}
	return decodeList("fetch products", data, validProduct)
}

func validProduct(p domain.Product) bool {
	return p.ID != "" && p.Cost >= 0 && p.Rating >= 0 && p.Rating <= domain.MaxRating
}
