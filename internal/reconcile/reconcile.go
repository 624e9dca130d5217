// Package reconcile joins the backend's sparse cart with the product catalog.
package reconcile

import "github.com/fjod/go_cart/storefront/internal/domain"

// Reconcile builds line items for raw cart entries, in cart order.
// Entries whose product is missing from the catalog, or whose quantity is not
// positive, are skipped.
func Reconcile(raw []domain.RawCartEntry, catalog []domain.Product) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(raw))
	if len(raw) == 0 || len(catalog) == 0 {
		return items
	}

	byID := make(map[string]domain.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	for _, entry := range raw {
		if entry.ProductID == "" || entry.Quantity <= 0 {
			continue
		}
		product, ok := byID[entry.ProductID]
		if !ok {
			continue
		}
		items = append(items, domain.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Category:  product.Category,
			Cost:      product.Cost,
			Rating:    product.Rating,
			Image:     product.Image,
			Quantity:  entry.Quantity,
		})
	}
	return items
}

// Subtotal sums cost times quantity over items.
func Subtotal(items []domain.LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Total()
	}
	return total
}

// Quantity is the number of units across all items.
func Quantity(items []domain.LineItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}
