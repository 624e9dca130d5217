package domain

// Product is a catalog entry as served by GET /products.
type Product struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Cost     float64 `json:"cost"`
	Rating   int     `json:"rating"`
	Image    string  `json:"image"`
}

// MaxRating is the upper bound of Product.Rating.
const MaxRating = 5
