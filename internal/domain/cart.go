package domain

// RawCartEntry is a cart row as the backend stores it.
type RawCartEntry struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"qty"`
}

// LineItem is a cart entry enriched with the product it references.
type LineItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Cost      float64 `json:"cost"`
	Rating    int     `json:"rating"`
	Image     string  `json:"image"`
	Quantity  int     `json:"qty"`
}

// Total is the cost of the line: unit cost times quantity.
func (li LineItem) Total() float64 {
	return li.Cost * float64(li.Quantity)
}
