package backend

import "github.com/fjod/go_cart/storefront/internal/domain"

const (
	DemoUsername = "crio.do"
	DemoPassword = "learnbydoing"
	DemoBalance  = 5000
)

// DemoProducts is the catalog the demo backend starts with.
var DemoProducts = []domain.Product{
	{ID: "BW0jAAeDJmlZCF8i", Name: "UNIFACTOR Mens Running Shoes", Category: "Fashion", Cost: 50, Rating: 5, Image: "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/bd5f6f24-3f3b-4b0b-a6d6-3d0b5f2eab8f.png"},
	{ID: "KCRwjF7lN97HnEaY", Name: "YONEX Smash Badminton Racquet", Category: "Sports", Cost: 100, Rating: 5, Image: "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/64b930f7-3c82-4a29-a433-dbc6f1493578.png"},
	{ID: "PmInA797xJhMIPti", Name: "Tan Leatherette Weekender Duffle", Category: "Fashion", Cost: 150, Rating: 4, Image: "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/ff071a1c-1099-48f9-9b03-f858ccc53832.png"},
	{ID: "TwMQ7Y4RGhq8fnk6", Name: "Atomberg 1200mm BLDC Ceiling Fan", Category: "Home & Kitchen", Cost: 250, Rating: 4, Image: "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/b6f06a7a-7a3d-4d4d-9b58-dd9dc4fb6b97.png"},
	{ID: "a4sLtEcMpzabRyfx", Name: "Apple iPad Air", Category: "Electronics", Cost: 850, Rating: 5, Image: "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/5d3bb9d0-4db9-4a0a-a1a1-1e52d1b0c0f9.png"},
	{ID: "upLK9JbQ4rMhTwt4", Name: "Nike Shoes", Category: "Fashion", Cost: 70, Rating: 3, Image: "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/0a0e6e12-8c3a-4d63-9c7b-6e5d6d8a4c1e.png"},
}

// NewDemoStore returns a store holding DemoProducts and the demo user.
func NewDemoStore() (*MemoryStore, error) {
	s := NewMemoryStore(DemoProducts)
	if err := s.AddUser(DemoUsername, DemoPassword, DemoBalance); err != nil {
		return nil, err
	}
	return s, nil
}
