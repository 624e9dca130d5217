package address

import (
	"context"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

type MockClient struct {
	List      []domain.Address
	Err       error
	GotToken  string
	GotText   string
	GotID     string
	CallCount int
}

func (m *MockClient) Addresses(_ context.Context, token string) ([]domain.Address, error) {
	m.CallCount++
	m.GotToken = token
	if m.Err != nil {
		return nil, m.Err
	}
	return m.List, nil
}

func (m *MockClient) AddAddress(_ context.Context, token, text string) ([]domain.Address, error) {
	m.CallCount++
	m.GotToken = token
	m.GotText = text
	if m.Err != nil {
		return nil, m.Err
	}
	return m.List, nil
}

func (m *MockClient) DeleteAddress(_ context.Context, token, id string) ([]domain.Address, error) {
	m.CallCount++
	m.GotToken = token
	m.GotID = id
	if m.Err != nil {
		return nil, m.Err
	}
	return m.List, nil
}
