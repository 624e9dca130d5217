package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

type loginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponseDTO struct {
	Success  bool    `json:"success"`
	Token    string  `json:"token"`
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, username, password string) (domain.Session, error) {
	data, err := c.do(ctx, "login", http.MethodPost, "/auth/login", "", loginRequestDTO{
		Username: username,
		Password: password,
	})
	if err != nil {
		return domain.Session{}, err
	}

	var resp loginResponseDTO
	if err := json.Unmarshal(data, &resp); err != nil {
		return domain.Session{}, &TransportError{Op: "login", Err: fmt.Errorf("%w: %v", ErrInvalidResponse, err)}
	}
	if resp.Token == "" {
		return domain.Session{}, &TransportError{Op: "login", Err: fmt.Errorf("%w: missing token", ErrInvalidResponse)}
	}
	return domain.Session{Token: resp.Token, Username: resp.Username, Balance: resp.Balance}, nil
}
