package backend

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	store  *MemoryStore
	tokens *TokenIssuer
	logger *zap.Logger
}

func NewHandler(store *MemoryStore, tokens *TokenIssuer, logger *zap.Logger) *Handler {
	return &Handler{store: store, tokens: tokens, logger: logger}
}

type LoginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponseDTO struct {
	Success  bool    `json:"success"`
	Token    string  `json:"token"`
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

type SetCartItemRequestDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"qty"`
}

type AddAddressRequestDTO struct {
	Address string `json:"address"`
}

type CheckoutRequestDTO struct {
	AddressID string `json:"addressId"`
}

type CheckoutResponseDTO struct {
	Success bool    `json:"success"`
	Balance float64 `json:"balance"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	balance, err := h.store.Authenticate(req.Username, req.Password)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	token, err := h.tokens.Issue(req.Username)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, LoginResponseDTO{
		Success:  true,
		Token:    token,
		Username: req.Username,
		Balance:  balance,
	})
}

func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Products())
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.store.Cart(usernameFromContext(r.Context()))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *Handler) SetCartItem(w http.ResponseWriter, r *http.Request) {
	var req SetCartItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	cart, err := h.store.SetCartItem(usernameFromContext(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	username := usernameFromContext(r.Context())
	balance, err := h.store.Checkout(username, req.AddressID)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.logger.Info("order placed", zap.String("username", username), zap.Float64("balance", balance))
	respondJSON(w, http.StatusOK, CheckoutResponseDTO{Success: true, Balance: balance})
}

func (h *Handler) GetAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.store.Addresses(usernameFromContext(r.Context()))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, addresses)
}

func (h *Handler) AddAddress(w http.ResponseWriter, r *http.Request) {
	var req AddAddressRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	addresses, err := h.store.AddAddress(usernameFromContext(r.Context()), req.Address)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, addresses)
}

func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.store.DeleteAddress(usernameFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, addresses)
}

func (h *Handler) respondStoreError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, ErrAddressNotFound) || errors.Is(err, ErrProductNotFound) {
		status = http.StatusNotFound
	}

	msg, ok := publicMessages[err]
	if !ok {
		h.logger.Error("unexpected store error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondError(w, status, msg)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{
		Success: false,
		Message: message,
	})
}
