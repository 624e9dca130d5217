package backend

import (
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type Config struct {
	JWTSecret      string
	TokenTTL       time.Duration
	RateLimit      int
	RequestTimeout time.Duration
	MaxBodySize    int64
}

func (c Config) withDefaults() Config {
	if c.TokenTTL == 0 {
		c.TokenTTL = 24 * time.Hour
	}
	if c.RateLimit <= 0 {
		c.RateLimit = 20
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.MaxBodySize == 0 {
		c.MaxBodySize = 1 << 20
	}
	return c
}

// NewRouter builds the HTTP API over store. Metrics are registered with reg
// and served on /metrics.
func NewRouter(cfg Config, store *MemoryStore, reg *prometheus.Registry, logger *zap.Logger) http.Handler {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	tokens := NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	handler := NewHandler(store, tokens, logger)
	limiter := NewRateLimiter(cfg.RateLimit, cfg.RateLimit*2, logger)
	serverMetrics := metrics.NewServerMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger, serverMetrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestSize(cfg.MaxBodySize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler(reg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limiter.Handler)

		r.Post("/auth/login", handler.Login)
		r.Get("/products", handler.GetProducts)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(tokens))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", handler.GetCart)
				r.Put("/", handler.SetCartItem)
				r.Post("/checkout", handler.Checkout)
			})
			r.Route("/user/addresses", func(r chi.Router) {
				r.Get("/", handler.GetAddresses)
				r.Post("/", handler.AddAddress)
				r.Delete("/{id}", handler.DeleteAddress)
			})
		})
	})

	return otelhttp.NewHandler(r, "storefront-backend")
}
