package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fjod/go_cart/storefront/internal/address"
	"github.com/fjod/go_cart/storefront/internal/auth"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/client"
	"github.com/fjod/go_cart/storefront/internal/config"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/fjod/go_cart/storefront/internal/notify"
	"github.com/fjod/go_cart/storefront/internal/orders"
	"github.com/fjod/go_cart/storefront/internal/reconcile"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/storefront"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// app holds everything a command needs. Fields are built once per process.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	api     *client.Client
	store   session.Store
	sink    notify.Multi
	notes   *notify.Recorder
	catalog *catalog.Service
	orders  *orders.Repository
	metrics *metrics.CheckoutMetrics
	closers []func() error
}

func newApp(cfg *config.Config) (*app, error) {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		notes:   &notify.Recorder{},
		metrics: metrics.NewCheckoutMetrics(prometheus.NewRegistry()),
	}
	a.api = client.New(client.Config{
		BaseURL:         cfg.APIURL,
		Timeout:         cfg.RequestTimeout,
		Logger:          logger,
		BreakerFailures: cfg.BreakerFailures,
	})

	var rdb *redis.Client
	if cfg.SessionBackend == config.SessionBackendRedis || cfg.CatalogCache {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		a.closers = append(a.closers, rdb.Close)
	}

	switch cfg.SessionBackend {
	case config.SessionBackendBolt:
		bs, err := session.OpenBoltStore(cfg.SessionPath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open session store: %w", err)
		}
		a.store = bs
		a.closers = append(a.closers, bs.Close)
	case config.SessionBackendRedis:
		a.store = session.NewRedisStore(rdb, cfg.SessionProfile)
	default:
		a.store = session.NewMemoryStore()
	}

	var cache catalog.Cache
	if cfg.CatalogCache {
		cache = catalog.NewRedisCache(rdb)
	}
	a.catalog = catalog.NewService(a.api, cache, logger)

	a.sink = notify.Multi{notify.NewWriterSink(os.Stderr, isTerminal(os.Stderr)), notify.NewLogSink(logger), a.notes}
	if len(cfg.KafkaBrokers) > 0 {
		ks := notify.NewKafkaSink(cfg.NotifyTopic, a.currentUsername, logger, cfg.KafkaBrokers...)
		a.sink = append(a.sink, ks)
		a.closers = append(a.closers, ks.Close)
	}
	return a, nil
}

// currentUsername reads the logged-in user from the session store; empty when
// logged out or when the store cannot be read.
func (a *app) currentUsername(ctx context.Context) string {
	sess, err := session.Load(ctx, a.store)
	if err != nil {
		a.logger.Warn("failed to read session for notification", zap.Error(err))
		return ""
	}
	return sess.Username
}

// orderHistory opens the sqlite history on first use.
func (a *app) orderHistory() (*orders.Repository, error) {
	if a.orders != nil {
		return a.orders, nil
	}
	repo, err := orders.NewRepository(a.cfg.OrdersDB)
	if err != nil {
		return nil, fmt.Errorf("open order history: %w", err)
	}
	a.orders = repo
	a.closers = append(a.closers, repo.Close)
	return repo, nil
}

func (a *app) auth() *auth.Service {
	return auth.NewService(a.api, a.store, a.sink, a.logger)
}

func (a *app) book() *address.Book {
	return address.NewBook(a.api, a.store, a.sink, a.logger)
}

func (a *app) page(nav checkout.Navigator) (*storefront.Page, error) {
	history, err := a.orderHistory()
	if err != nil {
		return nil, err
	}

	loader := reconcile.NewLoader(a.catalog, a.api, a.logger)
	orch := checkout.NewOrchestrator(a.api, a.store, a.sink,
		checkout.WithNavigator(nav),
		checkout.WithOrderRecorder(history),
		checkout.WithMetrics(a.metrics),
		checkout.WithLogger(a.logger))
	return storefront.NewPage(loader, a.book(), orch, a.store, a.sink, a.logger), nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	// notifications go to the terminal; keep the log for problems
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// printNavigation reports where a browser storefront would go next.
var printNavigation = checkout.NavigatorFunc(func(nav domain.Navigation) {
	fmt.Printf("-> %s (from %s)\n", nav.To, nav.From)
})
