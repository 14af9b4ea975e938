package shop

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"DemoShop/internal/auth"
	"DemoShop/internal/cart"
	"DemoShop/internal/catalog"
	"DemoShop/internal/config"
	"DemoShop/internal/events"
	"DemoShop/internal/order"
	"DemoShop/internal/storage"
	"DemoShop/pkg/kit"
)

// App is a fully wired storefront. Close releases the store and the
// event publisher.
type App struct {
	Handler http.Handler
	Records *storage.Records

	store     storage.Store
	publisher events.Publisher
}

// Build opens the configured store, seeds first-run records and returns
// the HTTP handler for the whole storefront.
func Build(ctx context.Context, cfg config.Config, log *zap.Logger, reg *prometheus.Registry) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	store, err := storage.Open(ctx, storage.Options{
		Driver:      cfg.StorageDriver,
		RedisURL:    cfg.RedisURL,
		PostgresURL: cfg.PostgresURL,
		Namespace:   cfg.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	pub, err := newPublisher(cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	app := &App{store: store, publisher: pub}
	deps, err := app.wire(ctx, cfg, log)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Handler = NewHandler(deps, HTTPDeps{
		Log:            log,
		Service:        cfg.Service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})
	return app, nil
}

func (a *App) wire(ctx context.Context, cfg config.Config, log *zap.Logger) (Deps, error) {
	cat := catalog.Default()

	records := storage.NewRecords(a.store, log.Named("records"))
	records.KnownProduct = cat.Has
	a.Records = records

	passwords, err := auth.NewPasswords(cfg.PasswordHashing, cfg.BcryptCost)
	if err != nil {
		return Deps{}, err
	}
	authMgr := auth.NewManager(records, passwords, log.Named("auth"))

	if err := records.EnsureDefaults(ctx); err != nil {
		return Deps{}, fmt.Errorf("seed records: %w", err)
	}
	if err := authMgr.EnsureDemoUser(ctx); err != nil {
		return Deps{}, fmt.Errorf("seed demo user: %w", err)
	}

	return Deps{
		Catalog:       cat,
		Records:       records,
		Cart:          cart.NewManager(records, cat, log.Named("cart")),
		Orders:        order.NewManager(records, cat, a.publisher, log.Named("order")),
		Auth:          authMgr,
		JWT:           auth.NewTokenMaker(cfg.JWTSecret, cfg.TokenTTL),
		LoginLimiter:  kit.NewIPRateLimiter(cfg.LoginRateLimit, cfg.RateWindow),
		SignupLimiter: kit.NewIPRateLimiter(cfg.SignupRateLimit, cfg.RateWindow),
	}, nil
}

func newPublisher(cfg config.Config) (events.Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NopPublisher{}, nil
	}
	p, err := events.NewKafkaPublisher(cfg.KafkaBrokers, map[string]string{
		events.TypeOrderPlaced: cfg.KafkaTopic,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka publisher: %w", err)
	}
	return p, nil
}

func (a *App) Close() error {
	return errors.Join(a.publisher.Close(), a.store.Close())
}
