// Package shop assembles the storefront managers behind one HTTP router.
package shop

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"DemoShop/internal/auth"
	"DemoShop/internal/cart"
	"DemoShop/internal/catalog"
	"DemoShop/internal/model"
	"DemoShop/internal/order"
	"DemoShop/internal/storage"
	"DemoShop/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

type Deps struct {
	Catalog *catalog.Catalog
	Records *storage.Records
	Cart    *cart.Manager
	Orders  *order.Manager
	Auth    *auth.Manager
	JWT     *auth.TokenMaker

	LoginLimiter  *kit.RateLimiter
	SignupLimiter *kit.RateLimiter
}

const readyTimeout = 2 * time.Second

func NewHandler(deps Deps, httpDeps HTTPDeps) http.Handler {
	r := chi.NewRouter()
	setupMiddleware(r, httpDeps)
	metrics := setupMetrics(r, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps.Records, httpDeps.Log))

	(&catalog.Server{Catalog: deps.Catalog}).Register(r)
	(&cart.Server{Cart: deps.Cart, Log: httpDeps.Log, Metrics: metrics}).Register(r)

	orders := &order.Server{Orders: deps.Orders, Catalog: deps.Catalog, Log: httpDeps.Log, Metrics: metrics}
	orders.Register(r)

	(&auth.Server{
		Auth:          deps.Auth,
		JWT:           deps.JWT,
		Log:           httpDeps.Log,
		Metrics:       metrics,
		LoginLimiter:  deps.LoginLimiter,
		SignupLimiter: deps.SignupLimiter,
	}).Register(r)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireToken(deps.JWT, model.RoleRetailer))
		pr.Get("/retail/orders", orders.List)
	})

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) *kit.Metrics {
	if deps.Registry == nil {
		return nil
	}

	metrics := kit.NewMetrics(deps.Registry, deps.Service)
	r.Use(metrics.Middleware(kit.ChiRoutePatternOrPath))

	if deps.MetricsEnabled {
		r.With(kit.MetricsAuth(deps.MetricsToken)).
			Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}
	return metrics
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(records *storage.Records, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := records.Ping(ctx); err != nil {
			if log != nil {
				log.Warn("readyz failed: storage", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "storage not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
