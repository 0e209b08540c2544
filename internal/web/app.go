package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ubermelon/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

const (
	loginLimitPerMin = 5
	limitWindow      = 60 * time.Second
)

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.handleReady)

	loginLimiter := kit.NewIPRateLimiter(loginLimitPerMin, limitWindow)

	r.Group(func(sr chi.Router) {
		sr.Use(s.WithSession)

		sr.Get("/", s.handleHome)
		sr.Get("/melons", s.handleListMelons)
		sr.Get("/melons/{id}", s.handleShowMelon)
		sr.Post("/add_to_cart/{id}", s.handleAddToCart)
		sr.Get("/cart", s.handleShowCart)
		sr.Get("/login", s.handleLoginForm)
		sr.With(loginLimiter.Middleware).Post("/login", s.handleLogin)
		sr.Post("/logout", s.handleLogout)
		sr.Get("/checkout", s.handleCheckout)
	})

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Catalog.Ping(ctx); err != nil {
		s.Log.Warn("readyz failed: catalog", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog not ready")
		return
	}
	if err := s.Customers.Ping(ctx); err != nil {
		s.Log.Warn("readyz failed: customers", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "customers not ready")
		return
	}

	w.WriteHeader(http.StatusOK)
}
