package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	analyticshandler "agora/internal/analytics/handler"
	petitionhandler "agora/internal/petition/handler"
	"agora/internal/platform/middleware"
)

// Deps carries everything the router mounts.
type Deps struct {
	Petitions     *petitionhandler.Handler
	Analytics     *analyticshandler.Handler
	JWTSigningKey []byte
	Logger        *slog.Logger
	Health        http.HandlerFunc
}

// NewRouter assembles the HTTP surface. Moderator endpoints sit behind the
// admin JWT middleware; everything else is public.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Group(func(r chi.Router) {
		d.Petitions.Register(r)
		d.Analytics.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(d.JWTSigningKey, d.Logger))
		d.Petitions.RegisterModeration(r)
	})

	r.Handle("/metrics", promhttp.Handler())
	if d.Health != nil {
		r.Get("/healthz", d.Health)
	}
	return r
}
