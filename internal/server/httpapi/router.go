package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/linkshare/internal/server/auth"
)

// NewRouter mounts the API on a chi router. Metrics are registered on reg
// and exposed from it at /metrics.
func NewRouter(h *Handler, verify auth.VerifyFunc, reg *prometheus.Registry) http.Handler {
	m := newHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)
	r.Use(RequestLogger(h.logger))

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Get("/download/{link}", h.Download)

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(verify))

		r.Post("/upload", h.Upload)
		r.Get("/files", h.ListFiles)
		r.Get("/files/{id}", h.GetFile)
		r.Put("/files/{id}/permission", h.UpdatePermission)
		r.Delete("/files/{id}", h.DeleteFile)
	})

	return r
}
