package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/navikt/hm-oppgave-sink/internal/config"
	"github.com/navikt/hm-oppgave-sink/internal/metrics"
)

const purgeRequestsPerMinute = 10

// NewRouter mounts health and metrics, plus the purge endpoint outside
// production.
func NewRouter(cfg config.Config, h *Handler) http.Handler {
	router := chi.NewRouter()

	router.Get("/isalive", h.IsAlive)
	router.Get("/isready", h.IsReady)
	router.Handle("/metrics", metrics.Handler())

	if cfg.PurgeEnabled() {
		router.Route("/internal", func(r chi.Router) {
			r.Use(httprate.LimitByIP(purgeRequestsPerMinute, time.Minute))
			r.Use(AuthMiddleware(cfg, h.logger))
			r.Post("/rydd-opp-gosys-oppgaver", h.PurgeOldTasks)
		})
	}
	return router
}
