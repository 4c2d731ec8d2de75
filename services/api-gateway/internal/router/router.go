package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/blob-api/services/api-gateway/internal/handler"
	"github.com/vasapolrittideah/blob-api/services/api-gateway/internal/metrics"
	"github.com/vasapolrittideah/blob-api/services/api-gateway/internal/middleware"
)

// Deps are the collaborators of the gateway router.
type Deps struct {
	Auth           *handler.AuthHandler
	Metrics        metrics.Recorder
	Gatherer       prometheus.Gatherer
	Logger         *zerolog.Logger
	RequestTimeout time.Duration
}

// New builds the gateway routes.
//
// Middleware order: RequestID → Recovery → Logging → Timeout.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.NewRecoveryMiddleware(deps.Logger))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Metrics))
	if deps.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(deps.RequestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	r.Route("/rpc", func(r chi.Router) {
		r.Post("/auth.googleSignIn", deps.Auth.GoogleSignIn)
		r.Get("/auth.me", deps.Auth.Me)
	})

	return r
}
