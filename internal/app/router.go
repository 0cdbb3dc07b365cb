// Package app wires the HTTP surface of the service.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crisp-ai/interview-assistant/internal/adapter/httpserver"
	"github.com/crisp-ai/interview-assistant/internal/adapter/observability"
	"github.com/crisp-ai/interview-assistant/internal/config"
)

// BuildRouter assembles the middleware chain and routes.
//
// The request deadline is the model timeout plus headroom so a slow upstream
// still leaves the handler time to answer 200 from the fallback path instead
// of the client seeing a cut connection.
func BuildRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	r := chi.NewRouter()

	r.Use(httpserver.RequestID())
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)
	r.Use(httpserver.TimeoutMiddleware(cfg.AITimeout + 5*time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", srv.HealthzHandler())
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Group(func(gr chi.Router) {
		if cfg.RateLimitPerMin > 0 {
			gr.Use(httprate.LimitByIP(cfg.RateLimitPerMin, time.Minute))
		}
		gr.Post("/v1/ai", srv.AIHandler())
	})

	return httpserver.SecurityHeaders(r)
}

// ParseOrigins splits a comma-separated origin list, trimming whitespace and
// dropping empties. An empty input allows any origin.
func ParseOrigins(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
