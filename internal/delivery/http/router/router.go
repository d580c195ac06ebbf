package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/seo-scanner/internal/delivery/http/handler"
	"github.com/user/seo-scanner/internal/delivery/http/middleware"
)

// Options tunes the API surface.
type Options struct {
	RateLimitRPS   float64
	RateLimitBurst int
}

func New(h *handler.Handler, logger *zap.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealthCheck)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst, logger))

			r.Post("/scan", h.HandleScan)
			r.Get("/domains", h.HandleRecentDomains)
			r.Get("/domains/{domain}", h.HandleGetDomain)

			r.Post("/redirect-check", h.HandleRedirectCheck)
			r.Post("/security-check", h.HandleSecurityCheck)
			r.Post("/robots-check", h.HandleRobotsCheck)
			r.Post("/link-check", h.HandleLinkCheck)
			r.Post("/website-link-check", h.HandleWebsiteLinkCheck)
			r.Post("/whois-check", h.HandleWhoisCheck)
		})
	})

	return r
}
