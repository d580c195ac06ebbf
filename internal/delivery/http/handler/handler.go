package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/seo-scanner/internal/delivery/http/request"
	"github.com/user/seo-scanner/internal/delivery/http/response"
	"github.com/user/seo-scanner/internal/repository"
	"github.com/user/seo-scanner/internal/usecase"
)

const maxBodyBytes = 1 << 20

// Pinger is a backing service whose reachability is reported by the health
// endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	scanner usecase.Scanner
	domains usecase.DomainReader
	toolkit usecase.Toolkit
	health  map[string]Pinger
	logger  *zap.Logger
}

func NewHandler(
	scanner usecase.Scanner,
	domains usecase.DomainReader,
	toolkit usecase.Toolkit,
	health map[string]Pinger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		scanner: scanner,
		domains: domains,
		toolkit: toolkit,
		health:  health,
		logger:  logger,
	}
}

// HandleScan runs the requested tools and returns the merged domain report.
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	var req request.ScanRequest
	if !h.decode(w, r, &req) {
		return
	}

	report, err := h.scanner.Scan(r.Context(), usecase.ScanInput{URL: req.URL, Tools: req.Tools})
	if err != nil {
		h.writeUseCaseError(w, err, "Internal server error during scan")
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) HandleRecentDomains(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeJSONError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	reports, err := h.domains.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list recent domains", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, reports)
}

func (h *Handler) HandleGetDomain(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")

	report, err := h.domains.Get(r.Context(), domain)
	if err != nil {
		if errors.Is(err, repository.ErrDomainNotFound) {
			h.writeJSONError(w, "Domain report not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get domain report", zap.String("domain", domain), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) HandleRedirectCheck(w http.ResponseWriter, r *http.Request) {
	var req request.RedirectCheckRequest
	if !h.decode(w, r, &req) {
		return
	}

	traces, err := h.toolkit.CheckRedirects(r.Context(), req.URLs)
	if err != nil {
		h.writeUseCaseError(w, err, "Failed to check redirects")
		return
	}
	h.writeJSON(w, http.StatusOK, traces)
}

func (h *Handler) HandleSecurityCheck(w http.ResponseWriter, r *http.Request) {
	var req request.URLRequest
	if !h.decode(w, r, &req) {
		return
	}

	target, report, err := h.toolkit.CheckSecurity(r.Context(), req.URL)
	if err != nil {
		h.writeUseCaseError(w, err, "Failed to check security headers")
		return
	}
	h.writeJSON(w, http.StatusOK, response.SecurityCheckResponse{URL: target, Headers: report})
}

func (h *Handler) HandleRobotsCheck(w http.ResponseWriter, r *http.Request) {
	var req request.URLRequest
	if !h.decode(w, r, &req) {
		return
	}

	target, report, err := h.toolkit.CheckRobots(r.Context(), req.URL)
	if err != nil {
		h.writeUseCaseError(w, err, "Failed to check robots.txt")
		return
	}
	h.writeJSON(w, http.StatusOK, response.RobotsCheckResponse{URL: target, RobotsReport: report})
}

func (h *Handler) HandleLinkCheck(w http.ResponseWriter, r *http.Request) {
	var req request.URLRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.toolkit.CheckLink(r.Context(), req.URL)
	if err != nil {
		h.writeUseCaseError(w, err, "Failed to check link")
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleWebsiteLinkCheck(w http.ResponseWriter, r *http.Request) {
	var req request.URLRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.toolkit.ScanWebsiteLinks(r.Context(), req.URL)
	if err != nil {
		h.writeUseCaseError(w, err, "Failed to check website links")
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleWhoisCheck(w http.ResponseWriter, r *http.Request) {
	var req request.WhoisRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.toolkit.LookupWhois(r.Context(), req.Domain)
	if err != nil {
		h.writeUseCaseError(w, err, "Failed to look up domain")
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HandleHealthCheck pings every registered backing service. Any failure
// turns the response into 503.
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := response.HealthResponse{Status: "ok", Components: make(map[string]string, len(h.health))}
	for name, p := range h.health {
		if err := p.Ping(ctx); err != nil {
			h.logger.Error("health check failed", zap.String("component", name), zap.Error(err))
			resp.Components[name] = "unhealthy"
			resp.Status = "degraded"
			continue
		}
		resp.Components[name] = "healthy"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, resp)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeUseCaseError maps validation failures to 400 and hides everything
// else behind fallback.
func (h *Handler) writeUseCaseError(w http.ResponseWriter, err error, fallback string) {
	var ve *usecase.ValidationError
	if errors.As(err, &ve) {
		h.writeJSONError(w, ve.Message, http.StatusBadRequest)
		return
	}
	h.logger.Error(fallback, zap.Error(err))
	h.writeJSONError(w, fallback, http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.MessageResponse{Message: message})
}
