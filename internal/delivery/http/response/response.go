package response

import "github.com/user/seo-scanner/internal/entity"

// MessageResponse carries validation and server error messages.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports reachability of each backing service.
type HealthResponse struct {
	Status     string            `json:"status"` // "ok" or "degraded"
	Components map[string]string `json:"components,omitempty"`
}

type SecurityCheckResponse struct {
	URL     string                `json:"url"`
	Headers entity.SecurityReport `json:"headers"`
}

// RobotsCheckResponse flattens the report next to the checked URL.
type RobotsCheckResponse struct {
	URL string `json:"url"`
	entity.RobotsReport
}
