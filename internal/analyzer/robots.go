package analyzer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/user/seo-scanner/internal/entity"
)

// RobotsValidator fetches /robots.txt from the target's origin.
type RobotsValidator struct {
	prober *Prober
}

func NewRobotsValidator(prober *Prober) *RobotsValidator {
	return &RobotsValidator{prober: prober}
}

func (v *RobotsValidator) Validate(ctx context.Context, baseURL string) entity.RobotsReport {
	robotsURL, err := resolveLocation(baseURL, "/robots.txt")
	if err != nil {
		return entity.RobotsReport{Issues: []string{err.Error()}}
	}

	res := v.prober.Probe(ctx, http.MethodGet, robotsURL, ProbeOptions{FollowRedirects: true, ReadBody: true})
	if res.Err != nil {
		return entity.RobotsReport{Issues: []string{res.Err.Error()}}
	}

	status := res.Status
	report := entity.RobotsReport{Status: &status, Issues: []string{}}
	if status != http.StatusOK {
		report.Issues = append(report.Issues, fmt.Sprintf("Returned status %d", status))
		return report
	}
	body := res.Body
	report.Content = &body
	report.IsValid = true
	return report
}
