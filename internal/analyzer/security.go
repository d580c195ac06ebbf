package analyzer

import (
	"context"
	"net/http"

	"github.com/user/seo-scanner/internal/entity"
)

type headerCheck struct {
	key  string
	name string
}

var securityChecklist = []headerCheck{
	{key: "Strict-Transport-Security", name: "HSTS"},
	{key: "Content-Security-Policy", name: "CSP"},
	{key: "X-Frame-Options", name: "X-Frame-Options"},
	{key: "X-Content-Type-Options", name: "X-Content-Type-Options"},
	{key: "Referrer-Policy", name: "Referrer-Policy"},
	{key: "Permissions-Policy", name: "Permissions-Policy"},
}

// SecurityAuditor checks a fixed list of response security headers.
type SecurityAuditor struct {
	prober *Prober
}

func NewSecurityAuditor(prober *Prober) *SecurityAuditor {
	return &SecurityAuditor{prober: prober}
}

// Audit returns one finding per checklist header, or a single error finding
// if the target could not be reached.
func (a *SecurityAuditor) Audit(ctx context.Context, target string) entity.SecurityReport {
	res := a.prober.Probe(ctx, http.MethodHead, target, ProbeOptions{FollowRedirects: true})
	if res.Err != nil {
		return entity.SecurityReport{{
			Header:      "Error",
			Status:      entity.FindingError,
			Description: res.Err.Error(),
		}}
	}

	report := make(entity.SecurityReport, 0, len(securityChecklist))
	for _, check := range securityChecklist {
		finding := entity.SecurityHeaderFinding{Header: check.name, Status: entity.FindingMissing}
		if value := res.Header.Get(check.key); value != "" {
			v := value
			finding.Value = &v
			finding.Status = entity.FindingPresent
		}
		report = append(report, finding)
	}
	return report
}
