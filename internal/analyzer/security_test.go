package analyzer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/user/seo-scanner/internal/entity"
)

func TestAuditAllHeadersPresent(t *testing.T) {
	values := map[string]string{
		"Strict-Transport-Security": "max-age=63072000",
		"Content-Security-Policy":   "default-src 'self'",
		"X-Frame-Options":           "DENY",
		"X-Content-Type-Options":    "nosniff",
		"Referrer-Policy":           "no-referrer",
		"Permissions-Policy":        "geolocation=()",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD request, got %s", r.Method)
		}
		for k, v := range values {
			w.Header().Set(k, v)
		}
	}))
	defer srv.Close()

	report := NewSecurityAuditor(newTestProber()).Audit(context.Background(), srv.URL)
	if len(report) != 6 {
		t.Fatalf("expected 6 findings, got %d", len(report))
	}
	for i, finding := range report {
		if finding.Status != entity.FindingPresent {
			t.Fatalf("finding %s: expected present, got %s", finding.Header, finding.Status)
		}
		want := values[securityChecklist[i].key]
		if finding.Value == nil || *finding.Value != want {
			t.Fatalf("finding %s: expected value %q, got %v", finding.Header, want, finding.Value)
		}
	}
	if report[0].Header != "HSTS" || report[1].Header != "CSP" {
		t.Fatalf("unexpected header names %q %q", report[0].Header, report[1].Header)
	}
}

func TestAuditNoHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	report := NewSecurityAuditor(newTestProber()).Audit(context.Background(), srv.URL)
	if len(report) != 6 {
		t.Fatalf("expected 6 findings, got %d", len(report))
	}
	for _, finding := range report {
		if finding.Status != entity.FindingMissing || finding.Value != nil {
			t.Fatalf("expected missing finding with nil value, got %+v", finding)
		}
	}
	if report.Failed() {
		t.Fatalf("missing headers are not a failure")
	}
}

func TestAuditUnreachableTarget(t *testing.T) {
	report := NewSecurityAuditor(newTestProber()).Audit(context.Background(), deadURL(t))
	if len(report) != 1 || !report.Failed() {
		t.Fatalf("expected single error finding, got %+v", report)
	}
	if report[0].Header != "Error" || report[0].Description == "" {
		t.Fatalf("unexpected error finding %+v", report[0])
	}
}
