package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/user/seo-scanner/internal/adapter/memory"
	"github.com/user/seo-scanner/internal/entity"
)

func newTestScanner(t *testing.T, a *testAnalyzers) (Scanner, *memory.DomainRepoImpl) {
	t.Helper()
	repo := memory.NewDomainRepo()
	return NewScanUseCase(a.bundle(), repo, nil, ScanConfig{LinkLimit: 20}, zaptest.NewLogger(t)), repo
}

func TestScanMergesSlotsAcrossScans(t *testing.T) {
	a := newTestAnalyzers()
	scanner, _ := newTestScanner(t, a)
	ctx := context.Background()

	if _, err := scanner.Scan(ctx, ScanInput{URL: "example.com", Tools: []string{"redirect"}}); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	report, err := scanner.Scan(ctx, ScanInput{URL: "example.com", Tools: []string{"security"}})
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}

	if report.Domain != "example.com" {
		t.Fatalf("unexpected domain %q", report.Domain)
	}
	if report.RedirectData == nil || report.SecurityData == nil {
		t.Fatalf("expected redirect and security slots, got %+v", report)
	}
	if report.RobotsData != nil || report.AIData != nil || report.WhoisData != nil || report.BrokenLinksData != nil {
		t.Fatalf("unrequested slots must stay null")
	}

	var hops []entity.RedirectHop
	if err := json.Unmarshal(report.RedirectData, &hops); err != nil {
		t.Fatalf("decode redirect slot: %v", err)
	}
	if len(hops) != 1 || hops[0].URL != "https://example.com" {
		t.Fatalf("unexpected hops %+v", hops)
	}
}

func TestScanRunsOnlyRequestedTools(t *testing.T) {
	a := newTestAnalyzers()
	scanner, _ := newTestScanner(t, a)

	report, err := scanner.Scan(context.Background(), ScanInput{URL: "https://example.com", Tools: []string{"robots", "robots", "broken_links"}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if a.robots.calls != 1 || a.links.calls != 1 {
		t.Fatalf("expected robots and links once, got %d and %d", a.robots.calls, a.links.calls)
	}
	if a.auditor.calls != 0 || len(a.tracer.seen) != 0 {
		t.Fatalf("unrequested analyzers ran")
	}
	if a.links.lastLimit != 20 {
		t.Fatalf("expected configured link limit, got %d", a.links.lastLimit)
	}
	if report.RobotsData == nil || report.BrokenLinksData == nil {
		t.Fatalf("expected robots and broken links slots")
	}
}

func TestScanValidation(t *testing.T) {
	cases := []struct {
		name string
		in   ScanInput
	}{
		{name: "empty url", in: ScanInput{URL: "  ", Tools: []string{"redirect"}}},
		{name: "unparseable url", in: ScanInput{URL: "https://exa mple.com", Tools: []string{"redirect"}}},
		{name: "no tools", in: ScanInput{URL: "example.com"}},
		{name: "unknown tool", in: ScanInput{URL: "example.com", Tools: []string{"redirect", "pagespeed"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAnalyzers()
			scanner, repo := newTestScanner(t, a)

			_, err := scanner.Scan(context.Background(), tc.in)
			if !IsValidationError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(a.tracer.seen) != 0 {
				t.Fatalf("no analyzer may run on invalid input")
			}
			if list, _ := repo.GetRecentDomains(context.Background(), 10); len(list) != 0 {
				t.Fatalf("nothing may be stored on invalid input")
			}
		})
	}
}

func TestScanAIFailureIsStoredAsErrorShape(t *testing.T) {
	a := newTestAnalyzers()
	a.summarizer.err = errors.New("quota exhausted")
	scanner, _ := newTestScanner(t, a)

	report, err := scanner.Scan(context.Background(), ScanInput{URL: "example.com", Tools: []string{"ai", "redirect"}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	var ai map[string]string
	if err := json.Unmarshal(report.AIData, &ai); err != nil {
		t.Fatalf("decode ai slot: %v", err)
	}
	if ai["error"] != "Failed to generate AI summary" || ai["details"] != "quota exhausted" {
		t.Fatalf("unexpected ai slot %v", ai)
	}
	if report.RedirectData == nil {
		t.Fatalf("other tools must still be stored")
	}
}

func TestScanWithoutSummarizer(t *testing.T) {
	a := newTestAnalyzers()
	bundle := a.bundle()
	bundle.Summarizer = nil
	scanner := NewScanUseCase(bundle, memory.NewDomainRepo(), nil, ScanConfig{}, zaptest.NewLogger(t))

	report, err := scanner.Scan(context.Background(), ScanInput{URL: "example.com", Tools: []string{"ai"}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	var ai entity.AISummary
	if err := json.Unmarshal(report.AIData, &ai); err != nil {
		t.Fatalf("decode ai slot: %v", err)
	}
	if !ai.Failed() || ai.Details != aiNotConfiguredDetail {
		t.Fatalf("unexpected ai slot %s", report.AIData)
	}
}

func TestScanWhoisPanicIsIsolated(t *testing.T) {
	a := newTestAnalyzers()
	a.whois.panicWith = "resolver exploded"
	scanner, _ := newTestScanner(t, a)

	report, err := scanner.Scan(context.Background(), ScanInput{URL: "https://www.example.com/path", Tools: []string{"whois", "security"}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if report.Domain != "www.example.com" {
		t.Fatalf("expected hostname as record key, got %q", report.Domain)
	}

	var whois entity.WhoisResult
	if err := json.Unmarshal(report.WhoisData, &whois); err != nil {
		t.Fatalf("decode whois slot: %v", err)
	}
	if whois.Error != "resolver exploded" || whois.Domain != "example.com" {
		t.Fatalf("unexpected whois slot %+v", whois)
	}
	if report.SecurityData == nil || a.auditor.calls != 1 {
		t.Fatalf("security must still run and be stored")
	}
}

func TestScanWhoisReceivesBareDomain(t *testing.T) {
	a := newTestAnalyzers()
	scanner, _ := newTestScanner(t, a)

	if _, err := scanner.Scan(context.Background(), ScanInput{URL: "http://WWW.Example.com:8080/a", Tools: []string{"whois"}}); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if a.whois.domain != "example.com" {
		t.Fatalf("expected bare domain, got %q", a.whois.domain)
	}
}

func TestScanStorageFailure(t *testing.T) {
	a := newTestAnalyzers()
	scanner := NewScanUseCase(a.bundle(), failingRepo{}, nil, ScanConfig{}, zaptest.NewLogger(t))

	_, err := scanner.Scan(context.Background(), ScanInput{URL: "example.com", Tools: []string{"redirect"}})
	if err == nil || IsValidationError(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestScanWritesThroughCache(t *testing.T) {
	a := newTestAnalyzers()
	cache := newRecordingCache()
	scanner := NewScanUseCase(a.bundle(), memory.NewDomainRepo(), cache, ScanConfig{}, zaptest.NewLogger(t))

	report, err := scanner.Scan(context.Background(), ScanInput{URL: "example.com", Tools: []string{"redirect"}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if cached := cache.stored["example.com"]; cached == nil || cached.ID != report.ID {
		t.Fatalf("expected merged report in cache, got %+v", cache.stored)
	}
}
