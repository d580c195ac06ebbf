package usecase

import (
	"context"

	"github.com/user/seo-scanner/internal/entity"
	"github.com/user/seo-scanner/internal/repository"
)

// RedirectTracer traces the redirect chain of a URL.
type RedirectTracer interface {
	Trace(ctx context.Context, url string) entity.RedirectTrace
}

// SecurityAuditor checks response security headers.
type SecurityAuditor interface {
	Audit(ctx context.Context, url string) entity.SecurityReport
}

// RobotsValidator fetches and classifies robots.txt.
type RobotsValidator interface {
	Validate(ctx context.Context, url string) entity.RobotsReport
}

// LinkChecker probes links individually or across a page.
type LinkChecker interface {
	CheckLink(ctx context.Context, url string) entity.LinkCheckResult
	ScanWebsite(ctx context.Context, url string, limit int) entity.WebsiteLinkScanResult
}

// WhoisResolver looks up registration data for a bare domain.
type WhoisResolver interface {
	Resolve(ctx context.Context, domain string) entity.WhoisResult
}

// Analyzers bundles the collaborators a scan can invoke. Summarizer may be
// nil when no text-generation service is configured.
type Analyzers struct {
	Redirects  RedirectTracer
	Security   SecurityAuditor
	Robots     RobotsValidator
	Links      LinkChecker
	Whois      WhoisResolver
	Summarizer repository.Summarizer
}
