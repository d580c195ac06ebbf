package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/user/seo-scanner/internal/entity"
	"github.com/user/seo-scanner/internal/repository"
)

type fakeTracer struct {
	mu   sync.Mutex
	seen []string
}

func (f *fakeTracer) Trace(ctx context.Context, url string) entity.RedirectTrace {
	f.mu.Lock()
	f.seen = append(f.seen, url)
	f.mu.Unlock()
	return entity.RedirectTrace{URL: url, Hops: []entity.RedirectHop{{URL: url, Status: 200, Headers: map[string]string{}}}}
}

type fakeAuditor struct{ calls int }

func (f *fakeAuditor) Audit(ctx context.Context, url string) entity.SecurityReport {
	f.calls++
	return entity.SecurityReport{{Header: "HSTS", Status: entity.FindingMissing}}
}

type fakeRobots struct{ calls int }

func (f *fakeRobots) Validate(ctx context.Context, url string) entity.RobotsReport {
	f.calls++
	content := "User-agent: *"
	status := 200
	return entity.RobotsReport{Content: &content, IsValid: true, Status: &status, Issues: []string{}}
}

type fakeLinks struct {
	calls     int
	lastLimit int
}

func (f *fakeLinks) CheckLink(ctx context.Context, url string) entity.LinkCheckResult {
	return entity.LinkCheckResult{URL: url, Status: 200, OK: true}
}

func (f *fakeLinks) ScanWebsite(ctx context.Context, url string, limit int) entity.WebsiteLinkScanResult {
	f.calls++
	f.lastLimit = limit
	return entity.WebsiteLinkScanResult{URL: url, BrokenLinks: []entity.LinkCheckResult{}, WorkingLinks: []entity.LinkCheckResult{}}
}

type fakeWhois struct {
	panicWith any
	domain    string
}

func (f *fakeWhois) Resolve(ctx context.Context, domain string) entity.WhoisResult {
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	f.domain = domain
	return entity.WhoisResult{Domain: domain, Data: entity.WhoisRecord{entity.WhoisRegistrar: "Registrar"}, Source: "whois"}
}

type fakeSummarizer struct {
	err error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, url string) (*entity.AISummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &entity.AISummary{Summary: "A site", Services: []string{"x"}, Locations: []string{}, SEOKeywords: []string{"k"}}, nil
}

type failingRepo struct {
	repository.DomainRepository
}

func (failingRepo) UpsertDomain(ctx context.Context, update *entity.DomainUpdate) (*entity.DomainReport, error) {
	return nil, errors.New("connection refused")
}

type recordingCache struct {
	mu      sync.Mutex
	stored  map[string]*entity.DomainReport
	getErr  error
	gets    int
	setErrs int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{stored: map[string]*entity.DomainReport{}}
}

func (c *recordingCache) Get(ctx context.Context, domain string) (*entity.DomainReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	r, ok := c.stored[domain]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return r, nil
}

func (c *recordingCache) Set(ctx context.Context, report *entity.DomainReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stored[report.Domain] = report
	return nil
}

func (c *recordingCache) Ping(ctx context.Context) error { return nil }

type testAnalyzers struct {
	tracer     *fakeTracer
	auditor    *fakeAuditor
	robots     *fakeRobots
	links      *fakeLinks
	whois      *fakeWhois
	summarizer *fakeSummarizer
}

func newTestAnalyzers() *testAnalyzers {
	return &testAnalyzers{
		tracer:     &fakeTracer{},
		auditor:    &fakeAuditor{},
		robots:     &fakeRobots{},
		links:      &fakeLinks{},
		whois:      &fakeWhois{},
		summarizer: &fakeSummarizer{},
	}
}

func (a *testAnalyzers) bundle() Analyzers {
	return Analyzers{
		Redirects:  a.tracer,
		Security:   a.auditor,
		Robots:     a.robots,
		Links:      a.links,
		Whois:      a.whois,
		Summarizer: a.summarizer,
	}
}
