package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/user/seo-scanner/internal/entity"
	"github.com/user/seo-scanner/internal/repository"
	"github.com/user/seo-scanner/pkg/metrics"
	"github.com/user/seo-scanner/pkg/utils"
)

const (
	aiFailureMessage      = "Failed to generate AI summary"
	aiNotConfiguredDetail = "AI summary service not configured"
)

// ScanInput is a scan request as received from a client.
type ScanInput struct {
	URL   string   `json:"url"`
	Tools []string `json:"tools"`
}

// Scanner runs a set of analyzers against one URL and stores the results.
type Scanner interface {
	Scan(ctx context.Context, in ScanInput) (*entity.DomainReport, error)
}

// ScanConfig tunes the orchestrated scan.
type ScanConfig struct {
	// LinkLimit caps how many page links the broken link tool probes; zero
	// probes all of them.
	LinkLimit int
}

type scanUseCase struct {
	analyzers  Analyzers
	domainRepo repository.DomainRepository
	cache      repository.ReportCache
	cfg        ScanConfig
	logger     *zap.Logger
}

// NewScanUseCase creates the scan orchestrator. cache may be nil.
func NewScanUseCase(
	analyzers Analyzers,
	domainRepo repository.DomainRepository,
	cache repository.ReportCache,
	cfg ScanConfig,
	logger *zap.Logger,
) Scanner {
	return &scanUseCase{
		analyzers:  analyzers,
		domainRepo: domainRepo,
		cache:      cache,
		cfg:        cfg,
		logger:     logger,
	}
}

// Scan validates the input, runs every requested tool concurrently and
// upserts their slots. Each tool writes only its own slot, and a failing
// tool is stored as its error shape without affecting the others.
func (uc *scanUseCase) Scan(ctx context.Context, in ScanInput) (*entity.DomainReport, error) {
	target, tools, err := validateScanInput(in)
	if err != nil {
		return nil, err
	}

	scanID := uuid.NewString()
	targetURL := target.String()
	domain := strings.ToLower(target.Hostname())
	log := uc.logger.With(
		zap.String("scan_id", scanID),
		zap.String("domain", domain),
		zap.String("url", targetURL),
	)
	log.Info("scan started", zap.Int("tools", len(tools)))

	slots := make([]json.RawMessage, len(tools))
	var g errgroup.Group
	for i, tool := range tools {
		g.Go(func() error {
			slots[i] = uc.runTool(ctx, log, tool, targetURL, domain)
			return nil
		})
	}
	_ = g.Wait()

	update := &entity.DomainUpdate{Domain: domain}
	for i, tool := range tools {
		update.SetSlot(tool, slots[i])
	}

	report, err := uc.domainRepo.UpsertDomain(ctx, update)
	if err != nil {
		return nil, fmt.Errorf("save scan results for %s: %w", domain, err)
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, report); err != nil {
			log.Warn("failed to cache report", zap.Error(err))
		}
	}

	log.Info("scan finished")
	return report, nil
}

func validateScanInput(in ScanInput) (target *url.URL, tools []entity.Tool, err error) {
	if strings.TrimSpace(in.URL) == "" {
		return nil, nil, newValidationError("url is required")
	}
	u, err := utils.NormalizeTarget(in.URL)
	if err != nil {
		return nil, nil, newValidationError(fmt.Sprintf("invalid url: %v", err))
	}
	if len(in.Tools) == 0 {
		return nil, nil, newValidationError("at least one tool must be selected")
	}

	seen := make(map[entity.Tool]bool, len(in.Tools))
	for _, name := range in.Tools {
		tool, ok := entity.ParseTool(name)
		if !ok {
			return nil, nil, newValidationError(fmt.Sprintf("invalid tool %q: expected one of redirect, broken_links, security, robots, ai, whois", name))
		}
		if !seen[tool] {
			seen[tool] = true
			tools = append(tools, tool)
		}
	}
	return u, tools, nil
}

// runTool invokes one analyzer and encodes its result. Panics are converted
// to the tool's error shape.
func (uc *scanUseCase) runTool(ctx context.Context, log *zap.Logger, tool entity.Tool, targetURL, domain string) (raw json.RawMessage) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		if r := recover(); r != nil {
			outcome = "panic"
			log.Error("analyzer panicked", zap.String("tool", string(tool)), zap.Any("panic", r))
			raw = mustMarshal(failureShape(tool, targetURL, domain, fmt.Sprint(r)))
		}
		metrics.ToolDuration.WithLabelValues(string(tool)).Observe(time.Since(start).Seconds())
		metrics.ScansTotal.WithLabelValues(string(tool), outcome).Inc()
	}()

	result, failed := uc.invoke(ctx, tool, targetURL, domain)
	if failed {
		outcome = "failed"
		log.Warn("analyzer reported failure", zap.String("tool", string(tool)))
	}
	return mustMarshal(result)
}

type failable interface {
	Failed() bool
}

func (uc *scanUseCase) invoke(ctx context.Context, tool entity.Tool, targetURL, domain string) (any, bool) {
	var result failable
	switch tool {
	case entity.ToolRedirect:
		// The stored slot is the hop list itself.
		trace := uc.analyzers.Redirects.Trace(ctx, targetURL)
		return trace.Hops, trace.Failed()
	case entity.ToolSecurity:
		result = uc.analyzers.Security.Audit(ctx, targetURL)
	case entity.ToolRobots:
		result = uc.analyzers.Robots.Validate(ctx, targetURL)
	case entity.ToolBrokenLinks:
		result = uc.analyzers.Links.ScanWebsite(ctx, targetURL, uc.cfg.LinkLimit)
	case entity.ToolAI:
		result = uc.summarize(ctx, targetURL)
	case entity.ToolWhois:
		result = uc.analyzers.Whois.Resolve(ctx, utils.WhoisDomain(domain))
	default:
		panic(fmt.Sprintf("no analyzer for tool %q", tool))
	}
	return result, result.Failed()
}

func (uc *scanUseCase) summarize(ctx context.Context, targetURL string) entity.AISummary {
	if uc.analyzers.Summarizer == nil {
		return entity.AISummary{Error: aiFailureMessage, Details: aiNotConfiguredDetail}
	}
	summary, err := uc.analyzers.Summarizer.Summarize(ctx, targetURL)
	if err != nil {
		return entity.AISummary{Error: aiFailureMessage, Details: err.Error()}
	}
	return *summary
}

// failureShape is the error-shaped value stored for a tool that panicked.
func failureShape(tool entity.Tool, targetURL, domain, msg string) any {
	switch tool {
	case entity.ToolRedirect:
		return []entity.RedirectHop{{URL: targetURL, Status: 0, Error: msg}}
	case entity.ToolSecurity:
		return entity.SecurityReport{{Header: "Error", Status: entity.FindingError, Description: msg}}
	case entity.ToolRobots:
		return entity.RobotsReport{Issues: []string{msg}}
	case entity.ToolBrokenLinks:
		return entity.WebsiteLinkScanResult{
			URL:          targetURL,
			Error:        msg,
			BrokenLinks:  []entity.LinkCheckResult{},
			WorkingLinks: []entity.LinkCheckResult{},
		}
	case entity.ToolAI:
		return entity.AISummary{Error: aiFailureMessage, Details: msg}
	default:
		return entity.WhoisResult{Domain: utils.WhoisDomain(domain), Data: entity.WhoisRecord{}, Error: msg}
	}
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		b, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	return b
}
