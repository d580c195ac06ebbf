package usecase

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/user/seo-scanner/internal/entity"
	"github.com/user/seo-scanner/pkg/utils"
)

// Toolkit exposes each analyzer on its own, outside of a stored scan.
// Targets get the same scheme defaulting as a scan.
type Toolkit interface {
	CheckRedirects(ctx context.Context, urls []string) ([]entity.RedirectTrace, error)
	CheckSecurity(ctx context.Context, url string) (string, entity.SecurityReport, error)
	CheckRobots(ctx context.Context, url string) (string, entity.RobotsReport, error)
	CheckLink(ctx context.Context, url string) (entity.LinkCheckResult, error)
	ScanWebsiteLinks(ctx context.Context, url string) (entity.WebsiteLinkScanResult, error)
	LookupWhois(ctx context.Context, domain string) (entity.WhoisResult, error)
}

// ToolkitConfig tunes the standalone tools.
type ToolkitConfig struct {
	// WebsiteLinkLimit caps links probed by ScanWebsiteLinks; zero is no cap.
	WebsiteLinkLimit int
	// BatchConcurrency caps parallel traces in CheckRedirects; zero is no cap.
	BatchConcurrency int
}

type toolkitUseCase struct {
	analyzers Analyzers
	cfg       ToolkitConfig
}

func NewToolkitUseCase(analyzers Analyzers, cfg ToolkitConfig) Toolkit {
	return &toolkitUseCase{analyzers: analyzers, cfg: cfg}
}

var errURLRequired = newValidationError("Please provide a URL")

// CheckRedirects traces every URL independently. Output order matches input
// order; an invalid entry only affects its own result.
func (uc *toolkitUseCase) CheckRedirects(ctx context.Context, urls []string) ([]entity.RedirectTrace, error) {
	if len(urls) == 0 {
		return nil, newValidationError("Please provide an array of URLs")
	}

	out := make([]entity.RedirectTrace, len(urls))
	var g errgroup.Group
	if uc.cfg.BatchConcurrency > 0 {
		g.SetLimit(uc.cfg.BatchConcurrency)
	}
	for idx, raw := range urls {
		g.Go(func() error {
			target, err := utils.NormalizeTarget(raw)
			if err != nil {
				out[idx] = entity.RedirectTrace{URL: raw, Hops: []entity.RedirectHop{}, Error: err.Error()}
				return nil
			}
			out[idx] = uc.analyzers.Redirects.Trace(ctx, target.String())
			return nil
		})
	}
	_ = g.Wait()
	return out, nil
}

func (uc *toolkitUseCase) CheckSecurity(ctx context.Context, raw string) (string, entity.SecurityReport, error) {
	target, err := normalizeSingle(raw)
	if err != nil {
		return "", nil, err
	}
	return target, uc.analyzers.Security.Audit(ctx, target), nil
}

func (uc *toolkitUseCase) CheckRobots(ctx context.Context, raw string) (string, entity.RobotsReport, error) {
	target, err := normalizeSingle(raw)
	if err != nil {
		return "", entity.RobotsReport{}, err
	}
	return target, uc.analyzers.Robots.Validate(ctx, target), nil
}

func (uc *toolkitUseCase) CheckLink(ctx context.Context, raw string) (entity.LinkCheckResult, error) {
	target, err := normalizeSingle(raw)
	if err != nil {
		return entity.LinkCheckResult{}, err
	}
	return uc.analyzers.Links.CheckLink(ctx, target), nil
}

func (uc *toolkitUseCase) ScanWebsiteLinks(ctx context.Context, raw string) (entity.WebsiteLinkScanResult, error) {
	target, err := normalizeSingle(raw)
	if err != nil {
		return entity.WebsiteLinkScanResult{}, err
	}
	return uc.analyzers.Links.ScanWebsite(ctx, target, uc.cfg.WebsiteLinkLimit), nil
}

func (uc *toolkitUseCase) LookupWhois(ctx context.Context, raw string) (entity.WhoisResult, error) {
	domain := utils.WhoisDomain(raw)
	if domain == "" {
		return entity.WhoisResult{}, newValidationError("Please provide a domain")
	}
	return uc.analyzers.Whois.Resolve(ctx, domain), nil
}

func normalizeSingle(raw string) (string, error) {
	target, err := utils.NormalizeTarget(raw)
	if errors.Is(err, utils.ErrEmptyURL) {
		return "", errURLRequired
	}
	if err != nil {
		return "", newValidationError(err.Error())
	}
	return target.String(), nil
}
