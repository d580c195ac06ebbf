package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/user/seo-scanner/internal/entity"
	"github.com/user/seo-scanner/internal/repository"
	"github.com/user/seo-scanner/pkg/metrics"
	"github.com/user/seo-scanner/pkg/utils"
)

const maxAnchorTextRunes = 50

var skippedHrefPrefixes = []string{"mailto:", "tel:", "javascript:", "#"}

// ExtractedLink is a unique absolute link found on a page.
type ExtractedLink struct {
	URL        string
	AnchorText string
}

// HTTPPageFetcher loads pages with the shared prober.
type HTTPPageFetcher struct {
	prober *Prober
}

func NewHTTPPageFetcher(prober *Prober) *HTTPPageFetcher {
	return &HTTPPageFetcher{prober: prober}
}

func (f *HTTPPageFetcher) FetchPage(ctx context.Context, rawURL string) (*entity.Page, error) {
	res := f.prober.Probe(ctx, http.MethodGet, rawURL, ProbeOptions{FollowRedirects: true, ReadBody: true})
	if res.Err != nil {
		return nil, res.Err
	}
	return &entity.Page{URL: res.URL, Status: res.Status, Body: res.Body}, nil
}

// LinkCheckerConfig configures link probing.
type LinkCheckerConfig struct {
	// LinkTimeout bounds each probe so one dead host cannot stall a scan.
	LinkTimeout time.Duration
	// Concurrency caps in-flight probes; zero means unbounded.
	Concurrency int
}

// LinkChecker probes single links or every link on a page.
type LinkChecker struct {
	prober  *Prober
	fetcher repository.PageFetcher
	cfg     LinkCheckerConfig
	logger  *zap.Logger
}

func NewLinkChecker(prober *Prober, fetcher repository.PageFetcher, cfg LinkCheckerConfig, logger *zap.Logger) *LinkChecker {
	if fetcher == nil {
		fetcher = NewHTTPPageFetcher(prober)
	}
	if cfg.LinkTimeout <= 0 {
		cfg.LinkTimeout = 3 * time.Second
	}
	return &LinkChecker{prober: prober, fetcher: fetcher, cfg: cfg, logger: logger}
}

// CheckLink issues a single HEAD request, following redirects.
func (c *LinkChecker) CheckLink(ctx context.Context, link string) entity.LinkCheckResult {
	return c.probe(ctx, ExtractedLink{URL: link}, 0, isOK)
}

func (c *LinkChecker) probe(ctx context.Context, link ExtractedLink, timeout time.Duration, ok func(int) bool) entity.LinkCheckResult {
	res := c.prober.Probe(ctx, http.MethodHead, link.URL, ProbeOptions{FollowRedirects: true, Timeout: timeout})
	result := entity.LinkCheckResult{URL: link.URL, AnchorText: link.AnchorText}
	if res.Err != nil {
		result.Error = res.Err.Error()
		return result
	}
	result.Status = res.Status
	result.OK = ok(res.Status)
	return result
}

// ScanWebsite fetches pageURL, extracts its links and probes them
// concurrently. Only 2xx counts as working here, for the page and its links. A positive limit caps how many unique links are probed.
// Result lists are in completion order.
func (c *LinkChecker) ScanWebsite(ctx context.Context, pageURL string, limit int) entity.WebsiteLinkScanResult {
	result := entity.WebsiteLinkScanResult{
		URL:          pageURL,
		BrokenLinks:  []entity.LinkCheckResult{},
		WorkingLinks: []entity.LinkCheckResult{},
	}

	page, err := c.fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if !isSuccess(page.Status) {
		result.Error = fmt.Sprintf("Main page returned %d", page.Status)
		return result
	}

	base := page.URL
	if base == "" {
		base = pageURL
	}
	links, err := ExtractLinks(base, page.Body)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.TotalLinks = len(links)
	if limit > 0 && len(links) > limit {
		links = links[:limit]
	}
	result.CheckedLinks = len(links)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	if c.cfg.Concurrency > 0 {
		g.SetLimit(c.cfg.Concurrency)
	}
	for _, link := range links {
		g.Go(func() error {
			checked := c.probe(ctx, link, c.cfg.LinkTimeout, isSuccess)

			mu.Lock()
			defer mu.Unlock()
			if checked.OK {
				result.WorkingLinks = append(result.WorkingLinks, checked)
				metrics.LinkProbesTotal.WithLabelValues("working").Inc()
			} else {
				result.BrokenLinks = append(result.BrokenLinks, checked)
				metrics.LinkProbesTotal.WithLabelValues("broken").Inc()
			}
			return nil
		})
	}
	_ = g.Wait()

	if c.logger != nil {
		c.logger.Debug("link scan finished",
			zap.String("url", pageURL),
			zap.Int("total", result.TotalLinks),
			zap.Int("broken", len(result.BrokenLinks)),
		)
	}
	return result
}

// ExtractLinks returns the unique absolute targets of every <a href> in body,
// in document order. The first anchor text seen for a URL wins.
func ExtractLinks(baseURL, body string) ([]ExtractedLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %q: %w", baseURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	seen := make(map[string]struct{})
	var links []ExtractedLink
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || skipHref(href) {
			return
		}
		abs, err := utils.ToAbsoluteURL(base, href)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		links = append(links, ExtractedLink{URL: abs, AnchorText: truncateRunes(strings.TrimSpace(s.Text()), maxAnchorTextRunes)})
	})
	return links, nil
}

func skipHref(href string) bool {
	lower := strings.ToLower(href)
	for _, prefix := range skippedHrefPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
