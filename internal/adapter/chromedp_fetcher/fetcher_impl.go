package chromedp_fetcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/seo-scanner/internal/entity"
)

var errClosed = errors.New("page renderer is closed")

// ChromedpFetcher renders pages in headless Chrome so links injected by
// JavaScript are visible to the link checker.
type ChromedpFetcher struct {
	allocatorPool *sync.Pool
	timeout       time.Duration
	logger        *zap.Logger

	mu         sync.Mutex
	allocators []allocator
	closed     bool
}

type allocator struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewChromedpFetcher creates a fetcher whose browser allocators are reused
// across page loads. Close releases every allocator it created.
func NewChromedpFetcher(maxConcurrency int, pageLoadTimeout time.Duration, userAgent string, logger *zap.Logger) *ChromedpFetcher {
	f := &ChromedpFetcher{
		timeout: pageLoadTimeout,
		logger:  logger,
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	f.allocatorPool = &sync.Pool{
		New: func() interface{} {
			allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
			f.mu.Lock()
			f.allocators = append(f.allocators, allocator{ctx: allocCtx, cancel: cancel})
			f.mu.Unlock()
			return allocCtx
		},
	}

	// Pre-warm the pool
	for i := 0; i < maxConcurrency; i++ {
		allocCtx := f.allocatorPool.Get().(context.Context)
		f.allocatorPool.Put(allocCtx)
	}
	return f
}

// Close shuts down every browser allocator. Later fetches fail.
func (f *ChromedpFetcher) Close() {
	f.mu.Lock()
	allocators := f.allocators
	f.allocators = nil
	f.closed = true
	f.mu.Unlock()

	for _, a := range allocators {
		a.cancel()
	}
}

// FetchPage navigates to url and returns the rendered DOM. The status code
// comes from the main document's network response.
func (f *ChromedpFetcher) FetchPage(ctx context.Context, url string) (*entity.Page, error) {
	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return nil, errClosed
	}

	allocCtx := f.allocatorPool.Get().(context.Context)
	defer f.allocatorPool.Put(allocCtx)

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	taskCtx, cancel = context.WithTimeout(taskCtx, f.timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var (
		mu     sync.Mutex
		status int
	)
	chromedp.ListenTarget(taskCtx, func(ev interface{}) {
		if resp, ok := ev.(*network.EventResponseReceived); ok && resp.Type == network.ResourceTypeDocument {
			mu.Lock()
			if status == 0 {
				status = int(resp.Response.Status)
			}
			mu.Unlock()
		}
	})

	var html, location string
	startTime := time.Now()
	err := chromedp.Run(taskCtx,
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&location),
	)
	if err != nil {
		f.logger.Warn("failed to render page", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("render %s: %w", url, err)
	}

	mu.Lock()
	defer mu.Unlock()
	f.logger.Debug("rendered page",
		zap.String("url", url),
		zap.Int("status", status),
		zap.Duration("duration", time.Since(startTime)),
	)
	return renderedPage(url, location, status, html)
}

// renderedPage fails when no document response was seen, which happens for
// pages served from cache or replaced before the response event fired.
func renderedPage(url, location string, status int, html string) (*entity.Page, error) {
	if status == 0 {
		return nil, fmt.Errorf("render %s: no document response received", url)
	}
	if location == "" {
		location = url
	}
	return &entity.Page{URL: location, Status: status, Body: html}, nil
}
