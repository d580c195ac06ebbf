// Package app wires configuration, storage, analyzers and the HTTP API into
// a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/user/seo-scanner/internal/adapter/chromedp_fetcher"
	"github.com/user/seo-scanner/internal/adapter/memory"
	"github.com/user/seo-scanner/internal/adapter/openai"
	"github.com/user/seo-scanner/internal/adapter/postgres"
	rediscache "github.com/user/seo-scanner/internal/adapter/redis"
	"github.com/user/seo-scanner/internal/adapter/whois"
	"github.com/user/seo-scanner/internal/analyzer"
	"github.com/user/seo-scanner/internal/delivery/http/handler"
	"github.com/user/seo-scanner/internal/delivery/http/router"
	"github.com/user/seo-scanner/internal/repository"
	"github.com/user/seo-scanner/internal/usecase"
	"github.com/user/seo-scanner/pkg/config"
)

const shutdownTimeout = 10 * time.Second

// App is a fully wired service. Close releases its connections.
type App struct {
	cfg     *config.Config
	logger  *zap.Logger
	handler http.Handler
	closers []func()

	Scanner usecase.Scanner
	Domains usecase.DomainReader
	Toolkit usecase.Toolkit
}

// New connects to the configured backing services and builds the use cases.
// Without POSTGRES_URL reports live in memory; without REDIS_ADDR there is
// no report cache.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	cache, err := a.openCache(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	analyzers, err := a.buildAnalyzers()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Scanner = usecase.NewScanUseCase(analyzers, store, cache, usecase.ScanConfig{LinkLimit: cfg.ScanLinkLimit}, logger)
	a.Domains = usecase.NewDomainUseCase(store, cache, cfg.RecentDomainsLimit, logger)
	a.Toolkit = usecase.NewToolkitUseCase(analyzers, usecase.ToolkitConfig{
		WebsiteLinkLimit: cfg.WebsiteLinkLimit,
		BatchConcurrency: cfg.LinkConcurrency,
	})

	health := map[string]handler.Pinger{"store": store}
	if cache != nil {
		health["cache"] = cache
	}
	h := handler.NewHandler(a.Scanner, a.Domains, a.Toolkit, health, logger)
	a.handler = router.New(h, logger, router.Options{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	return a, nil
}

func (a *App) openStore(ctx context.Context) (repository.DomainRepository, error) {
	if a.cfg.PostgresURL == "" {
		a.logger.Info("POSTGRES_URL not set, using in-memory report store")
		return memory.NewDomainRepo(), nil
	}

	pool, err := postgres.NewPool(ctx, a.cfg.PostgresURL, a.cfg.PostgresMaxConns)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pool.Close)

	repo := postgres.NewDomainRepo(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	a.logger.Info("PostgreSQL connection pool established")
	return repo, nil
}

func (a *App) openCache(ctx context.Context) (repository.ReportCache, error) {
	if a.cfg.RedisAddr == "" {
		return nil, nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisDB,
	})
	a.closers = append(a.closers, func() { _ = client.Close() })

	cache := rediscache.NewReportCache(client, a.cfg.ReportCacheTTL())
	if err := cache.Ping(ctx); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", a.cfg.RedisAddr, err)
	}
	a.logger.Info("Redis connection established", zap.Duration("ttl", a.cfg.ReportCacheTTL()))
	return cache, nil
}

func (a *App) buildAnalyzers() (usecase.Analyzers, error) {
	cfg := a.cfg
	proberCfg := analyzer.ProberConfig{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.ProbeTimeout(),
	}
	proxies, err := analyzer.NewProxyRotator(cfg.ProxyURLs)
	if err != nil {
		return usecase.Analyzers{}, err
	}
	if proxies.Len() > 0 {
		proberCfg.Transport = proxies.Transport()
		a.logger.Info("routing probes through proxies", zap.Int("proxies", proxies.Len()))
	}
	prober := analyzer.NewProber(proberCfg)

	var fetcher repository.PageFetcher
	if cfg.RenderJS {
		concurrency := cfg.LinkConcurrency
		if concurrency <= 0 {
			concurrency = 2
		}
		renderer := chromedp_fetcher.NewChromedpFetcher(concurrency, cfg.PageLoadTimeout(), cfg.UserAgent, a.logger)
		a.closers = append(a.closers, renderer.Close)
		fetcher = renderer
		a.logger.Info("rendering main pages with headless Chrome")
	}

	rdapSource, err := whois.NewRDAPSource(&http.Client{Timeout: cfg.WhoisTimeout()}, cfg.RDAPServerURL)
	if err != nil {
		return usecase.Analyzers{}, err
	}

	analyzers := usecase.Analyzers{
		Redirects: analyzer.NewRedirectTracer(prober, cfg.MaxRedirectHops),
		Security:  analyzer.NewSecurityAuditor(prober),
		Robots:    analyzer.NewRobotsValidator(prober),
		Links: analyzer.NewLinkChecker(prober, fetcher, analyzer.LinkCheckerConfig{
			LinkTimeout: cfg.LinkTimeout(),
			Concurrency: cfg.LinkConcurrency,
		}, a.logger),
		Whois: analyzer.NewWhoisResolver(whois.NewTextSource(cfg.WhoisTimeout()), rdapSource, a.logger),
	}
	if cfg.OpenAIAPIKey != "" {
		analyzers.Summarizer = openai.NewSummarizer(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	} else {
		a.logger.Info("OPENAI_API_KEY not set, ai tool will store a failure result")
	}
	return analyzers, nil
}

// Handler returns the HTTP API.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Serve listens on SERVER_PORT until ctx is cancelled, then drains in-flight
// requests.
func (a *App) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:         ":" + a.cfg.ServerPort,
		Handler:      a.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting server", zap.String("port", a.cfg.ServerPort))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		_ = server.Close()
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	a.logger.Info("server exiting")
	return nil
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
