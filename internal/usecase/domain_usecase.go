package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/user/seo-scanner/internal/entity"
	"github.com/user/seo-scanner/internal/repository"
)

// DomainReader serves stored reports.
type DomainReader interface {
	Get(ctx context.Context, domain string) (*entity.DomainReport, error)
	Recent(ctx context.Context, limit int) ([]*entity.DomainReport, error)
}

type domainUseCase struct {
	domainRepo   repository.DomainRepository
	cache        repository.ReportCache
	defaultLimit int
	logger       *zap.Logger
}

// NewDomainUseCase reads through cache when it is non-nil.
func NewDomainUseCase(domainRepo repository.DomainRepository, cache repository.ReportCache, defaultLimit int, logger *zap.Logger) DomainReader {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &domainUseCase{
		domainRepo:   domainRepo,
		cache:        cache,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

func (uc *domainUseCase) Get(ctx context.Context, domain string) (*entity.DomainReport, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))

	if uc.cache != nil {
		report, err := uc.cache.Get(ctx, domain)
		if err == nil {
			return report, nil
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			// Cache trouble is not fatal; fall through to the store.
			uc.logger.Warn("report cache read failed", zap.String("domain", domain), zap.Error(err))
		}
	}

	report, err := uc.domainRepo.GetDomain(ctx, domain)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, report); err != nil {
			uc.logger.Warn("report cache write failed", zap.String("domain", domain), zap.Error(err))
		}
	}
	return report, nil
}

// Recent lists reports by last scan time; a non-positive limit uses the
// configured default.
func (uc *domainUseCase) Recent(ctx context.Context, limit int) ([]*entity.DomainReport, error) {
	if limit <= 0 {
		limit = uc.defaultLimit
	}
	return uc.domainRepo.GetRecentDomains(ctx, limit)
}
