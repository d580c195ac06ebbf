package repository

import (
	"context"
	"errors"

	"github.com/user/seo-scanner/internal/entity"
)

var ErrDomainNotFound = errors.New("domain report not found")

// DomainRepository persists the per-domain aggregate report.
type DomainRepository interface {
	// GetDomain returns ErrDomainNotFound when the domain was never scanned.
	GetDomain(ctx context.Context, domain string) (*entity.DomainReport, error)
	// GetRecentDomains lists reports by most recent scan first.
	GetRecentDomains(ctx context.Context, limit int) ([]*entity.DomainReport, error)
	// UpsertDomain inserts the domain or merges the non-nil slots of update
	// into the stored row, refreshing its scan time. The merge is atomic.
	UpsertDomain(ctx context.Context, update *entity.DomainUpdate) (*entity.DomainReport, error)
	Ping(ctx context.Context) error
}
