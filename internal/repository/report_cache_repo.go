package repository

import (
	"context"
	"errors"

	"github.com/user/seo-scanner/internal/entity"
)

var ErrCacheMiss = errors.New("report not cached")

// ReportCache keeps recently read or written reports close to the API.
type ReportCache interface {
	// Get returns ErrCacheMiss when nothing is cached for the domain.
	Get(ctx context.Context, domain string) (*entity.DomainReport, error)
	Set(ctx context.Context, report *entity.DomainReport) error
	Ping(ctx context.Context) error
}
