package repository

import (
	"context"

	"github.com/user/seo-scanner/internal/entity"
)

// PageFetcher loads an HTML page, following redirects.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (*entity.Page, error)
}
