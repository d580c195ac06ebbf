package repository

import (
	"context"

	"github.com/user/seo-scanner/internal/entity"
)

// Summarizer asks a text-generation service to describe a website.
type Summarizer interface {
	Summarize(ctx context.Context, url string) (*entity.AISummary, error)
}
