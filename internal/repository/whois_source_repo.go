package repository

import (
	"context"

	"github.com/user/seo-scanner/internal/entity"
)

// WhoisSource is one registration-data backend (text WHOIS or RDAP).
type WhoisSource interface {
	Name() string
	Lookup(ctx context.Context, domain string) (*entity.WhoisLookup, error)
}
