package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/user/seo-scanner/internal/entity"
	"github.com/user/seo-scanner/internal/repository"
	"github.com/user/seo-scanner/pkg/metrics"
)

// Responses containing any of these mean the primary source refused to
// answer even though the lookup itself succeeded.
var unusableWhoisMarkers = []string{
	"rate limit exceeded",
	"retired",
	"use our rdap service",
}

var errUnusableWhois = errors.New("unusable whois response")

// WhoisResolver queries the primary source and falls back to the secondary
// one when the primary fails or answers with an unusable response.
type WhoisResolver struct {
	primary  repository.WhoisSource
	fallback repository.WhoisSource
	logger   *zap.Logger
}

func NewWhoisResolver(primary, fallback repository.WhoisSource, logger *zap.Logger) *WhoisResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhoisResolver{primary: primary, fallback: fallback, logger: logger}
}

// Resolve never fails outright: when both sources fail the result has empty
// Data and Error set.
func (r *WhoisResolver) Resolve(ctx context.Context, domain string) entity.WhoisResult {
	result := entity.WhoisResult{Domain: domain, Data: entity.WhoisRecord{}}

	var primaryErr error
	if r.primary != nil {
		lookup, err := r.primary.Lookup(ctx, domain)
		if err == nil && usableWhois(lookup) {
			metrics.WhoisLookupsTotal.WithLabelValues(r.primary.Name()).Inc()
			result.Data = lookup.Record
			result.RawText = lookup.Raw
			result.Source = r.primary.Name()
			return result
		}
		if err == nil {
			err = errUnusableWhois
		}
		primaryErr = err
		r.logger.Warn("primary whois lookup unusable, falling back",
			zap.String("domain", domain),
			zap.String("source", r.primary.Name()),
			zap.Error(err),
		)
	}

	if r.fallback == nil {
		metrics.WhoisLookupsTotal.WithLabelValues("none").Inc()
		result.Error = fmt.Sprintf("whois lookup failed: %v", primaryErr)
		return result
	}

	lookup, err := r.fallback.Lookup(ctx, domain)
	if err != nil || lookup == nil {
		if err == nil {
			err = errUnusableWhois
		}
		metrics.WhoisLookupsTotal.WithLabelValues("none").Inc()
		r.logger.Warn("fallback whois lookup failed",
			zap.String("domain", domain),
			zap.String("source", r.fallback.Name()),
			zap.Error(err),
		)
		result.Error = fmt.Sprintf("whois lookup failed: %v", err)
		return result
	}

	metrics.WhoisLookupsTotal.WithLabelValues(r.fallback.Name()).Inc()
	if lookup.Record != nil {
		result.Data = lookup.Record
	}
	result.RawText = lookup.Raw
	result.Source = r.fallback.Name()
	return result
}

func usableWhois(lookup *entity.WhoisLookup) bool {
	if lookup == nil || len(lookup.Record) <= 1 {
		return false
	}
	serialized, err := json.Marshal(lookup.Record)
	if err != nil {
		return false
	}
	haystack := strings.ToLower(lookup.Raw + "\n" + string(serialized))
	for _, marker := range unusableWhoisMarkers {
		if strings.Contains(haystack, marker) {
			return false
		}
	}
	return true
}
