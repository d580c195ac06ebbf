package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/user/seo-scanner/internal/entity"
)

const DefaultMaxHops = 10

// RedirectTracer follows Location headers one request at a time.
type RedirectTracer struct {
	prober  *Prober
	maxHops int
}

// NewRedirectTracer bounds traces to maxHops redirects; a negative value
// selects DefaultMaxHops.
func NewRedirectTracer(prober *Prober, maxHops int) *RedirectTracer {
	if maxHops < 0 {
		maxHops = DefaultMaxHops
	}
	return &RedirectTracer{prober: prober, maxHops: maxHops}
}

// Trace records every hop starting at startURL. The result always holds at
// least one hop and at most maxHops+1. A network error ends the trace with a
// status 0 hop.
func (t *RedirectTracer) Trace(ctx context.Context, startURL string) entity.RedirectTrace {
	trace := entity.RedirectTrace{URL: startURL, Hops: []entity.RedirectHop{}}
	current := startURL
	redirects := 0

	for {
		res := t.prober.Probe(ctx, http.MethodGet, current, ProbeOptions{})
		if res.Err != nil {
			trace.Hops = append(trace.Hops, entity.RedirectHop{URL: current, Status: 0, Error: res.Err.Error()})
			return trace
		}

		trace.Hops = append(trace.Hops, entity.RedirectHop{
			URL:     current,
			Status:  res.Status,
			Headers: NormalizeHeaders(res.Header),
		})

		location := res.Header.Get("Location")
		if res.Status < 300 || res.Status >= 400 || location == "" {
			return trace
		}
		if redirects >= t.maxHops {
			trace.Truncated = true
			return trace
		}

		next, err := resolveLocation(current, location)
		if err != nil {
			trace.Hops = append(trace.Hops, entity.RedirectHop{URL: location, Status: 0, Error: err.Error()})
			return trace
		}
		current = next
		redirects++
	}
}

// resolveLocation handles absolute, protocol-relative and path-relative
// Location values.
func resolveLocation(current, location string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", current, err)
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("invalid redirect location %q: %w", location, err)
	}
	return base.ResolveReference(ref).String(), nil
}
