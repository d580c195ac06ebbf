package analyzer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTraceFollowsRedirectChain(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/middle", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/docs/middle", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "final")
		w.WriteHeader(http.StatusFound)
	})
	mux.HandleFunc("/docs/final", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tracer := NewRedirectTracer(newTestProber(), DefaultMaxHops)
	trace := tracer.Trace(context.Background(), srv.URL+"/start")

	if len(trace.Hops) != 3 {
		t.Fatalf("expected 3 hops, got %d: %+v", len(trace.Hops), trace.Hops)
	}
	wantStatus := []int{301, 302, 200}
	wantURL := []string{srv.URL + "/start", srv.URL + "/docs/middle", srv.URL + "/docs/final"}
	for i, hop := range trace.Hops {
		if hop.Status != wantStatus[i] {
			t.Fatalf("hop %d: expected status %d, got %d", i, wantStatus[i], hop.Status)
		}
		if hop.URL != wantURL[i] {
			t.Fatalf("hop %d: expected url %s, got %s", i, wantURL[i], hop.URL)
		}
	}
	if trace.Hops[0].Headers["location"] != "/docs/middle" {
		t.Fatalf("expected lowercased location header, got %v", trace.Hops[0].Headers)
	}
	if trace.Truncated || trace.Failed() {
		t.Fatalf("expected complete trace, got %+v", trace)
	}
}

func TestTraceSingleHopWithoutRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	trace := NewRedirectTracer(newTestProber(), DefaultMaxHops).Trace(context.Background(), srv.URL)
	if len(trace.Hops) != 1 || trace.Hops[0].Status != http.StatusOK {
		t.Fatalf("expected a single 200 hop, got %+v", trace.Hops)
	}
}

func TestTraceRedirectWithoutLocationStops(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	trace := NewRedirectTracer(newTestProber(), DefaultMaxHops).Trace(context.Background(), srv.URL)
	if len(trace.Hops) != 1 || trace.Hops[0].Status != http.StatusFound {
		t.Fatalf("expected a single 302 hop, got %+v", trace.Hops)
	}
	if trace.Truncated {
		t.Fatalf("a missing Location is not truncation")
	}
}

func TestTraceSelfRedirectStopsAtBound(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Redirect(w, r, "/loop", http.StatusFound)
	}))
	defer srv.Close()

	start := srv.URL + "/loop"
	trace := NewRedirectTracer(newTestProber(), DefaultMaxHops).Trace(context.Background(), start)

	if len(trace.Hops) != DefaultMaxHops+1 {
		t.Fatalf("expected %d hops, got %d", DefaultMaxHops+1, len(trace.Hops))
	}
	for i, hop := range trace.Hops {
		if hop.URL != start || hop.Status != http.StatusFound {
			t.Fatalf("hop %d: unexpected %+v", i, hop)
		}
	}
	if !trace.Truncated {
		t.Fatalf("expected trace to be marked truncated")
	}
	if requests != DefaultMaxHops+1 {
		t.Fatalf("expected %d requests, got %d", DefaultMaxHops+1, requests)
	}
}

func TestTraceNetworkErrorEndsWithErrorHop(t *testing.T) {
	target := deadURL(t)

	trace := NewRedirectTracer(newTestProber(), DefaultMaxHops).Trace(context.Background(), target)
	if len(trace.Hops) != 1 {
		t.Fatalf("expected one error hop, got %+v", trace.Hops)
	}
	hop := trace.Hops[0]
	if hop.Status != 0 || hop.Error == "" || hop.URL != target {
		t.Fatalf("unexpected error hop %+v", hop)
	}
	if !trace.Failed() {
		t.Fatalf("expected trace to report failure")
	}
}

func TestTraceErrorAfterRedirectKeepsEarlierHops(t *testing.T) {
	target := deadURL(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target+"/gone", http.StatusMovedPermanently)
	}))
	defer srv.Close()

	trace := NewRedirectTracer(newTestProber(), DefaultMaxHops).Trace(context.Background(), srv.URL)
	if len(trace.Hops) != 2 {
		t.Fatalf("expected 2 hops, got %+v", trace.Hops)
	}
	if trace.Hops[0].Status != http.StatusMovedPermanently {
		t.Fatalf("expected first hop 301, got %d", trace.Hops[0].Status)
	}
	if trace.Hops[1].Status != 0 || trace.Hops[1].URL != target+"/gone" {
		t.Fatalf("unexpected terminal hop %+v", trace.Hops[1])
	}
}

func TestTraceSendsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.UserAgent()
	}))
	defer srv.Close()

	NewRedirectTracer(newTestProber(), DefaultMaxHops).Trace(context.Background(), srv.URL)
	if got != testUserAgent {
		t.Fatalf("expected user agent %q, got %q", testUserAgent, got)
	}
}
