package analyzer

import (
	"net/http/httptest"
	"testing"
	"time"
)

const testUserAgent = "seo-scanner-test/1.0"

func newTestProber() *Prober {
	return NewProber(ProberConfig{UserAgent: testUserAgent, Timeout: 5 * time.Second})
}

// deadURL returns the URL of a server that is no longer listening.
func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(nil)
	u := srv.URL
	srv.Close()
	return u
}
