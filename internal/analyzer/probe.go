package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

const maxBodyBytes = 5 << 20

// ProberConfig configures the shared HTTP probe.
type ProberConfig struct {
	UserAgent string
	Timeout   time.Duration
	// Transport overrides the default transport, mainly for tests.
	Transport http.RoundTripper
}

// Prober issues single HTTP requests on behalf of every analyzer. It keeps
// two clients: one that follows redirects and one that stops at the first
// response so redirect chains can be traced hop by hop.
type Prober struct {
	follow    *http.Client
	manual    *http.Client
	userAgent string
}

// ProbeOptions selects per-call behavior.
type ProbeOptions struct {
	FollowRedirects bool
	ReadBody        bool
	// Timeout bounds this call on top of the client timeout.
	Timeout time.Duration
}

// ProbeResult is what a single request produced. On network failure Status
// is 0 and Err is set.
type ProbeResult struct {
	URL    string
	Status int
	Header http.Header
	Body   string
	Err    error
}

func NewProber(cfg ProberConfig) *Prober {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	tr := cfg.Transport
	if tr == nil {
		tr = http.DefaultTransport
	}
	return &Prober{
		follow: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: tr,
		},
		manual: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: tr,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: cfg.UserAgent,
	}
}

// Probe sends one request and never returns an error: failures are carried
// in the result.
func (p *Prober) Probe(ctx context.Context, method, rawURL string, opts ProbeOptions) ProbeResult {
	res := ProbeResult{URL: rawURL}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		res.Err = err
		return res
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	client := p.manual
	if opts.FollowRedirects {
		client = p.follow
	}

	resp, err := client.Do(req)
	if err != nil {
		res.Err = unwrapURLError(err)
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	res.Header = resp.Header
	if resp.Request != nil && resp.Request.URL != nil {
		res.URL = resp.Request.URL.String()
	}

	if !opts.ReadBody {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return res
	}

	body, err := readBody(resp)
	if err != nil {
		res.Err = fmt.Errorf("read body: %w", err)
		return res
	}
	res.Body = body
	return res
}

func readBody(resp *http.Response) (string, error) {
	limited := io.LimitReader(resp.Body, maxBodyBytes)
	reader, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if err != nil {
		reader = limited
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unwrapURLError drops the "Get \"url\":" prefix the client adds.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// NormalizeHeaders lowercases header names and joins repeated values.
func NormalizeHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		out[strings.ToLower(k)] = strings.Join(vs, ", ")
	}
	return out
}

// isOK is the single-link rule: redirects that were not followed still count.
func isOK(status int) bool {
	return status >= 200 && status < 400
}

// isSuccess is the full-website rule for the main page and crawled links.
func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
