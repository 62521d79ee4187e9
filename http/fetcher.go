// Package http provides the HTTP implementations of the crawler's fetch,
// sitemap, and transport concerns.
package http

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/jkowalik/sitesnap"
)

// Ensure Fetcher implements sitesnap.Fetcher at compile time.
var _ sitesnap.Fetcher = (*Fetcher)(nil)

// Fetcher performs the two-phase page access: a HEAD preflight to learn
// type and size cheaply, then a GET for the body. Redirects are followed
// in both phases and every request carries the configured timeout.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	cfg       sitesnap.Config
}

// NewFetcher creates a Fetcher from the crawl configuration.
// If client is nil, a client with the configured timeout is used.
func NewFetcher(cfg sitesnap.Config, client *http.Client) *Fetcher {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultFetchTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Fetcher{
		client:    client,
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
		cfg:       cfg,
	}
}

// Preflight issues a HEAD request for the URL. It fails open: servers that
// error or don't support HEAD yield an allowed result with unknown type,
// and the GET decides. Only a declared Content-Length above the byte cap
// rejects the URL outright.
func (f *Fetcher) Preflight(ctx context.Context, url string) sitesnap.Preflight {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return sitesnap.Preflight{Allowed: true, ContentLength: -1, FinalURL: url}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return sitesnap.Preflight{Allowed: true, ContentLength: -1, FinalURL: url}
	}
	defer resp.Body.Close()

	pf := sitesnap.Preflight{
		Allowed:       true,
		ContentType:   mediaType(resp.Header.Get("Content-Type")),
		ContentLength: resp.ContentLength,
		FinalURL:      resp.Request.URL.String(),
	}
	if pf.ContentLength > 0 && pf.ContentLength > f.maxBytes {
		pf.Allowed = false
	}
	return pf
}

// Fetch issues the GET for the URL. A nil page with nil error means the
// response was rejected by policy: a Content-Type outside the allowed set,
// or a body exceeding the byte cap by declaration or by actual size.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*sitesnap.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !f.cfg.TypeAllowed(mediaType(resp.Header.Get("Content-Type"))) {
		return nil, nil
	}
	if resp.ContentLength > 0 && resp.ContentLength > f.maxBytes {
		return nil, nil
	}

	// Read one byte past the cap so an undeclared oversized body is
	// detected without buffering it whole.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxBytes {
		return nil, nil
	}

	return &sitesnap.Page{
		HTML:     string(body),
		FinalURL: resp.Request.URL.String(),
		Bytes:    len(body),
	}, nil
}

// mediaType lowercases a Content-Type header and strips its parameters.
func mediaType(header string) string {
	if header == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.SplitN(header, ";", 2)[0]))
	}
	return mt
}

// DefaultFetchTimeout is the client timeout used when the configuration
// does not set one.
const DefaultFetchTimeout = 15 * time.Second
