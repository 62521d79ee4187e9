// Package mock provides hand-written mocks for the sitesnap domain
// interfaces, used in tests.
package mock

import (
	"context"

	"github.com/jkowalik/sitesnap"
)

var _ sitesnap.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of sitesnap.SitemapService.
type SitemapService struct {
	DiscoverSeedsFn func(ctx context.Context, rootURL string) ([]string, error)
}

func (s *SitemapService) DiscoverSeeds(ctx context.Context, rootURL string) ([]string, error) {
	return s.DiscoverSeedsFn(ctx, rootURL)
}

var _ sitesnap.RobotsGate = (*RobotsGate)(nil)

// RobotsGate is a mock implementation of sitesnap.RobotsGate.
type RobotsGate struct {
	AllowedFn func(ctx context.Context, url string) bool
}

func (g *RobotsGate) Allowed(ctx context.Context, url string) bool {
	return g.AllowedFn(ctx, url)
}

var _ sitesnap.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of sitesnap.Fetcher.
type Fetcher struct {
	PreflightFn func(ctx context.Context, url string) sitesnap.Preflight
	FetchFn     func(ctx context.Context, url string) (*sitesnap.Page, error)
}

func (f *Fetcher) Preflight(ctx context.Context, url string) sitesnap.Preflight {
	return f.PreflightFn(ctx, url)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*sitesnap.Page, error) {
	return f.FetchFn(ctx, url)
}

var _ sitesnap.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of sitesnap.LinkExtractor.
type LinkExtractor struct {
	ExtractHrefsFn func(html string) ([]string, error)
}

func (e *LinkExtractor) ExtractHrefs(html string) ([]string, error) {
	return e.ExtractHrefsFn(html)
}

var _ sitesnap.PageStore = (*PageStore)(nil)

// PageStore is a mock implementation of sitesnap.PageStore.
type PageStore struct {
	SaveFn func(ctx context.Context, url string, html string) (string, error)
}

func (s *PageStore) Save(ctx context.Context, url string, html string) (string, error) {
	return s.SaveFn(ctx, url, html)
}

var _ sitesnap.ManifestWriter = (*ManifestWriter)(nil)

// ManifestWriter is a mock implementation of sitesnap.ManifestWriter.
type ManifestWriter struct {
	WriteFn func(ctx context.Context, records []sitesnap.PageRecord) (int, error)
}

func (w *ManifestWriter) Write(ctx context.Context, records []sitesnap.PageRecord) (int, error) {
	return w.WriteFn(ctx, records)
}

var _ sitesnap.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of sitesnap.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
