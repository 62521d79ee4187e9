package sitesnap

import "context"

// SitemapService discovers seed URLs from a site's declared sitemaps.
type SitemapService interface {
	// DiscoverSeeds finds candidate URLs for the crawl frontier.
	// It reads Sitemap: directives from robots.txt, always also tries the
	// /sitemap.xml convention, and expands sitemap indexes one level deep.
	// Failures for individual candidates are non-fatal; an unreachable or
	// sitemap-less site simply contributes no seeds.
	DiscoverSeeds(ctx context.Context, rootURL string) ([]string, error)
}

// RobotsGate answers whether the crawler may fetch a URL under the
// wildcard user agent.
type RobotsGate interface {
	// Allowed consults the cached robots.txt policy for the URL's host.
	// The gate fails open: if the policy cannot be fetched or parsed,
	// everything is allowed.
	Allowed(ctx context.Context, url string) bool
}

// LinkExtractor pulls outbound anchor hrefs from fetched HTML.
type LinkExtractor interface {
	// ExtractHrefs returns the raw href of every anchor element.
	// The hrefs are not resolved or filtered; callers normalize them
	// against the page's final URL.
	ExtractHrefs(html string) ([]string, error)
}
