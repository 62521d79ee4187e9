package sitesnap

import "context"

// Preflight is the outcome of a HEAD request issued before a GET.
// Servers that reject or mishandle HEAD yield Allowed=true with an empty
// content type; the preflight fails open rather than dropping the URL.
type Preflight struct {
	Allowed       bool
	ContentType   string
	ContentLength int64 // -1 when the server declared no length
	FinalURL      string
}

// Page is the body of a successfully fetched URL.
type Page struct {
	HTML     string
	FinalURL string // post-redirect URL
	Bytes    int
}

// PageRecord describes one saved page. Created exactly once per save and
// immutable afterwards.
type PageRecord struct {
	URL                string
	File               string
	ContentLength      int64 // -1 when unknown
	ClientRenderedHint bool
}

// Result is the outcome of a crawl.
type Result struct {
	ID      string // unique run identifier
	Saved   int
	Skipped int
	Failed  int
	Records []PageRecord
}

// Fetcher performs the two-phase HTTP access for a crawl URL.
type Fetcher interface {
	// Preflight issues a HEAD request to learn type and size before
	// committing to a GET. It never fails the URL on transport errors.
	Preflight(ctx context.Context, url string) Preflight

	// Fetch issues the GET. A nil page with nil error means the response
	// was rejected by policy (disallowed type or oversized body); a non-nil
	// error means the request itself failed.
	Fetch(ctx context.Context, url string) (*Page, error)
}

// PageStore persists raw HTML within an output root.
type PageStore interface {
	// Save writes the page body and returns the path written.
	// A derived path escaping the output root returns EUNSAFE.
	Save(ctx context.Context, url string, html string) (string, error)
}

// ManifestWriter serializes the crawl's records.
type ManifestWriter interface {
	// Write emits one row per record and returns the number of rows written.
	Write(ctx context.Context, records []PageRecord) (int, error)
}
