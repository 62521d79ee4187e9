package sitesnap

import "context"

// URLFrontier manages the crawl queue with deduplication.
type URLFrontier interface {
	// Push adds a URL to the frontier. The seen check and the insert are a
	// single atomic operation so two workers can never both claim a URL.
	// Returns false if the URL has already been seen.
	Push(url string) bool

	// Pop returns the next URL in FIFO order.
	// Returns false if the frontier is empty.
	Pop() (string, bool)

	// Len returns the number of URLs awaiting a fetch attempt.
	Len() int

	// Seen returns true if the URL has been queued or processed.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
