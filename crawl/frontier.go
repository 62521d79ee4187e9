package crawl

import (
	"strings"
	"sync"

	"github.com/jkowalik/sitesnap"
	"github.com/jkowalik/sitesnap/bloom"
)

// Compile-time interface verification.
var _ sitesnap.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO crawl queue with Bloom filter
// deduplication. It is safe for concurrent use by multiple workers; the
// seen check and the insert happen under one lock so a URL is accepted at
// most once.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Seen
	queue []string
}

// NewFrontier creates a Frontier sized for n expected URLs with the given
// false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{seen: bloom.NewSeen(n, fpRate)}
}

// Push adds a URL to the frontier.
// Returns false if the URL has already been seen. URL fragments are
// stripped before deduplication - URLs differing only by fragment are
// considered duplicates.
func (f *Frontier) Push(url string) bool {
	url = stripFragment(url)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.Contains(url) {
		return false
	}
	f.seen.Add(url)
	f.queue = append(f.queue, url)
	return true
}

// Pop returns the next URL in FIFO order.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue = f.queue[1:]
	return url, true
}

// Len returns the number of URLs awaiting a fetch attempt.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been queued or processed.
// URL fragments are stripped before checking.
func (f *Frontier) Seen(rawURL string) bool {
	url := stripFragment(rawURL)

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Contains(url)
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}
