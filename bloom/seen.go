// Package bloom provides the probabilistic seen-set backing URL
// deduplication in the crawl frontier.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Seen tracks which canonical URLs the crawl has already accepted.
// False positives are possible (a never-seen URL may be reported seen,
// dropping it from the crawl); false negatives are not, so no URL is ever
// fetched twice.
type Seen struct {
	f *bloom.BloomFilter
}

// NewSeen creates a set sized for n expected URLs with the given false
// positive rate.
func NewSeen(n uint, fpRate float64) *Seen {
	return &Seen{f: bloom.NewWithEstimates(n, fpRate)}
}

// Add marks a URL as seen.
func (s *Seen) Add(url string) {
	s.f.AddString(url)
}

// Contains reports whether the URL might have been seen.
func (s *Seen) Contains(url string) bool {
	return s.f.TestString(url)
}

// ApproxCount returns the approximate number of URLs added.
func (s *Seen) ApproxCount() uint {
	return uint(s.f.ApproximatedSize())
}
