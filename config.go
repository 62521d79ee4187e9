package sitesnap

import (
	"regexp"
	"time"
)

// Crawl defaults, matching the behavior the crawler was tuned for.
const (
	DefaultMaxPages    = 50
	DefaultConcurrency = 20
	DefaultTimeout     = 15 * time.Second
	DefaultMaxBytes    = 2_000_000
	DefaultUserAgent   = "sitesnap/0.1"
)

// DefaultExcludePattern rejects known non-content paths (admin, auth,
// carts, search queries, session trackers) before any network call.
const DefaultExcludePattern = `/(admin|auth|login|logout|cart|user-api-key|search\?|tag/|session|my/)`

// Config holds the immutable parameters for a single crawl. It is built
// once at crawl start and passed explicitly into every component.
type Config struct {
	// MaxPages caps the number of pages saved during the crawl.
	MaxPages int

	// Concurrency bounds the number of in-flight GET requests. The worker
	// pool is sized to the same value, but the GET gate is enforced
	// separately from pool scheduling.
	Concurrency int

	// Timeout is the per-request deadline for every HTTP call.
	Timeout time.Duration

	// MaxBytes rejects responses whose declared or actual size exceeds it.
	MaxBytes int64

	// AllowedTypes lists the Content-Type values accepted for saving.
	AllowedTypes []string

	// RespectRobots enables robots.txt checking. When false every URL is
	// permitted.
	RespectRobots bool

	// Exclude rejects URLs matching the pattern. Nil disables exclusion.
	Exclude *regexp.Regexp

	// UserAgent is sent on every outbound request.
	UserAgent string

	// RequestsPerSecond limits GET throughput per domain. Zero or negative
	// disables the limiter.
	RequestsPerSecond float64
}

// DefaultConfig returns a Config with the standard crawl parameters.
func DefaultConfig() Config {
	return Config{
		MaxPages:          DefaultMaxPages,
		Concurrency:       DefaultConcurrency,
		Timeout:           DefaultTimeout,
		MaxBytes:          DefaultMaxBytes,
		AllowedTypes:      []string{"text/html"},
		RespectRobots:     true,
		Exclude:           regexp.MustCompile(DefaultExcludePattern),
		UserAgent:         DefaultUserAgent,
		RequestsPerSecond: 2,
	}
}

// Validate returns an error if the configuration cannot run a crawl.
func (c Config) Validate() error {
	if c.MaxPages <= 0 {
		return Errorf(EINVALID, "max pages must be positive")
	}
	if c.Concurrency <= 0 {
		return Errorf(EINVALID, "concurrency must be positive")
	}
	if c.Timeout <= 0 {
		return Errorf(EINVALID, "timeout must be positive")
	}
	if c.MaxBytes <= 0 {
		return Errorf(EINVALID, "max bytes must be positive")
	}
	if len(c.AllowedTypes) == 0 {
		return Errorf(EINVALID, "at least one allowed content type required")
	}
	return nil
}

// TypeAllowed reports whether a Content-Type value (already lowercased and
// stripped of parameters) is acceptable for saving.
func (c Config) TypeAllowed(ctype string) bool {
	for _, t := range c.AllowedTypes {
		if t == ctype {
			return true
		}
	}
	return false
}

// Excluded reports whether a URL matches the exclusion pattern.
func (c Config) Excluded(url string) bool {
	return c.Exclude != nil && c.Exclude.MatchString(url)
}
