// Package crawl provides crawl orchestration: it seeds the frontier from
// sitemaps, drives a bounded worker pool through policy checks and
// two-phase fetching, and collects the records that become the manifest.
package crawl

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jkowalik/sitesnap"
	"github.com/jkowalik/sitesnap/prometheus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Frontier sizing for the Bloom-filter seen-set.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
)

// ProgressType indicates the type of progress event.
type ProgressType int

// Progress event types emitted during a crawl.
const (
	ProgressSaved ProgressType = iota
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type ProgressType
	URL  string
	Err  error
}

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Crawler orchestrates a bounded same-domain crawl.
type Crawler struct {
	Config   sitesnap.Config
	Sitemaps sitesnap.SitemapService
	Robots   sitesnap.RobotsGate
	Fetcher  sitesnap.Fetcher
	Links    sitesnap.LinkExtractor
	Store    sitesnap.PageStore
	Manifest sitesnap.ManifestWriter

	// Limiter, Metrics and Progress are optional.
	Limiter  sitesnap.DomainLimiter
	Metrics  *prometheus.Metrics
	Progress ProgressFunc
}

// Run crawls from startURL until the frontier is exhausted or the page cap
// is reached, then writes the manifest. The returned Result's Saved count
// equals the number of manifest rows written.
//
// Run fails only on invalid configuration, an unusable start URL, or a
// manifest write error; every other failure mode just reduces the page
// count.
func (c *Crawler) Run(ctx context.Context, startURL string) (*sitesnap.Result, error) {
	if err := c.Config.Validate(); err != nil {
		return nil, err
	}

	start, ok := sitesnap.NormalizeURL(startURL, startURL)
	if !ok {
		return nil, sitesnap.Errorf(sitesnap.EINVALID, "invalid start URL %q", startURL)
	}
	parsed, err := url.Parse(start)
	if err != nil {
		return nil, sitesnap.Errorf(sitesnap.EINVALID, "invalid start URL %q", startURL)
	}
	root := parsed.Scheme + "://" + parsed.Host

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	c.seedFrontier(ctx, frontier, start, root)

	results := &resultSet{max: c.Config.MaxPages}
	gate := semaphore.NewWeighted(int64(c.Config.Concurrency))

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < c.Config.Concurrency; i++ {
		g.Go(func() error {
			c.worker(gctx, start, frontier, results, gate)
			return nil
		})
	}
	_ = g.Wait()

	records := results.collect()
	rows, err := c.Manifest.Write(ctx, records)
	if err != nil {
		return nil, err
	}

	c.emit(ProgressEvent{Type: ProgressFinished})

	return &sitesnap.Result{
		ID:      uuid.NewString(),
		Saved:   rows,
		Skipped: results.skipped,
		Failed:  results.failed,
		Records: records,
	}, nil
}

// seedFrontier fills the frontier from sitemap discovery, falling back to
// the start URL alone. Discovery failure is non-fatal.
func (c *Crawler) seedFrontier(ctx context.Context, frontier *Frontier, start, root string) {
	seeds, err := c.Sitemaps.DiscoverSeeds(ctx, root)
	if err != nil {
		seeds = nil
	}

	for _, seed := range seeds {
		u, ok := sitesnap.NormalizeURL(root, seed)
		if !ok {
			continue
		}
		if !SameSite(start, u) {
			continue
		}
		if c.Config.Excluded(u) {
			continue
		}
		frontier.Push(u)
	}

	if frontier.Len() == 0 {
		frontier.Push(start)
	}
}

// worker repeatedly claims a URL from the frontier and processes it. It
// returns when the frontier is empty or the page cap has been reached.
func (c *Crawler) worker(ctx context.Context, start string, frontier *Frontier, results *resultSet, gate *semaphore.Weighted) {
	for {
		if ctx.Err() != nil {
			return
		}
		if results.full() {
			return
		}
		target, ok := frontier.Pop()
		if !ok {
			return
		}

		if c.Config.Excluded(target) {
			c.skip(results, target, "excluded")
			continue
		}
		if !c.Robots.Allowed(ctx, target) {
			c.skip(results, target, "robots")
			continue
		}

		c.Metrics.IncRequest("head")
		preflight := c.Fetcher.Preflight(ctx, target)
		if !preflight.Allowed {
			c.skip(results, target, "oversize")
			continue
		}
		// A declared disallowed type never triggers a GET. Unknown types
		// pass through; the GET decides.
		if preflight.ContentType != "" && !c.Config.TypeAllowed(preflight.ContentType) {
			c.skip(results, target, "content-type")
			continue
		}

		page, err := c.throttledFetch(ctx, target, gate)
		if err != nil {
			c.fail(results, target, err)
			continue
		}
		if page == nil {
			c.skip(results, target, "content")
			continue
		}

		// A redirect can land anywhere; the final URL has to pass the
		// same scope and exclusion checks as a discovered link.
		if page.FinalURL != target {
			if !SameSite(start, page.FinalURL) {
				c.skip(results, target, "redirect")
				continue
			}
			if c.Config.Excluded(page.FinalURL) {
				c.skip(results, target, "excluded")
				continue
			}
		}

		// Claim a result slot before writing anything so the cap is never
		// overshot and no file exists without a manifest row.
		if !results.tryReserve() {
			return
		}

		path, err := c.Store.Save(ctx, page.FinalURL, page.HTML)
		if err != nil {
			results.release()
			c.fail(results, target, err)
			continue
		}

		hint := false
		if hrefs, err := c.Links.ExtractHrefs(page.HTML); err == nil {
			hint = sitesnap.LooksClientRendered(page.HTML)
			c.enqueueLinks(start, page.FinalURL, hrefs, frontier)
		}

		length := int64(page.Bytes)
		if length == 0 {
			if preflight.ContentLength > 0 {
				length = preflight.ContentLength
			} else {
				length = -1
			}
		}

		results.commit(sitesnap.PageRecord{
			URL:                page.FinalURL,
			File:               path,
			ContentLength:      length,
			ClientRenderedHint: hint,
		})
		c.Metrics.IncSaved()
		c.emit(ProgressEvent{Type: ProgressSaved, URL: page.FinalURL})
	}
}

// throttledFetch performs the GET under the concurrency gate and the
// per-domain limiter. The gate bounds in-flight bodies independently of
// worker-pool scheduling.
func (c *Crawler) throttledFetch(ctx context.Context, target string, gate *semaphore.Weighted) (*sitesnap.Page, error) {
	if c.Limiter != nil {
		if u, err := url.Parse(target); err == nil {
			if err := c.Limiter.Wait(ctx, u.Host); err != nil {
				return nil, err
			}
		}
	}

	if err := gate.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer gate.Release(1)

	c.Metrics.IncRequest("get")
	begin := time.Now()
	page, err := c.Fetcher.Fetch(ctx, target)
	c.Metrics.ObserveDuration(time.Since(begin))
	return page, err
}

// enqueueLinks normalizes discovered hrefs against the page's final URL
// and pushes the ones that stay in scope.
func (c *Crawler) enqueueLinks(start, base string, hrefs []string, frontier *Frontier) {
	for _, href := range hrefs {
		next, ok := sitesnap.NormalizeURL(base, href)
		if !ok {
			continue
		}
		if !SameSite(start, next) {
			continue
		}
		if c.Config.Excluded(next) {
			continue
		}
		frontier.Push(next)
	}
}

func (c *Crawler) skip(results *resultSet, url, reason string) {
	results.addSkipped()
	c.Metrics.IncSkip(reason)
	c.emit(ProgressEvent{Type: ProgressSkipped, URL: url})
}

func (c *Crawler) fail(results *resultSet, url string, err error) {
	results.addFailed()
	c.Metrics.IncError(sitesnap.ErrorCode(err))
	c.emit(ProgressEvent{Type: ProgressFailed, URL: url, Err: err})
}

func (c *Crawler) emit(event ProgressEvent) {
	if c.Progress != nil {
		c.Progress(event)
	}
}

// resultSet accumulates page records under a mutex. Slots are reserved
// before the save and committed after, so |records| never exceeds max.
type resultSet struct {
	mu       sync.Mutex
	max      int
	reserved int
	records  []sitesnap.PageRecord
	skipped  int
	failed   int
}

func (r *resultSet) tryReserve() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reserved >= r.max {
		return false
	}
	r.reserved++
	return true
}

func (r *resultSet) release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reserved--
}

func (r *resultSet) commit(rec sitesnap.PageRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

func (r *resultSet) full() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reserved >= r.max
}

func (r *resultSet) addSkipped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped++
}

func (r *resultSet) addFailed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
}

func (r *resultSet) collect() []sitesnap.PageRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records
}
