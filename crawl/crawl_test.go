package crawl_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jkowalik/sitesnap"
	"github.com/jkowalik/sitesnap/crawl"
	"github.com/jkowalik/sitesnap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSite wires a Crawler against in-memory mocks. Fetched pages carry
// their own URL as the HTML body so the link extractor can key on it.
type testSite struct {
	mu      sync.Mutex
	links   map[string][]string // url -> outbound hrefs
	fetched []string            // GET order
	saved   []sitesnap.PageRecord
	seeds   []string

	crawler *crawl.Crawler
}

func newTestSite(cfg sitesnap.Config) *testSite {
	s := &testSite{links: make(map[string][]string)}

	s.crawler = &crawl.Crawler{
		Config: cfg,
		Sitemaps: &mock.SitemapService{
			DiscoverSeedsFn: func(ctx context.Context, rootURL string) ([]string, error) {
				return s.seeds, nil
			},
		},
		Robots: &mock.RobotsGate{
			AllowedFn: func(ctx context.Context, url string) bool { return true },
		},
		Fetcher: &mock.Fetcher{
			PreflightFn: func(ctx context.Context, url string) sitesnap.Preflight {
				return sitesnap.Preflight{Allowed: true, ContentType: "text/html", ContentLength: -1, FinalURL: url}
			},
			FetchFn: func(ctx context.Context, url string) (*sitesnap.Page, error) {
				s.mu.Lock()
				s.fetched = append(s.fetched, url)
				s.mu.Unlock()
				return &sitesnap.Page{HTML: url, FinalURL: url, Bytes: len(url)}, nil
			},
		},
		Links: &mock.LinkExtractor{
			ExtractHrefsFn: func(html string) ([]string, error) {
				s.mu.Lock()
				defer s.mu.Unlock()
				return s.links[html], nil
			},
		},
		Store: &mock.PageStore{
			SaveFn: func(ctx context.Context, url string, html string) (string, error) {
				return "pages/" + strings.ReplaceAll(url, "/", "_") + ".html", nil
			},
		},
		Manifest: &mock.ManifestWriter{
			WriteFn: func(ctx context.Context, records []sitesnap.PageRecord) (int, error) {
				s.mu.Lock()
				s.saved = append([]sitesnap.PageRecord(nil), records...)
				s.mu.Unlock()
				return len(records), nil
			},
		},
	}
	return s
}

func (s *testSite) fetchCount(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, u := range s.fetched {
		if u == url {
			n++
		}
	}
	return n
}

func testConfig() sitesnap.Config {
	cfg := sitesnap.DefaultConfig()
	cfg.Concurrency = 4
	cfg.RequestsPerSecond = 0
	return cfg
}

func TestCrawler_sitemap_seeds_capped_at_max_pages(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.MaxPages = 3

	s := newTestSite(cfg)
	s.seeds = []string{
		"https://example.com/1",
		"https://example.com/2",
		"https://example.com/3",
		"https://example.com/4",
		"https://example.com/5",
	}

	result, err := s.crawler.Run(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, 3, result.Saved)
	assert.Len(t, result.Records, 3)
	assert.NotEmpty(t, result.ID)
	for _, rec := range result.Records {
		assert.True(t, strings.HasPrefix(rec.URL, "https://example.com/"), "record %q off-domain", rec.URL)
		assert.NotEmpty(t, rec.File)
	}
}

func TestCrawler_falls_back_to_start_URL_without_seeds(t *testing.T) {
	t.Parallel()

	s := newTestSite(testConfig())

	result, err := s.crawler.Run(context.Background(), "https://example.com/home")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, "https://example.com/home", result.Records[0].URL)
}

func TestCrawler_follows_links_within_registrable_domain(t *testing.T) {
	t.Parallel()

	s := newTestSite(testConfig())
	s.links["https://example.com/home"] = []string{
		"/about",
		"https://blog.example.com/post",
		"https://other.org/elsewhere",
	}

	result, err := s.crawler.Run(context.Background(), "https://example.com/home")

	require.NoError(t, err)
	assert.Equal(t, 3, result.Saved, "start page, /about, and the subdomain post")
	assert.Equal(t, 0, s.fetchCount("https://other.org/elsewhere"))
}

func TestCrawler_deduplicates_normalized_links(t *testing.T) {
	t.Parallel()

	s := newTestSite(testConfig())
	s.links["https://example.com/home"] = []string{
		"/a",
		"/a#section",
		"/a?utm_source=news",
	}

	result, err := s.crawler.Run(context.Background(), "https://example.com/home")

	require.NoError(t, err)
	assert.Equal(t, 2, result.Saved)
	assert.Equal(t, 1, s.fetchCount("https://example.com/a"), "equivalent hrefs should be fetched once")
}

func TestCrawler_excluded_paths_never_fetched(t *testing.T) {
	t.Parallel()

	s := newTestSite(testConfig())
	s.links["https://example.com/home"] = []string{"/login", "/admin/settings", "/blog"}

	result, err := s.crawler.Run(context.Background(), "https://example.com/home")

	require.NoError(t, err)
	assert.Equal(t, 2, result.Saved)
	assert.Equal(t, 0, s.fetchCount("https://example.com/login"))
	assert.Equal(t, 0, s.fetchCount("https://example.com/admin/settings"))
	for _, rec := range result.Records {
		assert.NotContains(t, rec.URL, "/login")
		assert.NotContains(t, rec.URL, "/admin")
	}
}

func TestCrawler_robots_denied_paths_never_fetched(t *testing.T) {
	t.Parallel()

	s := newTestSite(testConfig())
	s.links["https://example.com/home"] = []string{"/private/page", "/public"}
	s.crawler.Robots = &mock.RobotsGate{
		AllowedFn: func(ctx context.Context, url string) bool {
			return !strings.Contains(url, "/private")
		},
	}

	result, err := s.crawler.Run(context.Background(), "https://example.com/home")

	require.NoError(t, err)
	assert.Equal(t, 2, result.Saved)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, s.fetchCount("https://example.com/private/page"))
}

func TestCrawler_disallowed_preflight_type_never_triggers_GET(t *testing.T) {
	t.Parallel()

	s := newTestSite(testConfig())
	s.seeds = []string{"https://example.com/doc.pdf", "https://example.com/page"}
	base := s.crawler.Fetcher
	s.crawler.Fetcher = &mock.Fetcher{
		PreflightFn: func(ctx context.Context, url string) sitesnap.Preflight {
			ctype := "text/html"
			if strings.HasSuffix(url, ".pdf") {
				ctype = "application/pdf"
			}
			return sitesnap.Preflight{Allowed: true, ContentType: ctype, ContentLength: -1, FinalURL: url}
		},
		FetchFn: base.Fetch,
	}

	result, err := s.crawler.Run(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, 0, s.fetchCount("https://example.com/doc.pdf"), "pdf preflight must not trigger a GET")
	for _, rec := range result.Records {
		assert.NotContains(t, rec.URL, ".pdf")
	}
}

func TestCrawler_oversized_preflight_skipped(t *testing.T) {
	t.Parallel()

	s := newTestSite(testConfig())
	s.seeds = []string{"https://example.com/big", "https://example.com/small"}
	base := s.crawler.Fetcher
	s.crawler.Fetcher = &mock.Fetcher{
		PreflightFn: func(ctx context.Context, url string) sitesnap.Preflight {
			if strings.HasSuffix(url, "/big") {
				return sitesnap.Preflight{Allowed: false, ContentType: "text/html", ContentLength: 10_000_000, FinalURL: url}
			}
			return base.Preflight(ctx, url)
		},
		FetchFn: base.Fetch,
	}

	result, err := s.crawler.Run(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, 0, s.fetchCount("https://example.com/big"))
}

func TestCrawler_fetch_errors_drop_the_URL(t *testing.T) {
	t.Parallel()

	s := newTestSite(testConfig())
	s.seeds = []string{"https://example.com/broken", "https://example.com/ok"}
	base := s.crawler.Fetcher
	s.crawler.Fetcher = &mock.Fetcher{
		PreflightFn: base.Preflight,
		FetchFn: func(ctx context.Context, url string) (*sitesnap.Page, error) {
			if strings.HasSuffix(url, "/broken") {
				return nil, errors.New("connection refused")
			}
			return base.Fetch(ctx, url)
		},
	}

	result, err := s.crawler.Run(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, 1, result.Failed)
}

func TestCrawler_save_failure_produces_no_record(t *testing.T) {
	t.Parallel()

	s := newTestSite(testConfig())
	s.crawler.Store = &mock.PageStore{
		SaveFn: func(ctx context.Context, url string, html string) (string, error) {
			return "", sitesnap.Errorf(sitesnap.EUNSAFE, "unsafe path traversal: %s", url)
		},
	}

	result, err := s.crawler.Run(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, 0, result.Saved)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, result.Records)
}

func TestCrawler_off_domain_redirect_not_recorded(t *testing.T) {
	t.Parallel()

	s := newTestSite(testConfig())
	s.seeds = []string{"https://example.com/moved", "https://example.com/stays"}
	base := s.crawler.Fetcher
	s.crawler.Fetcher = &mock.Fetcher{
		PreflightFn: base.Preflight,
		FetchFn: func(ctx context.Context, url string) (*sitesnap.Page, error) {
			if strings.HasSuffix(url, "/moved") {
				final := "https://evil.org/landing"
				return &sitesnap.Page{HTML: final, FinalURL: final, Bytes: len(final)}, nil
			}
			return base.Fetch(ctx, url)
		},
	}

	result, err := s.crawler.Run(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, 1, result.Skipped)
	for _, rec := range result.Records {
		assert.True(t, strings.HasPrefix(rec.URL, "https://example.com/"),
			"record %q left the registrable domain via a redirect", rec.URL)
	}
}

func TestCrawler_redirect_to_excluded_path_not_recorded(t *testing.T) {
	t.Parallel()

	s := newTestSite(testConfig())
	s.seeds = []string{"https://example.com/account", "https://example.com/docs"}
	base := s.crawler.Fetcher
	s.crawler.Fetcher = &mock.Fetcher{
		PreflightFn: base.Preflight,
		FetchFn: func(ctx context.Context, url string) (*sitesnap.Page, error) {
			if strings.HasSuffix(url, "/account") {
				final := "https://example.com/login"
				return &sitesnap.Page{HTML: final, FinalURL: final, Bytes: len(final)}, nil
			}
			return base.Fetch(ctx, url)
		},
	}

	result, err := s.crawler.Run(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	for _, rec := range result.Records {
		assert.NotContains(t, rec.URL, "/login")
	}
}

func TestCrawler_invalid_start_URL(t *testing.T) {
	t.Parallel()

	s := newTestSite(testConfig())

	_, err := s.crawler.Run(context.Background(), "mailto:root@example.com")

	require.Error(t, err)
	assert.Equal(t, sitesnap.EINVALID, sitesnap.ErrorCode(err))
}

func TestCrawler_invalid_config(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.MaxPages = 0
	s := newTestSite(cfg)

	_, err := s.crawler.Run(context.Background(), "https://example.com")

	require.Error(t, err)
	assert.Equal(t, sitesnap.EINVALID, sitesnap.ErrorCode(err))
}

func TestCrawler_off_domain_seeds_filtered(t *testing.T) {
	t.Parallel()

	s := newTestSite(testConfig())
	s.seeds = []string{"https://other.org/a", "https://example.com/b"}

	result, err := s.crawler.Run(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, "https://example.com/b", result.Records[0].URL)
}

func TestCrawler_cap_never_overshot_under_concurrency(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.MaxPages = 2
	cfg.Concurrency = 8

	s := newTestSite(cfg)
	s.seeds = []string{
		"https://example.com/1",
		"https://example.com/2",
		"https://example.com/3",
		"https://example.com/4",
		"https://example.com/5",
		"https://example.com/6",
	}

	result, err := s.crawler.Run(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, 2, result.Saved)
	assert.Len(t, result.Records, 2)
}
