package http

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/jkowalik/sitesnap"
)

// Ensure SitemapService implements sitesnap.SitemapService.
var _ sitesnap.SitemapService = (*SitemapService)(nil)

// SitemapService bootstraps the crawl frontier from a site's sitemaps.
type SitemapService struct {
	client    *http.Client
	userAgent string
}

// NewSitemapService creates a SitemapService from the crawl configuration.
// If client is nil, a client with the configured timeout is used.
func NewSitemapService(cfg sitesnap.Config, client *http.Client) *SitemapService {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &SitemapService{client: client, userAgent: cfg.UserAgent}
}

// DiscoverSeeds collects candidate URLs for the frontier. Candidates come
// from Sitemap: directives in robots.txt plus the /sitemap.xml convention.
// Sitemap indexes are expanded exactly one level. Any candidate that fails
// to fetch or parse simply contributes no seeds.
func (s *SitemapService) DiscoverSeeds(ctx context.Context, rootURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(rootURL)
	if err != nil {
		return nil, sitesnap.Errorf(sitesnap.EINVALID, "invalid root URL: %v", err)
	}

	candidates := s.sitemapCandidates(ctx, base)

	var seeds []string
	seenSitemaps := make(map[string]bool)
	seenURLs := make(map[string]bool)

	for _, candidate := range candidates {
		if seenSitemaps[candidate] {
			continue
		}
		seenSitemaps[candidate] = true

		for _, u := range s.collectFromSitemap(ctx, candidate, seenSitemaps) {
			if !seenURLs[u] {
				seenURLs[u] = true
				seeds = append(seeds, u)
			}
		}
	}
	return seeds, nil
}

// sitemapCandidates returns robots-declared sitemaps plus the default
// /sitemap.xml guess.
func (s *SitemapService) sitemapCandidates(ctx context.Context, base *url.URL) []string {
	var candidates []string

	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"})
	if body, _, err := s.fetch(ctx, robotsURL.String()); err == nil {
		scanner := bufio.NewScanner(strings.NewReader(body))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
				if sm := strings.TrimSpace(line[len("sitemap:"):]); sm != "" {
					candidates = append(candidates, sm)
				}
			}
		}
	}

	guess := base.ResolveReference(&url.URL{Path: "/sitemap.xml"})
	candidates = append(candidates, guess.String())
	return candidates
}

// collectFromSitemap parses one sitemap candidate. A sitemapindex is
// expanded one further level; nested indexes are not followed.
func (s *SitemapService) collectFromSitemap(ctx context.Context, sitemapURL string, seenSitemaps map[string]bool) []string {
	body, ctype, err := s.fetch(ctx, sitemapURL)
	if err != nil || !strings.Contains(ctype, "xml") {
		return nil
	}

	root, err := parseXML(body)
	if err != nil {
		return nil
	}

	if root.Tag == "sitemapindex" {
		var urls []string
		for _, sm := range root.SelectElements("sitemap") {
			loc := sm.SelectElement("loc")
			if loc == nil {
				continue
			}
			nested := strings.TrimSpace(loc.Text())
			if nested == "" || seenSitemaps[nested] {
				continue
			}
			seenSitemaps[nested] = true

			nestedBody, nestedType, err := s.fetch(ctx, nested)
			if err != nil || !strings.Contains(nestedType, "xml") {
				continue
			}
			nestedRoot, err := parseXML(nestedBody)
			if err != nil {
				continue
			}
			urls = append(urls, locEntries(nestedRoot)...)
		}
		return urls
	}

	return locEntries(root)
}

// locEntries extracts <url><loc> values from a urlset element.
func locEntries(root *etree.Element) []string {
	var urls []string
	for _, urlEl := range root.SelectElements("url") {
		loc := urlEl.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

func parseXML(body string) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, sitesnap.Errorf(sitesnap.EINVALID, "empty sitemap XML")
	}
	return root, nil
}

// fetch retrieves a URL and returns its body and media type.
func (s *SitemapService) fetch(ctx context.Context, targetURL string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", sitesnap.Errorf(sitesnap.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, targetURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}
	return string(body), mediaType(resp.Header.Get("Content-Type")), nil
}
