// Package robotstxt implements the crawl's robots.txt gatekeeper.
package robotstxt

import (
	"context"
	"io"
	"net/http"
	"net/url"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jkowalik/sitesnap"
	"github.com/temoto/robotstxt"
)

// cacheSize bounds the per-host policy cache. A same-domain crawl touches
// a handful of subdomains at most.
const cacheSize = 64

// Ensure Gate implements sitesnap.RobotsGate at compile time.
var _ sitesnap.RobotsGate = (*Gate)(nil)

// Gate answers robots.txt queries for the wildcard user agent. Policies
// are fetched once per host and cached; fetch or parse failures cache a
// nil policy, which permits everything (fail open). When robots checking
// is disabled by configuration, every URL is permitted.
type Gate struct {
	client    *http.Client
	userAgent string
	respect   bool
	cache     *lru.Cache[string, *robotstxt.RobotsData]
}

// NewGate creates a Gate from the crawl configuration.
// If client is nil, a client with the configured timeout is used.
func NewGate(cfg sitesnap.Config, client *http.Client) *Gate {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	cache, _ := lru.New[string, *robotstxt.RobotsData](cacheSize)
	return &Gate{
		client:    client,
		userAgent: cfg.UserAgent,
		respect:   cfg.RespectRobots,
		cache:     cache,
	}
}

// Allowed reports whether the crawler may fetch the URL.
func (g *Gate) Allowed(ctx context.Context, rawURL string) bool {
	if !g.respect {
		return true
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}
	key := u.Scheme + "://" + u.Host

	data, ok := g.cache.Get(key)
	if !ok {
		data = g.load(ctx, key)
		g.cache.Add(key, data)
	}
	if data == nil {
		return true
	}

	return data.TestAgent(u.RequestURI(), "*")
}

// load fetches and parses robots.txt for a scheme://host root.
// Any failure returns nil, which the gate treats as allow-all.
func (g *Gate) load(ctx context.Context, root string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, root+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil
	}
	return data
}
