// Package fs provides file-based storage for crawled pages and the crawl
// manifest.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/jkowalik/sitesnap"
)

// Ensure Store implements sitesnap.PageStore at compile time.
var _ sitesnap.PageStore = (*Store)(nil)

// Store writes raw HTML files under a single output root. Filenames are
// derived from a hash of the canonical URL so a page maps to a stable path
// regardless of crawl order.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir, creating the directory if
// needed. A store that cannot acquire its root is the one startup failure
// that aborts the whole crawl.
func NewStore(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute output root.
func (s *Store) Root() string {
	return s.root
}

// Save writes the page body and returns the path written.
func (s *Store) Save(ctx context.Context, url string, html string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.SafePath(FileName(url))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// FileName derives the stored filename for a canonical URL.
func FileName(url string) string {
	return fmt.Sprintf("%016x.html", xxhash.Sum64String(url))
}

// SafePath resolves a filename under the output root and verifies the
// result stays inside it. An escaping path is a logic defect, reported as
// EUNSAFE, never silently written.
func (s *Store) SafePath(parts ...string) (string, error) {
	joined := filepath.Join(append([]string{s.root}, parts...)...)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", err
	}
	if abs != s.root && !strings.HasPrefix(abs, s.root+string(filepath.Separator)) {
		return "", sitesnap.Errorf(sitesnap.EUNSAFE, "unsafe path traversal: %s", joined)
	}
	return abs, nil
}
