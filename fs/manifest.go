package fs

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"

	"github.com/jkowalik/sitesnap"
)

// manifestHeader is the fixed column set downstream consumers rely on.
var manifestHeader = []string{"url", "file", "content_length", "client_rendered_hint"}

// Ensure ManifestWriter implements sitesnap.ManifestWriter at compile time.
var _ sitesnap.ManifestWriter = (*ManifestWriter)(nil)

// ManifestWriter serializes the crawl's records as a CSV table.
type ManifestWriter struct {
	path string
}

// NewManifestWriter creates a writer targeting the given file path.
func NewManifestWriter(path string) *ManifestWriter {
	return &ManifestWriter{path: path}
}

// Path returns the manifest file path.
func (w *ManifestWriter) Path() string {
	return w.path
}

// Write emits the header and one row per record, returning the number of
// data rows written. An unknown content length becomes an empty cell.
func (w *ManifestWriter) Write(ctx context.Context, records []sitesnap.PageRecord) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f, err := os.Create(w.path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(manifestHeader); err != nil {
		return 0, err
	}
	for _, rec := range records {
		length := ""
		if rec.ContentLength >= 0 {
			length = strconv.FormatInt(rec.ContentLength, 10)
		}
		row := []string{
			rec.URL,
			rec.File,
			length,
			strconv.FormatBool(rec.ClientRenderedHint),
		}
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}
	return len(records), nil
}
