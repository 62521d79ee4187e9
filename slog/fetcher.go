package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/jkowalik/sitesnap"
)

// Ensure LoggingFetcher implements sitesnap.Fetcher.
var _ sitesnap.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging for both phases.
type LoggingFetcher struct {
	next   sitesnap.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next sitesnap.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Preflight delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Preflight(ctx context.Context, url string) sitesnap.Preflight {
	begin := time.Now()
	pf := f.next.Preflight(ctx, url)
	f.logger.Debug("preflight",
		"url", url,
		"allowed", pf.Allowed,
		"type", pf.ContentType,
		"length", pf.ContentLength,
		"duration", time.Since(begin),
	)
	return pf
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (page *sitesnap.Page, err error) {
	defer func(begin time.Time) {
		saved := page != nil
		f.logger.Debug("fetch",
			"url", url,
			"body", saved,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}
