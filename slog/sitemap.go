// Package slog provides logging decorators for the crawler's services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/jkowalik/sitesnap"
)

// Ensure LoggingSitemapService implements sitesnap.SitemapService.
var _ sitesnap.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with debug logging.
type LoggingSitemapService struct {
	next   sitesnap.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next sitesnap.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverSeeds delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) DiscoverSeeds(ctx context.Context, rootURL string) (seeds []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap bootstrap",
			"root", rootURL,
			"seeds", len(seeds),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverSeeds(ctx, rootURL)
}
