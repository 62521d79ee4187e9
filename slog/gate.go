package slog

import (
	"context"
	"log/slog"

	"github.com/jkowalik/sitesnap"
)

// Ensure LoggingGate implements sitesnap.RobotsGate.
var _ sitesnap.RobotsGate = (*LoggingGate)(nil)

// LoggingGate wraps a RobotsGate and logs denied URLs. Allowed URLs are
// the common case and stay quiet.
type LoggingGate struct {
	next   sitesnap.RobotsGate
	logger *slog.Logger
}

// NewLoggingGate creates a new LoggingGate.
func NewLoggingGate(next sitesnap.RobotsGate, logger *slog.Logger) *LoggingGate {
	return &LoggingGate{next: next, logger: logger}
}

// Allowed delegates to the wrapped gate.
func (g *LoggingGate) Allowed(ctx context.Context, url string) bool {
	allowed := g.next.Allowed(ctx, url)
	if !allowed {
		g.logger.Debug("robots denied", "url", url)
	}
	return allowed
}
