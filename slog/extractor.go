// Package slog provides logging decorators for provdir services using
// the standard library structured logger.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mfurman/provdir"
)

// Ensure LoggingExtractor implements provdir.ProgramExtractor.
var _ provdir.ProgramExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a ProgramExtractor with debug logging.
type LoggingExtractor struct {
	next   provdir.ProgramExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next provdir.ProgramExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(ctx context.Context, view provdir.DocumentView) (listing *provdir.ProgramListing, err error) {
	defer func(begin time.Time) {
		categories, flat := 0, 0
		if listing != nil {
			categories = len(listing.Categories)
			flat = len(listing.Flat)
		}
		e.logger.Info("program extraction",
			"categories", categories,
			"flat", flat,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, view)
}
