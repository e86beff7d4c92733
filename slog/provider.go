package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mfurman/provdir"
)

// Ensure LoggingProviderWriter implements provdir.ProviderWriter.
var _ provdir.ProviderWriter = (*LoggingProviderWriter)(nil)

// LoggingProviderWriter wraps a ProviderWriter with debug logging.
type LoggingProviderWriter struct {
	next   provdir.ProviderWriter
	logger *slog.Logger
}

// NewLoggingProviderWriter creates a new LoggingProviderWriter.
func NewLoggingProviderWriter(next provdir.ProviderWriter, logger *slog.Logger) *LoggingProviderWriter {
	return &LoggingProviderWriter{next: next, logger: logger}
}

// UpsertProvider delegates to the wrapped writer and logs the operation.
func (w *LoggingProviderWriter) UpsertProvider(ctx context.Context, p *provdir.Provider) (err error) {
	defer func(begin time.Time) {
		w.logger.Info("provider upsert",
			"name", p.Name,
			"area", p.Area,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.UpsertProvider(ctx, p)
}
