package mock

import (
	"context"

	"github.com/mfurman/provdir"
)

var _ provdir.ProgramExtractor = (*Extractor)(nil)

// Extractor is a mock implementation of provdir.ProgramExtractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, view provdir.DocumentView) (*provdir.ProgramListing, error)
}

func (e *Extractor) Extract(ctx context.Context, view provdir.DocumentView) (*provdir.ProgramListing, error) {
	return e.ExtractFn(ctx, view)
}
