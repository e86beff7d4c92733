package mock

import (
	"context"

	"github.com/mfurman/provdir"
)

// Compile-time interface verification.
var (
	_ provdir.ProviderWriter  = (*ProviderWriter)(nil)
	_ provdir.ProviderService = (*ProviderService)(nil)
)

// ProviderWriter is a mock implementation of provdir.ProviderWriter.
type ProviderWriter struct {
	UpsertProviderFn func(ctx context.Context, p *provdir.Provider) error
}

func (w *ProviderWriter) UpsertProvider(ctx context.Context, p *provdir.Provider) error {
	return w.UpsertProviderFn(ctx, p)
}

// ProviderService is a mock implementation of provdir.ProviderService.
type ProviderService struct {
	UpsertProviderFn     func(ctx context.Context, p *provdir.Provider) error
	FindProviderByNameFn func(ctx context.Context, name string) (*provdir.Provider, error)
	FindProvidersFn      func(ctx context.Context, filter provdir.ProviderFilter) ([]*provdir.Provider, error)
}

func (s *ProviderService) UpsertProvider(ctx context.Context, p *provdir.Provider) error {
	return s.UpsertProviderFn(ctx, p)
}

func (s *ProviderService) FindProviderByName(ctx context.Context, name string) (*provdir.Provider, error) {
	return s.FindProviderByNameFn(ctx, name)
}

func (s *ProviderService) FindProviders(ctx context.Context, filter provdir.ProviderFilter) ([]*provdir.Provider, error) {
	return s.FindProvidersFn(ctx, filter)
}
