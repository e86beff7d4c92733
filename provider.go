package provdir

import (
	"context"
	"time"
)

// NotAvailable is the placeholder stored for fields that could not be
// extracted from a provider page.
const NotAvailable = "N/A"

// Provider is one training-provider record assembled from the directory
// listing and the provider's detail page.
type Provider struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Area        string    `json:"area"`
	Website     string    `json:"website"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Programs    string    `json:"programs"` // formatted ProgramListing field
	ContentHash string    `json:"contentHash"`
	ScrapedAt   time.Time `json:"scrapedAt"`
}

// Validate returns an error if the provider contains invalid fields.
func (p *Provider) Validate() error {
	if p.Name == "" {
		return Errorf(EINVALID, "provider name required")
	}
	return nil
}

// Normalize fills unset optional fields with the NotAvailable placeholder.
func (p *Provider) Normalize() {
	for _, f := range []*string{&p.Area, &p.Website, &p.Email, &p.Phone, &p.Address, &p.Programs} {
		if *f == "" {
			*f = NotAvailable
		}
	}
}

// ProviderWriter persists provider records. Records are written as soon
// as they are scraped; writing the same name twice replaces the earlier
// record.
type ProviderWriter interface {
	UpsertProvider(ctx context.Context, p *Provider) error
}

// ProviderService represents a queryable provider store.
type ProviderService interface {
	ProviderWriter

	// FindProviderByName retrieves a provider by its exact name.
	// Returns ENOTFOUND if no such provider exists.
	FindProviderByName(ctx context.Context, name string) (*Provider, error)

	// FindProviders retrieves providers matching the filter, ordered by
	// scrape time descending.
	FindProviders(ctx context.Context, filter ProviderFilter) ([]*Provider, error)
}

// ProviderFilter represents a filter for FindProviders.
type ProviderFilter struct {
	Name *string `json:"name"`
	Area *string `json:"area"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
