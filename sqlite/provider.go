package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/mfurman/provdir"
)

// Compile-time interface verification.
var _ provdir.ProviderService = (*ProviderService)(nil)

// ProviderService implements provdir.ProviderService using SQLite.
type ProviderService struct {
	db *DB
}

// NewProviderService creates a new ProviderService.
func NewProviderService(db *DB) *ProviderService {
	return &ProviderService{db: db}
}

// hashProvider computes xxHash over the scraped fields and returns a hex
// string. The hash deliberately excludes ScrapedAt so a re-crawl that
// finds nothing new produces the same hash.
func hashProvider(p *provdir.Provider) string {
	h := xxhash.Sum64String(strings.Join([]string{
		p.Name, p.Area, p.Website, p.Email, p.Phone, p.Address, p.Programs,
	}, "\x00"))
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, h)
	return hex.EncodeToString(b)
}

// UpsertProvider inserts the provider or replaces the existing record
// with the same name. When the scraped content is unchanged the stored
// row is left alone, preserving its original id and scrape time.
func (s *ProviderService) UpsertProvider(ctx context.Context, p *provdir.Provider) error {
	if err := p.Validate(); err != nil {
		return err
	}

	p.ContentHash = hashProvider(p)
	if p.ScrapedAt.IsZero() {
		p.ScrapedAt = time.Now().UTC()
	}

	existing, err := s.FindProviderByName(ctx, p.Name)
	if err != nil && provdir.ErrorCode(err) != provdir.ENOTFOUND {
		return err
	}
	if existing != nil {
		if existing.ContentHash == p.ContentHash {
			p.ID = existing.ID
			p.ScrapedAt = existing.ScrapedAt
			return nil
		}
		p.ID = existing.ID
		_, err := s.db.ExecContext(ctx, `
			UPDATE providers
			SET area = ?, website = ?, email = ?, phone = ?, address = ?,
				programs = ?, content_hash = ?, scraped_at = ?
			WHERE id = ?
		`, p.Area, p.Website, p.Email, p.Phone, p.Address,
			p.Programs, p.ContentHash, p.ScrapedAt.Format(time.RFC3339), p.ID)
		return err
	}

	p.ID = uuid.New().String()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO providers (id, name, area, website, email, phone, address, programs, content_hash, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Area, p.Website, p.Email, p.Phone, p.Address,
		p.Programs, p.ContentHash, p.ScrapedAt.Format(time.RFC3339))
	return err
}

// FindProviderByName retrieves a provider by its exact name.
func (s *ProviderService) FindProviderByName(ctx context.Context, name string) (*provdir.Provider, error) {
	var p provdir.Provider
	var scrapedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, area, website, email, phone, address, programs, content_hash, scraped_at
		FROM providers
		WHERE name = ?
	`, name).Scan(&p.ID, &p.Name, &p.Area, &p.Website, &p.Email, &p.Phone,
		&p.Address, &p.Programs, &p.ContentHash, &scrapedAt)

	if err == sql.ErrNoRows {
		return nil, provdir.Errorf(provdir.ENOTFOUND, "provider not found")
	}
	if err != nil {
		return nil, err
	}

	p.ScrapedAt, err = parseRFC3339(scrapedAt, "scraped_at")
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindProviders retrieves providers matching the filter, ordered by
// scrape time descending.
func (s *ProviderService) FindProviders(ctx context.Context, filter provdir.ProviderFilter) ([]*provdir.Provider, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, area, website, email, phone, address, programs, content_hash, scraped_at FROM providers WHERE 1=1")

	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}
	if filter.Area != nil {
		query.WriteString(" AND area = ?")
		args = append(args, *filter.Area)
	}

	query.WriteString(" ORDER BY scraped_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []*provdir.Provider
	for rows.Next() {
		var p provdir.Provider
		var scrapedAt string

		if err := rows.Scan(&p.ID, &p.Name, &p.Area, &p.Website, &p.Email, &p.Phone,
			&p.Address, &p.Programs, &p.ContentHash, &scrapedAt); err != nil {
			return nil, err
		}
		p.ScrapedAt, err = parseRFC3339(scrapedAt, "scraped_at")
		if err != nil {
			return nil, err
		}
		providers = append(providers, &p)
	}

	return providers, rows.Err()
}
