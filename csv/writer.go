// Package csv persists provider records to a CSV file. The file is
// rewritten through a temp file and an atomic rename on every upsert,
// so an interrupted crawl never leaves a half-written file behind.
package csv

import (
	"context"
	enccsv "encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mfurman/provdir"
)

var _ provdir.ProviderWriter = (*Writer)(nil)

// header is the column layout of the output file.
var header = []string{"name", "area", "website", "email", "phone", "address", "programs", "scraped_at"}

// Writer writes provider records to a CSV file, one row per provider,
// keyed by name. Writing a name that already exists replaces its row in
// place, so re-crawls update records instead of duplicating them.
type Writer struct {
	mu   sync.Mutex
	path string
}

// NewWriter returns a Writer that persists to the given file path. The
// file is created with a header row on the first upsert.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the output file path.
func (w *Writer) Path() string {
	return w.path
}

// UpsertProvider writes the provider as a CSV row, replacing any
// existing row with the same name.
func (w *Writer) UpsertProvider(ctx context.Context, p *provdir.Provider) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.readRows()
	if err != nil {
		return err
	}

	row := providerRow(p)
	replaced := false
	for i, existing := range rows {
		if len(existing) > 0 && existing[0] == p.Name {
			rows[i] = row
			replaced = true
			break
		}
	}
	if !replaced {
		rows = append(rows, row)
	}

	return w.writeRows(rows)
}

// WriteProviders replaces the file contents with the given providers in
// a single pass. Exports use this instead of per-provider upserts to
// avoid rewriting the file once per row.
func (w *Writer) WriteProviders(ctx context.Context, providers []*provdir.Provider) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rows := make([][]string, 0, len(providers))
	for _, p := range providers {
		if err := p.Validate(); err != nil {
			return err
		}
		rows = append(rows, providerRow(p))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeRows(rows)
}

// providerRow formats a provider as a CSV row in header order.
func providerRow(p *provdir.Provider) []string {
	return []string{
		p.Name, p.Area, p.Website, p.Email, p.Phone, p.Address, p.Programs,
		p.ScrapedAt.Format(time.RFC3339),
	}
}

// readRows loads the current data rows, skipping the header. A missing
// file yields no rows.
func (w *Writer) readRows() ([][]string, error) {
	f, err := os.Open(w.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, provdir.Errorf(provdir.EINTERNAL, "failed to open %s: %v", w.path, err)
	}
	defer f.Close()

	r := enccsv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	first := true
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, provdir.Errorf(provdir.EINTERNAL, "failed to read %s: %v", w.path, err)
		}
		if first {
			first = false
			continue
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// writeRows writes the header and all rows to a temp file in the target
// directory, then renames it over the destination.
func (w *Writer) writeRows(rows [][]string) error {
	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".tmp-*")
	if err != nil {
		return provdir.Errorf(provdir.EINTERNAL, "failed to create temp file in %s: %v", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	cw := enccsv.NewWriter(tmp)
	if err := cw.Write(header); err != nil {
		tmp.Close()
		return provdir.Errorf(provdir.EINTERNAL, "failed to write header: %v", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			tmp.Close()
			return provdir.Errorf(provdir.EINTERNAL, "failed to write row: %v", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return provdir.Errorf(provdir.EINTERNAL, "failed to flush csv: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return provdir.Errorf(provdir.EINTERNAL, "failed to close temp file: %v", err)
	}

	// Spreadsheet software holding the file open makes the rename fail
	// transiently, so retry a few times before giving up.
	var renameErr error
	for attempt := 0; attempt < renameAttempts; attempt++ {
		if renameErr = os.Rename(tmpName, w.path); renameErr == nil {
			return nil
		}
		time.Sleep(renameDelay)
	}
	return provdir.Errorf(provdir.EINTERNAL, "failed to replace %s: %v", w.path, renameErr)
}

const (
	renameAttempts = 3
	renameDelay    = 200 * time.Millisecond
)
