// Package extract implements the content-extraction engine: locating a
// named disclosure widget on arbitrary page markup and recovering the
// two-level category → item structure it reveals. Every lookup is a
// heuristic strategy chain; absence at any stage is an expected outcome,
// and the worst result of a full extraction is an empty listing.
package extract

import (
	"context"
	"strings"

	"github.com/mfurman/provdir"
)

// DefaultLabel is the disclosure section harvested from provider detail
// pages.
const DefaultLabel = "Programs Offered"

// Ensure Extractor implements provdir.ProgramExtractor at compile time.
var _ provdir.ProgramExtractor = (*Extractor)(nil)

// Extractor composes the disclosure locator, category discovery, and the
// per-header harvester into a single detail-page extraction.
type Extractor struct {
	// Label is the disclosure section to open. Defaults to DefaultLabel.
	Label string

	Locator   *Locator
	Harvester *Harvester
	Filter    *Filter
}

// New creates an Extractor with default strategy chains over the given
// noise vocabulary.
func New(vocab provdir.Vocabulary) *Extractor {
	filter := NewFilter(vocab)
	return &Extractor{
		Label:     DefaultLabel,
		Locator:   &Locator{},
		Harvester: &Harvester{Filter: filter},
		Filter:    filter,
	}
}

// Extract opens the labeled disclosure on the page the view is currently
// on and recovers its program listing. A page without the disclosure, or
// with one that reveals nothing recognizable, yields an empty listing and
// no error; only context cancellation propagates.
func (e *Extractor) Extract(ctx context.Context, view provdir.DocumentView) (*provdir.ProgramListing, error) {
	listing := &provdir.ProgramListing{}

	label := e.Label
	if label == "" {
		label = DefaultLabel
	}

	container, err := e.Locator.Locate(ctx, view, label)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// Absence of the disclosure is a valid "no data" outcome.
		return listing, nil
	}

	candidates, err := DiscoverCategories(ctx, view, container)
	if err != nil {
		return nil, err
	}

	for _, c := range candidates {
		items, err := e.Harvester.Harvest(ctx, view, c.Element, c.Title)
		if err != nil {
			return nil, err
		}
		listing.AddCategory(provdir.Category{Title: c.Title, Items: items})
	}
	if len(listing.Categories) > 0 {
		return listing, nil
	}

	// No headers at all: parse the container's flattened text by line
	// shape, then degrade to flat selector scraping.
	text, err := view.Text(ctx, container)
	if err == nil && strings.TrimSpace(text) != "" {
		for _, cat := range ParseStructuredText(text) {
			cat.Items = e.Filter.Clean(cat.Items, cat.Title)
			listing.AddCategory(cat)
		}
	}
	if len(listing.Categories) > 0 {
		return listing, nil
	}

	listing.Flat = ScrapeFlat(ctx, view, container, e.Filter)
	return listing, nil
}
