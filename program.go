package provdir

import (
	"context"
	"strings"
)

// Category is one named group of program items recovered from a detail
// page. Items are trimmed, non-empty, and deduplicated within the
// category by the substring-containment rule.
type Category struct {
	Title string
	Items []string
}

// ProgramListing is the result of extracting program offerings from a
// single detail page. Categories preserve discovery order and have unique
// titles. Flat holds the fallback item list used when no two-level
// structure was recoverable; it is only consulted when Categories is
// empty.
type ProgramListing struct {
	Categories []Category
	Flat       []string
}

// Empty reports whether nothing at all was extracted.
func (l *ProgramListing) Empty() bool {
	return len(l.Categories) == 0 && len(l.Flat) == 0
}

// AddCategory appends a category, ignoring duplicates by exact title.
func (l *ProgramListing) AddCategory(c Category) {
	for _, existing := range l.Categories {
		if existing.Title == c.Title {
			return
		}
	}
	l.Categories = append(l.Categories, c)
}

// Format serializes the listing into the single delimited text field
// stored on the provider record:
//
//	"Category (item1, item2); StandaloneCategory; ..."
//
// Categories without items are emitted as bare titles. An empty listing
// formats as "N/A" so a missing disclosure widget degrades to a valid
// record rather than an error.
func (l *ProgramListing) Format() string {
	if l.Empty() {
		return "N/A"
	}

	var parts []string
	if len(l.Categories) > 0 {
		for _, c := range l.Categories {
			if len(c.Items) > 0 {
				parts = append(parts, c.Title+" ("+strings.Join(c.Items, ", ")+")")
			} else {
				parts = append(parts, c.Title)
			}
		}
	} else {
		parts = append(parts, l.Flat...)
	}
	return strings.Join(parts, "; ")
}

// ProgramExtractor recovers a program listing from the detail page the
// view is currently on. Extraction is best-effort: an empty listing is a
// normal outcome, not an error.
type ProgramExtractor interface {
	Extract(ctx context.Context, view DocumentView) (*ProgramListing, error)
}
