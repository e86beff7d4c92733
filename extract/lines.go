package extract

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/mfurman/provdir"
)

var numberedPrefixRE = regexp.MustCompile(`^\d+[.)]\s+\w`)

// ParseStructuredText recovers a two-level structure from a container's
// flattened text when no header elements were found. A line is a category
// header if it has a numbered-list prefix, ends with a colon, is a short
// line with leading capitalization, or has every word capitalized. Lines
// following a header accumulate as its items until the next header.
func ParseStructuredText(text string) []provdir.Category {
	var categories []provdir.Category
	current := -1

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if isHeaderLine(line) {
			title := strings.TrimRight(line, ":")
			categories = append(categories, provdir.Category{Title: strings.TrimSpace(title)})
			current = len(categories) - 1
		} else if current >= 0 {
			categories[current].Items = append(categories[current].Items, line)
		}
	}
	return categories
}

// isHeaderLine classifies a line as a category header by structural
// shape alone.
func isHeaderLine(line string) bool {
	if numberedPrefixRE.MatchString(line) {
		return true
	}
	if strings.HasSuffix(line, ":") {
		return true
	}
	words := strings.Fields(line)
	if len(words) < 5 && startsUpper(line) {
		return true
	}
	return allWordsCapitalized(words)
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func allWordsCapitalized(words []string) bool {
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !startsUpper(w) {
			return false
		}
	}
	return true
}

// flatSelectors are tried in order when no structure is recoverable at
// all; the first selector yielding any non-trivial text wins.
var flatSelectors = []string{
	`li`,
	`.list-item`,
	`p`,
	`div[class*="program"]`,
	`div[class*="item"]`,
	`.card`,
	`span`,
}

// ScrapeFlat degrades to flat selector-based scraping of the container,
// producing an uncategorized item list.
func ScrapeFlat(ctx context.Context, view provdir.DocumentView, container provdir.Element, filter *Filter) []string {
	for _, sel := range flatSelectors {
		if ctx.Err() != nil {
			return nil
		}
		els, err := view.FindAllIn(ctx, container, sel)
		if err != nil || len(els) == 0 {
			continue
		}
		var raw []string
		for _, el := range els {
			text, err := view.Text(ctx, el)
			if err != nil {
				continue
			}
			if t := strings.TrimSpace(text); len(t) > 1 {
				raw = append(raw, t)
			}
		}
		if items := filter.Clean(raw, ""); len(items) > 0 {
			return items
		}
	}
	return nil
}
