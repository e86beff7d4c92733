package crawl

import (
	"context"
	"strings"

	"github.com/mfurman/provdir"
)

// providerLinkSelectors locate provider name links on a listing page.
// The known directory renders them as anchors with id "lnkName"; the
// fallback catches generic detail links.
var providerLinkSelectors = []string{
	`a#lnkName`,
	`a[href*="details"]`,
	`a[href*="Details"]`,
}

// ListingEntry is one provider row read off a listing page: the name
// link plus whatever area and address text the surrounding card carried.
type ListingEntry struct {
	Name    string
	Href    string
	Area    string
	Address string
}

// ListProviders reads all provider entries from the listing page the
// view is currently on.
func ListProviders(ctx context.Context, view provdir.DocumentView) ([]ListingEntry, error) {
	var links []provdir.Element
	for _, sel := range providerLinkSelectors {
		els, err := view.FindAll(ctx, sel)
		if err == nil && len(els) > 0 {
			links = els
			break
		}
	}

	var entries []ListingEntry
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		name, err := view.Text(ctx, link)
		if err != nil || strings.TrimSpace(name) == "" {
			continue
		}
		entry := ListingEntry{Name: strings.TrimSpace(name)}
		entry.Href, _ = view.Attribute(ctx, link, "href")

		if card, err := view.EvalOn(ctx, link, provdir.ScriptCardText); err == nil {
			if text, ok := card.(string); ok {
				entry.Area, entry.Address = parseCard(entry.Name, text)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseCard recovers the area and address from a listing card's text.
// The area is conventionally the line right after the provider name;
// the address follows a "Location" label.
func parseCard(name, cardText string) (area, address string) {
	var lines []string
	for _, raw := range strings.Split(cardText, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}

	nameIdx := -1
	for i, line := range lines {
		if strings.Contains(strings.ToLower(line), strings.ToLower(name)) {
			nameIdx = i
			break
		}
	}
	if nameIdx >= 0 && nameIdx+1 < len(lines) {
		next := lines[nameIdx+1]
		if !strings.HasPrefix(strings.ToLower(next), "location") && len(next) > 2 {
			area = next
		}
	}

	for i, line := range lines {
		lower := strings.ToLower(line)
		switch {
		case lower == "location" && i+1 < len(lines):
			return area, lines[i+1]
		case strings.HasPrefix(lower, "location:"):
			return area, strings.TrimSpace(line[len("location:"):])
		}
	}
	return area, ""
}
