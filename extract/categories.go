package extract

import (
	"context"
	"strings"

	"github.com/mfurman/provdir"
)

// Candidate is a category header discovered inside an expanded disclosure
// container. The element handle is transient: it is consumed immediately
// by harvesting and never outlives the page.
type Candidate struct {
	Title   string
	Element provdir.Element
}

// categoryFamilies are the selector families probed, in order, for
// category headers inside a container. Scanning stops at the first
// granularity that yields more than one distinct title.
var categoryFamilies = []string{
	`h3`, `h4`, `h5`, `strong`,
	`.program-title`, `.main-program`,
	`div[class*="header"]`,
	`.accordion-button`, `.card-header`,
	`div[role="button"]`, `a[role="button"]`,
	`.panel-heading`, `.accordion-header`,
	`button[data-toggle="collapse"]`,
	`[class*="accordion"]`,
	`a[data-toggle="tab"]`, `[class*="tab-header"]`,
	`.nav-link`,
	`[data-bs-toggle="collapse"]`, `[data-bs-toggle="tab"]`,
	`.btn-accordion`, `.toggle-trigger`, `.dropdown-toggle`,
}

// DiscoverCategories enumerates candidate category headers inside the
// expanded container. The result preserves document order within each
// family and deduplicates by exact title. An empty result is a normal
// outcome and sends the caller down the structural text fallback.
func DiscoverCategories(ctx context.Context, view provdir.DocumentView, container provdir.Element) ([]Candidate, error) {
	var candidates []Candidate
	seen := make(map[string]struct{})

	for _, family := range categoryFamilies {
		if err := ctx.Err(); err != nil {
			return candidates, err
		}
		els, err := view.FindAllIn(ctx, container, family)
		if err != nil {
			continue
		}
		for _, el := range els {
			text, err := view.Text(ctx, el)
			if err != nil {
				continue
			}
			title := strings.TrimSpace(text)
			if len(title) <= 1 {
				continue
			}
			if _, ok := seen[title]; ok {
				continue
			}
			seen[title] = struct{}{}
			candidates = append(candidates, Candidate{Title: title, Element: el})
		}
		// More than one candidate is the signal that this family matched
		// the right granularity; coarser families would only add noise.
		if len(candidates) > 1 {
			return candidates, nil
		}
	}

	if len(candidates) > 0 {
		return candidates, nil
	}

	return discoverClickables(ctx, view)
}

// discoverClickables is the broad fallback scan: every clickable-looking
// element with non-trivial text, re-acquired as a live handle via a
// recovered selector (id, then tag+class, then tag+positional index).
func discoverClickables(ctx context.Context, view provdir.DocumentView) ([]Candidate, error) {
	result, err := view.Eval(ctx, provdir.ScriptClickableScan)
	if err != nil {
		return nil, nil
	}

	var candidates []Candidate
	seen := make(map[string]struct{})
	for _, m := range toMaps(result) {
		title := strings.TrimSpace(str(m, "text"))
		if len(title) <= 1 {
			continue
		}
		if _, ok := seen[title]; ok {
			continue
		}
		el := reacquire(ctx, view, m)
		if el == nil {
			continue
		}
		seen[title] = struct{}{}
		candidates = append(candidates, Candidate{Title: title, Element: el})
	}
	return candidates, nil
}

// reacquire turns a scan entry back into a live element handle.
func reacquire(ctx context.Context, view provdir.DocumentView, m map[string]any) provdir.Element {
	if sel := str(m, "selector"); sel != "" {
		if el, err := view.Find(ctx, sel); err == nil && el != nil {
			return el
		}
	}

	tag := str(m, "tag")
	if class := str(m, "class"); tag != "" && class != "" {
		sel := tag + "." + strings.Join(strings.Fields(class), ".")
		if el, err := view.Find(ctx, sel); err == nil && el != nil {
			return el
		}
	}

	if tag != "" {
		idx := num(m, "index")
		els, err := view.FindAll(ctx, tag)
		if err == nil && idx >= 0 && idx < len(els) {
			return els[idx]
		}
	}
	return nil
}

// Eval result decoding helpers. Views return JSON-decoded values, so
// collections arrive as []any of map[string]any.

func toMaps(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var maps []map[string]any
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			maps = append(maps, m)
		}
	}
	return maps
}

func toStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func num(m map[string]any, key string) int {
	switch n := m[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return -1
	}
}
