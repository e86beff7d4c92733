package extract

import (
	"context"
	"strings"
	"time"

	"github.com/mfurman/provdir"
)

// DefaultHarvestSettle is the wait after clicking a category header.
const DefaultHarvestSettle = 1000 * time.Millisecond

// Harvester extracts the item strings a category header reveals when
// clicked. Each stage is a fallback for the previous one; an empty result
// means the header simply had nothing underneath it.
type Harvester struct {
	Filter *Filter

	// SettleDelay is the wait after clicking a header.
	SettleDelay time.Duration
}

// Harvest clicks the header and collects the items it reveals, in
// document order, cleaned through the noise filter and deduplicated by
// substring containment. Running Harvest again on an unchanged,
// already-expanded container yields the same item set.
func (h *Harvester) Harvest(ctx context.Context, view provdir.DocumentView, header provdir.Element, title string) ([]string, error) {
	settle := h.SettleDelay
	if settle == 0 {
		settle = DefaultHarvestSettle
	}

	// Snapshot visible text before the click so later stages can tell
	// newly revealed content apart from what was already on the page.
	before := visibleTextSet(ctx, view)

	if err := view.Click(ctx, header); err != nil {
		_, _ = view.EvalOn(ctx, header, provdir.ScriptClick)
	}
	if err := view.Sleep(ctx, settle); err != nil {
		return nil, err
	}

	raw := h.fromTarget(ctx, view, header)
	if len(raw) == 0 {
		raw = h.fromRevealedContainers(ctx, view, before, title)
	}
	if len(raw) == 0 {
		raw = h.fromRevealedText(ctx, view, before, title)
	}
	if len(raw) == 0 {
		raw = h.fromSiblings(ctx, view, header, title)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.Filter.Clean(raw, title), nil
}

// fromTarget collects items from the container the header explicitly
// points at via href or a data-target attribute.
func (h *Harvester) fromTarget(ctx context.Context, view provdir.DocumentView, header provdir.Element) []string {
	id := targetID(ctx, view, header)
	if id == "" {
		return nil
	}
	// The target may still be mid-transition; make it visible outright.
	_, _ = view.Eval(ctx, provdir.ScriptForceVisible, id)

	items, err := view.Eval(ctx, provdir.ScriptContainerItems, id)
	if err != nil {
		return nil
	}
	return toStrings(items)
}

// fromRevealedContainers scans the document for list structures or
// expanded panels whose items were not visible before the click. Lists
// are preferred over generic containers; only the first qualifying
// container contributes items.
func (h *Harvester) fromRevealedContainers(ctx context.Context, view provdir.DocumentView, before map[string]struct{}, title string) []string {
	result, err := view.Eval(ctx, provdir.ScriptVisibleContainers)
	if err != nil {
		return nil
	}
	containers := toMaps(result)

	pick := func(wantType string) []string {
		for _, c := range containers {
			if str(c, "type") != wantType {
				continue
			}
			items := h.newItems(toStrings(c["items"]), before, title)
			if len(items) > 0 {
				return items
			}
		}
		return nil
	}

	if items := pick("list"); items != nil {
		return items
	}
	return pick("container")
}

// fromRevealedText takes the broadest snapshot of visible text-bearing
// elements, keeping only what the click revealed, preferring literal list
// items over paragraph blocks.
func (h *Harvester) fromRevealedText(ctx context.Context, view provdir.DocumentView, before map[string]struct{}, title string) []string {
	result, err := view.Eval(ctx, provdir.ScriptVisibleTexts)
	if err != nil {
		return nil
	}

	var listItems, paragraphs []string
	for _, m := range toMaps(result) {
		text := strings.TrimSpace(str(m, "text"))
		if text == "" {
			continue
		}
		if _, existed := before[text]; existed {
			continue
		}
		switch str(m, "tag") {
		case "LI":
			listItems = append(listItems, text)
		case "P":
			paragraphs = append(paragraphs, text)
		}
	}

	if items := h.newItems(listItems, nil, title); len(items) > 0 {
		return items
	}
	return h.newItems(paragraphs, nil, title)
}

// fromSiblings pulls list items from the first list-like DOM sibling
// among the five immediately following the header.
func (h *Harvester) fromSiblings(ctx context.Context, view provdir.DocumentView, header provdir.Element, title string) []string {
	result, err := view.EvalOn(ctx, header, provdir.ScriptSiblingItems)
	if err != nil {
		return nil
	}
	return h.newItems(toStrings(result), nil, title)
}

// newItems keeps candidates that were not in the pre-click snapshot and
// are not a restatement of the category title. Multi-line candidates are
// reduced to their first line before the comparison.
func (h *Harvester) newItems(candidates []string, before map[string]struct{}, title string) []string {
	var items []string
	for _, c := range candidates {
		text := strings.TrimSpace(c)
		if text == "" {
			continue
		}
		if before != nil {
			if _, existed := before[text]; existed {
				continue
			}
		}
		text = strings.TrimSpace(firstLine(text))
		if text == "" || text == title {
			continue
		}
		if h.Filter.SimilarToTitle(text, title) {
			continue
		}
		items = append(items, text)
	}
	return items
}

// visibleTextSet snapshots the trimmed text of every visible element.
func visibleTextSet(ctx context.Context, view provdir.DocumentView) map[string]struct{} {
	set := make(map[string]struct{})
	result, err := view.Eval(ctx, provdir.ScriptVisibleTexts)
	if err != nil {
		return set
	}
	for _, m := range toMaps(result) {
		if text := strings.TrimSpace(str(m, "text")); text != "" {
			set[text] = struct{}{}
		}
	}
	return set
}
