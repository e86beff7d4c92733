package crawl

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mfurman/provdir"
)

// pagerInfoSelectors locate the "1 - 10 of 347 items" style pager label.
// The Kendo grid selectors come first because the known directory sites
// use that widget; the rest cover generic pagination markup.
var pagerInfoSelectors = []string{
	`.k-pager-info.k-label`,
	`.pagination-info`,
	`div[class*="pager"]`,
	`div[class*="pagination"]`,
	`.paginator-info`,
	`.page-count`,
	`span[class*="count"]`,
}

var totalItemsRE = regexp.MustCompile(`of (\d+) items`)

// nextButtonSelectors locate the next-page control, most specific first.
var nextButtonSelectors = []string{
	`a.k-link[title="Go to the next page"]`,
	`.k-pager-nav.k-pager-next`,
	`button[aria-label="Next page"]`,
	`[aria-label="next page"]`,
	`a[class*="next"]`,
	`button[class*="next"]`,
	`[class*="next"]`,
}

// TotalItems reads the directory's total record count from the pager
// label. Returns 0 when no pager info is found; the crawl proceeds
// without a known total.
func TotalItems(ctx context.Context, view provdir.DocumentView) int {
	for _, sel := range pagerInfoSelectors {
		el, err := view.Find(ctx, sel)
		if err != nil || el == nil {
			continue
		}
		text, err := view.Text(ctx, el)
		if err != nil {
			continue
		}
		if m := totalItemsRE.FindStringSubmatch(text); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				return n
			}
		}
	}
	return 0
}

// NextPage advances the listing to the next page by clicking the first
// enabled next-page control. Returns false when no such control exists,
// which ends the pagination walk.
func NextPage(ctx context.Context, view provdir.DocumentView, settle time.Duration) (bool, error) {
	for _, sel := range nextButtonSelectors {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		btn, err := view.Find(ctx, sel)
		if err != nil || btn == nil {
			continue
		}
		if !buttonEnabled(ctx, view, btn) {
			continue
		}
		if err := view.Click(ctx, btn); err != nil {
			if _, err := view.EvalOn(ctx, btn, provdir.ScriptClick); err != nil {
				continue
			}
		}
		_ = view.WaitIdle(ctx, 10*time.Second)
		if err := view.Sleep(ctx, settle); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, ctx.Err()
}

// buttonEnabled filters out disabled pager controls, which grids mark
// with a disabled attribute or a disabled class rather than removing
// the element.
func buttonEnabled(ctx context.Context, view provdir.DocumentView, btn provdir.Element) bool {
	if v, err := view.Attribute(ctx, btn, "disabled"); err == nil && v != "" {
		return false
	}
	class, err := view.Attribute(ctx, btn, "class")
	if err != nil {
		return true
	}
	for _, c := range strings.Fields(class) {
		if c == "disabled" || c == "k-state-disabled" {
			return false
		}
	}
	return true
}
