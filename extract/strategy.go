package extract

import (
	"context"
	"time"

	"github.com/mfurman/provdir"
)

// Strategy is one probe in a first-match-wins selector chain. A chain is
// ordered from most to least specific so that a generic text-containment
// probe never shadows a semantically meaningful match.
type Strategy struct {
	// Name identifies the strategy in logs.
	Name string

	// Selector is the CSS selector to probe.
	Selector string

	// ByText restricts the match to elements whose visible text contains
	// the label being searched for.
	ByText bool
}

// DefaultLocateStrategies returns the probe chain for finding a named
// disclosure trigger. Bootstrap-style toggle attributes and accordion
// class conventions come first; bare text containment comes last.
func DefaultLocateStrategies() []Strategy {
	return []Strategy{
		{Name: "bs-toggle-role-link", Selector: `a[role="button"][data-bs-toggle="collapse"]`, ByText: true},
		{Name: "role-link", Selector: `a[role="button"]`, ByText: true},
		{Name: "bs-toggle-button", Selector: `button[data-bs-toggle="collapse"]`, ByText: true},
		{Name: "bs-toggle-any", Selector: `[data-bs-toggle="collapse"]`, ByText: true},
		{Name: "legacy-toggle", Selector: `[data-toggle="collapse"]`, ByText: true},
		{Name: "accordion-button", Selector: `button.accordion-button`, ByText: true},
		{Name: "accordion-header", Selector: `.accordion-header`, ByText: true},
		{Name: "card-header", Selector: `.card-header`, ByText: true},
		{Name: "panel-heading", Selector: `.panel-heading`, ByText: true},
		{Name: "anchor", Selector: `a`, ByText: true},
		{Name: "accordion-div", Selector: `div.accordion`, ByText: true},
		{Name: "div", Selector: `div`, ByText: true},
		{Name: "h3", Selector: `h3`, ByText: true},
		{Name: "h4", Selector: `h4`, ByText: true},
		{Name: "h5", Selector: `h5`, ByText: true},
		{Name: "any", Selector: `*`, ByText: true},
	}
}

// probeChain runs the strategies in order against the view, returning the
// first element found. Every miss and every per-strategy error is
// swallowed; a chain only reports absence.
func probeChain(ctx context.Context, view provdir.DocumentView, strategies []Strategy, label string, wait time.Duration) provdir.Element {
	for _, s := range strategies {
		if ctx.Err() != nil {
			return nil
		}
		var (
			el  provdir.Element
			err error
		)
		opts := provdir.WaitOptions{Timeout: wait}
		if s.ByText {
			el, err = view.WaitForText(ctx, s.Selector, label, opts)
		} else {
			el, err = view.WaitFor(ctx, s.Selector, opts)
		}
		if err == nil && el != nil {
			return el
		}
	}
	return nil
}
