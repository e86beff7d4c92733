package extract

import (
	"context"
	"strings"
	"time"

	"github.com/mfurman/provdir"
)

// Default timing for disclosure location. Probes are short so one missing
// selector template never stalls the whole search; the settle delay after
// a click covers CSS-driven show/hide animation.
const (
	DefaultProbeWait   = 3 * time.Second
	DefaultSettleDelay = 1500 * time.Millisecond
)

// Locator finds the control that toggles a named disclosure section and
// ensures the section is expanded. Failure to locate is a normal outcome
// on heterogeneous markup and surfaces as ENOTFOUND, never as a raised
// failure.
type Locator struct {
	// Strategies is the probe chain for the trigger element.
	// Nil means DefaultLocateStrategies.
	Strategies []Strategy

	// ProbeWait bounds each individual selector probe.
	ProbeWait time.Duration

	// SettleDelay is the wait after clicking the trigger.
	SettleDelay time.Duration
}

// containerProbes are tried, in order, when the trigger carries no usable
// target-id reference. These are the conventional Bootstrap/ARIA panel
// containers.
var containerProbes = []string{
	`.collapse.show`,
	`.accordion-body`,
	`.card-body`,
	`.panel-body`,
	`.content`,
	`[role="tabpanel"]`,
}

// lastResortProbes match anything that merely looks program-related.
var lastResortProbes = []string{
	`[class*="program"]`,
	`[class*="course"]`,
}

// Locate finds the disclosure trigger labeled with the given text,
// expands it if collapsed, and returns the revealed content container.
// Returns ENOTFOUND only after every strategy in every stage is
// exhausted.
func (l *Locator) Locate(ctx context.Context, view provdir.DocumentView, label string) (provdir.Element, error) {
	strategies := l.Strategies
	if strategies == nil {
		strategies = DefaultLocateStrategies()
	}
	probeWait := l.ProbeWait
	if probeWait == 0 {
		probeWait = DefaultProbeWait
	}
	settle := l.SettleDelay
	if settle == 0 {
		settle = DefaultSettleDelay
	}

	trigger := probeChain(ctx, view, strategies, label, probeWait)
	if trigger == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, provdir.Errorf(provdir.ENOTFOUND, "no disclosure trigger for %q", label)
	}

	// Expand if not already expanded. A failed standard click falls back
	// to a DOM-level scripted click.
	expanded, _ := view.Attribute(ctx, trigger, "aria-expanded")
	if expanded != "true" {
		if err := view.Click(ctx, trigger); err != nil {
			_, _ = view.EvalOn(ctx, trigger, provdir.ScriptClick)
		}
		if err := view.Sleep(ctx, settle); err != nil {
			return nil, err
		}
	}

	// Stage 1: explicit target-id reference.
	if id := targetID(ctx, view, trigger); id != "" {
		container, err := view.WaitFor(ctx, "#"+id, provdir.WaitOptions{Timeout: probeWait})
		if err == nil && container != nil {
			if visible, _ := view.Visible(ctx, container); !visible {
				// The click did not reveal the panel; mutate it visible.
				_, _ = view.Eval(ctx, provdir.ScriptForceVisible, id)
				_ = view.Sleep(ctx, 500*time.Millisecond)
			}
			return container, nil
		}
	}

	// Stage 2: sibling/parent-sibling panel guess, then conventional
	// container class probes.
	if hasPanel, err := view.EvalOn(ctx, trigger, provdir.ScriptSiblingPanel); err == nil && isTrue(hasPanel) {
		for _, sel := range containerProbes {
			container, err := view.WaitFor(ctx, sel, provdir.WaitOptions{Timeout: 2 * time.Second})
			if err == nil && container != nil {
				return container, nil
			}
		}
	}

	// Stage 3: anything that mentions programs or courses.
	for _, sel := range lastResortProbes {
		if container, err := view.Find(ctx, sel); err == nil && container != nil {
			return container, nil
		}
	}
	for _, text := range []string{"Programs", "Courses"} {
		container, err := view.WaitForText(ctx, "div", text, provdir.WaitOptions{Timeout: time.Second})
		if err == nil && container != nil {
			return container, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, provdir.Errorf(provdir.ENOTFOUND, "no content container for %q", label)
}

// targetID reads the trigger's explicit content reference from href,
// data-bs-target, or data-target, accepting only fragment references.
func targetID(ctx context.Context, view provdir.DocumentView, trigger provdir.Element) string {
	for _, attr := range []string{"href", "data-bs-target", "data-target"} {
		v, err := view.Attribute(ctx, trigger, attr)
		if err == nil && strings.HasPrefix(v, "#") && len(v) > 1 {
			return v[1:]
		}
	}
	return ""
}

func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
