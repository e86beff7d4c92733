package rod

import (
	"context"
	"regexp"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/mfurman/provdir"
)

// Ensure View implements provdir.DocumentView at compile time.
var _ provdir.DocumentView = (*View)(nil)

// DefaultWait bounds wait-style queries when WaitOptions carries no
// timeout.
const DefaultWait = 10 * time.Second

// View is a browser-backed document view. Each Navigate opens a fresh
// page through the Manager, so one View can walk an entire directory
// while the Manager recycles the browser underneath it.
//
// View is not safe for concurrent use; the extraction engine is strictly
// sequential.
type View struct {
	manager *Manager
	page    *rod.Page
}

// NewView creates a View over the managed browser. No page exists until
// the first Navigate.
func NewView(m *Manager) *View {
	return &View{manager: m}
}

// Navigate opens a fresh page on the URL, closing the previous page and
// invalidating all element handles obtained from it.
func (v *View) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if v.page != nil {
		_ = v.page.Close()
		v.page = nil
	}

	page, err := v.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return provdir.Errorf(provdir.EUNAVAILABLE, "failed to open page: %v", err)
	}

	if err := page.Context(ctx).Navigate(url); err != nil {
		_ = page.Close()
		return provdir.Errorf(provdir.EUNAVAILABLE, "failed to navigate to %s: %v", url, err)
	}
	if err := page.Context(ctx).WaitLoad(); err != nil {
		_ = page.Close()
		return provdir.Errorf(provdir.EUNAVAILABLE, "page load failed for %s: %v", url, err)
	}

	v.page = page
	v.manager.IncrementPageCount()
	return nil
}

// Close releases the current page. The Manager owns the browser itself.
func (v *View) Close() error {
	if v.page == nil {
		return nil
	}
	err := v.page.Close()
	v.page = nil
	return err
}

func (v *View) WaitIdle(ctx context.Context, timeout time.Duration) error {
	page, err := v.currentPage()
	if err != nil {
		return err
	}
	return page.Context(ctx).WaitIdle(timeout)
}

func (v *View) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func (v *View) Find(ctx context.Context, selector string) (provdir.Element, error) {
	page, err := v.currentPage()
	if err != nil {
		return nil, err
	}
	has, el, err := page.Context(ctx).Has(selector)
	if err != nil || !has {
		return nil, ctx.Err()
	}
	return el, nil
}

func (v *View) FindAll(ctx context.Context, selector string) ([]provdir.Element, error) {
	page, err := v.currentPage()
	if err != nil {
		return nil, err
	}
	els, err := page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, ctx.Err()
	}
	var out []provdir.Element
	for _, el := range els {
		out = append(out, el)
	}
	return out, nil
}

func (v *View) FindAllIn(ctx context.Context, container provdir.Element, selector string) ([]provdir.Element, error) {
	el, err := asElement(container)
	if err != nil {
		return nil, err
	}
	els, err := el.Context(ctx).Elements(selector)
	if err != nil {
		return nil, ctx.Err()
	}
	var out []provdir.Element
	for _, child := range els {
		out = append(out, child)
	}
	return out, nil
}

func (v *View) WaitFor(ctx context.Context, selector string, opts provdir.WaitOptions) (provdir.Element, error) {
	page, err := v.currentPage()
	if err != nil {
		return nil, err
	}

	el, err := page.Context(ctx).Timeout(waitTimeout(opts)).Element(selector)
	if err != nil {
		return nil, waitMiss(ctx, selector, err)
	}
	if opts.Visible {
		if err := el.WaitVisible(); err != nil {
			return nil, waitMiss(ctx, selector, err)
		}
	}
	return el, nil
}

func (v *View) WaitForText(ctx context.Context, selector, text string, opts provdir.WaitOptions) (provdir.Element, error) {
	page, err := v.currentPage()
	if err != nil {
		return nil, err
	}

	// ElementR takes a JavaScript regex; the label is matched literally
	// and case-insensitively.
	pattern := "/" + regexp.QuoteMeta(text) + "/i"
	el, err := page.Context(ctx).Timeout(waitTimeout(opts)).ElementR(selector, pattern)
	if err != nil {
		return nil, waitMiss(ctx, selector, err)
	}
	if opts.Visible {
		if err := el.WaitVisible(); err != nil {
			return nil, waitMiss(ctx, selector, err)
		}
	}
	return el, nil
}

func (v *View) Text(ctx context.Context, el provdir.Element) (string, error) {
	e, err := asElement(el)
	if err != nil {
		return "", err
	}
	return e.Context(ctx).Text()
}

func (v *View) Attribute(ctx context.Context, el provdir.Element, name string) (string, error) {
	e, err := asElement(el)
	if err != nil {
		return "", err
	}
	val, err := e.Context(ctx).Attribute(name)
	if err != nil || val == nil {
		return "", nil
	}
	return *val, nil
}

func (v *View) Visible(ctx context.Context, el provdir.Element) (bool, error) {
	e, err := asElement(el)
	if err != nil {
		return false, err
	}
	return e.Context(ctx).Visible()
}

func (v *View) Click(ctx context.Context, el provdir.Element) error {
	e, err := asElement(el)
	if err != nil {
		return err
	}
	return e.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}

func (v *View) Eval(ctx context.Context, script string, args ...any) (any, error) {
	page, err := v.currentPage()
	if err != nil {
		return nil, err
	}
	obj, err := page.Context(ctx).Eval(script, args...)
	if err != nil {
		return nil, provdir.Errorf(provdir.EINTERNAL, "script evaluation failed: %v", err)
	}
	return obj.Value.Val(), nil
}

func (v *View) EvalOn(ctx context.Context, el provdir.Element, script string, args ...any) (any, error) {
	e, err := asElement(el)
	if err != nil {
		return nil, err
	}
	obj, err := e.Context(ctx).Eval(script, args...)
	if err != nil {
		return nil, provdir.Errorf(provdir.EINTERNAL, "script evaluation failed: %v", err)
	}
	return obj.Value.Val(), nil
}

func (v *View) currentPage() (*rod.Page, error) {
	if v.page == nil {
		return nil, provdir.Errorf(provdir.EINVALID, "no page loaded; Navigate first")
	}
	return v.page, nil
}

func asElement(el provdir.Element) (*rod.Element, error) {
	e, ok := el.(*rod.Element)
	if !ok || e == nil {
		return nil, provdir.Errorf(provdir.EINVALID, "element is not a node of this view")
	}
	return e, nil
}

func waitTimeout(opts provdir.WaitOptions) time.Duration {
	if opts.Timeout > 0 {
		return opts.Timeout
	}
	return DefaultWait
}

// waitMiss maps a wait failure to the absence contract: cancellation
// propagates, everything else is ENOTFOUND.
func waitMiss(ctx context.Context, selector string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return provdir.Errorf(provdir.ENOTFOUND, "no element for %q: %v", selector, err)
}
