package mock

import (
	"context"
	"time"

	"github.com/mfurman/provdir"
)

var _ provdir.DocumentView = (*View)(nil)

// View is a mock implementation of provdir.DocumentView.
//
// Unlike the smaller mocks in this package, unset function fields do not
// panic: lookups report absence, Eval reports EUNAVAILABLE, and waits
// return immediately. The extraction engine probes many capabilities per
// call, and tests usually want to script only a few of them.
type View struct {
	NavigateFn    func(ctx context.Context, url string) error
	WaitIdleFn    func(ctx context.Context, timeout time.Duration) error
	SleepFn       func(ctx context.Context, d time.Duration) error
	FindFn        func(ctx context.Context, selector string) (provdir.Element, error)
	FindAllFn     func(ctx context.Context, selector string) ([]provdir.Element, error)
	FindAllInFn   func(ctx context.Context, container provdir.Element, selector string) ([]provdir.Element, error)
	WaitForFn     func(ctx context.Context, selector string, opts provdir.WaitOptions) (provdir.Element, error)
	WaitForTextFn func(ctx context.Context, selector, text string, opts provdir.WaitOptions) (provdir.Element, error)
	TextFn        func(ctx context.Context, el provdir.Element) (string, error)
	AttributeFn   func(ctx context.Context, el provdir.Element, name string) (string, error)
	VisibleFn     func(ctx context.Context, el provdir.Element) (bool, error)
	ClickFn       func(ctx context.Context, el provdir.Element) error
	EvalFn        func(ctx context.Context, script string, args ...any) (any, error)
	EvalOnFn      func(ctx context.Context, el provdir.Element, script string, args ...any) (any, error)
}

func (v *View) Navigate(ctx context.Context, url string) error {
	if v.NavigateFn == nil {
		return nil
	}
	return v.NavigateFn(ctx, url)
}

func (v *View) WaitIdle(ctx context.Context, timeout time.Duration) error {
	if v.WaitIdleFn == nil {
		return nil
	}
	return v.WaitIdleFn(ctx, timeout)
}

func (v *View) Sleep(ctx context.Context, d time.Duration) error {
	if v.SleepFn == nil {
		return nil
	}
	return v.SleepFn(ctx, d)
}

func (v *View) Find(ctx context.Context, selector string) (provdir.Element, error) {
	if v.FindFn == nil {
		return nil, nil
	}
	return v.FindFn(ctx, selector)
}

func (v *View) FindAll(ctx context.Context, selector string) ([]provdir.Element, error) {
	if v.FindAllFn == nil {
		return nil, nil
	}
	return v.FindAllFn(ctx, selector)
}

func (v *View) FindAllIn(ctx context.Context, container provdir.Element, selector string) ([]provdir.Element, error) {
	if v.FindAllInFn == nil {
		return nil, nil
	}
	return v.FindAllInFn(ctx, container, selector)
}

func (v *View) WaitFor(ctx context.Context, selector string, opts provdir.WaitOptions) (provdir.Element, error) {
	if v.WaitForFn == nil {
		return nil, provdir.Errorf(provdir.ENOTFOUND, "no element for %q", selector)
	}
	return v.WaitForFn(ctx, selector, opts)
}

func (v *View) WaitForText(ctx context.Context, selector, text string, opts provdir.WaitOptions) (provdir.Element, error) {
	if v.WaitForTextFn == nil {
		return nil, provdir.Errorf(provdir.ENOTFOUND, "no element for %q with text %q", selector, text)
	}
	return v.WaitForTextFn(ctx, selector, text, opts)
}

func (v *View) Text(ctx context.Context, el provdir.Element) (string, error) {
	if v.TextFn == nil {
		return "", nil
	}
	return v.TextFn(ctx, el)
}

func (v *View) Attribute(ctx context.Context, el provdir.Element, name string) (string, error) {
	if v.AttributeFn == nil {
		return "", nil
	}
	return v.AttributeFn(ctx, el, name)
}

func (v *View) Visible(ctx context.Context, el provdir.Element) (bool, error) {
	if v.VisibleFn == nil {
		return true, nil
	}
	return v.VisibleFn(ctx, el)
}

func (v *View) Click(ctx context.Context, el provdir.Element) error {
	if v.ClickFn == nil {
		return nil
	}
	return v.ClickFn(ctx, el)
}

func (v *View) Eval(ctx context.Context, script string, args ...any) (any, error) {
	if v.EvalFn == nil {
		return nil, provdir.Errorf(provdir.EUNAVAILABLE, "script evaluation not scripted")
	}
	return v.EvalFn(ctx, script, args...)
}

func (v *View) EvalOn(ctx context.Context, el provdir.Element, script string, args ...any) (any, error) {
	if v.EvalOnFn == nil {
		return nil, provdir.Errorf(provdir.EUNAVAILABLE, "script evaluation not scripted")
	}
	return v.EvalOnFn(ctx, el, script, args...)
}
