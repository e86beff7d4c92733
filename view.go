package provdir

import (
	"context"
	"time"
)

// Element is an opaque handle to a node in a live document. A handle is
// only valid while the DocumentView that produced it is on the same page:
// any call to DocumentView.Navigate invalidates all previously returned
// handles, and they must not be reused afterwards.
type Element interface{}

// WaitOptions controls how long a wait-style query blocks and what state
// the element must reach before the wait succeeds.
type WaitOptions struct {
	// Timeout bounds the wait. Zero means the implementation default.
	Timeout time.Duration

	// Visible requires the element to be rendered, not merely attached.
	Visible bool
}

// DocumentView is the abstraction over a live page that the extraction
// engine operates against. Implementations may be backed by a real browser
// (rod/) or by statically parsed HTML (goquery/).
//
// Lookup methods report absence, not failure: Find returns (nil, nil) when
// no element matches, and WaitFor returns an ENOTFOUND error when the
// timeout elapses. Callers treat both as a strategy miss.
type DocumentView interface {
	// Navigate loads the URL. All Elements obtained before the call are
	// invalidated.
	Navigate(ctx context.Context, url string) error

	// WaitIdle blocks until the page has no in-flight network activity,
	// or the timeout elapses.
	WaitIdle(ctx context.Context, timeout time.Duration) error

	// Sleep pauses for the given settle delay, returning early if the
	// context is canceled.
	Sleep(ctx context.Context, d time.Duration) error

	// Find returns the first element matching the selector, or nil if
	// none matches.
	Find(ctx context.Context, selector string) (Element, error)

	// FindAll returns all elements matching the selector.
	FindAll(ctx context.Context, selector string) ([]Element, error)

	// FindAllIn returns all elements matching the selector within the
	// given container element.
	FindAllIn(ctx context.Context, container Element, selector string) ([]Element, error)

	// WaitFor blocks until an element matching the selector is attached
	// (or visible, per opts), returning ENOTFOUND on timeout.
	WaitFor(ctx context.Context, selector string, opts WaitOptions) (Element, error)

	// WaitForText is WaitFor restricted to elements whose visible text
	// contains the given substring.
	WaitForText(ctx context.Context, selector, text string, opts WaitOptions) (Element, error)

	// Text returns the element's trimmed inner text.
	Text(ctx context.Context, el Element) (string, error)

	// Attribute returns the named attribute, or "" when absent.
	Attribute(ctx context.Context, el Element, name string) (string, error)

	// Visible reports whether the element is rendered with nonzero size.
	Visible(ctx context.Context, el Element) (bool, error)

	// Click dispatches a click on the element.
	Click(ctx context.Context, el Element) error

	// Eval runs one of the well-known page scripts (Script* constants)
	// against the whole document and returns its JSON-decoded result.
	// Implementations that cannot execute scripts return EUNAVAILABLE
	// for scripts they do not emulate.
	Eval(ctx context.Context, script string, args ...any) (any, error)

	// EvalOn is Eval with `this` bound to the given element.
	EvalOn(ctx context.Context, el Element, script string, args ...any) (any, error)
}

// Well-known scripts passed to DocumentView.Eval and EvalOn. The engine
// never builds scripts ad hoc; restricting it to this fixed set lets
// non-browser views emulate them structurally. Browser-backed views
// evaluate the JavaScript as-is.
const (
	// ScriptClick dispatches a DOM-level click, bypassing input emulation.
	// Used as the fallback when a standard click fails.
	ScriptClick = `() => this.click()`

	// ScriptForceVisible makes the element with the given id visible when
	// CSS transitions did not reveal it after a toggle click.
	ScriptForceVisible = `(id) => {
		const elem = document.getElementById(id);
		if (elem) {
			elem.classList.add('show');
			elem.style.display = 'block';
			elem.setAttribute('aria-expanded', 'true');
		}
	}`

	// ScriptSiblingPanel reports whether the element (or its parent) is
	// immediately followed by a collapse/content/panel container.
	ScriptSiblingPanel = `() => {
		const isPanel = (el) => el && (
			el.classList.contains('collapse') ||
			el.classList.contains('content') ||
			el.classList.contains('panel'));
		if (isPanel(this.nextElementSibling)) return true;
		const parent = this.parentElement;
		return parent ? isPanel(parent.nextElementSibling) : false;
	}`

	// ScriptContainerItems returns the trimmed text of visible leaf-like
	// descendants of the element with the given id.
	ScriptContainerItems = `(id) => {
		const container = document.getElementById(id);
		if (!container) return [];
		return Array.from(container.querySelectorAll('li, .list-item, p, div, span'))
			.filter(el => el.offsetWidth > 0 && el.offsetHeight > 0)
			.map(el => el.innerText.trim())
			.filter(text => text.length > 0);
	}`

	// ScriptVisibleContainers returns visible list structures and expanded
	// panel containers, lists first, as [{type, items}].
	ScriptVisibleContainers = `() => {
		const containers = [];
		document.querySelectorAll('ul, ol').forEach(list => {
			if (list.offsetWidth > 0 && list.offsetHeight > 0) {
				const items = Array.from(list.querySelectorAll('li'))
					.filter(li => li.offsetWidth > 0 && li.offsetHeight > 0)
					.map(li => li.innerText.trim())
					.filter(text => text.length > 0);
				if (items.length > 0) containers.push({type: 'list', items: items});
			}
		});
		if (containers.length === 0) {
			const panels = document.querySelectorAll(
				'.collapse.show, [aria-expanded="true"] + *, .card-body, .panel-body, .accordion-body');
			panels.forEach(panel => {
				if (panel.offsetWidth === 0 || panel.offsetHeight === 0) return;
				const items = Array.from(panel.querySelectorAll('p, div, span, li'))
					.filter(el => el.offsetWidth > 0 && el.offsetHeight > 0)
					.map(el => el.innerText.trim())
					.filter(text => text.length > 0);
				if (items.length > 0) containers.push({type: 'container', items: items});
			});
		}
		return containers;
	}`

	// ScriptVisibleTexts snapshots every visible text-bearing element as
	// [{text, tag}].
	ScriptVisibleTexts = `() => {
		return Array.from(document.querySelectorAll('*'))
			.filter(el => el.offsetWidth > 0 && el.offsetHeight > 0 && el.innerText && el.innerText.trim())
			.map(el => ({text: el.innerText.trim(), tag: el.tagName}));
	}`

	// ScriptSiblingItems walks up to five siblings following the element
	// and pulls list items (or raw text) from the first list-like one.
	// Stopping at the first keeps one header from swallowing the items of
	// the header after it.
	ScriptSiblingItems = `() => {
		const items = [];
		let sibling = this.nextElementSibling;
		let count = 0;
		while (sibling && count < 5) {
			if (sibling.tagName === 'UL' || sibling.tagName === 'OL' ||
				sibling.querySelector('li') || sibling.classList.contains('list')) {
				const listItems = sibling.querySelectorAll('li');
				if (listItems.length > 0) {
					for (const li of listItems) {
						if (li.innerText.trim()) items.push(li.innerText.trim());
					}
				} else if (sibling.innerText.trim()) {
					items.push(sibling.innerText.trim());
				}
				if (items.length > 0) return items;
			}
			sibling = sibling.nextElementSibling;
			count++;
		}
		return items;
	}`

	// ScriptClickableScan finds clickable-looking elements with visible
	// text and recovers a best-effort selector for each, as
	// [{text, selector, tag, class, index}].
	ScriptClickableScan = `() => {
		const found = [];
		document.querySelectorAll('*').forEach(el => {
			if (!(el.onclick || el.getAttribute('onclick') ||
				el.tagName === 'BUTTON' || el.tagName === 'A' ||
				el.getAttribute('role') === 'button' ||
				el.getAttribute('aria-expanded') !== null ||
				el.getAttribute('data-toggle') === 'collapse' ||
				el.getAttribute('data-bs-toggle') === 'collapse')) {
				return;
			}
			const text = el.innerText ? el.innerText.trim() : '';
			if (text.length <= 1) return;
			const rect = el.getBoundingClientRect();
			if (rect.width <= 0 || rect.height <= 0) return;
			found.push({
				text: text,
				selector: el.id ? '#' + el.id : '',
				tag: el.tagName.toLowerCase(),
				class: el.className && typeof el.className === 'string' ? el.className : '',
				index: Array.from(document.querySelectorAll(el.tagName)).indexOf(el),
			});
		});
		return found;
	}`

	// ScriptCardText returns the inner text of the closest row/card
	// ancestor of the element, used to read listing-card fields.
	ScriptCardText = `() => {
		const card = this.closest('tr') || this.closest('.card') ||
			this.closest('[class*="item"]') || this.closest('div');
		return card ? card.innerText : '';
	}`
)
