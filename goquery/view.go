// Package goquery provides a provdir.DocumentView over statically parsed
// HTML. It serves two roles: a fast, deterministic document for engine
// tests, and a no-browser fallback for directory sites that render
// server-side. Click simulates Bootstrap-style collapse toggling, and the
// well-known engine scripts are emulated structurally instead of being
// executed as JavaScript.
package goquery

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mfurman/provdir"
	"golang.org/x/net/html"
)

// Ensure View implements provdir.DocumentView at compile time.
var _ provdir.DocumentView = (*View)(nil)

// View is a static-HTML document view. It is not safe for concurrent use;
// the engine is strictly sequential by design.
type View struct {
	doc     *goquery.Document
	fetcher provdir.Fetcher
}

// Option configures a View.
type Option func(*View)

// WithFetcher enables Navigate by fetching and re-parsing HTML through
// the given fetcher.
func WithFetcher(f provdir.Fetcher) Option {
	return func(v *View) {
		v.fetcher = f
	}
}

// NewView parses the HTML into a static document view.
func NewView(htmlSrc string, opts ...Option) (*View, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return nil, provdir.Errorf(provdir.EINVALID, "failed to parse HTML: %v", err)
	}
	v := &View{doc: doc}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Navigate fetches the URL and replaces the parsed document, invalidating
// all previously returned element handles. Requires WithFetcher.
func (v *View) Navigate(ctx context.Context, url string) error {
	if v.fetcher == nil {
		return provdir.Errorf(provdir.EUNAVAILABLE, "view has no fetcher; cannot navigate")
	}
	htmlSrc, err := v.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return provdir.Errorf(provdir.EINVALID, "failed to parse HTML from %s: %v", url, err)
	}
	v.doc = doc
	return nil
}

// WaitIdle is a no-op: a static document has no network activity.
func (v *View) WaitIdle(ctx context.Context, timeout time.Duration) error {
	return ctx.Err()
}

// Sleep is a no-op: nothing animates in a static document. Tests against
// this view therefore run at full speed.
func (v *View) Sleep(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

func (v *View) Find(ctx context.Context, selector string) (provdir.Element, error) {
	sel := v.doc.Find(selector)
	if sel.Length() == 0 {
		return nil, nil
	}
	return sel.Eq(0), nil
}

func (v *View) FindAll(ctx context.Context, selector string) ([]provdir.Element, error) {
	return splitSelection(v.doc.Find(selector)), nil
}

func (v *View) FindAllIn(ctx context.Context, container provdir.Element, selector string) ([]provdir.Element, error) {
	sel, err := asSelection(container)
	if err != nil {
		return nil, err
	}
	return splitSelection(sel.Find(selector)), nil
}

// WaitFor resolves immediately: the element either exists in the parsed
// tree or it never will.
func (v *View) WaitFor(ctx context.Context, selector string, opts provdir.WaitOptions) (provdir.Element, error) {
	sel := v.doc.Find(selector)
	for i := 0; i < sel.Length(); i++ {
		el := sel.Eq(i)
		if opts.Visible && !isVisible(el.Get(0)) {
			continue
		}
		return el, nil
	}
	return nil, provdir.Errorf(provdir.ENOTFOUND, "no element for %q", selector)
}

func (v *View) WaitForText(ctx context.Context, selector, text string, opts provdir.WaitOptions) (provdir.Element, error) {
	sel := v.doc.Find(selector)
	for i := 0; i < sel.Length(); i++ {
		el := sel.Eq(i)
		if !strings.Contains(innerText(el.Get(0)), text) {
			continue
		}
		if opts.Visible && !isVisible(el.Get(0)) {
			continue
		}
		return el, nil
	}
	return nil, provdir.Errorf(provdir.ENOTFOUND, "no element for %q with text %q", selector, text)
}

func (v *View) Text(ctx context.Context, el provdir.Element) (string, error) {
	sel, err := asSelection(el)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(innerText(sel.Get(0))), nil
}

func (v *View) Attribute(ctx context.Context, el provdir.Element, name string) (string, error) {
	sel, err := asSelection(el)
	if err != nil {
		return "", err
	}
	return sel.AttrOr(name, ""), nil
}

func (v *View) Visible(ctx context.Context, el provdir.Element) (bool, error) {
	sel, err := asSelection(el)
	if err != nil {
		return false, err
	}
	return isVisible(sel.Get(0)), nil
}

// Click simulates a Bootstrap collapse toggle: the element is marked
// expanded and its explicit target, if any, gets the "show" class.
func (v *View) Click(ctx context.Context, el provdir.Element) error {
	sel, err := asSelection(el)
	if err != nil {
		return err
	}
	return v.simulateClick(sel)
}

func (v *View) simulateClick(sel *goquery.Selection) error {
	setAttr(sel.Get(0), "aria-expanded", "true")
	for _, attr := range []string{"href", "data-bs-target", "data-target"} {
		target := sel.AttrOr(attr, "")
		if strings.HasPrefix(target, "#") && len(target) > 1 {
			panel := v.doc.Find(target)
			if panel.Length() > 0 {
				addClass(panel.Get(0), "show")
			}
			return nil
		}
	}
	return nil
}

func asSelection(el provdir.Element) (*goquery.Selection, error) {
	sel, ok := el.(*goquery.Selection)
	if !ok || sel.Length() == 0 {
		return nil, provdir.Errorf(provdir.EINVALID, "element is not a node of this view")
	}
	return sel, nil
}

func splitSelection(sel *goquery.Selection) []provdir.Element {
	var els []provdir.Element
	for i := 0; i < sel.Length(); i++ {
		els = append(els, sel.Eq(i))
	}
	return els
}

// setAttr sets or replaces an attribute on the underlying node.
func setAttr(n *html.Node, key, val string) {
	if n == nil {
		return
	}
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func getAttr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func addClass(n *html.Node, class string) {
	classes := strings.Fields(getAttr(n, "class"))
	for _, c := range classes {
		if c == class {
			return
		}
	}
	setAttr(n, "class", strings.Join(append(classes, class), " "))
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// isVisible approximates rendered visibility: a node is hidden if it or
// any ancestor carries display:none, the hidden attribute, aria-hidden,
// a d-none utility class, or an unexpanded collapse class.
func isVisible(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if getAttr(cur, "hidden") != "" || getAttr(cur, "aria-hidden") == "true" {
			return false
		}
		style := strings.ReplaceAll(getAttr(cur, "style"), " ", "")
		if strings.Contains(style, "display:none") {
			return false
		}
		if hasClass(cur, "d-none") {
			return false
		}
		if hasClass(cur, "collapse") && !hasClass(cur, "show") {
			return false
		}
	}
	return true
}

// blockTags delimit lines when flattening a subtree to text, mirroring
// how innerText inserts breaks between block-level elements.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "div": true, "dl": true, "dt": true, "dd": true,
	"fieldset": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "tr": true, "ul": true,
}

// innerText flattens a subtree to text with newlines between block-level
// elements, so line-based structural parsing sees one entry per line.
// The word separator leaves a trailing space on each line; strip it so
// substring matches over flattened text see clean line ends.
func innerText(n *html.Node) string {
	var b strings.Builder
	writeText(&b, n)
	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n \t")
}

func writeText(b *strings.Builder, n *html.Node) {
	if n == nil {
		return
	}
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			b.WriteString(t)
			b.WriteString(" ")
		}
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}
	block := n.Type == html.ElementNode && blockTags[n.Data]
	if block {
		b.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteString("\n")
	}
}
