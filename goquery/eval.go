package goquery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mfurman/provdir"
	"golang.org/x/net/html"
)

// Eval emulates the well-known page scripts structurally. Scripts outside
// the fixed set report EUNAVAILABLE, which the engine treats as a
// strategy miss.
func (v *View) Eval(ctx context.Context, script string, args ...any) (any, error) {
	switch script {
	case provdir.ScriptForceVisible:
		return nil, v.forceVisible(args)
	case provdir.ScriptContainerItems:
		return v.containerItems(args)
	case provdir.ScriptVisibleContainers:
		return v.visibleContainers(), nil
	case provdir.ScriptVisibleTexts:
		return v.visibleTexts(), nil
	case provdir.ScriptClickableScan:
		return v.clickableScan(), nil
	}
	return nil, provdir.Errorf(provdir.EUNAVAILABLE, "script not emulated by static view")
}

// EvalOn emulates the element-scoped scripts.
func (v *View) EvalOn(ctx context.Context, el provdir.Element, script string, args ...any) (any, error) {
	sel, err := asSelection(el)
	if err != nil {
		return nil, err
	}
	switch script {
	case provdir.ScriptClick:
		return nil, v.simulateClick(sel)
	case provdir.ScriptSiblingPanel:
		return siblingPanel(sel.Get(0)), nil
	case provdir.ScriptSiblingItems:
		return siblingItems(sel.Get(0)), nil
	case provdir.ScriptCardText:
		return cardText(sel), nil
	}
	return nil, provdir.Errorf(provdir.EUNAVAILABLE, "script not emulated by static view")
}

func (v *View) forceVisible(args []any) error {
	if len(args) == 0 {
		return provdir.Errorf(provdir.EINVALID, "force-visible requires an element id")
	}
	id, _ := args[0].(string)
	target := v.doc.Find("#" + id)
	if target.Length() == 0 {
		return nil
	}
	n := target.Get(0)
	addClass(n, "show")
	setAttr(n, "aria-expanded", "true")
	return nil
}

func (v *View) containerItems(args []any) (any, error) {
	if len(args) == 0 {
		return nil, provdir.Errorf(provdir.EINVALID, "container-items requires an element id")
	}
	id, _ := args[0].(string)
	container := v.doc.Find("#" + id)
	if container.Length() == 0 {
		return []any{}, nil
	}

	var items []any
	leaves := container.Find("li, .list-item, p, div, span")
	for i := 0; i < leaves.Length(); i++ {
		n := leaves.Get(i)
		if !isVisible(n) {
			continue
		}
		if text := strings.TrimSpace(innerText(n)); text != "" {
			items = append(items, text)
		}
	}
	if items == nil {
		items = []any{}
	}
	return items, nil
}

func (v *View) visibleContainers() any {
	var containers []any

	lists := v.doc.Find("ul, ol")
	for i := 0; i < lists.Length(); i++ {
		list := lists.Eq(i)
		if !isVisible(list.Get(0)) {
			continue
		}
		var items []any
		lis := list.Find("li")
		for j := 0; j < lis.Length(); j++ {
			n := lis.Get(j)
			if !isVisible(n) {
				continue
			}
			if text := strings.TrimSpace(innerText(n)); text != "" {
				items = append(items, text)
			}
		}
		if len(items) > 0 {
			containers = append(containers, map[string]any{"type": "list", "items": items})
		}
	}
	if containers != nil {
		return containers
	}

	panels := v.doc.Find(".collapse.show, .card-body, .panel-body, .accordion-body")
	for i := 0; i < panels.Length(); i++ {
		panel := panels.Eq(i)
		if !isVisible(panel.Get(0)) {
			continue
		}
		var items []any
		leaves := panel.Find("p, div, span, li")
		for j := 0; j < leaves.Length(); j++ {
			n := leaves.Get(j)
			if !isVisible(n) {
				continue
			}
			if text := strings.TrimSpace(innerText(n)); text != "" {
				items = append(items, text)
			}
		}
		if len(items) > 0 {
			containers = append(containers, map[string]any{"type": "container", "items": items})
		}
	}
	if containers == nil {
		containers = []any{}
	}
	return containers
}

func (v *View) visibleTexts() any {
	var out []any
	all := v.doc.Find("*")
	for i := 0; i < all.Length(); i++ {
		n := all.Get(i)
		if !isVisible(n) {
			continue
		}
		text := strings.TrimSpace(innerText(n))
		if text == "" {
			continue
		}
		out = append(out, map[string]any{
			"text": text,
			"tag":  strings.ToUpper(n.Data),
		})
	}
	if out == nil {
		out = []any{}
	}
	return out
}

func (v *View) clickableScan() any {
	var out []any
	all := v.doc.Find("*")
	for i := 0; i < all.Length(); i++ {
		n := all.Get(i)
		if !looksClickable(n) || !isVisible(n) {
			continue
		}
		text := strings.TrimSpace(innerText(n))
		if len(text) <= 1 {
			continue
		}
		selector := ""
		if id := getAttr(n, "id"); id != "" {
			selector = "#" + id
		}
		out = append(out, map[string]any{
			"text":     text,
			"selector": selector,
			"tag":      n.Data,
			"class":    getAttr(n, "class"),
			"index":    tagIndex(v.doc, n),
		})
	}
	if out == nil {
		out = []any{}
	}
	return out
}

func looksClickable(n *html.Node) bool {
	if n.Data == "button" || n.Data == "a" {
		return true
	}
	if getAttr(n, "onclick") != "" || getAttr(n, "role") == "button" {
		return true
	}
	if hasAttr(n, "aria-expanded") {
		return true
	}
	return getAttr(n, "data-toggle") == "collapse" || getAttr(n, "data-bs-toggle") == "collapse"
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// tagIndex returns the node's position among all elements with its tag,
// in document order, matching the selector-recovery contract.
func tagIndex(doc *goquery.Document, n *html.Node) int {
	same := doc.Find(n.Data)
	for i := 0; i < same.Length(); i++ {
		if same.Get(i) == n {
			return i
		}
	}
	return -1
}

func siblingPanel(n *html.Node) bool {
	isPanel := func(s *html.Node) bool {
		return s != nil && (hasClass(s, "collapse") || hasClass(s, "content") || hasClass(s, "panel"))
	}
	if isPanel(nextElement(n)) {
		return true
	}
	if n.Parent != nil {
		return isPanel(nextElement(n.Parent))
	}
	return false
}

// siblingItems walks up to five following siblings and extracts items
// from the first list-like one, so a header never swallows the list that
// belongs to the header after it.
func siblingItems(n *html.Node) any {
	var items []any
	sibling := nextElement(n)
	for count := 0; sibling != nil && count < 5; count++ {
		if sibling.Data == "ul" || sibling.Data == "ol" || containsTag(sibling, "li") || hasClass(sibling, "list") {
			for _, li := range descendants(sibling, "li") {
				if text := strings.TrimSpace(innerText(li)); text != "" {
					items = append(items, text)
				}
			}
			if len(items) == 0 {
				if text := strings.TrimSpace(innerText(sibling)); text != "" {
					items = append(items, text)
				}
			}
			if len(items) > 0 {
				return items
			}
		}
		sibling = nextElement(sibling)
	}
	if items == nil {
		items = []any{}
	}
	return items
}

func cardText(sel *goquery.Selection) string {
	for _, closest := range []string{"tr", ".card", `[class*="item"]`, "div"} {
		card := sel.Closest(closest)
		if card.Length() > 0 {
			return strings.TrimSpace(innerText(card.Get(0)))
		}
	}
	return ""
}

func nextElement(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

func containsTag(n *html.Node, tag string) bool {
	return len(descendants(n, tag)) > 0
}

// descendants collects element-node descendants with the given tag, in
// document order.
func descendants(n *html.Node, tag string) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				nodes = append(nodes, c)
			}
			walk(c)
		}
	}
	walk(n)
	return nodes
}
