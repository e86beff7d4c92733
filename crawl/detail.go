package crawl

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mfurman/provdir"
)

// Contact holds the contact details scraped from a provider detail page.
type Contact struct {
	Website string
	Email   string
	Phone   string
	Address string
}

var (
	emailRE = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phoneRE = regexp.MustCompile(`(\+?[0-9\s\-\(\)]{7,15})`)
)

// addressSelectors locate the provider's street address on a detail page.
var addressSelectors = []string{
	`[class*="address"]`,
	`[class*="location"]`,
	`address`,
}

// ScrapeContact reads website, email, phone and address off the detail
// page the view is currently on. excludeHost is the directory's own
// host; links back to it are never the provider's website. Missing
// fields stay empty, this never fails outright.
func ScrapeContact(ctx context.Context, view provdir.DocumentView, excludeHost string) (Contact, error) {
	var c Contact
	if err := ctx.Err(); err != nil {
		return c, err
	}

	c.Website = scrapeWebsite(ctx, view, excludeHost)
	c.Email = scrapeEmail(ctx, view)
	c.Phone = scrapePhone(ctx, view)
	c.Address = scrapeAddress(ctx, view)

	return c, ctx.Err()
}

func scrapeWebsite(ctx context.Context, view provdir.DocumentView, excludeHost string) string {
	selectors := []string{
		fmt.Sprintf(`a[href*="http"]:not([href*="%s"])`, excludeHost),
		`a[target="_blank"]`,
		`a[href$=".com"]`,
		`a[href*=".com/"]`,
		`a[href$=".ae"]`,
		`a[href*=".ae/"]`,
	}
	for _, sel := range selectors {
		links, err := view.FindAll(ctx, sel)
		if err != nil {
			continue
		}
		for _, link := range links {
			href, err := view.Attribute(ctx, link, "href")
			if err != nil {
				continue
			}
			href = strings.TrimSpace(href)
			if href == "" || !strings.HasPrefix(href, "http") {
				continue
			}
			if excludeHost != "" && strings.Contains(href, excludeHost) {
				continue
			}
			if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
				continue
			}
			return href
		}
	}
	return ""
}

func scrapeEmail(ctx context.Context, view provdir.DocumentView) string {
	if links, err := view.FindAll(ctx, `a[href^="mailto:"]`); err == nil {
		for _, link := range links {
			href, err := view.Attribute(ctx, link, "href")
			if err != nil {
				continue
			}
			addr := strings.TrimPrefix(href, "mailto:")
			if i := strings.IndexByte(addr, '?'); i >= 0 {
				addr = addr[:i]
			}
			if emailRE.MatchString(addr) {
				return addr
			}
		}
	}
	if body, err := bodyText(ctx, view); err == nil {
		if m := emailRE.FindString(body); m != "" {
			return m
		}
	}
	return ""
}

func scrapePhone(ctx context.Context, view provdir.DocumentView) string {
	if links, err := view.FindAll(ctx, `a[href^="tel:"]`); err == nil {
		for _, link := range links {
			href, err := view.Attribute(ctx, link, "href")
			if err != nil {
				continue
			}
			num := strings.TrimSpace(strings.TrimPrefix(href, "tel:"))
			if num != "" {
				return num
			}
		}
	}
	if body, err := bodyText(ctx, view); err == nil {
		for _, m := range phoneRE.FindAllString(body, -1) {
			// Require enough digits to rule out years and item counts.
			digits := 0
			for _, r := range m {
				if r >= '0' && r <= '9' {
					digits++
				}
			}
			if digits >= 7 {
				return strings.TrimSpace(m)
			}
		}
	}
	return ""
}

func scrapeAddress(ctx context.Context, view provdir.DocumentView) string {
	for _, sel := range addressSelectors {
		els, err := view.FindAll(ctx, sel)
		if err != nil {
			continue
		}
		for _, el := range els {
			text, err := view.Text(ctx, el)
			if err != nil {
				continue
			}
			text = strings.TrimSpace(text)
			if len(text) > 5 {
				return text
			}
		}
	}
	return ""
}

func bodyText(ctx context.Context, view provdir.DocumentView) (string, error) {
	body, err := view.Find(ctx, "body")
	if err != nil {
		return "", err
	}
	return view.Text(ctx, body)
}
