// Package crawl walks a provider directory: it pages through the
// listing grid, visits every provider's detail page, scrapes contact
// details and program offerings, and persists each record as soon as it
// is complete.
package crawl

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/mfurman/provdir"
	"github.com/mfurman/provdir/bloom"
)

// ProgressType identifies the kind of progress event.
type ProgressType int

const (
	// ProgressStarted fires once before the first listing page is read.
	ProgressStarted ProgressType = iota
	// ProgressCompleted fires after a provider record is persisted.
	ProgressCompleted
	// ProgressFailed fires when a provider could not be scraped.
	ProgressFailed
	// ProgressFinished fires once when the crawl ends.
	ProgressFinished
)

// ProgressEvent reports crawl progress to the caller.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int // 0 when the pager gave no total
	Name      string
	URL       string
	Error     error
}

// ProgressFunc receives progress events during a crawl. It is called
// from the crawl goroutine, so it must not block for long.
type ProgressFunc func(ProgressEvent)

// Crawler walks a directory listing and scrapes every provider on it.
type Crawler struct {
	View      provdir.DocumentView
	Extractor provdir.ProgramExtractor
	Providers provdir.ProviderWriter

	// Limiter throttles detail-page visits per host. Optional.
	Limiter *DomainLimiter

	// RetryDelays overrides the navigation retry backoff. Nil means
	// DefaultRetryDelays.
	RetryDelays []time.Duration

	// MaxProviders stops the crawl after that many providers. Zero
	// means unlimited.
	MaxProviders int

	// SettleDelay is the pause after a pagination click, giving the
	// grid time to re-render. Zero means DefaultSettleDelay.
	SettleDelay time.Duration

	Logf LogFunc
}

// DefaultSettleDelay is how long the crawler waits after clicking a
// pagination control before reading the new page.
const DefaultSettleDelay = 2 * time.Second

// Result summarizes a finished crawl.
type Result struct {
	Saved  int
	Failed int
	Pages  int
}

// Crawl walks the directory at directoryURL until pagination is
// exhausted, MaxProviders is reached, or the context is canceled. Each
// provider record is persisted via the writer the moment it is
// assembled, so a partial crawl still leaves usable output.
func (c *Crawler) Crawl(ctx context.Context, directoryURL string, progress ProgressFunc) (*Result, error) {
	if c.View == nil || c.Extractor == nil || c.Providers == nil {
		return nil, provdir.Errorf(provdir.EINTERNAL, "crawler requires a view, an extractor, and a provider writer")
	}
	base, err := url.Parse(directoryURL)
	if err != nil {
		return nil, provdir.Errorf(provdir.EINVALID, "invalid directory url %q: %v", directoryURL, err)
	}

	settle := c.SettleDelay
	if settle == 0 {
		settle = DefaultSettleDelay
	}
	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	if err := NavigateWithRetryDelays(ctx, c.View, directoryURL, c.Logf, delays); err != nil {
		return nil, err
	}

	total := TotalItems(ctx, c.View)
	c.logf("directory reports %d items", total)
	emit(progress, ProgressEvent{Type: ProgressStarted, Total: total})

	// Pagination recovery re-walks listing pages from the start, so
	// remember which providers are already persisted.
	seen := bloom.NewFilter(2000, 0.01)

	result := &Result{}
	pageNum := 1

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		entries, err := ListProviders(ctx, c.View)
		if err != nil {
			return result, err
		}
		result.Pages = pageNum
		c.logf("page %d: %d providers", pageNum, len(entries))

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			if c.MaxProviders > 0 && result.Saved >= c.MaxProviders {
				emit(progress, ProgressEvent{Type: ProgressFinished, Completed: result.Saved, Total: total})
				return result, nil
			}
			if seen.Test(entry.Name) {
				continue
			}
			seen.Add(entry.Name)

			if err := c.scrapeProvider(ctx, base, entry, settle, delays, pageNum); err != nil {
				if ctx.Err() != nil {
					return result, ctx.Err()
				}
				result.Failed++
				c.logf("  failed %s: %v", entry.Name, err)
				emit(progress, ProgressEvent{
					Type: ProgressFailed, Completed: result.Saved, Total: total,
					Name: entry.Name, URL: entry.Href, Error: err,
				})
				continue
			}
			result.Saved++
			emit(progress, ProgressEvent{
				Type: ProgressCompleted, Completed: result.Saved, Total: total,
				Name: entry.Name, URL: entry.Href,
			})
		}

		ok, err := NextPage(ctx, c.View, settle)
		if err != nil {
			return result, err
		}
		if !ok {
			break
		}
		pageNum++
	}

	emit(progress, ProgressEvent{Type: ProgressFinished, Completed: result.Saved, Total: total})
	return result, nil
}

// scrapeProvider visits one provider's detail page, assembles its
// record, persists it, and walks the pagination back to the listing
// page the entry came from.
func (c *Crawler) scrapeProvider(ctx context.Context, base *url.URL, entry ListingEntry, settle time.Duration, delays []time.Duration, pageNum int) error {
	detailURL, err := resolveHref(base, entry.Href)
	if err != nil {
		return err
	}

	if c.Limiter != nil {
		host := base.Hostname()
		if u, err := url.Parse(detailURL); err == nil && u.Hostname() != "" {
			host = u.Hostname()
		}
		if err := c.Limiter.Wait(ctx, host); err != nil {
			return err
		}
	}

	if err := NavigateWithRetryDelays(ctx, c.View, detailURL, c.Logf, delays); err != nil {
		return err
	}

	contact, err := ScrapeContact(ctx, c.View, base.Hostname())
	if err != nil {
		return err
	}

	listing, err := c.Extractor.Extract(ctx, c.View)
	if err != nil {
		return err
	}

	p := &provdir.Provider{
		Name:      entry.Name,
		Area:      entry.Area,
		Website:   contact.Website,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Address:   contact.Address,
		Programs:  listing.Format(),
		ScrapedAt: time.Now(),
	}
	if p.Address == "" {
		p.Address = entry.Address
	}
	p.Normalize()

	if err := c.Providers.UpsertProvider(ctx, p); err != nil {
		return err
	}

	return c.returnToListing(ctx, base.String(), delays, settle, pageNum)
}

// returnToListing navigates back to the directory and clicks forward to
// the page the crawl was on. The grid resets to page one on a fresh
// navigation, so the position has to be rebuilt click by click.
func (c *Crawler) returnToListing(ctx context.Context, directoryURL string, delays []time.Duration, settle time.Duration, pageNum int) error {
	if err := NavigateWithRetryDelays(ctx, c.View, directoryURL, c.Logf, delays); err != nil {
		return err
	}
	for i := 1; i < pageNum; i++ {
		ok, err := NextPage(ctx, c.View, settle)
		if err != nil {
			return err
		}
		if !ok {
			return provdir.Errorf(provdir.EUNAVAILABLE, "pagination ended at page %d while returning to page %d", i, pageNum)
		}
	}
	return nil
}

// resolveHref turns a listing link into an absolute URL against the
// directory base.
func resolveHref(base *url.URL, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", provdir.Errorf(provdir.EINVALID, "provider link has no href")
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", provdir.Errorf(provdir.EINVALID, "invalid provider link %q: %v", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func (c *Crawler) logf(format string, args ...any) {
	if c.Logf != nil {
		c.Logf(format, args...)
	}
}

func emit(progress ProgressFunc, ev ProgressEvent) {
	if progress != nil {
		progress(ev)
	}
}
