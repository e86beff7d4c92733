package crawl_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mfurman/provdir"
	"github.com/mfurman/provdir/crawl"
	"github.com/mfurman/provdir/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const directoryURL = "https://dir.example/providers"

// fakeDirectory scripts a mock.View as a one-page directory with two
// providers, each with a detail page carrying full contact markup.
type fakeDirectory struct {
	current string
}

func (d *fakeDirectory) onListing() bool {
	return d.current == directoryURL
}

func (d *fakeDirectory) view() *mock.View {
	return &mock.View{
		NavigateFn: func(ctx context.Context, url string) error {
			d.current = url
			return nil
		},
		FindFn: func(ctx context.Context, selector string) (provdir.Element, error) {
			if d.onListing() && selector == ".k-pager-info.k-label" {
				return "pager", nil
			}
			return nil, nil
		},
		FindAllFn: func(ctx context.Context, selector string) ([]provdir.Element, error) {
			if d.onListing() {
				if selector == "a#lnkName" {
					return []provdir.Element{"link:Alpha Institute", "link:Beta College"}, nil
				}
				return nil, nil
			}
			switch {
			case strings.HasPrefix(selector, `a[href*="http"]`):
				return []provdir.Element{"site"}, nil
			case selector == `a[href^="mailto:"]`:
				return []provdir.Element{"mail"}, nil
			case selector == `a[href^="tel:"]`:
				return []provdir.Element{"tel"}, nil
			case selector == `[class*="address"]`:
				return []provdir.Element{"addr"}, nil
			}
			return nil, nil
		},
		TextFn: func(ctx context.Context, el provdir.Element) (string, error) {
			switch v := el.(type) {
			case string:
				switch {
				case strings.HasPrefix(v, "link:"):
					return strings.TrimPrefix(v, "link:"), nil
				case v == "pager":
					return "1 - 2 of 2 items", nil
				case v == "addr":
					return "Office 12, Knowledge Park", nil
				}
			}
			return "", nil
		},
		AttributeFn: func(ctx context.Context, el provdir.Element, name string) (string, error) {
			if name != "href" {
				return "", nil
			}
			switch el {
			case "link:Alpha Institute":
				return "/details/alpha", nil
			case "link:Beta College":
				return "/details/beta", nil
			case "site":
				return "https://provider.example/", nil
			case "mail":
				return "mailto:info@provider.example", nil
			case "tel":
				return "tel:+971 4 123 4567", nil
			}
			return "", nil
		},
		EvalOnFn: func(ctx context.Context, el provdir.Element, script string, args ...any) (any, error) {
			if script == provdir.ScriptCardText {
				name, _ := el.(string)
				name = strings.TrimPrefix(name, "link:")
				return name + "\nBusiness Bay\nLocation\nBuilding 3, Business Bay", nil
			}
			return nil, provdir.Errorf(provdir.EUNAVAILABLE, "script not scripted")
		},
	}
}

func newTestCrawler(view provdir.DocumentView, extract *mock.Extractor, saved *[]*provdir.Provider) *crawl.Crawler {
	return &crawl.Crawler{
		View:      view,
		Extractor: extract,
		Providers: &mock.ProviderWriter{
			UpsertProviderFn: func(ctx context.Context, p *provdir.Provider) error {
				*saved = append(*saved, p)
				return nil
			},
		},
		Limiter:     crawl.NewDomainLimiter(1000),
		RetryDelays: noDelays(),
		SettleDelay: time.Millisecond,
	}
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("scrapes every provider on the listing", func(t *testing.T) {
		t.Parallel()

		dir := &fakeDirectory{}
		extract := &mock.Extractor{
			ExtractFn: func(ctx context.Context, view provdir.DocumentView) (*provdir.ProgramListing, error) {
				listing := &provdir.ProgramListing{}
				if dir.current == "https://dir.example/details/alpha" {
					listing.AddCategory(provdir.Category{
						Title: "Business",
						Items: []string{"Financial Modelling", "Bookkeeping"},
					})
				}
				return listing, nil
			},
		}

		var saved []*provdir.Provider
		var events []crawl.ProgressEvent
		c := newTestCrawler(dir.view(), extract, &saved)

		result, err := c.Crawl(context.Background(), directoryURL, func(ev crawl.ProgressEvent) {
			events = append(events, ev)
		})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Saved)
		assert.Equal(t, 0, result.Failed)
		assert.Equal(t, 1, result.Pages)

		require.Len(t, saved, 2)
		alpha := saved[0]
		assert.Equal(t, "Alpha Institute", alpha.Name)
		assert.Equal(t, "Business Bay", alpha.Area)
		assert.Equal(t, "https://provider.example/", alpha.Website)
		assert.Equal(t, "info@provider.example", alpha.Email)
		assert.Equal(t, "+971 4 123 4567", alpha.Phone)
		assert.Equal(t, "Office 12, Knowledge Park", alpha.Address)
		assert.Equal(t, "Business (Financial Modelling, Bookkeeping)", alpha.Programs)
		assert.False(t, alpha.ScrapedAt.IsZero())

		beta := saved[1]
		assert.Equal(t, "Beta College", beta.Name)
		assert.Equal(t, provdir.NotAvailable, beta.Programs)

		require.Len(t, events, 4)
		assert.Equal(t, crawl.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, crawl.ProgressCompleted, events[1].Type)
		assert.Equal(t, "Alpha Institute", events[1].Name)
		assert.Equal(t, crawl.ProgressCompleted, events[2].Type)
		assert.Equal(t, crawl.ProgressFinished, events[3].Type)
		assert.Equal(t, 2, events[3].Completed)
	})

	t.Run("records failures and keeps going", func(t *testing.T) {
		t.Parallel()

		dir := &fakeDirectory{}
		extract := &mock.Extractor{
			ExtractFn: func(ctx context.Context, view provdir.DocumentView) (*provdir.ProgramListing, error) {
				if dir.current == "https://dir.example/details/alpha" {
					return nil, provdir.Errorf(provdir.EINTERNAL, "page structure changed")
				}
				return &provdir.ProgramListing{}, nil
			},
		}

		var saved []*provdir.Provider
		var failures []crawl.ProgressEvent
		c := newTestCrawler(dir.view(), extract, &saved)

		result, err := c.Crawl(context.Background(), directoryURL, func(ev crawl.ProgressEvent) {
			if ev.Type == crawl.ProgressFailed {
				failures = append(failures, ev)
			}
		})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Saved)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, saved, 1)
		assert.Equal(t, "Beta College", saved[0].Name)

		require.Len(t, failures, 1)
		assert.Equal(t, "Alpha Institute", failures[0].Name)
		require.Error(t, failures[0].Error)
	})

	t.Run("stops at the provider limit", func(t *testing.T) {
		t.Parallel()

		dir := &fakeDirectory{}
		extract := &mock.Extractor{
			ExtractFn: func(ctx context.Context, view provdir.DocumentView) (*provdir.ProgramListing, error) {
				return &provdir.ProgramListing{}, nil
			},
		}

		var saved []*provdir.Provider
		c := newTestCrawler(dir.view(), extract, &saved)
		c.MaxProviders = 1

		result, err := c.Crawl(context.Background(), directoryURL, nil)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Saved)
		require.Len(t, saved, 1)
		assert.Equal(t, "Alpha Institute", saved[0].Name)
	})

	t.Run("rejects an invalid directory url", func(t *testing.T) {
		t.Parallel()

		dir := &fakeDirectory{}
		var saved []*provdir.Provider
		c := newTestCrawler(dir.view(), &mock.Extractor{}, &saved)

		_, err := c.Crawl(context.Background(), "://not-a-url", nil)
		require.Error(t, err)
		assert.Equal(t, provdir.EINVALID, provdir.ErrorCode(err))
	})

	t.Run("requires a view, extractor and writer", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{}
		_, err := c.Crawl(context.Background(), directoryURL, nil)
		require.Error(t, err)
		assert.Equal(t, provdir.EINTERNAL, provdir.ErrorCode(err))
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		dir := &fakeDirectory{}
		ctx, cancel := context.WithCancel(context.Background())
		extract := &mock.Extractor{
			ExtractFn: func(ctx context.Context, view provdir.DocumentView) (*provdir.ProgramListing, error) {
				cancel()
				return &provdir.ProgramListing{}, nil
			},
		}

		var saved []*provdir.Provider
		c := newTestCrawler(dir.view(), extract, &saved)

		_, err := c.Crawl(ctx, directoryURL, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
