package provdir

import "context"

// Fetcher retrieves raw HTML from URLs. It backs DocumentView
// implementations that parse static markup instead of driving a browser.
type Fetcher interface {
	// Fetch retrieves the HTML content at the URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}
