package main

import (
	"fmt"

	"github.com/mfurman/provdir/crawl"
	"golang.org/x/sync/errgroup"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	events := make(chan crawl.ProgressEvent, 16)

	g, ctx := errgroup.WithContext(deps.Ctx)

	// Progress rendering runs beside the crawl so slow terminals never
	// stall page navigation.
	g.Go(func() error {
		for ev := range events {
			switch ev.Type {
			case crawl.ProgressStarted:
				if ev.Total > 0 {
					fmt.Fprintf(deps.Stdout, "Found %d providers\n", ev.Total)
				}
			case crawl.ProgressCompleted:
				if ev.Total > 0 {
					fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", ev.Completed, ev.Total, ev.Name)
				} else {
					fmt.Fprintf(deps.Stdout, "  [%d] %s\n", ev.Completed, ev.Name)
				}
			case crawl.ProgressFailed:
				fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", ev.Name, ev.Error)
			}
		}
		return nil
	})

	var result *crawl.Result
	g.Go(func() error {
		defer close(events)
		var err error
		result, err = deps.Crawler.Crawl(ctx, c.URL, func(ev crawl.ProgressEvent) {
			events <- ev
		})
		return err
	})

	if err := g.Wait(); err != nil {
		if result != nil && result.Saved > 0 {
			fmt.Fprintf(deps.Stderr, "crawl interrupted after %d providers: %v\n", result.Saved, err)
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d providers (%d failed, %d pages)\n",
		result.Saved, result.Failed, result.Pages)
	return nil
}
