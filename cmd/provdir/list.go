package main

import (
	"fmt"

	"github.com/mfurman/provdir"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := provdir.ProviderFilter{Limit: c.Limit}
	if c.Area != "" {
		filter.Area = &c.Area
	}

	providers, err := deps.Providers.FindProviders(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", provdir.ErrorMessage(err))
		return err
	}

	if len(providers) == 0 {
		fmt.Fprintln(deps.Stdout, "No providers found. Use 'provdir scrape' to crawl a directory.")
		return nil
	}

	for _, p := range providers {
		if c.Full {
			fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  %s\n  %s\n",
				p.Name, p.Area, p.Website, p.Email, p.Phone, p.Programs)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", p.Name, p.Area, p.Website)
	}

	return nil
}
