package main

import (
	"fmt"

	"github.com/mfurman/provdir"
	"github.com/mfurman/provdir/csv"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	providers, err := deps.Providers.FindProviders(deps.Ctx, provdir.ProviderFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", provdir.ErrorMessage(err))
		return err
	}

	w := csv.NewWriter(c.Output)
	if err := w.WriteProviders(deps.Ctx, providers); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", provdir.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d providers to %s\n", len(providers), c.Output)
	return nil
}
