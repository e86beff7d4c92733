package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/mfurman/provdir"
	"github.com/mfurman/provdir/crawl"
	"github.com/mfurman/provdir/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	DB        *sqlite.DB
	Providers provdir.ProviderService
	Crawler   *crawl.Crawler
	Logger    *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable verbose logging"`

	Scrape ScrapeCmd `cmd:"" help:"Scrape a provider directory"`
	List   ListCmd   `cmd:"" help:"List scraped providers"`
	Export ExportCmd `cmd:"" help:"Export scraped providers to CSV"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL      string        `arg:"" help:"Directory listing URL"`
	Label    string        `short:"l" help:"Disclosure section label to harvest (default \"Programs Offered\")"`
	CSV      string        `help:"Also write records to this CSV file"`
	Max      int           `short:"m" help:"Stop after this many providers (0 = all)"`
	Rate     float64       `short:"r" default:"1.0" help:"Requests per second per domain"`
	Static   bool          `help:"Parse fetched HTML instead of driving a browser"`
	Headless bool          `default:"true" negatable:"" help:"Run the browser headless"`
	Timeout  time.Duration `default:"30s" help:"HTTP fetch timeout in static mode"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Area  string `short:"a" help:"Filter by area"`
	Limit int    `short:"n" help:"Maximum number of providers to show"`
	Full  bool   `help:"Show contact details and programs"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Output string `arg:"" help:"CSV output path"`
}
