package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mfurman/provdir"
	"github.com/mfurman/provdir/crawl"
	"github.com/mfurman/provdir/csv"
	"github.com/mfurman/provdir/extract"
	"github.com/mfurman/provdir/goquery"
	provhttp "github.com/mfurman/provdir/http"
	"github.com/mfurman/provdir/rod"
	provslog "github.com/mfurman/provdir/slog"
	"github.com/mfurman/provdir/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Service for end-to-end testing.
	Providers provdir.ProviderService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("provdir"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'provdir --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	// Command() includes the positional args, e.g. "scrape <url>".
	command, _, _ := strings.Cut(kongCtx.Command(), " ")

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set PROVDIR_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.Providers = sqlite.NewProviderService(m.DB)
	deps.DB = m.DB
	deps.Providers = m.Providers

	logLevel := slog.LevelWarn
	if cli.Verbose {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))
	deps.Logger = logger

	if command == "scrape" {
		view, cleanup, err := m.buildView(&cli.Scrape, logger, stderr)
		if err != nil {
			return err
		}
		defer cleanup()

		extractor := extract.New(provdir.DefaultVocabulary())
		if cli.Scrape.Label != "" {
			extractor.Label = cli.Scrape.Label
		}

		var writer provdir.ProviderWriter = m.Providers
		if cli.Scrape.CSV != "" {
			writer = &teeWriter{stores: []provdir.ProviderWriter{
				m.Providers, csv.NewWriter(cli.Scrape.CSV),
			}}
		}

		deps.Crawler = &crawl.Crawler{
			View:         view,
			Extractor:    provslog.NewLoggingExtractor(extractor, logger),
			Providers:    provslog.NewLoggingProviderWriter(writer, logger),
			Limiter:      crawl.NewDomainLimiter(cli.Scrape.Rate),
			MaxProviders: cli.Scrape.Max,
			Logf: func(format string, args ...any) {
				logger.Info(fmt.Sprintf(format, args...))
			},
		}
	}

	return kongCtx.Run(deps)
}

// buildView selects the document view for a scrape: a real browser by
// default, or a static fetch-and-parse view for server-rendered sites.
func (m *Main) buildView(c *ScrapeCmd, logger *slog.Logger, stderr io.Writer) (provdir.DocumentView, func(), error) {
	if c.Static {
		fetcher := provslog.NewLoggingFetcher(
			provhttp.NewFetcher(provhttp.WithTimeout(c.Timeout)), logger)
		view, err := goquery.NewView("<html></html>", goquery.WithFetcher(fetcher))
		if err != nil {
			return nil, nil, err
		}
		return view, func() { fetcher.Close() }, nil
	}

	manager, err := rod.NewManager(rod.WithHeadless(c.Headless))
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return nil, nil, fmt.Errorf("failed to start browser: %w", err)
	}
	view := rod.NewView(manager)
	return view, func() {
		view.Close()
		manager.Close()
	}, nil
}

func defaultDBPath() string {
	if path := os.Getenv("PROVDIR_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "provdir.db"
	}
	dir := filepath.Join(home, ".provdir")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "provdir.db")
}

// teeWriter persists each provider to every underlying store.
type teeWriter struct {
	stores []provdir.ProviderWriter
}

func (w *teeWriter) UpsertProvider(ctx context.Context, p *provdir.Provider) error {
	for _, s := range w.stores {
		if err := s.UpsertProvider(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
