package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/alecthomas/kong"
	"github.com/jkowalik/sitesnap"
	"github.com/jkowalik/sitesnap/crawl"
	"github.com/jkowalik/sitesnap/fs"
	"github.com/jkowalik/sitesnap/goquery"
	snaphttp "github.com/jkowalik/sitesnap/http"
	"github.com/jkowalik/sitesnap/prometheus"
	"github.com/jkowalik/sitesnap/robotstxt"
	snapslog "github.com/jkowalik/sitesnap/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL string `arg:"" required:"" help:"Start URL (http or https)"`
	Out string `arg:"" optional:"" default:"./pages" help:"Output directory for saved pages"`

	MaxPages    int           `default:"50" help:"Cap on saved pages"`
	Concurrency int           `short:"c" default:"20" help:"Concurrent GET limit"`
	Timeout     time.Duration `short:"t" default:"15s" help:"Per-request timeout"`
	MaxBytes    int64         `default:"2000000" help:"Skip resources larger than this (bytes)"`
	AllowType   []string      `default:"text/html" help:"Acceptable Content-Type values"`
	Robots      bool          `default:"true" negatable:"" help:"Respect robots.txt"`
	Exclude     string        `default:"${exclude_default}" help:"Regex of paths to skip"`
	UserAgent   string        `default:"sitesnap/0.1" help:"User-Agent header"`
	RPS         float64       `name:"rps" default:"2" help:"Per-domain requests per second (0 disables)"`
	Manifest    string        `default:"index.csv" help:"Manifest file path"`
	Verbose     bool          `short:"v" help:"Enable debug logging"`
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitesnap"),
		kong.Description("Snapshot a bounded set of HTML pages from a site"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"exclude_default": sitesnap.DefaultExcludePattern},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	cfg, err := cli.config()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %s", sitesnap.ErrorMessage(err))
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	store, err := fs.NewStore(cli.Out)
	if err != nil {
		return fmt.Errorf("acquiring output directory: %w", err)
	}

	client := &http.Client{Timeout: cfg.Timeout}

	crawler := &crawl.Crawler{
		Config:   cfg,
		Sitemaps: snapslog.NewLoggingSitemapService(snaphttp.NewSitemapService(cfg, client), logger),
		Robots:   snapslog.NewLoggingGate(robotstxt.NewGate(cfg, client), logger),
		Fetcher:  snapslog.NewLoggingFetcher(snaphttp.NewFetcher(cfg, client), logger),
		Links:    goquery.NewExtractor(),
		Store:    store,
		Manifest: fs.NewManifestWriter(cli.Manifest),
		Metrics:  prometheus.NewMetrics(),
	}
	if cfg.RequestsPerSecond > 0 {
		crawler.Limiter = crawl.NewDomainLimiter(cfg.RequestsPerSecond)
	}
	crawler.Progress = func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressSaved:
			logger.Info("saved", "url", event.URL)
		case crawl.ProgressFailed:
			logger.Warn("dropped", "url", event.URL, "err", event.Err)
		}
	}

	result, err := crawler.Run(ctx, cli.URL)
	if err != nil {
		return fmt.Errorf("crawl failed: %s", sitesnap.ErrorMessage(err))
	}

	logger.Info("crawl finished",
		"crawl_id", result.ID,
		"saved", result.Saved,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	fmt.Fprintf(stdout, "Saved %d HTML pages to %s and %s\n",
		result.Saved, store.Root(), filepath.Clean(cli.Manifest))

	return nil
}

// config translates parsed flags into the immutable crawl configuration.
func (c *CLI) config() (sitesnap.Config, error) {
	cfg := sitesnap.Config{
		MaxPages:          c.MaxPages,
		Concurrency:       c.Concurrency,
		Timeout:           c.Timeout,
		MaxBytes:          c.MaxBytes,
		AllowedTypes:      c.AllowType,
		RespectRobots:     c.Robots,
		UserAgent:         c.UserAgent,
		RequestsPerSecond: c.RPS,
	}
	if c.Exclude != "" {
		re, err := regexp.Compile(c.Exclude)
		if err != nil {
			return cfg, sitesnap.Errorf(sitesnap.EINVALID, "invalid exclude pattern %q: %v", c.Exclude, err)
		}
		cfg.Exclude = re
	}
	return cfg, nil
}
