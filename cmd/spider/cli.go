package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/spider"
	"github.com/fwojciec/spider/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	DB        *sqlite.DB
	Runs      spider.RunService
	Resources spider.ResourceFinder
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `name:"db" env:"SPIDER_DB" help:"SQLite database path (default ~/.spider/spider.db)"`
	Verbose bool   `short:"v" help:"Log every request and filter decision"`

	Crawl     CrawlCmd     `cmd:"" help:"Crawl from a seed URL"`
	Runs      RunsCmd      `cmd:"" help:"List recorded crawl runs"`
	Resources ResourcesCmd `cmd:"" help:"List resources persisted by a run"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL string `arg:"" help:"Seed URL"`

	Depth     int     `short:"d" default:"3" help:"Maximum discovery depth (0 fetches only the seed)"`
	Limit     int     `short:"l" default:"0" help:"Stop after persisting this many resources (0 = no limit)"`
	MaxQueue  int     `name:"max-queue" default:"0" help:"Maximum pending URLs in the frontier (0 = unbounded)"`
	Traversal string  `default:"bfs" enum:"bfs,dfs" help:"Frontier order: bfs or dfs"`
	Rate      float64 `default:"1" help:"Requests per second per host (0 = unlimited)"`

	Timeout   time.Duration `default:"10s" help:"Per-request timeout"`
	Retries   int           `default:"0" help:"Retries per failed fetch with exponential backoff"`
	UserAgent string        `name:"user-agent" env:"SPIDER_USER_AGENT" help:"User-Agent header"`
	Browser   bool          `help:"Render pages in headless Chrome"`
	ChromeBin string        `name:"chrome-bin" env:"SPIDER_CHROME_BIN" help:"Chrome binary for --browser (default: found or downloaded by rod)"`
	Redis     string        `env:"SPIDER_REDIS_ADDR" help:"Redis address for an external frontier"`

	Store     string `default:"sqlite" enum:"memory,sqlite,raw,markdown" help:"Where resources go: memory, sqlite, raw or markdown"`
	Out       string `default:"." type:"path" help:"Output directory for raw and markdown stores"`
	Name      string `help:"Directory name under --out (defaults to the seed host)"`
	Extractor string `default:"trafilatura" enum:"trafilatura,readability" help:"Content extractor for the markdown store"`

	Robots        bool     `default:"true" negatable:"" help:"Honour robots.txt"`
	SameHost      bool     `name:"same-host" default:"true" negatable:"" help:"Only follow links on the seed host"`
	UnderSeed     bool     `name:"under-seed" help:"Only follow links under the seed path"`
	NoFragments   bool     `name:"no-fragments" help:"Skip URLs with a fragment"`
	NoQuery       bool     `name:"no-query" help:"Skip URLs with a query string"`
	Include       []string `short:"i" help:"Only follow URLs matching this regex (repeatable)"`
	Exclude       []string `short:"x" help:"Skip URLs matching this regex (repeatable)"`
	MaxSize       int      `name:"max-size" default:"0" help:"Discard bodies larger than this many bytes (0 = no limit)"`
	ContentTypes  []string `name:"content-type" help:"Keep only these media types; a trailing / matches a whole type (repeatable)"`
	DedupeContent bool     `name:"dedupe-content" help:"Discard resources whose body was already seen"`
	Select        []string `short:"s" help:"CSS selector for links (repeatable, default a[href])"`
	XPath         []string `name:"xpath" help:"XPath for links in XML documents (repeatable, default //loc and //link)"`

	Config      string `short:"c" help:"YAML policy file"`
	MetricsAddr string `name:"metrics-addr" help:"Serve Prometheus metrics on this address during the crawl"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Seed  string `help:"Only show runs from this seed"`
	Limit int    `short:"n" default:"20" help:"Maximum runs to show"`
}

// ResourcesCmd is the "resources" subcommand.
type ResourcesCmd struct {
	RunID string `arg:"" help:"Run ID"`
	Limit int    `short:"n" default:"0" help:"Maximum resources to show (0 = all)"`
}
