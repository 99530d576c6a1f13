package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/sitedex/sitedex"
	"github.com/sitedex/sitedex/embed"
	"github.com/sitedex/sitedex/postgres"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	DB       *postgres.DB
	Pages    sitedex.PageService
	Chunks   sitedex.ChunkService
	Searcher sitedex.SearchService
	Sitemaps sitedex.SitemapService
	Fetcher  sitedex.Fetcher
	Embedder *embed.Runner
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Init   InitCmd   `cmd:"" help:"Create the database schema"`
	Crawl  CrawlCmd  `cmd:"" help:"Crawl a website and index its pages"`
	Embed  EmbedCmd  `cmd:"" help:"Embed pages whose content is new or changed"`
	Search SearchCmd `cmd:"" help:"Semantic search over indexed content"`
	Show   ShowCmd   `cmd:"" help:"Show a stored page"`
	Delete DeleteCmd `cmd:"" help:"Delete a page and its chunks"`
}

// InitCmd is the "init" subcommand.
type InitCmd struct{}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL              string  `arg:"" help:"Start URL; the crawl stays on this domain"`
	Depth            int     `short:"d" default:"3" help:"Maximum link depth from the start URL"`
	Pages            int     `short:"p" default:"1000" help:"Global page budget"`
	Concurrency      int     `short:"c" default:"8" help:"Concurrent fetch limit"`
	Spacing          float64 `default:"0.2" help:"Minimum seconds between fetch dispatches"`
	Sitemap          bool    `short:"s" help:"Seed the frontier from the site's sitemaps"`
	Direct           bool    `help:"Fetch directly over HTTP instead of the scrape server"`
	FailureThreshold int     `name:"failure-threshold" help:"Abort after this many failed pages (0 = never)"`
}

// EmbedCmd is the "embed" subcommand.
type EmbedCmd struct{}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query    string  `arg:"" help:"Natural language query"`
	TopK     int     `short:"k" default:"5" help:"Number of results"`
	MinScore float64 `name:"min-score" help:"Drop results scoring below this"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	URL string `arg:"" help:"Canonical page URL"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	URL   string `arg:"" help:"Canonical page URL"`
	Force bool   `help:"Confirm deletion"`
}
