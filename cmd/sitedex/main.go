package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sitedex/sitedex"
	"github.com/sitedex/sitedex/crawl"
	"github.com/sitedex/sitedex/embed"
	"github.com/sitedex/sitedex/firecrawl"
	"github.com/sitedex/sitedex/gemini"
	sitedexhttp "github.com/sitedex/sitedex/http"
	"github.com/sitedex/sitedex/htmltomarkdown"
	"github.com/sitedex/sitedex/postgres"
	sitedexslog "github.com/sitedex/sitedex/slog"
	"github.com/sitedex/sitedex/trafilatura"
	"google.golang.org/genai"
)

// tokenizerModel is used for local token counting during chunking.
const tokenizerModel = "gemini-2.5-flash"

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Postgres connection string. Set before calling Run().
	DSN string

	// Firecrawl server base URL.
	FirecrawlURL string

	// Postgres pool used by the storage services.
	DB *postgres.DB
}

// NewMain returns a new instance of Main configured from the environment.
func NewMain() *Main {
	return &Main{
		DSN:          os.Getenv("SITEDEX_DSN"),
		FirecrawlURL: os.Getenv("SITEDEX_FIRECRAWL_URL"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitedex"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitedex --help' to see available commands")
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

	// Every command needs the database.
	if m.DSN == "" {
		fmt.Fprintln(stderr, "Hint: set SITEDEX_DSN, e.g. postgres://localhost:5432/sitedex")
		return fmt.Errorf("SITEDEX_DSN not set")
	}
	m.DB = postgres.NewDB(m.DSN)
	if err := m.DB.Open(ctx); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer m.Close()

	deps.DB = m.DB
	deps.Pages = postgres.NewPageService(m.DB)
	deps.Chunks = postgres.NewChunkService(m.DB)
	deps.Sitemaps = sitedexslog.NewLoggingSitemapService(sitedexhttp.NewSitemapService(nil), logger)

	if cmd == "crawl" {
		fetcher, err := m.buildFetcher(cli, logger)
		if err != nil {
			return err
		}
		defer fetcher.Close()
		deps.Fetcher = fetcher
	}

	if cmd == "embed" || cmd == "search" {
		client, err := geminiClient(ctx)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: get an API key at https://aistudio.google.com/apikey")
			return err
		}
		encoder := gemini.NewEmbedder(client)

		if cmd == "search" {
			deps.Searcher = sitedexslog.NewLoggingSearchService(postgres.NewSearchService(m.DB, encoder), logger)
		} else {
			tokenCounter, err := gemini.NewTokenCounter(tokenizerModel)
			if err != nil {
				return fmt.Errorf("failed to create token counter: %w", err)
			}
			deps.Embedder = &embed.Runner{
				Pages:   deps.Pages,
				Chunks:  deps.Chunks,
				Encoder: encoder,
				Chunker: &sitedex.Chunker{Tokens: tokenCounter},
				Logger:  logger,
			}
		}
	}

	return kongCtx.Run(deps)
}

// buildFetcher assembles the crawl-time fetch stack: the raw fetcher
// (Firecrawl or direct HTTP), a logging decorator, and the pacing gateway.
func (m *Main) buildFetcher(cli *CLI, logger *slog.Logger) (sitedex.Fetcher, error) {
	var raw sitedex.Fetcher
	if cli.Crawl.Direct {
		raw = sitedexhttp.NewFetcher(trafilatura.NewExtractor(), htmltomarkdown.NewConverter())
	} else {
		raw = firecrawl.NewFetcher(m.FirecrawlURL, firecrawl.WithAPIKey(os.Getenv("FIRECRAWL_API_KEY")))
	}

	spacing := time.Duration(cli.Crawl.Spacing * float64(time.Second))
	return crawl.NewGateway(
		sitedexslog.NewLoggingFetcher(raw, logger),
		crawl.WithConcurrency(cli.Crawl.Concurrency),
		crawl.WithSpacing(spacing),
		crawl.WithLogger(logger),
	), nil
}

func geminiClient(ctx context.Context) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}
