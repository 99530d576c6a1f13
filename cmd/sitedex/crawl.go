package main

import (
	"fmt"

	"github.com/sitedex/sitedex"
	"github.com/sitedex/sitedex/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	var seeds []string
	if c.Sitemap {
		urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "warning: sitemap discovery failed: %s\n", sitedex.ErrorMessage(err))
		} else {
			seeds = urls
			fmt.Fprintf(deps.Stdout, "Seeded %d URLs from sitemaps\n", len(seeds))
		}
	}

	crawler := &crawl.Crawler{
		Fetcher:          deps.Fetcher,
		Pages:            deps.Pages,
		Logger:           deps.Logger,
		SeedURLs:         seeds,
		MaxDepth:         c.Depth,
		MaxPages:         c.Pages,
		Concurrency:      c.Concurrency,
		FailureThreshold: c.FailureThreshold,
	}

	progress := func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressLevelStarted:
			fmt.Fprintf(deps.Stdout, "depth %d: dispatching %d pages\n", e.Depth, e.Queued)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  failed %s: %s\n", e.URL, sitedex.ErrorMessage(e.Error))
		}
	}

	result, err := crawler.Crawl(deps.Ctx, c.URL, progress)
	if result != nil {
		fmt.Fprintf(deps.Stdout,
			"Crawl %s: %d pages (%d created, %d updated, %d unchanged, %d failed)\n",
			result.State, result.Processed, result.Created, result.Updated, result.Unchanged, result.Failed)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitedex.ErrorMessage(err))
		return err
	}
	return nil
}
