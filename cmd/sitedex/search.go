package main

import (
	"fmt"

	"github.com/sitedex/sitedex"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	results, err := deps.Searcher.Search(deps.Ctx, c.Query, sitedex.SearchOptions{
		Limit:    c.TopK,
		MinScore: c.MinScore,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitedex.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No results.")
		return nil
	}

	for i, r := range results {
		fmt.Fprintf(deps.Stdout, "#%d  score=%.3f  %s\n", i+1, r.Score, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(deps.Stdout, "    %s\n", r.Snippet)
		}
	}
	return nil
}
