package main

import (
	"fmt"

	"github.com/sitedex/sitedex"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	page, err := deps.Pages.FindPageByURL(deps.Ctx, c.URL)
	if err != nil {
		if sitedex.ErrorCode(err) == sitedex.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: page %q not found\n", c.URL)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitedex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "URL:         %s\n", page.URL)
	fmt.Fprintf(deps.Stdout, "Title:       %s\n", page.Title)
	fmt.Fprintf(deps.Stdout, "Fingerprint: %s\n", page.Fingerprint)
	fmt.Fprintf(deps.Stdout, "Changed:     %s\n", page.FingerprintChangedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(deps.Stdout, "Last seen:   %s\n", page.LastSeen.Format("2006-01-02 15:04:05"))
	if page.EmbeddedAt != nil {
		fmt.Fprintf(deps.Stdout, "Embedded:    %s\n", page.EmbeddedAt.Format("2006-01-02 15:04:05"))
	} else {
		fmt.Fprintln(deps.Stdout, "Embedded:    pending")
	}
	if page.Category != "" {
		fmt.Fprintf(deps.Stdout, "Category:    %s (%.2f)\n", page.Category, page.CategoryConfidence)
	}
	fmt.Fprintf(deps.Stdout, "\n%s\n", page.CleanText)
	return nil
}
