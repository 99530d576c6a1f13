package main

import (
	"fmt"

	"github.com/sitedex/sitedex"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return sitedex.Errorf(sitedex.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Pages.DeletePage(deps.Ctx, c.URL); err != nil {
		if sitedex.ErrorCode(err) == sitedex.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: page %q not found\n", c.URL)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitedex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted page %q\n", c.URL)
	return nil
}
