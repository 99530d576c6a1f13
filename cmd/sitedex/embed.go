package main

import (
	"fmt"

	"github.com/sitedex/sitedex"
)

// Run executes the embed command.
func (c *EmbedCmd) Run(deps *Dependencies) error {
	result, err := deps.Embedder.Run(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitedex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Embedded %d pages (%d skipped, %d failed)\n",
		result.Embedded, result.Skipped, result.Failed)
	return nil
}
