package main

import (
	"fmt"

	"github.com/sitedex/sitedex"
)

// Run executes the init command.
func (c *InitCmd) Run(deps *Dependencies) error {
	if err := deps.DB.EnsureSchema(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitedex.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, "Database initialized.")
	return nil
}
