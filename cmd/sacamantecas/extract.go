package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/sacamantecas"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	var r io.Reader = deps.Stdin
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		defer f.Close()
		r = f
	}

	result, err := deps.Driver.ProcessReader(c.URI, r)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sacamantecas.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stderr, "profile: %s\n", result.ProfileName())
	for _, w := range result.Warnings {
		fmt.Fprintf(deps.Stderr, "warning: %s\n", w)
	}

	if result.Empty() {
		fmt.Fprintln(deps.Stderr, "No metadata found.")
		return nil
	}
	for _, e := range result.Entries {
		fmt.Fprintf(deps.Stdout, "%s: %s\n", e.Key, e.Value)
	}

	return nil
}
