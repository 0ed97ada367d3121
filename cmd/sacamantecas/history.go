package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/sacamantecas"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := sacamantecas.SkimFilter{Limit: c.Limit}
	if c.URI != "" {
		filter.URI = &c.URI
	}
	if c.Failed {
		succeeded := false
		filter.Succeeded = &succeeded
	}

	skims, err := deps.Skims.FindSkims(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sacamantecas.ErrorMessage(err))
		return err
	}

	if len(skims) == 0 {
		fmt.Fprintln(deps.Stdout, "No skims found. Use 'sacamantecas skim' to record some.")
		return nil
	}

	for _, s := range skims {
		status := "ok"
		if !s.Succeeded() {
			status = s.ErrorCode
		}
		profile := s.Profile
		if profile == "" {
			profile = "-"
		}
		fmt.Fprintf(deps.Stdout, "%s  %-9s  %-12s  %s\n",
			s.CreatedAt.Local().Format(time.DateTime), status, profile, s.URI)

		if !c.Full {
			continue
		}
		if s.Error != "" {
			fmt.Fprintf(deps.Stdout, "    error: %s\n", s.Error)
		}
		for _, e := range s.Entries {
			fmt.Fprintf(deps.Stdout, "    %s: %s\n", e.Key, e.Value)
		}
		for _, w := range s.Warnings {
			fmt.Fprintf(deps.Stdout, "    warning: %s\n", w)
		}
	}

	return nil
}
