package main

import (
	"fmt"

	"github.com/fwojciec/sacamantecas"
	"github.com/fwojciec/sacamantecas/crawl"
)

// Run executes the skim command.
func (c *SkimCmd) Run(deps *Dependencies) error {
	source, err := deps.OpenSource(c.Input)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sacamantecas.ErrorMessage(err))
		return err
	}
	mantecas, err := source.Mantecas()
	source.Close()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sacamantecas.ErrorMessage(err))
		return err
	}

	if len(mantecas) == 0 {
		fmt.Fprintf(deps.Stdout, "No URIs found in %s\n", c.Input)
		return nil
	}

	output := c.Output
	if output == "" {
		output = sacamantecas.OutputPath(c.Input)
	}

	sink, err := deps.CreateSink(c.Input, output)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sacamantecas.ErrorMessage(err))
		return err
	}

	if c.Concurrency > 0 {
		deps.Skimmer.Concurrency = c.Concurrency
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Skimming %d URIs from %s\n", event.Total, c.Input)
		case crawl.ProgressSkipped:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s (already skimmed)\n", event.Completed, event.Total, event.URI)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s failed\n", event.Completed, event.Total, event.URI)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", event.Completed, event.Total, event.URI)
		}
	}

	report, err := deps.Skimmer.Skim(deps.Ctx, mantecas, sink, progress)
	if cerr := sink.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("saving %s: %w", output, cerr)
	}
	if report != nil {
		printReport(deps, report, output)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error skimming: %v\n", err)
		return err
	}

	return nil
}

func printReport(deps *Dependencies, report *crawl.Report, output string) {
	fmt.Fprintf(deps.Stdout, "Wrote %d results to %s", report.Skimmed+report.Skipped, output)
	if report.Skipped > 0 {
		fmt.Fprintf(deps.Stdout, " (%d from history)", report.Skipped)
	}
	fmt.Fprintln(deps.Stdout)

	if len(report.Problems) == 0 {
		return
	}
	fmt.Fprintf(deps.Stdout, "%d URIs had problems:\n", len(report.Problems))
	for _, p := range report.Problems {
		fmt.Fprintf(deps.Stdout, "  row %d %s\n", p.Row, p)
	}
}
