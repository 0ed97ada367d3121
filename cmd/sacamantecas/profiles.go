package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/sacamantecas"
)

// Run executes the profiles command. Loading the registry already
// validated every profile.
func (c *ProfilesCmd) Run(deps *Dependencies) error {
	profiles := deps.Registry.Profiles()
	if c.Name != "" {
		p, ok := deps.Registry.Profile(c.Name)
		if !ok {
			err := sacamantecas.Errorf(sacamantecas.ENOTFOUND, "profile %q not found", c.Name)
			fmt.Fprintf(deps.Stderr, "error: %s\n", sacamantecas.ErrorMessage(err))
			return err
		}
		profiles = []*sacamantecas.Profile{p}
	}
	if len(profiles) == 0 {
		fmt.Fprintln(deps.Stdout, "No profiles defined.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	for _, p := range profiles {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.URIPattern, p.Strategy)
	}
	return w.Flush()
}
