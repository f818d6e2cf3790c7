package commands

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/build"
	"git.home.luguber.info/inful/pagesmith/internal/config"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	SiteFlags
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	report, err := runSite(g, root, &c.SiteFlags, func(_ *config.Config, req *build.Request) {
		req.Check = true
	})
	if err != nil {
		return err
	}
	for _, w := range report.Warnings {
		_, _ = fmt.Fprintf(g.Stdout, "warning: %s\n", w.Error())
	}
	for _, f := range report.Findings {
		_, _ = fmt.Fprintln(g.Stdout, f.String())
	}
	_, _ = fmt.Fprintf(g.Stdout, "Checked %d pages from %d templates: %d warnings, %d findings in %s\n",
		report.Pages, report.Templates, len(report.Warnings), len(report.Findings),
		report.Duration().Round(time.Millisecond))
	return nil
}
