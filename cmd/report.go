package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ledgerdash/renderer"
	"github.com/google/subcommands"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	periodFlags
	list bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display the dashboard of a period" }
func (*reportCmd) Usage() string {
	return `ldash report [-m <month>| -from <date> -to <date>] [-list]

  Displays the income and expense figures, the flow of money, the asset and
  liability balances, the daily trend and the transactions to reconcile.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.periodFlags.SetFlags(f)
	f.BoolVar(&c.list, "list", false, "List the months that can be reported on instead.")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := c.Range()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	s, d, status := openDashboard(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}

	if c.list {
		printMarkdown(renderer.RenderMonths(d.Months()))
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderReport(d.Report(r, s.cfg.Money())))
	return subcommands.ExitSuccess
}
