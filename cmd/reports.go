package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ledgerdash"
	"github.com/etnz/ledgerdash/renderer"
	"github.com/google/subcommands"
)

type kpiCmd struct{ periodFlags }

func (*kpiCmd) Name() string     { return "kpi" }
func (*kpiCmd) Synopsis() string { return "display the income, expense and savings rate of a period" }
func (*kpiCmd) Usage() string {
	return `ldash kpi [-m <month>| -from <date> -to <date>]
`
}

func (c *kpiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runPeriodReport(ctx, c.periodFlags, func(d *ledgerdash.Dashboard, r ledgerdash.Range, cur ledgerdash.Currency) string {
		return renderer.RenderKPI(d.KPIs(r), cur)
	})
}

type flowCmd struct{ periodFlags }

func (*flowCmd) Name() string     { return "flow" }
func (*flowCmd) Synopsis() string { return "display how the income of a period was spent" }
func (*flowCmd) Usage() string {
	return `ldash flow [-m <month>| -from <date> -to <date>]

  Displays the links from income to each expense category and to the balance.
`
}

func (c *flowCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runPeriodReport(ctx, c.periodFlags, func(d *ledgerdash.Dashboard, r ledgerdash.Range, cur ledgerdash.Currency) string {
		return renderer.RenderFlow(d.FlowGraph(r), cur)
	})
}

type trendCmd struct{ periodFlags }

func (*trendCmd) Name() string     { return "trend" }
func (*trendCmd) Synopsis() string { return "display the daily income and expense of a period" }
func (*trendCmd) Usage() string {
	return `ldash trend [-m <month>| -from <date> -to <date>]
`
}

func (c *trendCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runPeriodReport(ctx, c.periodFlags, func(d *ledgerdash.Dashboard, r ledgerdash.Range, cur ledgerdash.Currency) string {
		return renderer.RenderTrend(d.Trend(r), cur)
	})
}

// runPeriodReport prints the report computed by render for the period of p.
func runPeriodReport(ctx context.Context, p periodFlags, render func(*ledgerdash.Dashboard, ledgerdash.Range, ledgerdash.Currency) string) subcommands.ExitStatus {
	r, err := p.Range()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	s, d, status := openDashboard(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	printMarkdown(render(d, r, s.cfg.Money()))
	return subcommands.ExitSuccess
}

// balanceCmd holds the flags for the 'balance' subcommand.
type balanceCmd struct {
	date   string
	bucket string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "display the balance tree of assets or liabilities" }
func (*balanceCmd) Usage() string {
	return `ldash balance [-d <date>] [-b asset|liability]

  Displays the positive balances of the accounts at the end of a day, grouped
  by account path.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Date of the balances. See the user manual for supported date formats.")
	f.StringVar(&c.bucket, "b", "asset", "Accounts to display (asset, liability, income, expense)")
}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := ledgerdash.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	bucket, err := ledgerdash.ParseBucket(c.bucket)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	s, d, status := openDashboard(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	printMarkdown(renderer.RenderBalance(d.BalanceTree(on, bucket), s.cfg.Money()))
	return subcommands.ExitSuccess
}

type unreconciledCmd struct{}

func (*unreconciledCmd) Name() string     { return "unreconciled" }
func (*unreconciledCmd) Synopsis() string { return "list the transactions to reconcile" }
func (*unreconciledCmd) Usage() string {
	return `ldash unreconciled

  Lists the transactions with at least one line not marked '*', with the id
  to pass to 'ldash reconcile'.
`
}

func (*unreconciledCmd) SetFlags(f *flag.FlagSet) {}

func (*unreconciledCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, d, status := openDashboard(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}
	printMarkdown(renderer.RenderUnreconciled(d.Unreconciled(), s.cfg.Money()))
	return subcommands.ExitSuccess
}
