package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/ledgerdash"
	"github.com/google/subcommands"
)

// queryCmd holds the flags for the 'query' subcommand.
type queryCmd struct {
	periodFlags
	report string
	date   string
	bucket string
	path   string
}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "print a report as JSON" }
func (*queryCmd) Usage() string {
	return `ldash query [-r <report>] [-m <month>| -from <date> -to <date>] [-q <jsonpath>]

  Prints a report as JSON. Reports are: report, kpi, flow, balance, trend,
  unreconciled and months.

  With -q only the values selected by the JSONPath expression are printed,
  e.g. -q '$.kpis.savingsRate' or -q '$.flow.links[*].target'.
`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) {
	c.periodFlags.SetFlags(f)
	f.StringVar(&c.report, "r", "report", "Report to print (report, kpi, flow, balance, trend, unreconciled, months)")
	f.StringVar(&c.date, "d", "", "Date of the balance report. Defaults to the end of the period.")
	f.StringVar(&c.bucket, "b", "asset", "Accounts of the balance report (asset, liability, income, expense)")
	f.StringVar(&c.path, "q", "", "JSONPath expression selecting the values to print.")
}

func (c *queryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := c.Range()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	s, d, status := openDashboard(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}

	v, err := c.value(d, r, s.cfg.Money())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.path != "" {
		if v, err = selectJSON(c.path, v); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding %s: %v\n", c.report, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// value computes the report to print.
func (c *queryCmd) value(d *ledgerdash.Dashboard, r ledgerdash.Range, cur ledgerdash.Currency) (any, error) {
	switch c.report {
	case "report":
		return d.Report(r, cur), nil
	case "kpi":
		return d.KPIs(r), nil
	case "flow":
		return d.FlowGraph(r), nil
	case "trend":
		return d.Trend(r), nil
	case "unreconciled":
		return d.Unreconciled(), nil
	case "months":
		return d.Months(), nil
	case "balance":
		on := r.To
		if c.date != "" {
			var err error
			if on, err = ledgerdash.ParseDate(c.date); err != nil {
				return nil, err
			}
		}
		bucket, err := ledgerdash.ParseBucket(c.bucket)
		if err != nil {
			return nil, err
		}
		return d.BalanceTree(on, bucket), nil
	default:
		return nil, fmt.Errorf("unknown report %q", c.report)
	}
}

// selectJSON evaluates a JSONPath expression on the JSON form of v.
func selectJSON(path string, v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, err
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	return jval, nil
}
