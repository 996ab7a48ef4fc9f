package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// reconcileCmd holds the flags for the 'reconcile' subcommand.
type reconcileCmd struct {
	all    bool
	dryRun bool
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "mark transactions as reconciled in the ledger file" }
func (*reconcileCmd) Usage() string {
	return `ldash reconcile [-dry-run] (-all | <id>...)

  Rewrites the given transactions with every account line marked '*' and
  writes the ledger file back. Ids are listed by 'ldash unreconciled'.

  With -dry-run the new ledger text is printed instead of written.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "Reconcile every unreconciled transaction.")
	f.BoolVar(&c.dryRun, "dry-run", false, "Print the reconciled ledger instead of writing it.")
}

func (c *reconcileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ids := f.Args()
	if c.all == (len(ids) > 0) {
		fmt.Fprintln(os.Stderr, "Error: either -all or transaction ids are required.")
		return subcommands.ExitUsageError
	}

	ctx, s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		return subcommands.ExitFailure
	}
	symbol := s.cfg.Money().Symbol

	if c.dryRun {
		text, err := s.book.Preview(ctx, ids, symbol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprint(stdout, text)
		return subcommands.ExitSuccess
	}

	var n int
	if c.all {
		n, err = s.book.ReconcileAll(ctx, symbol)
	} else {
		n, err = s.book.Reconcile(ctx, ids, symbol)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reconciling %q: %v\n", s.book.Path(), err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Reconciled %d transactions in %s\n", n, s.book.Path())
	return subcommands.ExitSuccess
}
