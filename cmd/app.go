// Package cmd implements the CLI application to report on and reconcile a
// ledger file.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/ledgerdash"
	"github.com/etnz/ledgerdash/config"
	"github.com/etnz/ledgerdash/logger"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "reports")
	c.Register(&kpiCmd{}, "reports")
	c.Register(&flowCmd{}, "reports")
	c.Register(&balanceCmd{}, "reports")
	c.Register(&trendCmd{}, "reports")
	c.Register(&unreconciledCmd{}, "reports")
	c.Register(&queryCmd{}, "reports")

	c.Register(&reconcileCmd{}, "ledger")
	c.Register(&serveCmd{}, "ledger")

	c.Register(&topicCmd{}, "help")
}

// Commands lists every command, for shell completion.
func Commands() []subcommands.Command {
	return []subcommands.Command{
		&reportCmd{}, &kpiCmd{}, &flowCmd{}, &balanceCmd{}, &trendCmd{}, &unreconciledCmd{}, &queryCmd{},
		&reconcileCmd{}, &serveCmd{}, &topicCmd{},
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the settings file. Defaults to $LEDGERDASH_CONFIG, then ledgerdash.toml.")
var rawOutput = flag.Bool("raw", false, "Print markdown as is instead of rendering it for the terminal.")

// stdout receives the output of every command.
var stdout io.Writer = os.Stdout

// session is the settings and the ledger file a command works on.
type session struct {
	cfg        *config.Config
	classifier ledgerdash.Classifier
	book       *ledgerdash.Book
}

// openSession loads the settings and opens the ledger file. The returned
// context carries the logger.
func openSession(ctx context.Context) (context.Context, *session, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return ctx, nil, err
	}
	ctx = logger.WithContext(ctx, logger.New(cfg.Logging.Level, os.Stderr))

	classifier, err := cfg.Classifier()
	if err != nil {
		return ctx, nil, err
	}
	book, err := ledgerdash.OpenBook(cfg.LedgerFile, classifier)
	if err != nil {
		return ctx, nil, err
	}
	return ctx, &session{cfg: cfg, classifier: classifier, book: book}, nil
}

// dashboard loads the ledger file.
func (s *session) dashboard(ctx context.Context) (*ledgerdash.Dashboard, error) {
	cache, err := s.book.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ledgerdash.NewDashboard(cache, s.classifier, s.cfg.Sign()), nil
}

// openDashboard is openSession followed by dashboard. Errors are printed.
func openDashboard(ctx context.Context) (*session, *ledgerdash.Dashboard, subcommands.ExitStatus) {
	ctx, s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		return nil, nil, subcommands.ExitFailure
	}
	d, err := s.dashboard(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return nil, nil, subcommands.ExitFailure
	}
	return s, d, subcommands.ExitSuccess
}

// periodFlags select the period of a report.
type periodFlags struct {
	month string
	from  string
	to    string
}

func (p *periodFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.month, "m", "", "Month of the report (YYYY-MM). Defaults to the current month.")
	f.StringVar(&p.from, "from", "", "Start date of the report. Overrides -m.")
	f.StringVar(&p.to, "to", "", "End date of the report. Overrides -m.")
}

func (p *periodFlags) Range() (ledgerdash.Range, error) {
	return ledgerdash.ParseRange(p.month, p.from, p.to)
}

// printMarkdown renders md for the terminal, or prints it as is with -raw.
func printMarkdown(md string) {
	if *rawOutput {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
