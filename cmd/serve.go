package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/ledgerdash/logger"
	"github.com/etnz/ledgerdash/server"
	"github.com/google/subcommands"
)

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the dashboard as a JSON API" }
func (*serveCmd) Usage() string {
	return `ldash serve [-addr <host:port>]

  Serves the reports and the reconciliation of the ledger file over HTTP until
  interrupted. See 'ldash topic server' for the endpoints.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Address to listen on. Defaults to the [server] settings.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		return subcommands.ExitFailure
	}
	addr := c.addr
	if addr == "" {
		addr = s.cfg.Server.Addr()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.WithFields(logger.FromContext(ctx), map[string]any{"ledger": s.book.Path(), "addr": addr})
	svc := server.NewService(ctx, s.book, server.Options{
		Classifier:    s.classifier,
		LiabilitySign: s.cfg.Sign(),
		Currency:      s.cfg.Money(),
	}, log)

	if err := svc.Serve(ctx, addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error serving on %s: %v\n", addr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
