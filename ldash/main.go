// Command ldash reports on a ledger file and reconciles its transactions.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/ledgerdash/cmd"
	"github.com/etnz/ledgerdash/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// exits when invoked by the shell to complete a command line.
	completion().Complete("ldash")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// predictors of the flags whose values are known in advance.
var predictors = map[string]complete.Predictor{
	"config": predict.Files("*.toml"),
	"b":      predict.Set{"asset", "liability", "income", "expense"},
	"r":      predict.Set{"report", "kpi", "flow", "balance", "trend", "unreconciled", "months"},
}

// completion describes the command line of ldash for shell completion.
func completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, c := range cmd.Commands() {
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(f)
		sub := &complete.Command{Flags: flagPredictors(f)}
		if c.Name() == "topic" {
			if topics, err := docs.GetAllTopics(); err == nil {
				sub.Args = predict.Set(topics)
			}
		}
		root.Sub[c.Name()] = sub
	}
	return root
}

func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		switch {
		case predictors[fl.Name] != nil:
			flags[fl.Name] = predictors[fl.Name]
		case isBool(fl):
			flags[fl.Name] = predict.Nothing
		default:
			flags[fl.Name] = predict.Something
		}
	})
	return flags
}

func isBool(fl *flag.Flag) bool {
	b, ok := fl.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
