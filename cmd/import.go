package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/mgirard/fundbook"
	"github.com/mgirard/fundbook/report"
)

type importCmd struct {
	mode  string
	scope string
	dump  bool
}

func (*importCmd) Name() string { return "import" }
func (*importCmd) Synopsis() string {
	return "parse an investment statement and import it into the ledger"
}
func (*importCmd) Usage() string {
	return `fbk import [-mode <test|prod>] [-scope <trades|prices|both>] [-dump] <statement>

  Parses a statement text file (or reloads a .json dump of one) and converts
  its trades and price quotations into balanced ledger transactions. In test
  mode every transaction is built and validated but rolled back; in prod
  mode transactions are committed and the ledger file is saved once at the
  end of the run.

Usage Examples:
# Dry-run a statement against the default ledger.
$ fbk import statement.txt

# Commit trades only.
$ fbk import -mode prod -scope trades statement.txt
`
}

func (p *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.mode, "mode", "test", "Run mode: test (dry-run) or prod (persist).")
	f.StringVar(&p.scope, "scope", "both", "Restrict processing to trades, prices, or both.")
	f.BoolVar(&p.dump, "dump", false, "Also write a timestamped JSON dump of the parsed statement.")
}

func (p *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one statement file is required")
		return subcommands.ExitUsageError
	}

	mode, err := fundbook.ParseRunMode(p.mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	scope, err := fundbook.ParseScope(p.scope)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	rec, stats, status := loadStatement(f.Arg(0))
	if status != subcommands.ExitSuccess {
		return status
	}

	store, err := fundbook.OpenStore(*ledgerFile)
	if err != nil {
		// a missing or unreadable ledger is fatal: nothing can be resolved
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer store.End()

	pipeline := fundbook.NewPipeline(store, mode, scope)
	if *trustFund != fundbook.TrustFundCode {
		overrides := map[string]fundbook.AccountOverride{
			*trustFund: fundbook.DefaultOverrides[fundbook.TrustFundCode],
		}
		pipeline.Resolver = fundbook.NewResolverWithOverrides(store, overrides)
	}
	summary, err := pipeline.Run(rec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
		return subcommands.ExitFailure
	}

	if p.dump {
		path, err := fundbook.DumpRecord(*dumpDir, rec)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Wrote dump %s\n", path)
	}

	printMarkdown(renderSummary(rec, stats, summary, mode))
	return subcommands.ExitSuccess
}

// loadStatement reads a statement text file, or reloads a previous .json
// dump of one. A missing or invalid path terminates the command.
func loadStatement(path string) (*fundbook.InvestmentRecord, *report.Stats, subcommands.ExitStatus) {
	if strings.HasSuffix(path, ".json") {
		rec, err := fundbook.LoadRecord(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return nil, nil, subcommands.ExitFailure
		}
		return rec, &report.Stats{}, subcommands.ExitSuccess
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open statement %q: %v\n", path, err)
		return nil, nil, subcommands.ExitFailure
	}
	defer f.Close()

	rec, stats, err := report.Parse(f, path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return nil, nil, subcommands.ExitFailure
	}
	return rec, stats, subcommands.ExitSuccess
}
