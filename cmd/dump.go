package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mgirard/fundbook"
	"github.com/mgirard/fundbook/report"
)

type dumpCmd struct{}

func (*dumpCmd) Name() string { return "dump" }
func (*dumpCmd) Synopsis() string {
	return "parse an investment statement and write its JSON dump, touching no ledger"
}
func (*dumpCmd) Usage() string {
	return `fbk dump <statement>

  Parses a statement text file and writes the parsed records to a
  timestamped JSON file in the dump directory. The dump can later be fed to
  'fbk import' in place of the statement.
`
}

func (*dumpCmd) SetFlags(*flag.FlagSet) {}

func (p *dumpCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one statement file is required")
		return subcommands.ExitUsageError
	}

	in, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open statement %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	rec, stats, err := report.Parse(in, f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	path, err := fundbook.DumpRecord(*dumpDir, rec)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Parsed %d records (%d skipped, %d warnings), wrote %s\n",
		rec.Plans.Len(), stats.Skipped, stats.Warnings, path)
	return subcommands.ExitSuccess
}
