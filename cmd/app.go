// Package cmd implements the fbk command line application.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/mgirard/fundbook"
)

// Commands lists the subcommands a main package registers.
var Commands = []subcommands.Command{
	&importCmd{},
	&dumpCmd{},
}

// as a CLI application with a very short lifecycle, global flags are fine.

var (
	ledgerFile *string
	dumpDir    *string
	trustFund  *string
)

func init() {
	// optional .env overlay for the file locations; flags still win.
	_ = godotenv.Load()
	ledgerFile = flag.String("ledger-file", envOr("FUNDBOOK_LEDGER", "ledger.jsonl"), "Path to the ledger store file (JSONL format)")
	dumpDir = flag.String("dump-dir", envOr("FUNDBOOK_DUMP_DIR", "."), "Directory for JSON dumps of parsed statements")
	trustFund = flag.String("trust-fund", envOr("FUNDBOOK_TRUST_FUND", fundbook.TrustFundCode), "Fund code resolved into the family trust accounts")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when rendering is not possible.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
