package cmd

import (
	"fmt"
	"strings"

	"github.com/mgirard/fundbook"
	"github.com/mgirard/fundbook/report"
)

// renderSummary formats a run's outcome as markdown for terminal rendering.
func renderSummary(rec *fundbook.InvestmentRecord, stats *report.Stats, summary *fundbook.Summary, mode fundbook.RunMode) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Import of %s\n\n", rec.SourceFile)
	fmt.Fprintf(&sb, "Owner %q, statement dated %s, %s mode.\n\n", rec.Owner, rec.SourceDate, mode)

	sb.WriteString("| Stage | Count |\n")
	sb.WriteString("|---|--:|\n")
	if stats.Lines > 0 {
		fmt.Fprintf(&sb, "| Lines read | %d |\n", stats.Lines)
		fmt.Fprintf(&sb, "| Records skipped | %d |\n", stats.Skipped)
		fmt.Fprintf(&sb, "| Parse warnings | %d |\n", stats.Warnings)
	}
	fmt.Fprintf(&sb, "| Transactions built | %d |\n", summary.Trades)
	fmt.Fprintf(&sb, "| Switch pairs | %d |\n", summary.Pairs)
	fmt.Fprintf(&sb, "| Quotes recorded | %d |\n", summary.Quotes)

	// exceptional outcomes only get a row when they happened
	if summary.MoneyMarket > 0 {
		fmt.Fprintf(&sb, "| Money market quotes skipped | %d |\n", summary.MoneyMarket)
	}
	if summary.Unmatched > 0 {
		fmt.Fprintf(&sb, "| Unmatched switch halves | %d |\n", summary.Unmatched)
	}
	if summary.Discarded > 0 {
		fmt.Fprintf(&sb, "| Unbalanced, discarded | %d |\n", summary.Discarded)
	}
	if summary.PlansFailed > 0 {
		fmt.Fprintf(&sb, "| Plan sections aborted | %d |\n", summary.PlansFailed)
	}

	if mode == fundbook.ModeTest {
		sb.WriteString("\nDry run: nothing was written. Re-run with `-mode prod` to commit.\n")
	}
	return sb.String()
}
