package cmd

import (
	"strings"
	"testing"

	"github.com/mgirard/fundbook"
	"github.com/mgirard/fundbook/date"
	"github.com/mgirard/fundbook/report"
)

func TestRenderSummary(t *testing.T) {
	rec := fundbook.NewInvestmentRecord("statement.txt")
	rec.Owner = "JANE DOE"
	rec.SourceDate = date.New(2018, 11, 30)
	stats := &report.Stats{Lines: 42, Skipped: 1}
	summary := &fundbook.Summary{Trades: 3, Pairs: 1, Quotes: 2, Unmatched: 1}

	md := renderSummary(rec, stats, summary, fundbook.ModeTest)

	for _, want := range []string{
		"statement.txt",
		"JANE DOE",
		"| Transactions built | 3 |",
		"| Switch pairs | 1 |",
		"| Unmatched switch halves | 1 |",
		"Dry run",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("summary missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Plan sections aborted") {
		t.Error("zero-count row rendered")
	}

	md = renderSummary(rec, stats, summary, fundbook.ModeProd)
	if strings.Contains(md, "Dry run") {
		t.Error("prod summary carries the dry-run note")
	}
}
