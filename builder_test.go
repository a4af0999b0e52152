package fundbook

import (
	"errors"
	"testing"

	"github.com/mgirard/fundbook/date"
)

func resolvedTrade(desc string, gross Cents, units Units) *TransactionRecord {
	return &TransactionRecord{
		TradeDate:   date.New(2018, 11, 23),
		Company:     "MFC",
		Fund:        "3212",
		Description: desc,
		Gross:       gross,
		Net:         gross,
		Units:       units,
		Account:     AccountRef{Path: []string{"Assets", "Investments", "OPEN", "JANE DOE", "MFC 3212"}},
		Revenue:     AccountRef{Path: []string{"Income", "Distributions", "OPEN", "JANE DOE"}},
	}
}

func TestBuilder_Distribution(t *testing.T) {
	st := NewStore()
	b := NewBuilder(st, ModeProd)

	if err := b.Distribution(resolvedTrade("Reinvested distribution", 3473, 38610)); err != nil {
		t.Fatalf("Distribution: %v", err)
	}
	txs := st.Transactions()
	if len(txs) != 1 {
		t.Fatalf("store has %d transactions, want 1", len(txs))
	}
	tx := txs[0]
	if err := tx.CheckBalance(); err != nil {
		t.Errorf("committed transaction unbalanced: %v", err)
	}
	if len(tx.Postings) != 2 {
		t.Fatalf("transaction has %d postings, want 2", len(tx.Postings))
	}
	asset, revenue := tx.Postings[0], tx.Postings[1]
	if asset.Value != 3473 || asset.Quantity != 38610 || asset.Action != ActionDistribution {
		t.Errorf("asset posting = %+v", asset)
	}
	if revenue.Value != -3473 || revenue.Quantity != 0 {
		t.Errorf("revenue posting = %+v", revenue)
	}
}

func TestBuilder_ActionClassification(t *testing.T) {
	tests := []struct {
		desc  string
		units Units
		want  Action
	}{
		{desc: "Reinvested distribution", units: 38610, want: ActionDistribution},
		{desc: "Redemption", units: -38610, want: ActionSell},
		{desc: "Short-term trading fee", units: -100, want: ActionFee},
	}
	for _, tc := range tests {
		st := NewStore()
		b := NewBuilder(st, ModeProd)
		gross := Cents(3473)
		if tc.units.IsNegative() {
			gross = gross.Neg()
		}
		if err := b.Distribution(resolvedTrade(tc.desc, gross, tc.units)); err != nil {
			t.Fatalf("%s: %v", tc.desc, err)
		}
		if got := st.Transactions()[0].Postings[0].Action; got != tc.want {
			t.Errorf("%s: action = %s, want %s", tc.desc, got, tc.want)
		}
	}
}

func TestBuilder_SwitchPair(t *testing.T) {
	st := NewStore()
	b := NewBuilder(st, ModeProd)

	out := resolvedTrade("Switch Out to MFC 4100", -50000, -5556000)
	in := resolvedTrade("Switch In from MFC 3212", 50000, 4128000)
	in.Fund = "4100"
	in.Account = AccountRef{Path: []string{"Assets", "Investments", "OPEN", "JANE DOE", "MFC 4100"}}

	if err := b.SwitchPair(out, in); err != nil {
		t.Fatalf("SwitchPair: %v", err)
	}
	tx := st.Transactions()[0]
	if err := tx.CheckBalance(); err != nil {
		t.Errorf("switch transaction unbalanced: %v", err)
	}
	if tx.Description != "switch MFC 3212 to MFC 4100" {
		t.Errorf("Description = %q", tx.Description)
	}
	if tx.Date != out.TradeDate {
		t.Errorf("Date = %s, want the first half's date", tx.Date)
	}
	if tx.Postings[0].Action != ActionSell || tx.Postings[1].Action != ActionBuy {
		t.Errorf("postings tagged %s/%s, want sell/buy", tx.Postings[0].Action, tx.Postings[1].Action)
	}
	if tx.Postings[0].Memo != out.Description || tx.Postings[1].Memo != in.Description {
		t.Errorf("memos = %q / %q", tx.Postings[0].Memo, tx.Postings[1].Memo)
	}
}

func TestBuilder_ZeroSumViolationRollsBack(t *testing.T) {
	st := NewStore()
	b := NewBuilder(st, ModeProd)

	out := resolvedTrade("Switch Out", -50000, -5556000)
	in := resolvedTrade("Switch In", 49999, 4128000) // off by a cent

	err := b.SwitchPair(out, in)
	var violation *ZeroSumViolation
	if !errors.As(err, &violation) {
		t.Fatalf("SwitchPair = %v, want *ZeroSumViolation", err)
	}
	if violation.Imbalance != -1 {
		t.Errorf("Imbalance = %d, want -1", violation.Imbalance)
	}
	if len(st.Transactions()) != 0 {
		t.Error("unbalanced transaction entered the store")
	}
	// the edit must be closed: a fresh one opens cleanly
	if err := st.BeginEdit(); err != nil {
		t.Errorf("edit left open after rollback: %v", err)
	}
}

func TestBuilder_TestModeRollsBack(t *testing.T) {
	st := NewStore()
	b := NewBuilder(st, ModeTest)

	if err := b.Distribution(resolvedTrade("Reinvested distribution", 3473, 38610)); err != nil {
		t.Fatalf("Distribution: %v", err)
	}
	if len(st.Transactions()) != 0 {
		t.Error("test mode committed a transaction")
	}
	if st.SaveCount() != 0 {
		t.Error("test mode saved the store")
	}
}

func TestBuilder_QuoteSkipsMoneyMarket(t *testing.T) {
	st := NewStore()
	st.BeginPrices()
	b := NewBuilder(st, ModeProd)
	account := AccountRef{Path: []string{"Assets", "Investments", "OPEN", "JANE DOE", "MFC 5000"}}

	mm := &PriceRecord{
		QuoteDate: date.New(2018, 11, 23),
		Company:   "MFC", Fund: "5000",
		Name:  "Canadian Money Market Fund",
		Price: NewPrice(100000),
	}
	if err := b.Quote(mm, account); err != nil {
		t.Fatalf("Quote: %v", err)
	}
	st.CommitPrices()
	if st.Prices().Len() != 0 {
		t.Error("money market quotation entered the price database")
	}
}
