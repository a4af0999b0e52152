package fundbook

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mgirard/fundbook/date"
)

func TestAccountRef(t *testing.T) {
	var root AccountRef
	if !root.IsZero() {
		t.Error("zero value should be the tree root")
	}
	a := root.Child("Assets").Child("Investments").Child("OPEN")
	if got := a.String(); got != "Assets:Investments:OPEN" {
		t.Errorf("String() = %q", got)
	}
	if got := a.Name(); got != "OPEN" {
		t.Errorf("Name() = %q", got)
	}
	// Child must not alias the parent's backing array.
	b := a.Child("JANE DOE")
	c := a.Child("JOHN DOE")
	if b.Name() != "JANE DOE" || c.Name() != "JOHN DOE" {
		t.Errorf("siblings alias each other: %s vs %s", b, c)
	}
}

func TestAccountRef_JSONRoundTrip(t *testing.T) {
	a := AccountRef{Path: []string{"Assets", "Investments", "OPEN", "JANE DOE", "MFC 3212"}}
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"Assets:Investments:OPEN:JANE DOE:MFC 3212"` {
		t.Errorf("marshal = %s", data)
	}
	var back AccountRef
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.String() != a.String() {
		t.Errorf("round trip = %s, want %s", back, a)
	}
}

func TestLedgerTransaction_CheckBalance(t *testing.T) {
	asset := AccountRef{Path: []string{"Assets", "Investments"}}
	income := AccountRef{Path: []string{"Income", "Distributions"}}

	balanced := &LedgerTransaction{
		Date:        date.New(2018, 11, 23),
		Description: "Reinvested distribution",
		Postings: []Posting{
			{Account: asset, Value: 3473, Quantity: 38610, Action: ActionDistribution},
			{Account: income, Value: -3473},
		},
	}
	if err := balanced.CheckBalance(); err != nil {
		t.Errorf("balanced transaction rejected: %v", err)
	}

	unbalanced := &LedgerTransaction{
		Date:        date.New(2018, 11, 23),
		Description: "bad switch",
		Postings: []Posting{
			{Account: asset, Value: 3473},
			{Account: income, Value: -3472},
		},
	}
	err := unbalanced.CheckBalance()
	var violation *ZeroSumViolation
	if !errors.As(err, &violation) {
		t.Fatalf("CheckBalance() = %v, want *ZeroSumViolation", err)
	}
	if violation.Imbalance != 1 {
		t.Errorf("Imbalance = %d, want 1", violation.Imbalance)
	}
	if violation.Description != "bad switch" {
		t.Errorf("Description = %q", violation.Description)
	}
}
