package fundbook

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mgirard/fundbook/date"
)

// newTestLedger builds an in-memory store with the account tree a typical
// statement resolves into.
func newTestLedger() *Store {
	st := NewStore()
	st.DeclareAccount("Assets", "Investments", "OPEN", "JANE DOE", "MFC 3212")
	st.DeclareAccount("Assets", "Investments", "TFSA", "JANE DOE", "MFC 3212")
	st.DeclareAccount("Assets", "Trust", "Family Trust", "MFC 7789")
	st.DeclareAccount("Income", "Distributions", "OPEN", "JANE DOE")
	st.DeclareAccount("Income", "Distributions", "TFSA", "JANE DOE")
	st.DeclareAccount("Income", "Trust Distributions")
	return st
}

func TestResolver_ResolveTrade(t *testing.T) {
	r := NewResolver(newTestLedger())
	tr := &TransactionRecord{
		TradeDate: date.New(2018, 11, 23),
		Company:   "MFC",
		Fund:      "3212",
	}
	if err := r.ResolveTrade(PlanOpen, "JANE DOE", tr); err != nil {
		t.Fatalf("ResolveTrade: %v", err)
	}
	if got := tr.Account.String(); got != "Assets:Investments:OPEN:JANE DOE:MFC 3212" {
		t.Errorf("Account = %q", got)
	}
	if got := tr.Revenue.String(); got != "Income:Distributions:OPEN:JANE DOE" {
		t.Errorf("Revenue = %q", got)
	}
}

func TestResolver_TrustOverride(t *testing.T) {
	r := NewResolver(newTestLedger())
	tr := &TransactionRecord{
		Company: "MFC",
		Fund:    TrustFundCode,
	}
	// the override bypasses the plan/owner path entirely
	if err := r.ResolveTrade(PlanOpen, "JANE DOE", tr); err != nil {
		t.Fatalf("ResolveTrade: %v", err)
	}
	if got := tr.Account.String(); got != "Assets:Trust:Family Trust:MFC 7789" {
		t.Errorf("Account = %q", got)
	}
	if got := tr.Revenue.String(); got != "Income:Trust Distributions" {
		t.Errorf("Revenue = %q", got)
	}
}

func TestResolver_AccountNotFound(t *testing.T) {
	r := NewResolver(newTestLedger())
	tr := &TransactionRecord{Company: "MFC", Fund: "3212"}

	err := r.ResolveTrade(PlanRRSP, "JANE DOE", tr)
	var notFound *AccountNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("ResolveTrade = %v, want *AccountNotFound", err)
	}
	if notFound.Missing != "RRSP" {
		t.Errorf("Missing = %q, want RRSP", notFound.Missing)
	}
	if want := []string{"Assets", "Investments"}; !reflect.DeepEqual(notFound.Consumed, want) {
		t.Errorf("Consumed = %v, want %v", notFound.Consumed, want)
	}
	if !tr.Account.IsZero() {
		t.Error("failed resolution left a partial account on the record")
	}
}

func TestResolver_ResolvePrice(t *testing.T) {
	r := NewResolver(newTestLedger())
	p := &PriceRecord{Company: "MFC", Fund: "3212", Name: "Canadian Monthly Income Fund"}
	account, err := r.ResolvePrice(PlanTFSA, "JANE DOE", p)
	if err != nil {
		t.Fatalf("ResolvePrice: %v", err)
	}
	if got := account.Name(); got != "MFC 3212" {
		t.Errorf("account = %q, want the fund leaf", got)
	}
}

// countingSession counts account lookups going through to the store.
type countingSession struct {
	*Store
	lookups int
}

func (s *countingSession) LookupAccount(parent AccountRef, name string) (AccountRef, bool) {
	s.lookups++
	return s.Store.LookupAccount(parent, name)
}

func TestResolver_Memoizes(t *testing.T) {
	session := &countingSession{Store: newTestLedger()}
	r := NewResolver(session)
	tr := &TransactionRecord{Company: "MFC", Fund: "3212"}
	if err := r.ResolveTrade(PlanOpen, "JANE DOE", tr); err != nil {
		t.Fatal(err)
	}

	// statements repeat the same fund for every trade; repeats must be
	// answered from the cache
	walked := session.lookups
	tr2 := &TransactionRecord{Company: "MFC", Fund: "3212"}
	if err := r.ResolveTrade(PlanOpen, "JANE DOE", tr2); err != nil {
		t.Fatalf("repeat resolution failed: %v", err)
	}
	if session.lookups != walked {
		t.Errorf("repeat resolution walked the tree again: %d -> %d lookups", walked, session.lookups)
	}
	if tr2.Account.String() != tr.Account.String() {
		t.Errorf("memoized account = %s, want %s", tr2.Account, tr.Account)
	}
}
