package fundbook

import (
	"encoding/json"
	"strings"

	"github.com/mgirard/fundbook/date"
)

// AccountRef is a reference to a concrete account in the external ledger's
// account tree, identified by its full path from the root. The zero value is
// the tree root.
type AccountRef struct {
	Path []string
}

// Name returns the account's own name, the last path segment.
func (a AccountRef) Name() string {
	if len(a.Path) == 0 {
		return ""
	}
	return a.Path[len(a.Path)-1]
}

// Child returns the reference a child account of this one would have.
func (a AccountRef) Child(name string) AccountRef {
	child := make([]string, 0, len(a.Path)+1)
	child = append(child, a.Path...)
	return AccountRef{Path: append(child, name)}
}

// IsZero reports whether the reference is the unresolved zero value.
func (a AccountRef) IsZero() bool { return len(a.Path) == 0 }

// String renders the path in the usual colon-separated form.
func (a AccountRef) String() string { return strings.Join(a.Path, ":") }

// MarshalJSON encodes the reference as its colon-separated path.
func (a AccountRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes the reference from its colon-separated path.
func (a *AccountRef) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		a.Path = nil
		return nil
	}
	a.Path = strings.Split(str, ":")
	return nil
}

// Action tags the intent of an asset posting.
type Action string

const (
	ActionBuy          Action = "buy"
	ActionSell         Action = "sell"
	ActionDistribution Action = "distribution"
	ActionFee          Action = "fee"
)

// Posting is one side of a double-entry transaction.
type Posting struct {
	Account  AccountRef `json:"account"`
	Value    Cents      `json:"value"`
	Quantity Units      `json:"quantity,omitempty"` // zero for pure currency postings
	Action   Action     `json:"action,omitempty"`
	Memo     string     `json:"memo,omitempty"`
}

// LedgerTransaction is a non-empty ordered set of postings sharing one trade
// date. Its postings must sum to exactly zero before it may be committed.
type LedgerTransaction struct {
	ID          string    `json:"id,omitempty"` // assigned by the store on commit
	Date        date.Date `json:"date"`
	Description string    `json:"description"`
	Notes       string    `json:"notes,omitempty"`
	Postings    []Posting `json:"postings"`
}

// Imbalance returns the sum of all posting values. Zero means balanced.
func (tx *LedgerTransaction) Imbalance() Cents {
	var sum Cents
	for _, p := range tx.Postings {
		sum = sum.Add(p.Value)
	}
	return sum
}

// CheckBalance verifies the zero-sum invariant, in integer minor units.
func (tx *LedgerTransaction) CheckBalance() error {
	if imbalance := tx.Imbalance(); !imbalance.IsZero() {
		return &ZeroSumViolation{Description: tx.Description, Imbalance: imbalance}
	}
	return nil
}

// Session is the edit surface of the external ledger store, consumed by the
// builder and the resolver. Every transaction is bracketed by
// BeginEdit/CommitEdit or BeginEdit/RollbackEdit; the price bracket
// BeginPrices/CommitPrices spans a whole run.
type Session interface {
	// LookupAccount finds a direct child account by name under a parent.
	LookupAccount(parent AccountRef, name string) (AccountRef, bool)

	BeginEdit() error
	CommitEdit(tx *LedgerTransaction) error
	RollbackEdit() error

	BeginPrices() error
	AddPrice(on date.Date, commodity string, price Price) error
	CommitPrices() error

	// Save persists the store. Called exactly once per run, in PROD mode only.
	Save() error
	// End closes the session. Safe to call with an edit still open; the open
	// edit is rolled back.
	End() error
}
