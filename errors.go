package fundbook

import "fmt"

// The pipeline distinguishes four failure classes. FormatMismatch is
// record-local: the offending record is skipped and parsing resumes.
// AccountNotFound and MissingOwner abort the enclosing plan's processing.
// ZeroSumViolation discards a single ledger transaction and the run continues.

// FormatMismatch reports a raw token that did not match its expected shape.
type FormatMismatch struct {
	Kind string // value-kind tag: "currency", "units", "price", "date"
	Text string // the offending token
}

func (e *FormatMismatch) Error() string {
	return fmt.Sprintf("format mismatch: %q is not a valid %s", e.Text, e.Kind)
}

// AccountNotFound reports a failed walk through the ledger account tree.
type AccountNotFound struct {
	Missing  string   // the first segment that could not be resolved
	Consumed []string // the path successfully walked so far
}

func (e *AccountNotFound) Error() string {
	return fmt.Sprintf("account not found: no child %q under %v", e.Missing, e.Consumed)
}

// ZeroSumViolation reports a ledger transaction whose postings did not balance.
type ZeroSumViolation struct {
	Description string
	Imbalance   Cents // the non-zero sum of posting values
}

func (e *ZeroSumViolation) Error() string {
	return fmt.Sprintf("postings of %q do not balance: off by %s", e.Description, e.Imbalance)
}

// MissingOwner reports a plan section that requires an owner not yet known.
type MissingOwner struct {
	Plan PlanType
}

func (e *MissingOwner) Error() string {
	return fmt.Sprintf("no owner known for %s plan section", e.Plan)
}
