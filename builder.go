package fundbook

import (
	"fmt"
	"log"
)

// RunMode gates persistence. In TEST mode every transaction is built and
// validated, then explicitly rolled back. In PROD mode valid transactions are
// committed one by one and the store is saved once at the end of the run.
type RunMode int

const (
	ModeTest RunMode = iota
	ModeProd
)

func (m RunMode) String() string {
	switch m {
	case ModeTest:
		return "test"
	case ModeProd:
		return "prod"
	default:
		return "unknown"
	}
}

// ParseRunMode parses a run mode flag value.
func ParseRunMode(s string) (RunMode, error) {
	switch s {
	case "test":
		return ModeTest, nil
	case "prod":
		return ModeProd, nil
	default:
		return 0, fmt.Errorf("unknown run mode: %q (want test or prod)", s)
	}
}

// Builder converts resolved transaction records into balanced ledger
// transactions and submits them to the session.
type Builder struct {
	session Session
	mode    RunMode
}

// NewBuilder creates a builder over an open session.
func NewBuilder(session Session, mode RunMode) *Builder {
	return &Builder{session: session, mode: mode}
}

// action classifies the asset posting of a single-sided trade.
func action(t *TransactionRecord) Action {
	switch {
	case IsFeeDescription(t.Description):
		return ActionFee
	case t.Units.IsNegative():
		return ActionSell
	default:
		return ActionDistribution
	}
}

// Distribution builds the two-posting transaction for a non-switch trade:
// the asset side carries the record's value and units, the revenue side the
// exact negation.
func (b *Builder) Distribution(t *TransactionRecord) error {
	tx := &LedgerTransaction{
		Date:        t.TradeDate,
		Description: t.Description,
		Postings: []Posting{
			{Account: t.Account, Value: t.Gross, Quantity: t.Units, Action: action(t)},
			{Account: t.Revenue, Value: t.Gross.Neg()},
		},
	}
	return b.submit(tx)
}

// SwitchPair builds the two-posting transaction for a matched switch pair:
// one asset posting per side, no revenue recognized. The first argument is
// the half seen first in the statement.
func (b *Builder) SwitchPair(first, second *TransactionRecord) error {
	tag := func(t *TransactionRecord) Action {
		if t.Units.IsNegative() {
			return ActionSell
		}
		return ActionBuy
	}
	tx := &LedgerTransaction{
		Date:        first.TradeDate,
		Description: fmt.Sprintf("switch %s to %s", fundLeaf(first.Company, first.Fund), fundLeaf(second.Company, second.Fund)),
		Notes:       first.Description + " / " + second.Description,
		Postings: []Posting{
			{Account: first.Account, Value: first.Gross, Quantity: first.Units, Action: tag(first), Memo: first.Description},
			{Account: second.Account, Value: second.Gross, Quantity: second.Units, Action: tag(second), Memo: second.Description},
		},
	}
	return b.submit(tx)
}

// Quote records a price quotation in the session's price database, tagged
// with the resolved asset account's commodity. Money-market quotations are
// skipped entirely: their price is pinned at par.
func (b *Builder) Quote(p *PriceRecord, account AccountRef) error {
	if p.IsMoneyMarket() {
		return nil
	}
	return b.session.AddPrice(p.QuoteDate, account.Name(), p.Price)
}

// submit validates the transaction and commits or rolls it back according to
// the run mode. A zero-sum violation always rolls back and is reported,
// never silently corrected.
func (b *Builder) submit(tx *LedgerTransaction) error {
	if err := b.session.BeginEdit(); err != nil {
		return err
	}
	if err := tx.CheckBalance(); err != nil {
		if rbErr := b.session.RollbackEdit(); rbErr != nil {
			log.Printf("rollback after imbalance failed: %v", rbErr)
		}
		return err
	}
	if b.mode == ModeTest {
		// dry-run: the transaction is fully constructed and validated, then
		// discarded.
		return b.session.RollbackEdit()
	}
	return b.session.CommitEdit(tx)
}
