package fundbook

import (
	"errors"
	"fmt"
	"log"
)

// Scope restricts what a run processes.
type Scope int

const (
	ScopeBoth Scope = iota
	ScopeTrades
	ScopePrices
)

func (s Scope) String() string {
	switch s {
	case ScopeBoth:
		return "both"
	case ScopeTrades:
		return "trades"
	case ScopePrices:
		return "prices"
	default:
		return "unknown"
	}
}

// ParseScope parses a scope flag value.
func ParseScope(s string) (Scope, error) {
	switch s {
	case "both":
		return ScopeBoth, nil
	case "trades":
		return ScopeTrades, nil
	case "prices":
		return ScopePrices, nil
	default:
		return 0, fmt.Errorf("unknown scope: %q (want trades, prices or both)", s)
	}
}

// Summary tallies the outcome of one run.
type Summary struct {
	Trades      int // trade records turned into ledger transactions
	Pairs       int // switch pairs among them
	Unmatched   int // switch halves left without a partner
	Quotes      int // price quotations recorded
	MoneyMarket int // price quotations skipped (price pinned at par)
	Discarded   int // transactions rolled back on a zero-sum violation
	PlansFailed int // plan sections aborted on a structural failure
}

// Pipeline drives one statement's records through account resolution,
// correlation and ledger construction.
//
// Error policy: a ZeroSumViolation discards one transaction and the run
// continues; AccountNotFound and MissingOwner abort the enclosing plan but
// not the run; anything else is a session failure and aborts the run.
type Pipeline struct {
	Session  Session
	Resolver *Resolver
	Mode     RunMode
	Scope    Scope
}

// NewPipeline creates a pipeline over an open session.
func NewPipeline(session Session, mode RunMode, scope Scope) *Pipeline {
	return &Pipeline{
		Session:  session,
		Resolver: NewResolver(session),
		Mode:     mode,
		Scope:    scope,
	}
}

// Run processes every record of the statement, in statement order. Switch
// halves are deferred until their partner appears, so ledger-commit order
// can differ from statement order for those. In PROD mode the store is saved
// exactly once, at the very end.
func (p *Pipeline) Run(rec *InvestmentRecord) (*Summary, error) {
	summary := &Summary{}
	builder := NewBuilder(p.Session, p.Mode)

	if p.Scope != ScopeTrades {
		if err := p.Session.BeginPrices(); err != nil {
			return summary, err
		}
	}

	if p.Scope != ScopePrices {
		correlator := NewCorrelator()
		for _, plan := range PlanTypes {
			if err := p.runPlanTrades(rec, plan, correlator, builder, summary); err != nil {
				return summary, err
			}
		}
		summary.Unmatched = correlator.PendingCount()
		if summary.Unmatched > 0 {
			log.Printf("%d switch halves left unmatched at end of run", summary.Unmatched)
		}
	}

	if p.Scope != ScopeTrades {
		for _, plan := range PlanTypes {
			if err := p.runPlanPrices(rec, plan, builder, summary); err != nil {
				return summary, err
			}
		}
		// the price bracket spans the whole run
		if err := p.Session.CommitPrices(); err != nil {
			return summary, err
		}
	}

	if p.Mode == ModeProd {
		if err := p.Session.Save(); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// runPlanTrades processes one plan's trade records. A structural failure
// aborts the plan, logs it, and leaves the rest of the run alone.
func (p *Pipeline) runPlanTrades(rec *InvestmentRecord, plan PlanType, correlator *Correlator, builder *Builder, summary *Summary) error {
	trades := rec.Plans.Trades[plan]
	if len(trades) == 0 {
		return nil
	}
	if rec.Owner == "" {
		summary.PlansFailed++
		log.Printf("skipping %s trades: %v", plan, &MissingOwner{Plan: plan})
		return nil
	}

	for _, t := range trades {
		if err := p.Resolver.ResolveTrade(plan, rec.Owner, t); err != nil {
			var notFound *AccountNotFound
			if errors.As(err, &notFound) {
				summary.PlansFailed++
				log.Printf("aborting %s trades: %v", plan, err)
				return nil
			}
			return err
		}

		var err error
		if t.Switch {
			partner := correlator.Match(plan, t)
			if partner == nil {
				// first half of a pair, wait for the partner
				continue
			}
			err = builder.SwitchPair(partner, t)
			if err == nil {
				summary.Pairs++
				summary.Trades += 2
			}
		} else {
			err = builder.Distribution(t)
			if err == nil {
				summary.Trades++
			}
		}

		if err != nil {
			var zeroSum *ZeroSumViolation
			if errors.As(err, &zeroSum) {
				summary.Discarded++
				log.Printf("discarding transaction on %s: %v", t.TradeDate, err)
				continue
			}
			return err
		}
	}
	return nil
}

// runPlanPrices records one plan's price quotations.
func (p *Pipeline) runPlanPrices(rec *InvestmentRecord, plan PlanType, builder *Builder, summary *Summary) error {
	prices := rec.Plans.Prices[plan]
	if len(prices) == 0 {
		return nil
	}
	if rec.Owner == "" {
		summary.PlansFailed++
		log.Printf("skipping %s prices: %v", plan, &MissingOwner{Plan: plan})
		return nil
	}

	for _, q := range prices {
		if q.IsMoneyMarket() {
			summary.MoneyMarket++
			continue
		}
		account, err := p.Resolver.ResolvePrice(plan, rec.Owner, q)
		if err != nil {
			var notFound *AccountNotFound
			if errors.As(err, &notFound) {
				summary.PlansFailed++
				log.Printf("aborting %s prices: %v", plan, err)
				return nil
			}
			return err
		}
		if err := builder.Quote(q, account); err != nil {
			return err
		}
		summary.Quotes++
	}
	return nil
}
