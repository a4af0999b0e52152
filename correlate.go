package fundbook

// Correlator pairs the two halves of a switch transaction that a statement
// reports as two separate trade lines. Unmatched halves wait in a pending
// index keyed by plan type, company root and trade date; the plan type is
// part of the key on purpose, a cross-plan switch is unsupported input and
// must stay unmatched.
type Correlator struct {
	pending map[pairKey][]*TransactionRecord
}

type pairKey struct {
	plan PlanType
	root string // company root code
	on   string // trade date, canonical form
}

// NewCorrelator creates an empty correlator for one run.
func NewCorrelator() *Correlator {
	return &Correlator{pending: make(map[pairKey][]*TransactionRecord)}
}

// Match looks for the stored counterpart of a switch half: same plan type,
// same company root, same trade date, gross amount the exact negation. If
// one exists the first match in stored order is removed from the index and
// returned; otherwise the half is stored provisionally and Match returns
// nil, telling the caller no ledger transaction can be built yet.
func (c *Correlator) Match(plan PlanType, t *TransactionRecord) *TransactionRecord {
	key := pairKey{plan: plan, root: t.CompanyRoot(), on: t.TradeDate.String()}
	list := c.pending[key]
	for i, candidate := range list {
		if candidate.Gross == t.Gross.Neg() {
			list = append(list[:i:i], list[i+1:]...)
			if len(list) == 0 {
				delete(c.pending, key)
			} else {
				c.pending[key] = list
			}
			return candidate
		}
	}
	c.pending[key] = append(list, t)
	return nil
}

// PendingCount returns how many provisional halves are still waiting for a
// partner. At end of run these are the permanently unmatched switches.
func (c *Correlator) PendingCount() int {
	n := 0
	for _, list := range c.pending {
		n += len(list)
	}
	return n
}
