package fundbook

import (
	"fmt"
	"strings"

	"github.com/mgirard/fundbook/date"
)

// PlanType identifies one of the three plan categories a statement reports on.
type PlanType string

const (
	PlanOpen PlanType = "OPEN" // non-registered savings
	PlanTFSA PlanType = "TFSA" // tax-free savings
	PlanRRSP PlanType = "RRSP" // registered retirement savings
)

// PlanTypes lists all plan types in statement order.
var PlanTypes = []PlanType{PlanOpen, PlanTFSA, PlanRRSP}

// ParsePlanType parses a plan type marker.
func ParsePlanType(s string) (PlanType, error) {
	switch PlanType(strings.ToUpper(strings.TrimSpace(s))) {
	case PlanOpen:
		return PlanOpen, nil
	case PlanTFSA:
		return PlanTFSA, nil
	case PlanRRSP:
		return PlanRRSP, nil
	}
	return "", fmt.Errorf("unknown plan type: %q", s)
}

// TransactionRecord is one parsed trade line item from a statement.
type TransactionRecord struct {
	TradeDate   date.Date `json:"tradeDate"`
	Company     string    `json:"company"` // fund company code, e.g. "MFC"
	Fund        string    `json:"fund"`    // fund code within the company, e.g. "3212"
	Description string    `json:"description"`
	Gross       Cents     `json:"gross"`
	Net         Cents     `json:"net"`
	Units       Units     `json:"units"`
	Load        Cents     `json:"load,omitempty"`    // optional front-load fee
	Balance     Units     `json:"balance,omitempty"` // unit balance after the trade
	Switch      bool      `json:"switch,omitempty"`

	// Account references resolved before ledger construction. Not persisted:
	// the dump holds only what was parsed.
	Account AccountRef `json:"-"`
	Revenue AccountRef `json:"-"`
}

// CompanyRoot returns the company code with any trailing class digits
// stripped. Switch halves always stay within one company root even when the
// statement reports distinct class codes on each side.
func (t *TransactionRecord) CompanyRoot() string {
	return strings.TrimRight(t.Company, "0123456789")
}

// PriceRecord is one parsed price quotation from a statement.
type PriceRecord struct {
	QuoteDate date.Date `json:"quoteDate"`
	Company   string    `json:"company"`
	Fund      string    `json:"fund"`
	Name      string    `json:"name"`
	Price     Price     `json:"price"`
	Balance   Units     `json:"balance,omitempty"` // informational only
}

// IsMoneyMarket reports whether the quoted fund is a money-market fund.
// Money-market prices are pinned at par and must not enter the price database.
func (p *PriceRecord) IsMoneyMarket() bool {
	return strings.Contains(strings.ToLower(p.Name), "money market")
}

// Description markers. The statements flag switch legs and fee entries with
// these phrases; matching is case-insensitive on purpose, the PDF extraction
// sometimes upcases whole lines.
var switchMarkers = []string{"switch in", "switch out", "transfer in", "inter-class"}

// IsSwitchDescription reports whether the description marks one half of a
// two-sided switch or internal transfer.
func IsSwitchDescription(desc string) bool {
	lower := strings.ToLower(desc)
	for _, marker := range switchMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// IsFeeDescription reports whether the description marks a fee entry.
func IsFeeDescription(desc string) bool {
	return strings.Contains(strings.ToLower(desc), "fee")
}

// PlanCollection partitions parsed records by plan type, trades and prices
// separately, each in statement order.
type PlanCollection struct {
	Trades map[PlanType][]*TransactionRecord `json:"trades"`
	Prices map[PlanType][]*PriceRecord       `json:"prices"`
}

// NewPlanCollection creates an empty collection.
func NewPlanCollection() *PlanCollection {
	return &PlanCollection{
		Trades: make(map[PlanType][]*TransactionRecord),
		Prices: make(map[PlanType][]*PriceRecord),
	}
}

// AddTrade appends a trade record to the plan's trade list.
func (c *PlanCollection) AddTrade(plan PlanType, t *TransactionRecord) {
	c.Trades[plan] = append(c.Trades[plan], t)
}

// AddPrice appends a price record to the plan's price list.
func (c *PlanCollection) AddPrice(plan PlanType, p *PriceRecord) {
	c.Prices[plan] = append(c.Prices[plan], p)
}

// Len returns the total number of records in the collection.
func (c *PlanCollection) Len() int {
	n := 0
	for _, trades := range c.Trades {
		n += len(trades)
	}
	for _, prices := range c.Prices {
		n += len(prices)
	}
	return n
}

// InvestmentRecord is the parse result for one statement file: the owner it
// was issued to, the statement date, and all records grouped by plan.
type InvestmentRecord struct {
	Owner      string          `json:"owner"`
	SourceDate date.Date       `json:"sourceDate"`
	SourceFile string          `json:"sourceFile"`
	Plans      *PlanCollection `json:"plans"`
}

// NewInvestmentRecord creates an empty record for a statement file.
func NewInvestmentRecord(sourceFile string) *InvestmentRecord {
	return &InvestmentRecord{
		SourceFile: sourceFile,
		Plans:      NewPlanCollection(),
	}
}
