// Package report parses semi-structured investment statements into record
// collections ready for ledger import.
//
// Two layouts are understood. The web layout, copied from the portal, puts
// the trade date on its own line (or with the first description line), the
// rest of the description on the following line or two, and the numeric
// block last:
//
//	Non-Registered Savings Plan (OPEN)
//	Account of: JANE DOE
//	MFC 3212 Canadian Monthly Income Fund
//	11/23/2018 Reinvested distribution
//	$34.73 $34.73 3.8610 $8.9950 1,234.5678
//
// The PDF-derived layout keeps one trade per line, with the numeric block
// starting at a fixed column:
//
//	23-Nov-2018 Reinvested distribution        $34.73 $34.73 3.8610 $8.9950 1,234.5678
//
// In both layouts the numeric block is read by fixed relative position:
// gross, net, units, price, then optionally the unit balance and a load fee.
// The number of description lines varies by transaction subtype (a switch or
// transfer names its counterpart fund on an extra line, a systematic plan
// its schedule): the parser adjusts its expectation from marker phrases in
// the first description line, because a wrong count would misalign every
// numeric field of the record.
package report

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"

	"github.com/mgirard/fundbook"
	"github.com/mgirard/fundbook/date"
)

// state is the parser's position in the statement's structure.
type state int

const (
	stateSearch state = iota // scanning for a plan or owner marker
	stateFindOwner
	stateFindFund
	stateFindNextTx
	stateFillTx // accumulating a record's description lines
)

var (
	rePlanMarker = regexp.MustCompile(`\((OPEN|TFSA|RRSP)\)`)
	reOwner      = regexp.MustCompile(`^(?:Account of|Registered to):\s+(.+)$`)
	reAsOf       = regexp.MustCompile(`^(?:As of|Statement date):\s+(\S+)$`)

	// MFC 3212 Canadian Monthly Income Fund
	reFundHeader = regexp.MustCompile(`^([A-Z]{2,4}\d?)\s+(\d{3,5})\s+(\D.*)$`)

	// MFC 3212 Canadian Monthly Income Fund $8.9950 1,234.5678
	rePriceLine = regexp.MustCompile(`^([A-Z]{2,4}\d?)\s+(\d{3,5})\s+(.+?)\s+(\$\d+\.\d{4})(?:\s+(-?[\d,]+\.\d{4}))?$`)

	// optional trailing date on a price section marker
	reSectionDate = regexp.MustCompile(`(?:as of|As of)\s+(\S+)\s*$`)
)

// numericColumn is where the PDF extraction aligns the numeric block.
const numericColumn = 44

// maxDescLines bounds the description of any subtype.
const maxDescLines = 3

// Stats reports what a parse run did.
type Stats struct {
	Lines    int // lines read
	Skipped  int // records abandoned on a malformed field
	Warnings int // data-quality warnings (net/gross mismatch)
}

// context is the mutable parsing state threaded through every step: the
// current plan, owner knowledge and fund header.
type context struct {
	plan      fundbook.PlanType
	planKnown bool
	inPrices  bool
	company   string
	fund      string
	fundName  string
	priceDate date.Date // date scoping the current price section
}

// pending is a trade record being filled across lines.
type pending struct {
	line   int // statement line of the date, for error messages
	on     date.Date
	desc   []string
	budget int // description lines expected before the numeric block
}

// Parser is the line-oriented state machine.
type Parser struct {
	rec   *fundbook.InvestmentRecord
	ctx   context
	state state
	cur   *pending
	stats Stats
}

// Parse reads a whole statement and returns the populated record collection.
// Malformed records are logged and skipped, never fatal; the only error
// returned is a failure of the reader itself.
func Parse(r io.Reader, sourceFile string) (*fundbook.InvestmentRecord, *Stats, error) {
	p := &Parser{rec: fundbook.NewInvestmentRecord(sourceFile)}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.stats.Lines++
		p.feed(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("cannot read statement %q: %w", sourceFile, err)
	}
	if p.cur != nil {
		p.abort("statement ended mid-record")
	}
	return p.rec, &p.stats, nil
}

// feed advances the machine by one statement line.
func (p *Parser) feed(raw string) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return
	}

	// While filling a record the line count is positional, nothing else may
	// consume lines.
	if p.state == stateFillTx {
		p.fill(line)
		return
	}

	if m := rePlanMarker.FindStringSubmatch(line); m != nil {
		p.enterSection(fundbook.PlanType(m[1]), line)
		return
	}
	if m := reOwner.FindStringSubmatch(line); m != nil {
		p.rec.Owner = strings.TrimSpace(m[1])
		if p.state == stateFindOwner {
			p.state = stateFindFund
		}
		return
	}
	if m := reAsOf.FindStringSubmatch(line); m != nil {
		if on, err := fundbook.ParseTradeDate(m[1]); err == nil {
			p.rec.SourceDate = on
		}
		return
	}

	switch p.state {
	case stateSearch, stateFindOwner:
		// boilerplate and headers are skipped silently by design

	case stateFindFund, stateFindNextTx:
		if p.ctx.inPrices {
			p.priceLine(line)
			return
		}
		if p.state == stateFindNextTx {
			if fields := strings.Fields(line); len(fields) > 0 {
				if on, err := fundbook.ParseTradeDate(fields[0]); err == nil {
					p.beginTx(on, raw, line, fields[0])
					return
				}
			}
		}
		if m := reFundHeader.FindStringSubmatch(line); m != nil {
			p.ctx.company, p.ctx.fund, p.ctx.fundName = m[1], m[2], strings.TrimSpace(m[3])
			p.state = stateFindNextTx
			return
		}
		// anything else between records is boilerplate
	}
}

// enterSection handles a plan-type marker line. The owner search restarts
// unless the owner is already known for the run.
func (p *Parser) enterSection(plan fundbook.PlanType, line string) {
	p.ctx.plan = plan
	p.ctx.planKnown = true
	p.ctx.inPrices = strings.Contains(strings.ToLower(line), "price")
	p.ctx.company, p.ctx.fund, p.ctx.fundName = "", "", ""
	p.ctx.priceDate = p.rec.SourceDate
	if m := reSectionDate.FindStringSubmatch(line); m != nil {
		if on, err := fundbook.ParseTradeDate(m[1]); err == nil {
			p.ctx.priceDate = on
		}
	}
	if p.rec.Owner == "" && !p.ctx.inPrices {
		p.state = stateFindOwner
	} else {
		p.state = stateFindFund
	}
}

// beginTx starts a new trade record at a date token. In the PDF layout the
// numeric block sits on the same line at a fixed column; otherwise the
// description continues on the following lines.
func (p *Parser) beginTx(on date.Date, raw, line, dateTok string) {
	p.cur = &pending{line: p.stats.Lines, on: on}

	// PDF layout: description between the date and the numeric column.
	if len(raw) > numericColumn {
		block := strings.TrimSpace(raw[numericColumn:])
		if fields := strings.Fields(block); len(fields) > 0 {
			if _, err := fundbook.ParseCurrency(fields[0]); err == nil {
				idx := strings.Index(raw, dateTok) + len(dateTok)
				desc := strings.TrimSpace(raw[idx:numericColumn])
				if desc != "" {
					p.cur.desc = []string{desc}
				}
				p.finishTx(block)
				return
			}
		}
	}

	// Web layout: the rest of the line, if any, is the first description line.
	rest := strings.TrimSpace(strings.TrimPrefix(line, dateTok))
	if rest != "" {
		p.cur.desc = []string{rest}
		p.cur.budget = descBudget(rest)
	}
	p.state = stateFillTx
}

// fill consumes description lines until the budget is spent, then expects
// the numeric block.
func (p *Parser) fill(line string) {
	cur := p.cur
	if len(cur.desc) == 0 {
		cur.desc = []string{line}
		cur.budget = descBudget(line)
		return
	}
	if len(cur.desc) < cur.budget {
		cur.desc = append(cur.desc, line)
		return
	}
	p.finishTx(line)
}

// descBudget returns how many description lines this subtype spans. A switch
// or transfer names its counterpart fund on a second line; a systematic plan
// adds its schedule; a short-term trading fee adds its rate detail.
func descBudget(first string) int {
	lower := strings.ToLower(first)
	budget := 1
	if fundbook.IsSwitchDescription(first) {
		budget++
	}
	if strings.Contains(lower, "systematic") || strings.Contains(lower, "pac") {
		budget++
	}
	if strings.Contains(lower, "short-term trading fee") {
		budget++
	}
	if budget > maxDescLines {
		budget = maxDescLines
	}
	return budget
}

// finishTx parses the numeric block by fixed relative position and emits the
// record. Any field failure abandons only this record.
func (p *Parser) finishTx(block string) {
	cur := p.cur
	p.cur = nil
	p.state = stateFindNextTx

	fields := strings.Fields(block)
	if len(fields) < 4 {
		p.abortAt(cur.line, fmt.Sprintf("numeric block %q has %d fields, want at least 4", block, len(fields)))
		return
	}
	gross, err := fundbook.ParseCurrency(fields[0])
	if err != nil {
		p.abortAt(cur.line, err.Error())
		return
	}
	net, err := fundbook.ParseCurrency(fields[1])
	if err != nil {
		p.abortAt(cur.line, err.Error())
		return
	}
	units, err := fundbook.ParseUnits(fields[2])
	if err != nil {
		p.abortAt(cur.line, err.Error())
		return
	}
	if _, err := fundbook.ParsePrice(fields[3]); err != nil {
		// the price column is validated positionally but the trade itself
		// does not carry it; gross and units are what the ledger needs
		p.abortAt(cur.line, err.Error())
		return
	}
	var balance fundbook.Units
	if len(fields) > 4 {
		if balance, err = fundbook.ParseUnits(fields[4]); err != nil {
			p.abortAt(cur.line, err.Error())
			return
		}
	}
	var load fundbook.Cents
	if len(fields) > 5 {
		if load, err = fundbook.ParseCurrency(fields[5]); err != nil {
			p.abortAt(cur.line, err.Error())
			return
		}
	}

	description := strings.Join(cur.desc, " ")
	if gross != net {
		log.Printf("line %d: net %s does not match gross %s for %q", cur.line, net, gross, description)
		p.stats.Warnings++
	}

	t := &fundbook.TransactionRecord{
		TradeDate:   cur.on,
		Company:     p.ctx.company,
		Fund:        p.ctx.fund,
		Description: description,
		Gross:       gross,
		Net:         net,
		Units:       units,
		Load:        load,
		Balance:     balance,
		Switch:      fundbook.IsSwitchDescription(description),
	}
	p.rec.Plans.AddTrade(p.ctx.plan, t)
}

// priceLine emits a price record from a quotation line; anything else in a
// price section is boilerplate.
func (p *Parser) priceLine(line string) {
	m := rePriceLine.FindStringSubmatch(line)
	if m == nil {
		return
	}
	price, err := fundbook.ParsePrice(m[4])
	if err != nil {
		p.abortAt(p.stats.Lines, err.Error())
		return
	}
	var balance fundbook.Units
	if m[5] != "" {
		if balance, err = fundbook.ParseUnits(m[5]); err != nil {
			p.abortAt(p.stats.Lines, err.Error())
			return
		}
	}
	p.rec.Plans.AddPrice(p.ctx.plan, &fundbook.PriceRecord{
		QuoteDate: p.ctx.priceDate,
		Company:   m[1],
		Fund:      m[2],
		Name:      strings.TrimSpace(m[3]),
		Price:     price,
		Balance:   balance,
	})
}

// abort abandons the record currently being filled.
func (p *Parser) abort(reason string) {
	line := p.stats.Lines
	if p.cur != nil {
		line = p.cur.line
	}
	p.cur = nil
	p.state = stateFindNextTx
	p.abortAt(line, reason)
}

// abortAt logs a skipped record with enough context to find it in the source.
func (p *Parser) abortAt(line int, reason string) {
	log.Printf("%s:%d: skipping record: %s", p.rec.SourceFile, line, reason)
	p.stats.Skipped++
}
