package fundbook

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mgirard/fundbook/date"
)

// This file extracts typed values from raw statement tokens. Each kind has
// exactly one accepted shape (two for dates); anything else is a
// FormatMismatch. There is deliberately no locale handling beyond these
// shapes: the two known statement layouts produce nothing else.

var (
	// $1,234.56 with the negative marker either a leading minus or wrapping
	// parentheses. Portals place the minus on either side of the symbol.
	reCurrency = regexp.MustCompile(`^(\()?(-)?\$(-)?((?:\d{1,3}(?:,\d{3})*|\d+))\.(\d{2})(\))?$`)

	// 3.8610 or 1,234.5678: integer part up to 5 digits, exactly 4 decimals.
	reUnits = regexp.MustCompile(`^(-)?((?:\d{1,3}(?:,\d{3})*|\d{1,5}))\.(\d{4})$`)

	// $8.9950: unit prices are always quoted at 4 decimals.
	rePrice = regexp.MustCompile(`^\$(\d+)\.(\d{4})$`)
)

// ParseCurrency extracts a signed currency amount in cents from a token such
// as "$34.73", "-$1,234.56" or "($12.00)".
func ParseCurrency(tok string) (Cents, error) {
	m := reCurrency.FindStringSubmatch(strings.TrimSpace(tok))
	if m == nil {
		return 0, &FormatMismatch{Kind: "currency", Text: tok}
	}
	opened, closed := m[1] == "(", m[6] == ")"
	if opened != closed {
		// a lone parenthesis is not a sign marker
		return 0, &FormatMismatch{Kind: "currency", Text: tok}
	}
	major, err := strconv.ParseInt(strings.ReplaceAll(m[4], ",", ""), 10, 64)
	if err != nil {
		return 0, &FormatMismatch{Kind: "currency", Text: tok}
	}
	minor, _ := strconv.ParseInt(m[5], 10, 64)
	cents := Cents(major*100 + minor)
	if opened || m[2] == "-" || m[3] == "-" {
		cents = cents.Neg()
	}
	return cents, nil
}

// ParseUnits extracts a signed unit count in ten-thousandths from a token
// such as "3.8610" or "-377.3580".
func ParseUnits(tok string) (Units, error) {
	m := reUnits.FindStringSubmatch(strings.TrimSpace(tok))
	if m == nil {
		return 0, &FormatMismatch{Kind: "units", Text: tok}
	}
	whole, err := strconv.ParseInt(strings.ReplaceAll(m[2], ",", ""), 10, 64)
	if err != nil {
		return 0, &FormatMismatch{Kind: "units", Text: tok}
	}
	frac, _ := strconv.ParseInt(m[3], 10, 64)
	units := Units(whole*10000 + frac)
	if m[1] == "-" {
		units = units.Neg()
	}
	return units, nil
}

// ParsePrice extracts a unit price from a token such as "$8.9950".
func ParsePrice(tok string) (Price, error) {
	m := rePrice.FindStringSubmatch(strings.TrimSpace(tok))
	if m == nil {
		return Price{}, &FormatMismatch{Kind: "price", Text: tok}
	}
	whole, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Price{}, &FormatMismatch{Kind: "price", Text: tok}
	}
	frac, _ := strconv.ParseInt(m[2], 10, 64)
	return NewPrice(whole*10000 + frac), nil
}

// tradeDateFormats are the two date shapes found in the statements:
// the web layout uses 11/23/2018, the PDF extraction yields 23-Nov-2018.
var tradeDateFormats = []string{"01/02/2006", "02-Jan-2006"}

// ParseTradeDate extracts a calendar date from a statement token.
func ParseTradeDate(tok string) (date.Date, error) {
	tok = strings.TrimSpace(tok)
	for _, format := range tradeDateFormats {
		if on, err := time.Parse(format, tok); err == nil {
			return date.New(on.Date()), nil
		}
	}
	return date.Date{}, &FormatMismatch{Kind: "date", Text: tok}
}
