package fundbook

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the reporting currency of the fund statements.
// The statements this tool reads carry a single currency.
const Currency = money.CAD

// Cents is a monetary value in integer minor units (hundredths).
// All ledger arithmetic is done on Cents, never on floats.
type Cents int64

// Neg returns the negation of the value.
func (c Cents) Neg() Cents { return -c }

// Add returns the sum of the two values.
func (c Cents) Add(o Cents) Cents { return c + o }

// IsNegative reports whether the value is below zero.
func (c Cents) IsNegative() bool { return c < 0 }

// IsZero reports whether the value is exactly zero.
func (c Cents) IsZero() bool { return c == 0 }

// String formats the value as a currency amount, e.g. "$34.73".
func (c Cents) String() string {
	return money.New(int64(c), Currency).Display()
}

// Decimal returns the exact decimal representation in major units.
func (c Cents) Decimal() decimal.Decimal { return decimal.New(int64(c), -2) }

// Units is a fund unit count in integer ten-thousandths (4 implied decimals).
type Units int64

// Neg returns the negation of the unit count.
func (u Units) Neg() Units { return -u }

// Add returns the sum of the two unit counts.
func (u Units) Add(o Units) Units { return u + o }

// IsNegative reports whether the unit count is below zero.
func (u Units) IsNegative() bool { return u < 0 }

// IsZero reports whether the unit count is exactly zero.
func (u Units) IsZero() bool { return u == 0 }

// String formats the unit count with its four decimals, e.g. "3.8610".
func (u Units) String() string { return u.Decimal().StringFixed(4) }

// Decimal returns the exact decimal representation.
func (u Units) Decimal() decimal.Decimal { return decimal.New(int64(u), -4) }

// Price is a fund unit price quoted at four decimals.
type Price struct {
	value decimal.Decimal
}

// NewPrice creates a Price from an integer count of ten-thousandths.
func NewPrice(tenThousandths int64) Price {
	return Price{value: decimal.New(tenThousandths, -4)}
}

// PriceFromDecimal creates a Price from an exact decimal value.
func PriceFromDecimal(d decimal.Decimal) Price { return Price{value: d} }

// Decimal returns the exact decimal value of the price.
func (p Price) Decimal() decimal.Decimal { return p.value }

// Equal reports whether two prices have the same value.
func (p Price) Equal(o Price) bool { return p.value.Equal(o.value) }

// IsZero reports whether the price is zero (i.e. never set).
func (p Price) IsZero() bool { return p.value.IsZero() }

// String formats the price with four decimals, e.g. "$8.9950".
func (p Price) String() string { return "$" + p.value.StringFixed(4) }

// MarshalJSON encodes the price as a plain json number.
func (p Price) MarshalJSON() ([]byte, error) { return p.value.MarshalJSON() }

// UnmarshalJSON decodes the price from a json number.
func (p *Price) UnmarshalJSON(data []byte) error { return p.value.UnmarshalJSON(data) }

func init() {
	// Prices and amounts are persisted as bare json numbers, like every other
	// numeric field in the dump files.
	decimal.MarshalJSONWithoutQuotes = true
}
