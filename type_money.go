package ledgerdash

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Currency describes how amounts of the ledger are written. A ledger holds a
// single currency: amounts are never converted.
type Currency struct {
	Code   string `json:"code"`   // ISO 4217 code, may be empty
	Symbol string `json:"symbol"` // symbol written in front of ledger amounts
}

// NewCurrency returns the currency for an ISO code. The symbol defaults to the
// code's grapheme when symbol is empty.
func NewCurrency(code, symbol string) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if symbol == "" {
		symbol = CurrencySymbol(code)
	}
	return Currency{Code: code, Symbol: symbol}
}

// CurrencySymbol returns the grapheme of an ISO currency code ("$" for USD,
// "¥" for JPY). Unknown or empty codes yield the code itself.
func CurrencySymbol(code string) string {
	if code == "" {
		return ""
	}
	cur := money.GetCurrency(code)
	if cur == nil {
		return code
	}
	return cur.Grapheme
}

// formatter returns a go-money formatter honouring the symbol override.
func (c Currency) formatter() *money.Formatter {
	if cur := money.GetCurrency(c.Code); cur != nil {
		f := cur.Formatter()
		if c.Symbol != "" {
			f.Grapheme = c.Symbol
		}
		return f
	}
	return money.NewFormatter(2, ".", ",", c.Symbol, "$1")
}

// Format writes v for display, with thousands separators.
func (c Currency) Format(v decimal.Decimal) string {
	f := c.formatter()
	return f.Format(v.Shift(int32(f.Fraction)).Round(0).IntPart())
}

// Money is an amount with the currency it is displayed in.
type Money struct {
	value decimal.Decimal
	cur   Currency
}

// M returns a Money for a value displayed in cur.
func M(value decimal.Decimal, cur Currency) Money { return Money{value: value, cur: cur} }

func (m Money) String() string        { return m.cur.Format(m.value) }
func (m Money) Value() decimal.Decimal { return m.value }
func (m Money) IsZero() bool          { return m.value.IsZero() }

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}
