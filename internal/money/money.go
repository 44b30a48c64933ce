// Package money provides exact decimal arithmetic helpers keyed to a
// currency's minor unit. Values stay exact through computation; rounding
// happens once, at presentation boundaries.
package money

import (
	"fmt"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Fraction returns the number of minor-unit digits for a currency code
// (2 for BGN, EUR, USD; 0 for JPY). Unknown codes fall back to 2.
func Fraction(code string) int32 {
	if cur := gomoney.GetCurrency(code); cur != nil {
		return int32(cur.Fraction)
	}
	return 2
}

// Tolerance returns one minor currency unit (e.g. 0.01 for BGN), the
// threshold below which a balance is treated as settled.
func Tolerance(code string) decimal.Decimal {
	return decimal.New(1, -Fraction(code))
}

// Round quantizes an exact value to the currency's minor unit, ties away
// from zero.
func Round(d decimal.Decimal, code string) decimal.Decimal {
	return d.Round(Fraction(code))
}

// Format renders a value rounded to the minor unit followed by the currency
// code, e.g. "12.50 BGN".
func Format(d decimal.Decimal, code string) string {
	return fmt.Sprintf("%s %s", d.StringFixed(Fraction(code)), code)
}

// ToFloat converts a value to a float64 rounded to the minor unit. Only for
// the export boundary; never feed the result back into a computation.
func ToFloat(d decimal.Decimal, code string) float64 {
	return Round(d, code).InexactFloat64()
}
