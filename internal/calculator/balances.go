package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/dkolev/groupify/internal/models"
	"github.com/dkolev/groupify/internal/money"
)

// Balance is one person's position against the equal per-person share.
type Balance struct {
	Person     string
	Consumed   decimal.Decimal
	EqualShare decimal.Decimal

	// Difference is Consumed - EqualShare. Positive means creditor,
	// negative debtor.
	Difference decimal.Decimal

	Status string
}

// NetBalances compares each person's consumed total against the equal
// per-person share of the grand total, in exact arithmetic. Conservation
// holds by construction: the differences sum to the negated unassigned
// remainder (zero when everything is assigned).
func NetBalances(shares []PersonShare, total decimal.Decimal) []Balance {
	equalShare := total.Div(decimal.NewFromInt(int64(len(shares))))
	balances := make([]Balance, len(shares))
	for i, s := range shares {
		balances[i] = Balance{
			Person:     s.Person,
			Consumed:   s.Total,
			EqualShare: equalShare,
			Difference: s.Total.Sub(equalShare),
		}
	}
	return balances
}

// RoundBalances quantizes every balance to the currency's minor unit and
// reconciles the cumulative rounding drift: any residual that would break
// conservation is assigned to the largest creditor (earliest in roster
// order on ties) rather than left unaccounted. It also classifies each
// person as creditor, debtor or settled against the given tolerance,
// normally one minor currency unit.
//
// The returned residual is the drift that was reassigned; zero means the
// rounded balances already conserved money.
func RoundBalances(balances []Balance, unassigned decimal.Decimal, currency string, tolerance decimal.Decimal) ([]Balance, decimal.Decimal) {
	rounded := make([]Balance, len(balances))
	sum := decimal.Zero
	for i, b := range balances {
		rounded[i] = Balance{
			Person:     b.Person,
			Consumed:   money.Round(b.Consumed, currency),
			EqualShare: money.Round(b.EqualShare, currency),
			Difference: money.Round(b.Difference, currency),
		}
		sum = sum.Add(rounded[i].Difference)
	}

	// Rounded differences must sum to the negated unassigned remainder.
	residual := sum.Add(money.Round(unassigned, currency))
	if !residual.IsZero() {
		i := largestCreditor(rounded)
		rounded[i].Difference = rounded[i].Difference.Sub(residual)
		rounded[i].Consumed = rounded[i].Consumed.Sub(residual)
	}

	for i := range rounded {
		rounded[i].Status = classify(rounded[i].Difference, tolerance)
	}
	return rounded, residual
}

// largestCreditor returns the index of the largest difference, preferring
// the earliest roster position on ties.
func largestCreditor(balances []Balance) int {
	best := 0
	for i := 1; i < len(balances); i++ {
		if balances[i].Difference.GreaterThan(balances[best].Difference) {
			best = i
		}
	}
	return best
}

func classify(difference, tolerance decimal.Decimal) string {
	switch {
	case difference.GreaterThan(tolerance):
		return models.StatusCreditor
	case difference.LessThan(tolerance.Neg()):
		return models.StatusDebtor
	default:
		return models.StatusSettled
	}
}
