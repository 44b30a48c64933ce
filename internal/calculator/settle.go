package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dkolev/groupify/internal/models"
)

// party is one side of the matching: a person with an outstanding
// absolute amount still to settle.
type party struct {
	name   string
	amount decimal.Decimal
}

// MinimizeTransactions matches debtors against creditors to produce a
// near-minimal ordered list of transfers that zero out all balances.
//
// The matching is greedy: repeatedly settle the largest outstanding debtor
// against the largest outstanding creditor for the smaller of the two
// amounts. Ties keep roster order, so output is deterministic. Every
// transaction fully retires at least one party, so at most len(balances)-1
// transactions are emitted. A party whose outstanding amount falls within
// tolerance of zero is dropped.
func MinimizeTransactions(balances []Balance, currency string, tolerance decimal.Decimal) []models.Settlement {
	var creditors, debtors []party
	for _, b := range balances {
		switch {
		case b.Difference.GreaterThan(tolerance):
			creditors = append(creditors, party{name: b.Person, amount: b.Difference})
		case b.Difference.LessThan(tolerance.Neg()):
			debtors = append(debtors, party{name: b.Person, amount: b.Difference.Neg()})
		}
	}

	// Largest first; stable sort preserves roster order between equals.
	sort.SliceStable(creditors, func(a, b int) bool {
		return creditors[a].amount.GreaterThan(creditors[b].amount)
	})
	sort.SliceStable(debtors, func(a, b int) bool {
		return debtors[a].amount.GreaterThan(debtors[b].amount)
	})

	var settlements []models.Settlement
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].amount
		if creditors[j].amount.LessThan(amount) {
			amount = creditors[j].amount
		}

		if amount.GreaterThan(tolerance) {
			settlements = append(settlements, models.Settlement{
				FromPerson: debtors[i].name,
				ToPerson:   creditors[j].name,
				Amount:     amount,
				Currency:   currency,
			})
		}

		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)

		if debtors[i].amount.LessThanOrEqual(tolerance) {
			i++
		}
		if creditors[j].amount.LessThanOrEqual(tolerance) {
			j++
		}
	}

	return settlements
}
