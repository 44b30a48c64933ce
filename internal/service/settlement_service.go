// Package service orchestrates settlement computations: input validation,
// the four calculator phases, and the JSON export boundary.
package service

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/dkolev/groupify/internal/calculator"
	"github.com/dkolev/groupify/internal/models"
	"github.com/dkolev/groupify/internal/money"
)

// Settler runs settlement computations. The zero value is ready to use.
type Settler struct {
	// Epsilon overrides the settled-balance tolerance. The zero value
	// means one minor unit of the receipt's currency.
	Epsilon decimal.Decimal
}

// ComputeSettlement runs the full pipeline over one immutable snapshot of
// receipt and roster with the default tolerance.
func ComputeSettlement(receipt *models.Receipt, roster []string) (*models.SettlementAnalysis, error) {
	return Settler{}.ComputeSettlement(receipt, roster)
}

// ComputeSettlement runs the full pipeline over one immutable snapshot of
// receipt and roster and returns the settlement analysis.
//
// The receipt and roster are treated as read-only; the result is a fresh,
// independently owned object, so concurrent calls over independent inputs
// are safe. Warnings (unassigned items, rounding residual) are attached to
// the analysis rather than failing it; a *ValidationError is returned for
// inputs the engine refuses to settle.
func (s Settler) ComputeSettlement(receipt *models.Receipt, roster []string) (*models.SettlementAnalysis, error) {
	if err := validate(receipt, roster); err != nil {
		return nil, err
	}

	tolerance := s.Epsilon
	if tolerance.IsZero() {
		tolerance = money.Tolerance(receipt.Currency)
	}

	// The grand total is derived from items plus tip, enforcing the
	// receipt invariant regardless of what the Total field carries.
	total := receipt.ItemTotal().Add(receipt.TipAmount)
	snapshot := receipt.Clone()
	snapshot.OriginalTotal = receipt.ItemTotal()
	snapshot.Total = total

	shares, unassigned := calculator.ComputeShares(snapshot, roster)
	exact := calculator.NetBalances(shares, total)
	balances, residual := calculator.RoundBalances(exact, unassigned, snapshot.Currency, tolerance)
	settlements := calculator.MinimizeTransactions(balances, snapshot.Currency, tolerance)
	analysis := calculator.BuildAnalysis(snapshot, roster, shares, balances, settlements, unassigned, residual)

	slog.Debug("settlement computed",
		"people", len(roster),
		"items", len(receipt.Items),
		"transactions", len(settlements),
		"warnings", len(analysis.Warnings),
	)
	return analysis, nil
}

// validate enforces the request contract: non-empty deduplicated roster,
// non-negative prices and tip, positive quantities, and assignments that
// reference only roster members.
func validate(receipt *models.Receipt, roster []string) error {
	if len(roster) == 0 {
		return validationErrorf("roster must not be empty")
	}
	seen := make(map[string]bool, len(roster))
	for _, person := range roster {
		if person == "" {
			return validationErrorf("person names must not be empty")
		}
		if seen[person] {
			return validationErrorf("duplicate person in roster: %q", person)
		}
		seen[person] = true
	}

	if receipt.TipAmount.IsNegative() {
		return validationErrorf("tip amount must not be negative: %s", receipt.TipAmount)
	}
	for _, item := range receipt.Items {
		if item.Price.IsNegative() {
			return validationErrorf("item %q has negative price %s", item.Name, item.Price)
		}
		if item.Quantity <= 0 {
			return validationErrorf("item %q has non-positive quantity %d", item.Name, item.Quantity)
		}
		for _, person := range item.AssignedTo {
			if !seen[person] {
				return validationErrorf("item %q is assigned to unknown person %q", item.Name, person)
			}
		}
	}
	return nil
}
