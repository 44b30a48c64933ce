package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dkolev/groupify/internal/models"
	"github.com/dkolev/groupify/internal/money"
)

// BuildAnalysis assembles the full settlement result from the outputs of
// the three computing phases. It is a formatting and assembly step: all
// numbers arrive computed and rounded, and only the per-item display
// shares are quantized here.
func BuildAnalysis(
	receipt *models.Receipt,
	roster []string,
	shares []PersonShare,
	balances []Balance,
	settlements []models.Settlement,
	unassigned decimal.Decimal,
	residual decimal.Decimal,
) *models.SettlementAnalysis {
	currency := receipt.Currency

	analysis := &models.SettlementAnalysis{
		IndividualShares:    make(map[string]decimal.Decimal, len(roster)),
		People:              append([]string(nil), roster...),
		EqualSharePerPerson: balances[0].EqualShare,
		TotalAmount:         money.Round(receipt.Total, currency),
		Currency:            currency,
		Settlements:         settlements,
		DetailedBreakdown:   make(map[string]models.PersonBreakdown, len(roster)),
	}

	for i, b := range balances {
		analysis.IndividualShares[b.Person] = b.Consumed

		subtotal := money.Round(shares[i].Subtotal, currency)
		items := make([]models.BreakdownItem, len(shares[i].Items))
		for k, is := range shares[i].Items {
			items[k] = models.BreakdownItem{
				ItemName:       is.Name,
				ItemTotalPrice: is.ItemPrice,
				SharedWith:     is.SharedWith,
				PersonShare:    money.Round(is.Share, currency),
			}
		}

		analysis.DetailedBreakdown[b.Person] = models.PersonBreakdown{
			Items:             items,
			SubtotalFromItems: subtotal,
			// Derived from the reconciled consumed total so the row stays
			// internally consistent: subtotal + tip == total_consumed.
			TipShare:       b.Consumed.Sub(subtotal),
			TotalConsumed:  b.Consumed,
			EqualShareOwed: b.EqualShare,
			Difference:     b.Difference,
			Status:         b.Status,
		}
	}

	analysis.PaymentInstructions = make([]models.PaymentInstruction, len(settlements))
	for i, s := range settlements {
		analysis.PaymentInstructions[i] = models.PaymentInstruction{
			Instruction: fmt.Sprintf("%s pays %s %s", s.FromPerson, s.ToPerson, money.Format(s.Amount, s.Currency)),
			From:        s.FromPerson,
			To:          s.ToPerson,
			Amount:      s.Amount,
			Currency:    s.Currency,
		}
	}

	unassignedCount := 0
	for _, it := range receipt.Items {
		if len(it.AssignedTo) == 0 {
			unassignedCount++
		}
	}
	analysis.Summary = models.Summary{
		PeopleCount:     len(roster),
		ItemsCount:      len(receipt.Items),
		UnassignedItems: unassignedCount,
		AssignedItems:   len(receipt.Items) - unassignedCount,
	}

	if unassigned.IsPositive() {
		analysis.Warnings = append(analysis.Warnings, models.Warning{
			Code:    models.WarnUnassignedItems,
			Message: fmt.Sprintf("unassigned amount: %s", money.Format(unassigned, currency)),
			Amount:  money.Round(unassigned, currency),
		})
	}
	if !residual.IsZero() {
		analysis.Warnings = append(analysis.Warnings, models.Warning{
			Code:    models.WarnRoundingResidual,
			Message: fmt.Sprintf("rounding residual of %s reassigned to the largest creditor", money.Format(residual.Abs(), currency)),
			Amount:  residual,
		})
	}

	return analysis
}
