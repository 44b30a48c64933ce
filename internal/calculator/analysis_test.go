package calculator

import (
	"strings"
	"testing"

	"github.com/dkolev/groupify/internal/models"
)

func TestBuildAnalysis(t *testing.T) {
	receipt := &models.Receipt{
		Items: []models.Item{
			item("Pizza", "20.00", "Alice", "Bob"),
			item("Beer", "10.00", "Bob"),
			item("Forgotten", "5.00"),
		},
		Currency: "BGN",
	}
	roster := []string{"Alice", "Bob"}
	receipt.CalculateTotal()

	shares, unassigned := ComputeShares(receipt, roster)
	exact := NetBalances(shares, receipt.Total)
	balances, residual := RoundBalances(exact, unassigned, receipt.Currency, cent)
	settlements := MinimizeTransactions(balances, receipt.Currency, cent)

	analysis := BuildAnalysis(receipt, roster, shares, balances, settlements, unassigned, residual)

	if !analysis.TotalAmount.Equal(dec("35")) {
		t.Errorf("total = %s, want 35", analysis.TotalAmount)
	}
	if !analysis.EqualSharePerPerson.Equal(dec("17.50")) {
		t.Errorf("equal share = %s, want 17.50", analysis.EqualSharePerPerson)
	}
	if len(analysis.People) != 2 || analysis.People[0] != "Alice" {
		t.Errorf("people = %v, want roster order [Alice Bob]", analysis.People)
	}

	// Breakdown rows must stay internally consistent.
	for person, b := range analysis.DetailedBreakdown {
		if got := b.SubtotalFromItems.Add(b.TipShare); !got.Equal(b.TotalConsumed) {
			t.Errorf("%s: subtotal %s + tip %s != consumed %s",
				person, b.SubtotalFromItems, b.TipShare, b.TotalConsumed)
		}
		if got := b.TotalConsumed.Sub(b.EqualShareOwed); !got.Equal(b.Difference) {
			t.Errorf("%s: consumed - equal share = %s, want %s", person, got, b.Difference)
		}
	}

	if len(analysis.PaymentInstructions) != len(settlements) {
		t.Fatalf("got %d instructions, want %d", len(analysis.PaymentInstructions), len(settlements))
	}
	for i, p := range analysis.PaymentInstructions {
		if !strings.Contains(p.Instruction, p.From) || !strings.Contains(p.Instruction, p.To) {
			t.Errorf("instruction %q does not name both parties", p.Instruction)
		}
		if !p.Amount.Equal(settlements[i].Amount) {
			t.Errorf("instruction amount = %s, want %s", p.Amount, settlements[i].Amount)
		}
	}

	if analysis.Summary.ItemsCount != 3 || analysis.Summary.UnassignedItems != 1 || analysis.Summary.AssignedItems != 2 {
		t.Errorf("summary = %+v, want 3 items, 1 unassigned, 2 assigned", analysis.Summary)
	}

	var codes []string
	for _, w := range analysis.Warnings {
		codes = append(codes, w.Code)
	}
	found := false
	for _, c := range codes {
		if c == models.WarnUnassignedItems {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings %v missing %s", codes, models.WarnUnassignedItems)
	}
}

func TestBuildAnalysisNoWarningsWhenFullyAssigned(t *testing.T) {
	receipt := &models.Receipt{
		Items:    []models.Item{item("Dinner", "30.00", "Alice", "Bob", "Charlie")},
		Currency: "BGN",
	}
	roster := []string{"Alice", "Bob", "Charlie"}
	receipt.CalculateTotal()

	shares, unassigned := ComputeShares(receipt, roster)
	exact := NetBalances(shares, receipt.Total)
	balances, residual := RoundBalances(exact, unassigned, receipt.Currency, cent)
	settlements := MinimizeTransactions(balances, receipt.Currency, cent)

	analysis := BuildAnalysis(receipt, roster, shares, balances, settlements, unassigned, residual)

	if len(analysis.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", analysis.Warnings)
	}
	if analysis.Transactions() != 0 {
		t.Errorf("transactions = %d, want 0", analysis.Transactions())
	}
	for person, consumed := range analysis.IndividualShares {
		if !consumed.Equal(dec("10")) {
			t.Errorf("%s consumed = %s, want 10", person, consumed)
		}
	}
}
