package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dkolev/groupify/internal/models"
)

var cent = dec("0.01")

func TestNetBalances(t *testing.T) {
	shares := []PersonShare{
		{Person: "Alice", Total: dec("33")},
		{Person: "Bob", Total: dec("11")},
	}

	balances := NetBalances(shares, dec("44"))

	if !balances[0].EqualShare.Equal(dec("22")) {
		t.Errorf("equal share = %s, want 22", balances[0].EqualShare)
	}
	if !balances[0].Difference.Equal(dec("11")) {
		t.Errorf("Alice difference = %s, want 11", balances[0].Difference)
	}
	if !balances[1].Difference.Equal(dec("-11")) {
		t.Errorf("Bob difference = %s, want -11", balances[1].Difference)
	}

	sum := balances[0].Difference.Add(balances[1].Difference)
	if !sum.IsZero() {
		t.Errorf("differences sum = %s, want 0", sum)
	}
}

func TestRoundBalances(t *testing.T) {
	tests := []struct {
		name         string
		balances     []Balance
		unassigned   decimal.Decimal
		validateFunc func(t *testing.T, rounded []Balance, residual decimal.Decimal)
	}{
		{
			name: "exact balances pass through",
			balances: []Balance{
				{Person: "Alice", Consumed: dec("15"), EqualShare: dec("10"), Difference: dec("5")},
				{Person: "Bob", Consumed: dec("5"), EqualShare: dec("10"), Difference: dec("-5")},
			},
			unassigned: decimal.Zero,
			validateFunc: func(t *testing.T, rounded []Balance, residual decimal.Decimal) {
				if !residual.IsZero() {
					t.Errorf("residual = %s, want 0", residual)
				}
				if rounded[0].Status != models.StatusCreditor {
					t.Errorf("Alice status = %s, want %s", rounded[0].Status, models.StatusCreditor)
				}
				if rounded[1].Status != models.StatusDebtor {
					t.Errorf("Bob status = %s, want %s", rounded[1].Status, models.StatusDebtor)
				}
			},
		},
		{
			name: "rounding drift reassigned to largest creditor",
			balances: []Balance{
				{Person: "Alice", Consumed: dec("0.01"), EqualShare: dec("0.0033333333333333"), Difference: dec("0.0066666666666667")},
				{Person: "Bob", Consumed: decimal.Zero, EqualShare: dec("0.0033333333333333"), Difference: dec("-0.0033333333333333")},
				{Person: "Charlie", Consumed: decimal.Zero, EqualShare: dec("0.0033333333333333"), Difference: dec("-0.0033333333333333")},
			},
			unassigned: decimal.Zero,
			validateFunc: func(t *testing.T, rounded []Balance, residual decimal.Decimal) {
				// Diffs round to {0.01, 0.00, 0.00}; the 0.01 drift comes
				// back out of Alice, leaving everyone settled.
				if !residual.Equal(dec("0.01")) {
					t.Errorf("residual = %s, want 0.01", residual)
				}
				sum := decimal.Zero
				for _, b := range rounded {
					sum = sum.Add(b.Difference)
					if b.Status != models.StatusSettled {
						t.Errorf("%s status = %s, want %s", b.Person, b.Status, models.StatusSettled)
					}
				}
				if !sum.IsZero() {
					t.Errorf("differences sum = %s, want 0", sum)
				}
			},
		},
		{
			name: "unassigned remainder balances the books",
			balances: []Balance{
				{Person: "Alice", Consumed: decimal.Zero, EqualShare: dec("10"), Difference: dec("-10")},
				{Person: "Bob", Consumed: decimal.Zero, EqualShare: dec("10"), Difference: dec("-10")},
			},
			unassigned: dec("20"),
			validateFunc: func(t *testing.T, rounded []Balance, residual decimal.Decimal) {
				if !residual.IsZero() {
					t.Errorf("residual = %s, want 0", residual)
				}
				for _, b := range rounded {
					if b.Status != models.StatusDebtor {
						t.Errorf("%s status = %s, want %s", b.Person, b.Status, models.StatusDebtor)
					}
				}
			},
		},
		{
			name: "within tolerance counts as settled",
			balances: []Balance{
				{Person: "Alice", Consumed: dec("10.01"), EqualShare: dec("10"), Difference: dec("0.01")},
				{Person: "Bob", Consumed: dec("9.99"), EqualShare: dec("10"), Difference: dec("-0.01")},
			},
			unassigned: decimal.Zero,
			validateFunc: func(t *testing.T, rounded []Balance, residual decimal.Decimal) {
				for _, b := range rounded {
					if b.Status != models.StatusSettled {
						t.Errorf("%s status = %s, want %s", b.Person, b.Status, models.StatusSettled)
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rounded, residual := RoundBalances(tt.balances, tt.unassigned, "BGN", cent)
			tt.validateFunc(t, rounded, residual)
		})
	}
}

func TestRoundBalancesTieBreakIsRosterOrder(t *testing.T) {
	// Two equal creditors; the drift must come out of the earlier one.
	balances := []Balance{
		{Person: "Alice", Consumed: dec("10.005"), EqualShare: dec("10"), Difference: dec("0.005")},
		{Person: "Bob", Consumed: dec("10.005"), EqualShare: dec("10"), Difference: dec("0.005")},
		{Person: "Charlie", Consumed: dec("9.99"), EqualShare: dec("10"), Difference: dec("-0.01")},
	}

	rounded, residual := RoundBalances(balances, decimal.Zero, "BGN", cent)

	if !residual.Equal(dec("0.01")) {
		t.Fatalf("residual = %s, want 0.01", residual)
	}
	if !rounded[0].Difference.IsZero() {
		t.Errorf("Alice difference = %s, want 0", rounded[0].Difference)
	}
	if !rounded[1].Difference.Equal(dec("0.01")) {
		t.Errorf("Bob difference = %s, want 0.01", rounded[1].Difference)
	}
}
