package models

import "github.com/shopspring/decimal"

// Balance status values. The near-zero band is "settled": within one minor
// currency unit of the equal share.
const (
	StatusCreditor = "creditor"
	StatusDebtor   = "debtor"
	StatusSettled  = "settled"
)

// Warning codes attached to a SettlementAnalysis. Warnings are surfaced,
// never swallowed: the settlement still proceeds on best-effort totals.
const (
	WarnUnassignedItems  = "unassigned_items"
	WarnRoundingResidual = "rounding_residual"
)

// Warning is a non-fatal condition detected during settlement.
type Warning struct {
	Code    string
	Message string

	// Amount carries the monetary quantity the warning refers to: the
	// unassigned remainder, or the reconciled rounding residual.
	Amount decimal.Decimal
}

// BreakdownItem is one person's share of a single item.
type BreakdownItem struct {
	ItemName       string
	ItemTotalPrice decimal.Decimal
	SharedWith     int
	PersonShare    decimal.Decimal
}

// PersonBreakdown explains one person's position in the settlement.
type PersonBreakdown struct {
	Items            []BreakdownItem
	SubtotalFromItems decimal.Decimal
	TipShare         decimal.Decimal
	TotalConsumed    decimal.Decimal
	EqualShareOwed   decimal.Decimal

	// Difference is TotalConsumed - EqualShareOwed. Positive means
	// creditor (overpaid relative to the equal split), negative debtor.
	Difference decimal.Decimal

	Status string
}

// Summary counts items and people for the export document.
type Summary struct {
	PeopleCount     int
	ItemsCount      int
	UnassignedItems int
	AssignedItems   int
}

// SettlementAnalysis is the full output of a settlement computation.
// Its field set is the export contract; see the service package for the
// JSON rendering.
type SettlementAnalysis struct {
	// IndividualShares maps each person to their total consumed amount
	// (items plus tip share).
	IndividualShares map[string]decimal.Decimal

	// People preserves roster order; map iteration alone would not.
	People []string

	EqualSharePerPerson decimal.Decimal
	TotalAmount         decimal.Decimal
	Currency            string

	Settlements         []Settlement
	PaymentInstructions []PaymentInstruction
	DetailedBreakdown   map[string]PersonBreakdown
	Summary             Summary
	Warnings            []Warning
}

// Transactions returns the number of settlements needed.
func (a *SettlementAnalysis) Transactions() int {
	return len(a.Settlements)
}
