package models

import "github.com/shopspring/decimal"

// Item represents a single line item on a receipt.
// Items can be shared among multiple people.
type Item struct {
	// ID is the unique identifier for the item, stable for the session.
	ID string

	// Name is the item description as parsed from the receipt.
	Name string

	// Quantity is the number of units, always positive.
	Quantity int

	// UnitPrice is the price of a single unit.
	UnitPrice decimal.Decimal

	// Price is the line total. The engine trusts this value rather than
	// recomputing quantity times unit price, because it may come straight
	// from the receipt's own printed total for the line.
	Price decimal.Decimal

	// AssignedTo lists the people who share this item. Empty means
	// unassigned: the price still counts toward the receipt total but
	// contributes to nobody's subtotal, which the engine surfaces as a
	// warning. Equal to the full roster means "everyone".
	AssignedTo []string
}

// AssignedCopy returns a copy of the assignment list so callers can hand
// out item snapshots without sharing the underlying slice.
func (it Item) AssignedCopy() []string {
	if it.AssignedTo == nil {
		return nil
	}
	out := make([]string, len(it.AssignedTo))
	copy(out, it.AssignedTo)
	return out
}

// Receipt is an ordered collection of items plus a tip and a currency.
type Receipt struct {
	Items []Item

	// Total is the grand total: sum of item prices plus tip.
	Total decimal.Decimal

	// OriginalTotal is the pre-tip total, either parsed from the receipt
	// or derived from the item sum.
	OriginalTotal decimal.Decimal

	// TipAmount is the tip or service charge, non-negative, default zero.
	TipAmount decimal.Decimal

	// Currency is the ISO 4217 code, e.g. "BGN".
	Currency string
}

// AddTip sets the tip and refreshes the grand total.
func (r *Receipt) AddTip(amount decimal.Decimal) {
	r.TipAmount = amount
	r.Total = r.OriginalTotal.Add(amount)
}

// CalculateTotal recomputes the grand total from the items and tip,
// maintaining the invariant total = sum(item.Price) + tip.
func (r *Receipt) CalculateTotal() {
	sum := decimal.Zero
	for _, it := range r.Items {
		sum = sum.Add(it.Price)
	}
	r.OriginalTotal = sum
	r.Total = sum.Add(r.TipAmount)
}

// ItemTotal returns the sum of all item prices without the tip.
func (r *Receipt) ItemTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range r.Items {
		sum = sum.Add(it.Price)
	}
	return sum
}

// Clone returns a deep copy of the receipt. The shell passes clones into
// the settlement engine so no computation ever shares mutable state with
// the interactive session.
func (r *Receipt) Clone() *Receipt {
	out := &Receipt{
		Total:         r.Total,
		OriginalTotal: r.OriginalTotal,
		TipAmount:     r.TipAmount,
		Currency:      r.Currency,
	}
	out.Items = make([]Item, len(r.Items))
	for i, it := range r.Items {
		out.Items[i] = it
		out.Items[i].AssignedTo = it.AssignedCopy()
	}
	return out
}
