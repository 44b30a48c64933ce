// Package calculator implements the settlement optimization engine: share
// calculation, balance netting, transaction minimization and breakdown
// assembly. All phases are pure functions over immutable inputs; monetary
// arithmetic is exact decimal, rounded only at the presentation boundary.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/dkolev/groupify/internal/models"
)

// ItemShare is one person's slice of a single item.
type ItemShare struct {
	Name       string
	ItemPrice  decimal.Decimal
	SharedWith int
	Share      decimal.Decimal
}

// PersonShare is one person's consumed value: assigned item shares plus a
// proportional share of the tip.
type PersonShare struct {
	Person   string
	Subtotal decimal.Decimal
	TipShare decimal.Decimal
	Total    decimal.Decimal
	Items    []ItemShare
}

// ComputeShares calculates each person's consumed value across the receipt.
//
// Every item's price is split evenly among its assignees. The tip is
// allocated in proportion to each person's item subtotal; when all subtotals
// are zero the tip is split equally. A negative tip is treated as zero.
//
// The returned shares follow roster order. The second return value is the
// unassigned remainder: the summed price of items with no assignees, which
// counts toward the receipt total but toward nobody's subtotal.
func ComputeShares(receipt *models.Receipt, roster []string) ([]PersonShare, decimal.Decimal) {
	shares := make([]PersonShare, len(roster))
	index := make(map[string]int, len(roster))
	for i, person := range roster {
		shares[i] = PersonShare{Person: person, Subtotal: decimal.Zero, TipShare: decimal.Zero, Total: decimal.Zero}
		index[person] = i
	}

	unassigned := decimal.Zero
	for _, item := range receipt.Items {
		if len(item.AssignedTo) == 0 {
			unassigned = unassigned.Add(item.Price)
			continue
		}
		perPerson := item.Price.Div(decimal.NewFromInt(int64(len(item.AssignedTo))))
		for _, person := range item.AssignedTo {
			i, ok := index[person]
			if !ok {
				continue
			}
			shares[i].Subtotal = shares[i].Subtotal.Add(perPerson)
			shares[i].Items = append(shares[i].Items, ItemShare{
				Name:       item.Name,
				ItemPrice:  item.Price,
				SharedWith: len(item.AssignedTo),
				Share:      perPerson,
			})
		}
	}

	tip := receipt.TipAmount
	if tip.IsNegative() {
		tip = decimal.Zero
	}
	if tip.IsPositive() {
		allocateTip(shares, tip)
	}

	for i := range shares {
		shares[i].Total = shares[i].Subtotal.Add(shares[i].TipShare)
	}
	return shares, unassigned
}

// allocateTip distributes the tip proportionally to item subtotals, or
// equally when every subtotal is zero.
func allocateTip(shares []PersonShare, tip decimal.Decimal) {
	sum := decimal.Zero
	for i := range shares {
		sum = sum.Add(shares[i].Subtotal)
	}
	if sum.IsZero() {
		equal := tip.Div(decimal.NewFromInt(int64(len(shares))))
		for i := range shares {
			shares[i].TipShare = equal
		}
		return
	}
	for i := range shares {
		shares[i].TipShare = tip.Mul(shares[i].Subtotal).Div(sum)
	}
}
