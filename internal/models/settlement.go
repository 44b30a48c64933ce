package models

import "github.com/shopspring/decimal"

// Settlement represents one directed payment that reduces exactly one
// debtor's and one creditor's outstanding balance.
type Settlement struct {
	// FromPerson is the debtor making the payment.
	FromPerson string

	// ToPerson is the creditor receiving the payment.
	ToPerson string

	// Amount is the payment amount, always positive.
	Amount decimal.Decimal

	// Currency is the receipt's currency code.
	Currency string
}

// PaymentInstruction is the human-readable rendering of a Settlement,
// plus the structured fields the export boundary requires.
type PaymentInstruction struct {
	Instruction string
	From        string
	To          string
	Amount      decimal.Decimal
	Currency    string
}
