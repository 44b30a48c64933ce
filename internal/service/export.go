package service

import (
	"encoding/json"
	"io"
	"time"

	"github.com/dkolev/groupify/internal/models"
	"github.com/dkolev/groupify/internal/money"
)

// The export DTOs below are a compatibility boundary: field names are part
// of the contract and must not drift. Monetary values are float64 rounded
// to the currency's minor unit; everything upstream stays decimal.

// SettlementDoc is the wire form of one settlement transaction.
type SettlementDoc struct {
	FromPerson string  `json:"from_person"`
	ToPerson   string  `json:"to_person"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
}

// InstructionDoc is the wire form of one payment instruction.
type InstructionDoc struct {
	Instruction string  `json:"instruction"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

// BreakdownItemDoc is one person's share of a single item.
type BreakdownItemDoc struct {
	ItemName       string  `json:"item_name"`
	ItemTotalPrice float64 `json:"item_total_price"`
	SharedWith     int     `json:"shared_with"`
	PersonShare    float64 `json:"person_share"`
}

// BreakdownDoc is one person's full settlement explanation.
type BreakdownDoc struct {
	Items             []BreakdownItemDoc `json:"items"`
	SubtotalFromItems float64            `json:"subtotal_from_items"`
	TipShare          float64            `json:"tip_share"`
	TotalConsumed     float64            `json:"total_consumed"`
	EqualShareOwed    float64            `json:"equal_share_owed"`
	Difference        float64            `json:"difference"`
	Status            string             `json:"status"`
}

// WarningDoc is a non-fatal condition surfaced with the result.
type WarningDoc struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Amount  float64 `json:"amount"`
}

// SummaryDoc counts people and items for the export.
type SummaryDoc struct {
	PeopleCount     int `json:"people_count"`
	ItemsCount      int `json:"items_count"`
	UnassignedItems int `json:"unassigned_items"`
	AssignedItems   int `json:"assigned_items"`
}

// AnalysisDoc is the wire form of a SettlementAnalysis.
type AnalysisDoc struct {
	IndividualShares    map[string]float64      `json:"individual_shares"`
	EqualSharePerPerson float64                 `json:"equal_share_per_person"`
	TotalAmount         float64                 `json:"total_amount"`
	Transactions        int                     `json:"transactions"`
	Settlements         []SettlementDoc         `json:"settlements"`
	PaymentInstructions []InstructionDoc        `json:"payment_instructions"`
	DetailedBreakdown   map[string]BreakdownDoc `json:"detailed_breakdown"`
	Summary             SummaryDoc              `json:"summary"`
	Warnings            []WarningDoc            `json:"warnings,omitempty"`
}

// ItemDoc is the wire form of a receipt line item.
type ItemDoc struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Quantity   int      `json:"quantity"`
	UnitPrice  float64  `json:"unit_price"`
	Price      float64  `json:"price"`
	AssignedTo []string `json:"assigned_to"`
}

// ReceiptDoc is the wire form of the receipt.
type ReceiptDoc struct {
	Items         []ItemDoc `json:"items"`
	Total         float64   `json:"total"`
	OriginalTotal float64   `json:"original_total"`
	TipAmount     float64   `json:"tip_amount"`
	Currency      string    `json:"currency"`
}

// ExportInfoDoc records when and how the export was produced.
type ExportInfoDoc struct {
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Currency  string `json:"currency"`
}

// ExportDoc is the complete export document.
type ExportDoc struct {
	ExportInfo         ExportInfoDoc `json:"export_info"`
	Receipt            ReceiptDoc    `json:"receipt"`
	People             []string      `json:"people"`
	SettlementAnalysis *AnalysisDoc  `json:"settlement_analysis,omitempty"`
}

const exportVersion = "1.0"

// BuildAnalysisDoc converts a SettlementAnalysis into its wire form.
func BuildAnalysisDoc(a *models.SettlementAnalysis) *AnalysisDoc {
	cur := a.Currency

	doc := &AnalysisDoc{
		IndividualShares:    make(map[string]float64, len(a.IndividualShares)),
		EqualSharePerPerson: money.ToFloat(a.EqualSharePerPerson, cur),
		TotalAmount:         money.ToFloat(a.TotalAmount, cur),
		Transactions:        a.Transactions(),
		Settlements:         make([]SettlementDoc, len(a.Settlements)),
		PaymentInstructions: make([]InstructionDoc, len(a.PaymentInstructions)),
		DetailedBreakdown:   make(map[string]BreakdownDoc, len(a.DetailedBreakdown)),
		Summary: SummaryDoc{
			PeopleCount:     a.Summary.PeopleCount,
			ItemsCount:      a.Summary.ItemsCount,
			UnassignedItems: a.Summary.UnassignedItems,
			AssignedItems:   a.Summary.AssignedItems,
		},
	}
	for person, consumed := range a.IndividualShares {
		doc.IndividualShares[person] = money.ToFloat(consumed, cur)
	}
	for i, s := range a.Settlements {
		doc.Settlements[i] = SettlementDoc{
			FromPerson: s.FromPerson,
			ToPerson:   s.ToPerson,
			Amount:     money.ToFloat(s.Amount, s.Currency),
			Currency:   s.Currency,
		}
	}
	for i, p := range a.PaymentInstructions {
		doc.PaymentInstructions[i] = InstructionDoc{
			Instruction: p.Instruction,
			From:        p.From,
			To:          p.To,
			Amount:      money.ToFloat(p.Amount, p.Currency),
			Currency:    p.Currency,
		}
	}
	for person, b := range a.DetailedBreakdown {
		items := make([]BreakdownItemDoc, len(b.Items))
		for k, it := range b.Items {
			items[k] = BreakdownItemDoc{
				ItemName:       it.ItemName,
				ItemTotalPrice: money.ToFloat(it.ItemTotalPrice, cur),
				SharedWith:     it.SharedWith,
				PersonShare:    money.ToFloat(it.PersonShare, cur),
			}
		}
		doc.DetailedBreakdown[person] = BreakdownDoc{
			Items:             items,
			SubtotalFromItems: money.ToFloat(b.SubtotalFromItems, cur),
			TipShare:          money.ToFloat(b.TipShare, cur),
			TotalConsumed:     money.ToFloat(b.TotalConsumed, cur),
			EqualShareOwed:    money.ToFloat(b.EqualShareOwed, cur),
			Difference:        money.ToFloat(b.Difference, cur),
			Status:            b.Status,
		}
	}
	for _, w := range a.Warnings {
		doc.Warnings = append(doc.Warnings, WarningDoc{
			Code:    w.Code,
			Message: w.Message,
			Amount:  money.ToFloat(w.Amount, cur),
		})
	}
	return doc
}

// BuildExport assembles the complete export document for a receipt, roster
// and (optionally nil) settlement analysis.
func BuildExport(receipt *models.Receipt, roster []string, analysis *models.SettlementAnalysis, now time.Time) *ExportDoc {
	cur := receipt.Currency

	items := make([]ItemDoc, len(receipt.Items))
	for i, it := range receipt.Items {
		items[i] = ItemDoc{
			ID:         it.ID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			UnitPrice:  money.ToFloat(it.UnitPrice, cur),
			Price:      money.ToFloat(it.Price, cur),
			AssignedTo: it.AssignedCopy(),
		}
	}

	doc := &ExportDoc{
		ExportInfo: ExportInfoDoc{
			Timestamp: now.Format(time.RFC3339),
			Version:   exportVersion,
			Currency:  cur,
		},
		Receipt: ReceiptDoc{
			Items:         items,
			Total:         money.ToFloat(receipt.Total, cur),
			OriginalTotal: money.ToFloat(receipt.OriginalTotal, cur),
			TipAmount:     money.ToFloat(receipt.TipAmount, cur),
			Currency:      cur,
		},
		People: append([]string(nil), roster...),
	}
	if analysis != nil {
		doc.SettlementAnalysis = BuildAnalysisDoc(analysis)
	}
	return doc
}

// WriteExport renders an export document as indented JSON.
func WriteExport(w io.Writer, doc *ExportDoc) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}
