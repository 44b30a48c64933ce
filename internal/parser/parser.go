// Package parser extracts structured line items from raw OCR text.
// It understands Bulgarian and English receipt layouts and tolerates the
// usual OCR noise: comma decimal separators, repeated lines from
// overlapping scan regions, and near-duplicate item reads.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dkolev/groupify/internal/models"
)

var (
	reBGItem = regexp.MustCompile(`(?i)(.+?)\s+(\d+)\s*[xх]\s*([\d,.]+)\s+([\d,.]+)\s*(?:лв|Г|б)?`)
	reENItem = regexp.MustCompile(`(?i)(.+?)\s+(\d+)\s*x\s*([\d,.]+)\s+([\d,.]+)`)
	// A trailing name/price pair with an optional currency marker.
	reSimpleItem = regexp.MustCompile(`(?i)(.+?)\s+([\d,.]+)\s*(?:лв|BGN|\$)?$`)
	reBGTotal    = regexp.MustCompile(`(?i)(?:ОБЩА\s+СУМА|СУМА|Всичко|ОБЩО)[:\s]*([\d,.]+)`)
	reENTotal    = regexp.MustCompile(`(?i)(?:TOTAL|AMOUNT|SUM|Subtotal)[:\s]*\$?([\d,.]+)`)

	rePriceJunk = regexp.MustCompile(`[^\d,.]`)
	reLetter    = regexp.MustCompile(`[a-zA-Zа-яА-Я]`)
	reNameJunk  = regexp.MustCompile(`[^\wа-я\s-]`)
)

// skipWords marks receipt lines that are not purchasable items: totals,
// tax lines, card slips, boilerplate. Matched case-insensitively.
var skipWords = []string{
	"СУМА", "TOTAL", "БОН", "ДДС", "УНП", "ЕИК", "КАРТА", "СМЕТКА",
	"БЛАГОДАРИМ", "TAX", "SUBTOTAL", "CASH", "CHANGE", "CARD",
	"RECEIPT", "INVOICE", "DATE", "TIME", "CASHIER", "THANK",
	"ЧЕК", "КАСА", "РЕСТОРАНТ", "КАФЕ", "ОБЩО",
}

const (
	nameSimilarityThreshold = 0.85
	lineSimilarityThreshold = 0.9
)

// Parse converts OCR text into a Receipt in the given currency. Items get
// fresh UUIDs and empty assignments; a printed total line is preferred,
// falling back to the item sum when none is found.
func Parse(ocrText, currency string) *models.Receipt {
	receipt := &models.Receipt{Currency: currency}

	var raw []models.Item
	for _, line := range strings.Split(dedupeLines(ocrText), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if item, ok := parseItemLine(line); ok {
			raw = append(raw, item)
		}

		for _, re := range []*regexp.Regexp{reBGTotal, reENTotal} {
			if m := re.FindStringSubmatch(line); m != nil {
				if total := cleanPrice(m[1]); total.IsPositive() {
					receipt.Total = total
					receipt.OriginalTotal = total
				}
				break
			}
		}
	}

	receipt.Items = mergeDuplicates(raw)
	if receipt.Total.IsZero() && len(receipt.Items) > 0 {
		receipt.CalculateTotal()
	}
	return receipt
}

// parseItemLine tries the quantity-bearing patterns first, then the plain
// name/price fallback.
func parseItemLine(line string) (models.Item, bool) {
	for _, re := range []*regexp.Regexp{reBGItem, reENItem} {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		quantity, _ := strconv.Atoi(m[2])
		if quantity <= 0 {
			quantity = 1
		}
		unitPrice := cleanPrice(m[3])
		price := cleanPrice(m[4])
		if !isValidItemName(name) || !price.IsPositive() {
			return models.Item{}, false
		}
		if unitPrice.IsZero() {
			unitPrice = price.Div(decimal.NewFromInt(int64(quantity)))
		}
		return models.Item{
			ID:        uuid.New().String(),
			Name:      name,
			Quantity:  quantity,
			UnitPrice: unitPrice,
			Price:     price,
		}, true
	}

	if m := reSimpleItem.FindStringSubmatch(line); m != nil {
		name := strings.TrimSpace(m[1])
		price := cleanPrice(m[2])
		if isValidItemName(name) && price.IsPositive() {
			return models.Item{
				ID:        uuid.New().String(),
				Name:      name,
				Quantity:  1,
				UnitPrice: price,
				Price:     price,
			}, true
		}
	}
	return models.Item{}, false
}

// cleanPrice strips currency junk and normalizes the comma decimal
// separator common on Bulgarian receipts. Unparseable prices become zero.
func cleanPrice(s string) decimal.Decimal {
	s = rePriceJunk.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func normalizeName(name string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	return strings.TrimSpace(reNameJunk.ReplaceAllString(normalized, ""))
}

func isValidItemName(name string) bool {
	if len([]rune(name)) < 2 {
		return false
	}
	upper := strings.ToUpper(name)
	for _, w := range skipWords {
		if strings.Contains(upper, w) {
			return false
		}
	}
	return reLetter.MatchString(name)
}

// similarity is the ratio of the longest common subsequence to the average
// length, in [0, 1]. Good enough to catch OCR near-duplicates.
func similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	return float64(2*lcsLength(ra, rb)) / float64(len(ra)+len(rb))
}

func lcsLength(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// itemsSimilar reports whether two parsed items are likely the same
// physical receipt line read twice.
func itemsSimilar(a, b models.Item) bool {
	priceMatch := a.Price.Sub(b.Price).Abs().LessThan(decimal.New(1, -2))
	if !priceMatch {
		return false
	}
	na, nb := normalizeName(a.Name), normalizeName(b.Name)
	if na == nb {
		return true
	}
	if similarity(na, nb) >= nameSimilarityThreshold {
		return true
	}
	// Partial OCR reads: one name contains the other.
	if len(na) > 3 && len(nb) > 3 && (strings.Contains(na, nb) || strings.Contains(nb, na)) {
		return true
	}
	return false
}

// mergeDuplicates drops items that are near-duplicate reads of an earlier
// item, keeping the first occurrence.
func mergeDuplicates(items []models.Item) []models.Item {
	var merged []models.Item
	dropped := make(map[int]bool, len(items))
	for i, item := range items {
		if dropped[i] {
			continue
		}
		for j := i + 1; j < len(items); j++ {
			if !dropped[j] && itemsSimilar(item, items[j]) {
				dropped[j] = true
			}
		}
		merged = append(merged, item)
	}
	return merged
}

// dedupeLines removes lines that near-duplicate one of the previous three,
// which happens when overlapping scan regions are OCR'd separately.
func dedupeLines(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		duplicate := false
		start := len(kept) - 3
		if start < 0 {
			start = 0
		}
		for _, prev := range kept[start:] {
			if similarity(line, prev) > lineSimilarityThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
