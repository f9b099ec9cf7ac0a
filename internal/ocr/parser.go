package ocr

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParsedBill holds the fields extracted from raw OCR text. A field that
// could not be matched confidently stays nil; it is surfaced to the human
// reviewer, never guessed or defaulted.
type ParsedBill struct {
	BillNumber *string
	Amount     *decimal.Decimal
	Date       *time.Time
	VendorName *string
}

var billNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bill\s*(?:number|no|#|num)[\s:]*([A-Z0-9\-/]+)`),
	regexp.MustCompile(`(?i)invoice\s*(?:number|no|#|num)[\s:]*([A-Z0-9\-/]+)`),
	regexp.MustCompile(`(?i)bill[\s:]+([A-Z0-9\-/]+)`),
	regexp.MustCompile(`(?i)invoice[\s:]+([A-Z0-9\-/]+)`),
	regexp.MustCompile(`(?i)no[.\s:]+([A-Z0-9\-/]+)`),
}

// Standalone bill numbers: short alpha prefix followed by digits, e.g. INV-2041
var standaloneBillNumber = regexp.MustCompile(`(?i)\b([A-Z]{1,5}[-/]?\d{2,10})\b`)

var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:grand\s*total|total|amount\s*due|amount|payable)[\s:]*(?:rs\.?|inr|₹|\$)?\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)final\s*amount[\s:]*(?:rs\.?|inr|₹|\$)?\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)(?:rs\.?|inr|₹|\$)\s*(\d{1,10}(?:\.\d{1,2})?)`),
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{4})[/-](\d{1,2})[/-](\d{1,2})`),
	regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})`),
}

var vendorLineSkipWords = []string{"bill", "invoice", "tax", "gst", "date", "amount"}
var companyIndicators = []string{"Ltd", "Limited", "Pvt", "Pvt.", "Corp", "Corporation", "Inc"}
var vendorNameShape = regexp.MustCompile(`^[A-Za-z\s&]+`)
var leadingDigit = regexp.MustCompile(`^\d`)

// ParseBillText extracts bill number, amount, date and vendor name from raw
// OCR text. Each field is independent; a miss on one does not affect the rest.
func ParseBillText(text string) ParsedBill {
	return ParsedBill{
		BillNumber: parseBillNumber(text),
		Amount:     parseAmount(text),
		Date:       parseDate(text),
		VendorName: parseVendorName(text),
	}
}

// parseBillNumber looks for labelled bill/invoice numbers first, then falls
// back to a standalone alphanumeric token.
func parseBillNumber(text string) *string {
	for _, pattern := range billNumberPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			number := strings.ToUpper(strings.TrimSpace(m[1]))
			return &number
		}
	}

	if m := standaloneBillNumber.FindStringSubmatch(text); m != nil {
		number := strings.ToUpper(strings.TrimSpace(m[1]))
		return &number
	}

	return nil
}

// parseAmount returns the largest currency-like token in the text. Totals
// sit below line items on a bill, so the maximum favors the "Total" line.
func parseAmount(text string) *decimal.Decimal {
	// Thousands separators would split the match
	clean := strings.ReplaceAll(text, ",", "")

	var best *decimal.Decimal
	for _, pattern := range amountPatterns {
		for _, m := range pattern.FindAllStringSubmatch(clean, -1) {
			amount, err := decimal.NewFromString(m[1])
			if err != nil || !amount.IsPositive() {
				continue
			}
			if best == nil || amount.GreaterThan(*best) {
				best = &amount
			}
		}
	}

	return best
}

// parseDate returns the first token matching a known date format, normalized
// to midnight UTC. Two-digit years are assumed to be 2000-2099.
func parseDate(text string) *time.Time {
	for _, pattern := range datePatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			var day, month, year int
			if len(m[1]) == 4 {
				year, month, day = atoi(m[1]), atoi(m[2]), atoi(m[3])
			} else {
				day, month, year = atoi(m[1]), atoi(m[2]), atoi(m[3])
			}
			if year < 100 {
				year += 2000
			}
			if month < 1 || month > 12 || day < 1 || day > 31 {
				continue
			}
			date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			// Reject normalized rollovers like 31/02
			if date.Day() != day || date.Month() != time.Month(month) {
				continue
			}
			return &date
		}
	}

	return nil
}

// parseVendorName picks the first header line that looks like a business
// name: non-numeric, substantial, and free of bill keywords.
func parseVendorName(text string) *string {
	lines := strings.Split(text, "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		skip := false
		for _, word := range vendorLineSkipWords {
			if strings.Contains(lower, word) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		for _, indicator := range companyIndicators {
			if strings.Contains(line, indicator) {
				name := truncate(line, 100)
				return &name
			}
		}

		if len(line) > 5 && !leadingDigit.MatchString(line) {
			if shape := vendorNameShape.FindString(line); len(shape) >= len(line)/2 {
				name := truncate(line, 100)
				return &name
			}
		}
	}

	return nil
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
