package ocr

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field name constants used in mismatch records
const (
	FieldBillNumber = "bill_number"
	FieldAmount     = "amount"
	FieldDate       = "date"
	FieldVendorName = "vendor_name"
)

// DefaultAmountTolerance is the largest stored/parsed amount difference that
// still counts as a match (one paisa).
var DefaultAmountTolerance = decimal.NewFromFloat(0.01)

// StoredFields are the human-entered values on the bill at comparison time
type StoredFields struct {
	BillNumber string
	Amount     decimal.Decimal
	Date       time.Time
	VendorName string
}

// Mismatch flags one field where stored and OCR-parsed values disagree
type Mismatch struct {
	Field  string
	Stored string
	OCR    string
}

// Comparison is the full verdict for one bill
type Comparison struct {
	Mismatches []Mismatch
}

// HasDiscrepancy reports whether any field mismatched
func (c Comparison) HasDiscrepancy() bool {
	return len(c.Mismatches) > 0
}

// Compare checks stored values against OCR-parsed ones. Pure and
// deterministic; a field is only compared when both sides are present.
// Amounts mismatch when the absolute difference exceeds the tolerance;
// strings are compared case-insensitively, vendor names additionally
// ignoring whitespace and punctuation.
func Compare(stored StoredFields, parsed ParsedBill, tolerance decimal.Decimal) Comparison {
	var result Comparison

	if stored.BillNumber != "" && parsed.BillNumber != nil {
		if !strings.EqualFold(collapse(stored.BillNumber), collapse(*parsed.BillNumber)) {
			result.Mismatches = append(result.Mismatches, Mismatch{
				Field:  FieldBillNumber,
				Stored: stored.BillNumber,
				OCR:    *parsed.BillNumber,
			})
		}
	}

	if parsed.Amount != nil {
		if stored.Amount.Sub(*parsed.Amount).Abs().GreaterThan(tolerance) {
			result.Mismatches = append(result.Mismatches, Mismatch{
				Field:  FieldAmount,
				Stored: stored.Amount.StringFixed(2),
				OCR:    parsed.Amount.StringFixed(2),
			})
		}
	}

	if !stored.Date.IsZero() && parsed.Date != nil {
		if !sameDate(stored.Date, *parsed.Date) {
			result.Mismatches = append(result.Mismatches, Mismatch{
				Field:  FieldDate,
				Stored: stored.Date.Format("2006-01-02"),
				OCR:    parsed.Date.Format("2006-01-02"),
			})
		}
	}

	if stored.VendorName != "" && parsed.VendorName != nil {
		if normalizeName(stored.VendorName) != normalizeName(*parsed.VendorName) {
			result.Mismatches = append(result.Mismatches, Mismatch{
				Field:  FieldVendorName,
				Stored: stored.VendorName,
				OCR:    *parsed.VendorName,
			})
		}
	}

	return result
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// collapse removes internal whitespace for token comparison
func collapse(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// normalizeName lowercases and strips everything but letters and digits
func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
