package ocr

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func timePtr(t time.Time) *time.Time { return &t }

func TestCompareAmountTolerance(t *testing.T) {
	stored := StoredFields{Amount: dec("100.00")}
	tolerance := dec("0.01")

	// Within tolerance
	result := Compare(stored, ParsedBill{Amount: decPtr("100.01")}, tolerance)
	assert.False(t, result.HasDiscrepancy())

	// One paisa over
	result = Compare(stored, ParsedBill{Amount: decPtr("100.02")}, tolerance)
	require.True(t, result.HasDiscrepancy())
	assert.Equal(t, FieldAmount, result.Mismatches[0].Field)
	assert.Equal(t, "100.00", result.Mismatches[0].Stored)
	assert.Equal(t, "100.02", result.Mismatches[0].OCR)
}

func TestCompareBillNumberIgnoresCaseAndSpacing(t *testing.T) {
	stored := StoredFields{BillNumber: "INV 2041"}

	result := Compare(stored, ParsedBill{BillNumber: strPtr("inv2041")}, DefaultAmountTolerance)
	assert.False(t, result.HasDiscrepancy())

	result = Compare(stored, ParsedBill{BillNumber: strPtr("INV2042")}, DefaultAmountTolerance)
	require.True(t, result.HasDiscrepancy())
	assert.Equal(t, FieldBillNumber, result.Mismatches[0].Field)
}

func TestCompareDateSameDayMatches(t *testing.T) {
	stored := StoredFields{Date: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)}

	result := Compare(stored, ParsedBill{Date: timePtr(time.Date(2026, 8, 15, 14, 30, 0, 0, time.UTC))}, DefaultAmountTolerance)
	assert.False(t, result.HasDiscrepancy())

	result = Compare(stored, ParsedBill{Date: timePtr(time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC))}, DefaultAmountTolerance)
	require.True(t, result.HasDiscrepancy())
	assert.Equal(t, FieldDate, result.Mismatches[0].Field)
}

func TestCompareVendorNameNormalized(t *testing.T) {
	stored := StoredFields{VendorName: "Acme Traders Pvt. Ltd."}

	result := Compare(stored, ParsedBill{VendorName: strPtr("acme traders pvt ltd")}, DefaultAmountTolerance)
	assert.False(t, result.HasDiscrepancy())

	result = Compare(stored, ParsedBill{VendorName: strPtr("Zenith Suppliers")}, DefaultAmountTolerance)
	require.True(t, result.HasDiscrepancy())
	assert.Equal(t, FieldVendorName, result.Mismatches[0].Field)
}

func TestCompareSkipsAbsentFields(t *testing.T) {
	stored := StoredFields{
		BillNumber: "INV-1",
		Amount:     dec("500.00"),
		Date:       time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		VendorName: "Acme Traders",
	}

	// Nothing was parsed, so nothing can mismatch
	result := Compare(stored, ParsedBill{}, DefaultAmountTolerance)
	assert.False(t, result.HasDiscrepancy())
}

func TestCompareCollectsAllMismatches(t *testing.T) {
	stored := StoredFields{
		BillNumber: "INV-1",
		Amount:     dec("500.00"),
		Date:       time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	parsed := ParsedBill{
		BillNumber: strPtr("INV-2"),
		Amount:     decPtr("650.00"),
		Date:       timePtr(time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)),
	}

	result := Compare(stored, parsed, DefaultAmountTolerance)
	assert.Len(t, result.Mismatches, 3)
}
