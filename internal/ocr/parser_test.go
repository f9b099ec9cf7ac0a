package ocr

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"labelled total", "Total: Rs. 1234.50", "1234.5"},
		{"thousands separator", "Total: Rs. 1,234.50", "1234.5"},
		{"grand total", "Grand Total: 5000", "5000"},
		{"currency symbol only", "Payable to supplier\nRs. 899.99", "899.99"},
		{"largest wins over line items", "Item A Rs 100\nItem B Rs 250.50\nTotal Rs 350.50", "350.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ParseBillText(tt.text)
			require.NotNil(t, parsed.Amount)
			assert.True(t, parsed.Amount.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", parsed.Amount, tt.want)
		})
	}
}

func TestParseAmountIgnoresBareNumbers(t *testing.T) {
	// Quantities without a label or currency marker must not be mistaken
	// for the bill amount.
	parsed := ParseBillText("Item count 450\nWeight 12.5 kg")
	assert.Nil(t, parsed.Amount)
}

func TestParseBillNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"bill no label", "Bill No: INV-2041", "INV-2041"},
		{"invoice number label", "Invoice Number 88123", "88123"},
		{"hash label", "Bill #HB/991", "HB/991"},
		{"lowercased input", "bill no: inv-77", "INV-77"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ParseBillText(tt.text)
			require.NotNil(t, parsed.BillNumber)
			assert.Equal(t, tt.want, *parsed.BillNumber)
		})
	}
}

func TestParseBillNumberStandaloneFallback(t *testing.T) {
	parsed := ParseBillText("Receipt\nINV-2041\nThanks for your business")
	require.NotNil(t, parsed.BillNumber)
	assert.Equal(t, "INV-2041", *parsed.BillNumber)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"iso", "Date: 2026-08-15", "2026-08-15"},
		{"day first", "Dated 15/08/2026", "2026-08-15"},
		{"two digit year", "05/08/26", "2026-08-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ParseBillText(tt.text)
			require.NotNil(t, parsed.Date)
			assert.Equal(t, tt.want, parsed.Date.Format("2006-01-02"))
		})
	}
}

func TestParseDateRejectsImpossibleDays(t *testing.T) {
	parsed := ParseBillText("Dated 31/02/2026")
	assert.Nil(t, parsed.Date)
}

func TestParseVendorName(t *testing.T) {
	t.Run("company indicator", func(t *testing.T) {
		parsed := ParseBillText("Acme Traders Pvt Ltd\nBill No: 123")
		require.NotNil(t, parsed.VendorName)
		assert.Equal(t, "Acme Traders Pvt Ltd", *parsed.VendorName)
	})

	t.Run("plain header line", func(t *testing.T) {
		parsed := ParseBillText("Sharma General Stores\nBill No: 55\nTotal Rs 100")
		require.NotNil(t, parsed.VendorName)
		assert.Equal(t, "Sharma General Stores", *parsed.VendorName)
	})

	t.Run("keyword lines skipped", func(t *testing.T) {
		parsed := ParseBillText("Tax Invoice\nGST 29ABCDE1234F\nDate: 2026-08-01\n12345")
		assert.Nil(t, parsed.VendorName)
	})
}

func TestParseBillTextFieldsAreIndependent(t *testing.T) {
	// Only the amount is present; the other fields stay nil rather than
	// being guessed.
	parsed := ParseBillText("Total: Rs. 900.00")
	require.NotNil(t, parsed.Amount)
	assert.Nil(t, parsed.BillNumber)
	assert.Nil(t, parsed.Date)
	assert.Nil(t, parsed.VendorName)
}
