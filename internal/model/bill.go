package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillType enum constants
const (
	BillTypeHandbill = "HANDBILL" // manually entered, no OCR verification
	BillTypeNormal   = "NORMAL"   // scanned document, requires OCR verification
)

// VerificationStatus enum constants
const (
	VerificationUnverified  = "unverified"
	VerificationVerified    = "verified"
	VerificationDiscrepancy = "discrepancy_found"
)

// PaymentMethod enum constants
const (
	PaymentCash   = "Cash"
	PaymentCredit = "Credit"
	PaymentUPI    = "UPI"
	PaymentCheque = "Cheque"
)

// Bill represents a purchase bill, either hand-entered or sourced from a
// scanned document. OCR-parsed fields stay nil when extraction found nothing.
type Bill struct {
	ID                 uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BillNo             string           `gorm:"type:varchar(50);uniqueIndex;not null" json:"bill_no"`
	BillType           string           `gorm:"type:varchar(20);not null;index" json:"bill_type"` // HANDBILL, NORMAL
	VendorID           *uuid.UUID       `gorm:"type:uuid;index" json:"vendor_id"`
	Vendor             *Vendor          `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	SalesmanID         *uuid.UUID       `gorm:"type:uuid;index" json:"salesman_id"`
	Salesman           *Salesman        `gorm:"foreignKey:SalesmanID" json:"salesman,omitempty"`
	Amount             decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"amount"`
	BillDate           time.Time        `gorm:"type:date;not null" json:"bill_date"`
	PaymentMethod      string           `gorm:"type:varchar(50);not null;default:'Cash'" json:"payment_method"`
	VerificationStatus string           `gorm:"type:varchar(20);not null;default:'unverified';index" json:"verification_status"`
	ImageFilename      string           `gorm:"type:varchar(255)" json:"image_filename"`
	OCRText            string           `gorm:"type:text" json:"ocr_text"`
	OCRConfidence      *float64         `json:"ocr_confidence"`
	OCRBillNumber      *string          `gorm:"type:varchar(50)" json:"ocr_bill_number"`
	OCRAmount          *decimal.Decimal `gorm:"type:decimal(18,4)" json:"ocr_amount"`
	OCRDate            *time.Time       `gorm:"type:date" json:"ocr_date"`
	OCRVendorName      *string          `gorm:"type:varchar(200)" json:"ocr_vendor_name"`
	CreatedBy          *uuid.UUID       `gorm:"type:uuid" json:"created_by"`
	Creator            *User            `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	DeletedAt          gorm.DeletedAt   `gorm:"index" json:"-"` // admin-only soft delete
}

// VerificationStage enum constants
const (
	StageUploader   = "UPLOADER"
	StageBackOffice = "BACK_OFFICE"
)

// VerificationLog records a single field-level mismatch found by the
// comparator. A bill in discrepancy_found status always has at least one row.
type VerificationLog struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BillID      uuid.UUID `gorm:"type:uuid;not null;index" json:"bill_id"`
	Stage       string    `gorm:"type:varchar(20);not null" json:"stage"` // UPLOADER, BACK_OFFICE
	Field       string    `gorm:"type:varchar(30);not null" json:"field"`
	StoredValue string    `gorm:"type:varchar(255)" json:"stored_value"`
	OCRValue    string    `gorm:"type:varchar(255)" json:"ocr_value"`
	CreatedAt   time.Time `json:"created_at"`
}
