package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vendor is a supplier whose bills and credits are tracked. Credit rollups
// are maintained inside the same transaction as credit state changes.
type Vendor struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name              string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	VendorType        string          `gorm:"type:varchar(50)" json:"vendor_type"`
	ContactNumber     string          `gorm:"type:varchar(20)" json:"contact_number"`
	Email             string          `gorm:"type:varchar(120)" json:"email"`
	Address           string          `gorm:"type:text" json:"address"`
	GSTNumber         string          `gorm:"type:varchar(20)" json:"gst_number"`
	TotalCredit       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_credit"`
	OutstandingCredit decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"outstanding_credit"`
	ClearedCredit     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"cleared_credit"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Salesman carries bills between vendors and the office
type Salesman struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Contact   string    `gorm:"type:varchar(20);not null" json:"contact"`
	Email     string    `gorm:"type:varchar(120)" json:"email"`
	Address   string    `gorm:"type:text" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
