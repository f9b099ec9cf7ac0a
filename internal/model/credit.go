package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditStatus enum constants
const (
	CreditPending = "Pending"
	CreditCleared = "Cleared"
	CreditOverdue = "Overdue"
)

// CreditTransaction tracks a deferred-payment obligation. At most one
// transaction may reference a given bill. A Cleared transaction always
// carries ClearedBy and ClearedAt.
type CreditTransaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BillID        *uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"bill_id"` // nullable: manual credits exist without a bill
	Bill          *Bill           `gorm:"foreignKey:BillID" json:"bill,omitempty"`
	BillNo        string          `gorm:"type:varchar(50)" json:"bill_no"`
	VendorID      *uuid.UUID      `gorm:"type:uuid;index" json:"vendor_id"`
	Vendor        *Vendor         `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	SalesmanID    *uuid.UUID      `gorm:"type:uuid;index" json:"salesman_id"`
	Salesman      *Salesman       `gorm:"foreignKey:SalesmanID" json:"salesman,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	DueDate       time.Time       `gorm:"type:date;not null" json:"due_date"`
	Status        string          `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	PaymentMethod string          `gorm:"type:varchar(50);not null;default:'Credit'" json:"payment_method"`
	ClearedBy     *uuid.UUID      `gorm:"type:uuid" json:"cleared_by"`
	ClearedAt     *time.Time      `json:"cleared_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// EffectiveStatus derives the status as of the given day. A Pending
// transaction past its due date reads as Overdue; the stored row is only
// reconciled lazily on the next read, never by a background job.
func (t *CreditTransaction) EffectiveStatus(today time.Time) string {
	if t.Status == CreditPending && today.After(t.DueDate) && !sameDay(today, t.DueDate) {
		return CreditOverdue
	}
	return t.Status
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
