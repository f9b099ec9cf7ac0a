package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction enum constants
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionVerify = "VERIFY"
	ActionExport = "EXPORT"
	ActionLogin  = "LOGIN"
	ActionLogout = "LOGOUT"
)

// Audit entity type constants
const (
	EntityBill     = "bill"
	EntityCredit   = "credit_transaction"
	EntityVendor   = "vendor"
	EntitySalesman = "salesman"
	EntityDelivery = "delivery"
	EntityUser     = "user"
	EntityReport   = "report"
)

// AuditLog tracks Who, What, and When for every state change. Rows are
// append-only; nothing updates or deletes them.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nullable for system actions
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(20);not null;index" json:"action"`
	EntityType string     `gorm:"type:varchar(30);not null;index" json:"entity_type"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	IPAddress  string     `gorm:"type:varchar(45)" json:"ip_address"`
	Details    string     `gorm:"type:jsonb" json:"details"` // old/new field snapshot
	Success    bool       `gorm:"not null;default:true" json:"success"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
