package model

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus enum constants. Transitions are forward-only.
const (
	DeliveryPending    = "PENDING"
	DeliveryDispatched = "DISPATCHED"
	DeliveryDelivered  = "DELIVERED"
)

// Delivery tracks the physical hand-off of a bill's goods
type Delivery struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BillID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"bill_id"`
	Bill        *Bill      `gorm:"foreignKey:BillID" json:"bill,omitempty"`
	SalesmanID  *uuid.UUID `gorm:"type:uuid;index" json:"salesman_id"`
	Salesman    *Salesman  `gorm:"foreignKey:SalesmanID" json:"salesman,omitempty"`
	Status      string     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	DeliveredAt *time.Time `json:"delivered_at"`
	UpdatedBy   *uuid.UUID `gorm:"type:uuid" json:"updated_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
