package models

import (
	"gorm.io/datatypes"
	"time"
)

// AuditLog rows are never updated. ShipmentID has no foreign key so rows
// survive the deletion of the shipment they describe.
type AuditLog struct {
	ID         uint           `gorm:"column:log_id;primaryKey;autoIncrement" json:"log_id"`
	ShipmentID *uint          `gorm:"index" json:"shipment_id"`
	UserID     *uint          `json:"user_id"`
	Action     string         `gorm:"size:100;not null" json:"action"`
	EntityType string         `gorm:"size:100" json:"entity_type"`
	EntityID   *uint          `json:"entity_id"`
	OldValue   datatypes.JSON `json:"old_value"`
	NewValue   datatypes.JSON `json:"new_value"`
	UserEmail  string         `gorm:"size:255" json:"user_email"`
	IPAddress  string         `gorm:"column:ip_address;size:45" json:"ip_address"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// All lists every table model in dependency order.
func All() []any {
	return []any{
		&Shipper{},
		&User{},
		&MilestoneType{},
		&Shipment{},
		&PurchaseOrder{},
		&Document{},
		&Milestone{},
		&Invoice{},
		&Exception{},
		&Notification{},
		&AuditLog{},
	}
}
