package models

import "time"

// Exception is an alert or hold raised against a shipment.
type Exception struct {
	ID          uint            `gorm:"column:exception_id;primaryKey;autoIncrement" json:"exception_id"`
	ShipmentID  uint            `gorm:"not null;index" json:"shipment_id"`
	Type        string          `gorm:"column:exception_type;size:100" json:"exception_type"`
	Severity    Severity        `gorm:"size:50;default:'MEDIUM'" json:"severity"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Status      ExceptionStatus `gorm:"size:50;default:'OPEN'" json:"status"`
	ReportedBy  string          `gorm:"size:255" json:"reported_by"`
	AssignedTo  string          `gorm:"size:255" json:"assigned_to"`
	Resolution  string          `gorm:"type:text" json:"resolution"`
	ResolvedAt  *time.Time      `json:"resolved_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Exception) TableName() string {
	return "exceptions"
}
