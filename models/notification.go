package models

import "time"

// Notification is a dispatch record consumed by the notification-dispatch service.
type Notification struct {
	ID           uint               `gorm:"column:notification_id;primaryKey;autoIncrement" json:"notification_id"`
	ShipmentID   *uint              `gorm:"index" json:"shipment_id"`
	MilestoneID  *uint              `json:"milestone_id"`
	Type         string             `gorm:"column:notification_type;size:50;not null" json:"notification_type"`
	Recipients   string             `gorm:"type:text;not null" json:"recipients"`
	Subject      string             `gorm:"size:500" json:"subject"`
	Message      string             `gorm:"type:text" json:"message"`
	Status       NotificationStatus `gorm:"size:50;default:'PENDING'" json:"status"`
	SentAt       *time.Time         `json:"sent_at"`
	ErrorMessage string             `gorm:"type:text" json:"error_message"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
