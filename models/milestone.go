package models

import "time"

// MilestoneType is one entry of the ordered milestone catalog.
type MilestoneType struct {
	ID          uint      `gorm:"column:milestone_type_id;primaryKey;autoIncrement" json:"milestone_type_id"`
	Name        string    `gorm:"column:milestone_name;size:100;not null;unique" json:"milestone_name"`
	Order       int       `gorm:"column:milestone_order;not null" json:"milestone_order"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (MilestoneType) TableName() string {
	return "milestone_types"
}

// Milestone is a shipment's occurrence of a milestone type.
type Milestone struct {
	ID               uint            `gorm:"column:milestone_id;primaryKey;autoIncrement" json:"milestone_id"`
	ShipmentID       uint            `gorm:"not null;index" json:"shipment_id"`
	Name             string          `gorm:"column:milestone_name;size:100;not null" json:"milestone_name"`
	Status           MilestoneStatus `gorm:"column:milestone_status;size:50;default:'PENDING'" json:"milestone_status"`
	ExpectedDate     *time.Time      `json:"expected_date"`
	ActualDate       *time.Time      `json:"actual_date"`
	Location         string          `gorm:"size:255" json:"location"`
	Notes            string          `gorm:"type:text" json:"notes"`
	NotificationSent bool            `gorm:"default:false" json:"notification_sent"`
	CreatedBy        string          `gorm:"size:255" json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Notifications []Notification `gorm:"foreignKey:MilestoneID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Milestone) TableName() string {
	return "milestones"
}
