package models

import "time"

// Shipment is a tracked container movement, keyed by its booking number.
type Shipment struct {
	ID              uint   `gorm:"column:shipment_id;primaryKey;autoIncrement" json:"shipment_id"`
	BookingNumber   string `gorm:"size:100;not null;unique" json:"booking_number"`
	ContainerNumber string `gorm:"size:50" json:"container_number"`
	VesselName      string `gorm:"size:255" json:"vessel_name"`
	VoyageNumber    string `gorm:"size:100" json:"voyage_number"`
	SteamshipLine   string `gorm:"size:255" json:"steamship_line"`
	RailProvider    string `gorm:"size:255" json:"rail_provider"`
	MasterBL        string `gorm:"column:master_bl;size:100" json:"master_bl"`
	HouseBL         string `gorm:"column:house_bl;size:100" json:"house_bl"`
	OriginPort      string `gorm:"size:255" json:"origin_port"`
	DestinationPort string `gorm:"size:255" json:"destination_port"`

	// Milestone timestamps, stamped when the matching milestone completes
	BookingDate            *time.Time `json:"booking_date"`
	ContainerLoadedDate    *time.Time `json:"container_loaded_date"`
	VesselDepartureDate    *time.Time `json:"vessel_departure_date"`
	PODDate                *time.Time `gorm:"column:pod_date" json:"pod_date"`
	RailDepartureDate      *time.Time `json:"rail_departure_date"`
	POEDate                *time.Time `gorm:"column:poe_date" json:"poe_date"`
	CustomsReleaseDate     *time.Time `json:"customs_release_date"`
	DischargeCompleteDate  *time.Time `json:"discharge_complete_date"`
	DocumentsAvailableDate *time.Time `json:"documents_available_date"`
	PickupDate             *time.Time `json:"pickup_date"`
	InvoiceSentDate        *time.Time `json:"invoice_sent_date"`

	CurrentStatus    string    `gorm:"size:50;default:'BOOKING_CREATED'" json:"current_status"`
	CurrentMilestone string    `gorm:"size:100" json:"current_milestone"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Children removed with the shipment
	PurchaseOrders []PurchaseOrder `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE" json:"purchase_orders,omitempty"`
	Documents      []Document      `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
	Milestones     []Milestone     `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE" json:"milestones,omitempty"`
	Invoices       []Invoice       `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE" json:"invoices,omitempty"`
	Exceptions     []Exception     `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE" json:"exceptions,omitempty"`
	Notifications  []Notification  `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Shipment) TableName() string {
	return "shipments"
}

// SetMilestoneDate stamps the date field matching name. It reports false for
// names without a dedicated column.
func (s *Shipment) SetMilestoneDate(name string, at time.Time) bool {
	var field **time.Time
	switch name {
	case "BOOKING_CONFIRMED":
		field = &s.BookingDate
	case "CONTAINER_LOADED":
		field = &s.ContainerLoadedDate
	case "VESSEL_DEPARTED":
		field = &s.VesselDepartureDate
	case "PORT_OF_DISCHARGE":
		field = &s.PODDate
	case "RAIL_DEPARTED":
		field = &s.RailDepartureDate
	case "PORT_OF_ENTRY":
		field = &s.POEDate
	case "CUSTOMS_RELEASED":
		field = &s.CustomsReleaseDate
	case "DISCHARGE_COMPLETE":
		field = &s.DischargeCompleteDate
	case "DOCUMENTS_AVAILABLE":
		field = &s.DocumentsAvailableDate
	case "PICKUP_COMPLETE":
		field = &s.PickupDate
	case "INVOICE_SENT":
		field = &s.InvoiceSentDate
	default:
		return false
	}
	t := at.UTC()
	*field = &t
	return true
}
