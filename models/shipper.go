package models

import (
	"github.com/shopspring/decimal"
	"time"
)

type Shipper struct {
	ID           uint      `gorm:"column:shipper_id;primaryKey;autoIncrement" json:"shipper_id"`
	Name         string    `gorm:"column:shipper_name;size:255;not null" json:"shipper_name"`
	Code         string    `gorm:"column:shipper_code;size:50;not null;unique" json:"shipper_code"`
	ContactName  string    `gorm:"size:255" json:"contact_name"`
	ContactEmail string    `gorm:"size:255" json:"contact_email"`
	ContactPhone string    `gorm:"size:50" json:"contact_phone"`
	Address      string    `gorm:"type:text" json:"address"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Shipper) TableName() string {
	return "shippers"
}

type PurchaseOrder struct {
	ID              uint                `gorm:"column:po_id;primaryKey;autoIncrement" json:"po_id"`
	ShipmentID      uint                `gorm:"not null;index" json:"shipment_id"`
	ShipperID       uint                `gorm:"not null;index" json:"shipper_id"`
	PONumber        string              `gorm:"column:po_number;size:100;not null" json:"po_number"`
	VendorReference string              `gorm:"size:255" json:"vendor_reference"`
	TotalAmount     decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"total_amount"`
	Currency        string              `gorm:"size:3;default:'USD'" json:"currency"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`

	Shipper *Shipper `gorm:"foreignKey:ShipperID" json:"shipper,omitempty"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// Document is a reference to a file held by the document-storage service.
type Document struct {
	ID           uint         `gorm:"column:document_id;primaryKey;autoIncrement" json:"document_id"`
	ShipmentID   uint         `gorm:"not null;index" json:"shipment_id"`
	ShipperID    *uint        `json:"shipper_id"`
	POID         *uint        `gorm:"column:po_id" json:"po_id"`
	Type         DocumentType `gorm:"column:document_type;size:50;not null" json:"document_type"`
	Name         string       `gorm:"column:document_name;size:255;not null" json:"document_name"`
	FilePath     string       `gorm:"size:500;not null" json:"file_path"`
	FileSize     int64        `json:"file_size"`
	MimeType     string       `gorm:"size:100" json:"mime_type"`
	UploadedBy   string       `gorm:"size:255" json:"uploaded_by"`
	UploadSource UploadSource `gorm:"size:50" json:"upload_source"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (Document) TableName() string {
	return "documents"
}
