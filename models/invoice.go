package models

import (
	"github.com/shopspring/decimal"
	"time"
)

type Invoice struct {
	ID               uint            `gorm:"column:invoice_id;primaryKey;autoIncrement" json:"invoice_id"`
	ShipmentID       uint            `gorm:"not null;index" json:"shipment_id"`
	InvoiceNumber    string          `gorm:"size:100;not null;unique" json:"invoice_number"`
	InvoiceDate      *time.Time      `json:"invoice_date"`
	InvoiceType      InvoiceType     `gorm:"size:50;default:'FINAL'" json:"invoice_type"`
	FreightCharges   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"freight_charges"`
	CustomsClearance decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"customs_clearance"`
	DocumentationFee decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"documentation_fee"`
	HandlingCharges  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"handling_charges"`
	RailCharges      decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"rail_charges"`
	OtherCharges     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"other_charges"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Currency         string          `gorm:"size:3;default:'USD'" json:"currency"`
	PaymentStatus    PaymentStatus   `gorm:"size:50;default:'PENDING'" json:"payment_status"`
	DueDate          *time.Time      `json:"due_date"`
	PaidDate         *time.Time      `json:"paid_date"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// ChargesTotal sums the fee breakdown.
func (i Invoice) ChargesTotal() decimal.Decimal {
	return decimal.Sum(i.FreightCharges, i.CustomsClearance, i.DocumentationFee,
		i.HandlingCharges, i.RailCharges, i.OtherCharges)
}
