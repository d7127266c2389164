package repositories

import (
	"context"
	"fmt"
	"shipment-tracking-service/models"
	"time"
)

func (r *Repository) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	err := r.conn(ctx).Create(invoice).Error
	return translate(err, "invoice "+invoice.InvoiceNumber)
}

func (r *Repository) GetInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.conn(ctx).First(&invoice, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("invoice %d", id))
	}
	return &invoice, nil
}

// ListInvoices returns a shipment's invoices, latest invoice date first.
func (r *Repository) ListInvoices(ctx context.Context, shipmentID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.conn(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("invoice_date DESC").
		Order("invoice_id DESC").
		Find(&invoices).Error
	return invoices, translate(err, fmt.Sprintf("invoices of shipment %d", shipmentID))
}

// UpdatePaymentStatus sets payment_status; moving to PAID stamps paid_date.
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id uint, status models.PaymentStatus, at time.Time) error {
	updates := map[string]any{"payment_status": status}
	if status == models.PaymentPaid {
		updates["paid_date"] = at.UTC()
	}
	res := r.conn(ctx).Model(&models.Invoice{}).Where("invoice_id = ?", id).Updates(updates)
	return checkAffected(res, fmt.Sprintf("invoice %d", id))
}
