package repositories

import (
	"context"
	"fmt"
	"shipment-tracking-service/models"
)

func (r *Repository) CreateException(ctx context.Context, e *models.Exception) error {
	if e.Severity == "" {
		e.Severity = models.SeverityMedium
	}
	if e.Status == "" {
		e.Status = models.ExceptionOpen
	}
	err := r.conn(ctx).Create(e).Error
	return translate(err, "exception "+e.Title)
}

func (r *Repository) GetException(ctx context.Context, id uint) (*models.Exception, error) {
	var e models.Exception
	if err := r.conn(ctx).First(&e, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("exception %d", id))
	}
	return &e, nil
}

// ListExceptions returns a shipment's exceptions, newest first.
func (r *Repository) ListExceptions(ctx context.Context, shipmentID uint) ([]models.Exception, error) {
	var es []models.Exception
	err := r.conn(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("created_at DESC").
		Order("exception_id DESC").
		Find(&es).Error
	return es, translate(err, fmt.Sprintf("exceptions of shipment %d", shipmentID))
}

func (r *Repository) SaveException(ctx context.Context, e *models.Exception) error {
	err := r.conn(ctx).Save(e).Error
	return translate(err, fmt.Sprintf("exception %d", e.ID))
}
