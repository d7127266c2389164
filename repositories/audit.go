package repositories

import (
	"context"
	"shipment-tracking-service/models"
)

// AuditFilter narrows ListAuditLogs. Zero fields are ignored.
type AuditFilter struct {
	ShipmentID uint
	EntityType string
	EntityID   uint
	Limit      int
}

func (r *Repository) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	err := r.conn(ctx).Create(entry).Error
	return translate(err, "audit log "+entry.Action)
}

// ListAuditLogs returns matching entries, newest first.
func (r *Repository) ListAuditLogs(ctx context.Context, filter AuditFilter) ([]models.AuditLog, error) {
	q := r.conn(ctx).Model(&models.AuditLog{})
	if filter.ShipmentID != 0 {
		q = q.Where("shipment_id = ?", filter.ShipmentID)
	}
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != 0 {
		q = q.Where("entity_id = ?", filter.EntityID)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 500
	}
	var entries []models.AuditLog
	err := q.Order("log_id DESC").Limit(limit).Find(&entries).Error
	return entries, translate(err, "audit log")
}
