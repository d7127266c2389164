package repositories

import (
	"context"
	"fmt"
	"shipment-tracking-service/models"
)

func (r *Repository) CreateDocument(ctx context.Context, doc *models.Document) error {
	err := r.conn(ctx).Create(doc).Error
	return translate(err, "document "+doc.Name)
}

func (r *Repository) GetDocument(ctx context.Context, id uint) (*models.Document, error) {
	var doc models.Document
	if err := r.conn(ctx).First(&doc, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("document %d", id))
	}
	return &doc, nil
}

// ListDocuments returns a shipment's documents, newest first.
func (r *Repository) ListDocuments(ctx context.Context, shipmentID uint) ([]models.Document, error) {
	var docs []models.Document
	err := r.conn(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("created_at DESC").
		Order("document_id DESC").
		Find(&docs).Error
	return docs, translate(err, fmt.Sprintf("documents of shipment %d", shipmentID))
}

func (r *Repository) DeleteDocument(ctx context.Context, id uint) error {
	res := r.conn(ctx).Delete(&models.Document{}, id)
	return checkAffected(res, fmt.Sprintf("document %d", id))
}
