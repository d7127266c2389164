package repositories

import (
	"context"
	"fmt"
	"gorm.io/gorm/clause"
	"shipment-tracking-service/models"
)

func (r *Repository) CreateShipper(ctx context.Context, shipper *models.Shipper) error {
	err := r.conn(ctx).Create(shipper).Error
	return translate(err, "shipper "+shipper.Code)
}

func (r *Repository) GetShipper(ctx context.Context, id uint) (*models.Shipper, error) {
	var shipper models.Shipper
	if err := r.conn(ctx).First(&shipper, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("shipper %d", id))
	}
	return &shipper, nil
}

func (r *Repository) ListShippers(ctx context.Context) ([]models.Shipper, error) {
	var shippers []models.Shipper
	err := r.conn(ctx).Order("shipper_name").Find(&shippers).Error
	return shippers, translate(err, "shippers")
}

func (r *Repository) SaveShipper(ctx context.Context, shipper *models.Shipper) error {
	err := r.conn(ctx).Save(shipper).Error
	return translate(err, fmt.Sprintf("shipper %d", shipper.ID))
}

func (r *Repository) DeleteShipper(ctx context.Context, id uint) error {
	res := r.conn(ctx).Delete(&models.Shipper{}, id)
	return checkAffected(res, fmt.Sprintf("shipper %d", id))
}

func (r *Repository) CreatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error {
	err := r.conn(ctx).Omit(clause.Associations).Create(po).Error
	return translate(err, "purchase order "+po.PONumber)
}

func (r *Repository) GetPurchaseOrder(ctx context.Context, id uint) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	if err := r.conn(ctx).Preload("Shipper").First(&po, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("purchase order %d", id))
	}
	return &po, nil
}

func (r *Repository) ListPurchaseOrders(ctx context.Context, shipmentID uint) ([]models.PurchaseOrder, error) {
	var pos []models.PurchaseOrder
	err := r.conn(ctx).
		Preload("Shipper").
		Where("shipment_id = ?", shipmentID).
		Order("po_id").
		Find(&pos).Error
	return pos, translate(err, fmt.Sprintf("purchase orders of shipment %d", shipmentID))
}

func (r *Repository) SavePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error {
	err := r.conn(ctx).Omit(clause.Associations).Save(po).Error
	return translate(err, fmt.Sprintf("purchase order %d", po.ID))
}

func (r *Repository) DeletePurchaseOrder(ctx context.Context, id uint) error {
	res := r.conn(ctx).Delete(&models.PurchaseOrder{}, id)
	return checkAffected(res, fmt.Sprintf("purchase order %d", id))
}
