package repositories

import (
	"context"
	"fmt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"shipment-tracking-service/models"
	"strings"
	"time"
)

// ShipmentFilter narrows ListShipments. Empty fields are ignored.
type ShipmentFilter struct {
	BookingNumber   string
	ContainerNumber string
	Status          string
	Limit           int
}

const defaultShipmentLimit = 100

func (r *Repository) CreateShipment(ctx context.Context, shipment *models.Shipment) error {
	if shipment.CurrentStatus == "" {
		shipment.CurrentStatus = models.StatusBookingCreated
	}
	err := r.conn(ctx).Omit(clause.Associations).Create(shipment).Error
	return translate(err, "shipment "+shipment.BookingNumber)
}

func (r *Repository) GetShipment(ctx context.Context, id uint) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.conn(ctx).First(&shipment, id).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("shipment %d", id))
	}
	return &shipment, nil
}

// GetShipmentDetail loads a shipment with its purchase orders (and their
// shippers) and milestones.
func (r *Repository) GetShipmentDetail(ctx context.Context, id uint) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.conn(ctx).
		Preload("PurchaseOrders.Shipper").
		Preload("Milestones", func(db *gorm.DB) *gorm.DB { return db.Order("milestone_id") }).
		First(&shipment, id).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("shipment %d", id))
	}
	return &shipment, nil
}

func (r *Repository) GetShipmentByBookingNumber(ctx context.Context, bookingNumber string) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.conn(ctx).Where("booking_number = ?", bookingNumber).First(&shipment).Error
	if err != nil {
		return nil, translate(err, "shipment "+bookingNumber)
	}
	return &shipment, nil
}

// LockShipment reads a shipment with a row lock held until the surrounding
// transaction ends. Outside a transaction the lock is released immediately.
func (r *Repository) LockShipment(ctx context.Context, id uint) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&shipment, id).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("shipment %d", id))
	}
	return &shipment, nil
}

func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

func (r *Repository) ListShipments(ctx context.Context, filter ShipmentFilter) ([]models.Shipment, error) {
	q := r.conn(ctx).Model(&models.Shipment{})
	if filter.BookingNumber != "" {
		q = q.Where("LOWER(booking_number) LIKE ?", likePattern(filter.BookingNumber))
	}
	if filter.ContainerNumber != "" {
		q = q.Where("LOWER(container_number) LIKE ?", likePattern(filter.ContainerNumber))
	}
	if filter.Status != "" {
		q = q.Where("current_status = ?", filter.Status)
	}
	limit := filter.Limit
	if limit <= 0 || limit > defaultShipmentLimit {
		limit = defaultShipmentLimit
	}

	var shipments []models.Shipment
	err := q.Order("created_at DESC").Order("shipment_id DESC").Limit(limit).Find(&shipments).Error
	return shipments, translate(err, "shipments")
}

// GetOpenShipments returns every shipment that has not reached COMPLETED.
func (r *Repository) GetOpenShipments(ctx context.Context) ([]models.Shipment, error) {
	var shipments []models.Shipment
	err := r.conn(ctx).
		Where("current_status IS NULL OR current_status <> ?", "COMPLETED").
		Order("shipment_id").
		Find(&shipments).Error
	return shipments, translate(err, "open shipments")
}

// ListActiveShipments returns open shipments, most recently updated first.
func (r *Repository) ListActiveShipments(ctx context.Context, limit int) ([]models.Shipment, error) {
	var shipments []models.Shipment
	err := r.conn(ctx).
		Where("current_status <> ?", "COMPLETED").
		Order("updated_at DESC").
		Order("shipment_id DESC").
		Limit(limit).
		Find(&shipments).Error
	return shipments, translate(err, "active shipments")
}

// SaveShipment writes every column of an existing shipment.
func (r *Repository) SaveShipment(ctx context.Context, shipment *models.Shipment) error {
	err := r.conn(ctx).Omit(clause.Associations).Save(shipment).Error
	return translate(err, fmt.Sprintf("shipment %d", shipment.ID))
}

// DeleteShipment removes the shipment; the database cascades the delete to
// its purchase orders, documents, milestones, invoices, exceptions and
// notifications. Audit rows are kept.
func (r *Repository) DeleteShipment(ctx context.Context, id uint) error {
	res := r.conn(ctx).Delete(&models.Shipment{}, id)
	return checkAffected(res, fmt.Sprintf("shipment %d", id))
}

type ShipmentStats struct {
	ActiveShipments  int64            `json:"active_shipments"`
	ByStatus         map[string]int64 `json:"by_status"`
	OpenExceptions   int64            `json:"open_exceptions"`
	MilestonesToday  int64            `json:"milestones_today"`
	DocumentsToday   int64            `json:"documents_today"`
	RecentMilestones int64            `json:"recent_milestones"`
}

// Stats gathers the counts used by the daily summary. since marks the start
// of "today"; recent milestones cover the seven days before it.
func (r *Repository) Stats(ctx context.Context, since time.Time) (*ShipmentStats, error) {
	db := r.conn(ctx)
	stats := &ShipmentStats{ByStatus: make(map[string]int64)}

	if err := db.Model(&models.Shipment{}).
		Where("current_status <> ?", "COMPLETED").
		Count(&stats.ActiveShipments).Error; err != nil {
		return nil, translate(err, "active shipments")
	}

	var rows []struct {
		CurrentStatus string
		Count         int64
	}
	if err := db.Model(&models.Shipment{}).
		Select("current_status, COUNT(*) AS count").
		Group("current_status").
		Scan(&rows).Error; err != nil {
		return nil, translate(err, "shipments by status")
	}
	for _, row := range rows {
		stats.ByStatus[row.CurrentStatus] = row.Count
	}

	if err := db.Model(&models.Exception{}).
		Where("status <> ?", models.ExceptionResolved).
		Count(&stats.OpenExceptions).Error; err != nil {
		return nil, translate(err, "open exceptions")
	}

	if err := db.Model(&models.Milestone{}).
		Where("milestone_status = ? AND actual_date >= ?", models.MilestoneCompleted, since).
		Count(&stats.MilestonesToday).Error; err != nil {
		return nil, translate(err, "milestones today")
	}

	if err := db.Model(&models.Milestone{}).
		Where("milestone_status = ? AND actual_date >= ?", models.MilestoneCompleted, since.AddDate(0, 0, -7)).
		Count(&stats.RecentMilestones).Error; err != nil {
		return nil, translate(err, "recent milestones")
	}

	if err := db.Model(&models.Document{}).
		Where("created_at >= ?", since).
		Count(&stats.DocumentsToday).Error; err != nil {
		return nil, translate(err, "documents today")
	}

	return stats, nil
}
