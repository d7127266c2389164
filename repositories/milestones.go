package repositories

import (
	"context"
	"fmt"
	"gorm.io/gorm/clause"
	"shipment-tracking-service/models"
	"time"
)

func (r *Repository) ListMilestoneTypes(ctx context.Context) ([]models.MilestoneType, error) {
	var types []models.MilestoneType
	err := r.conn(ctx).Order("milestone_order").Find(&types).Error
	return types, translate(err, "milestone types")
}

// SeedMilestoneTypes inserts catalog entries, leaving existing names untouched.
func (r *Repository) SeedMilestoneTypes(ctx context.Context, types []models.MilestoneType) error {
	if len(types) == 0 {
		return nil
	}
	err := r.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "milestone_name"}}, DoNothing: true}).
		Create(&types).Error
	return translate(err, "milestone types")
}

// FindMilestone returns the shipment's most recent row for name.
func (r *Repository) FindMilestone(ctx context.Context, shipmentID uint, name string) (*models.Milestone, error) {
	var milestone models.Milestone
	err := r.conn(ctx).
		Where("shipment_id = ? AND milestone_name = ?", shipmentID, name).
		Order("milestone_id DESC").
		First(&milestone).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("milestone %s of shipment %d", name, shipmentID))
	}
	return &milestone, nil
}

func (r *Repository) GetMilestone(ctx context.Context, id uint) (*models.Milestone, error) {
	var milestone models.Milestone
	if err := r.conn(ctx).First(&milestone, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("milestone %d", id))
	}
	return &milestone, nil
}

// SaveMilestone inserts a new milestone or writes every column of an existing one.
func (r *Repository) SaveMilestone(ctx context.Context, milestone *models.Milestone) error {
	err := r.conn(ctx).Omit(clause.Associations).Save(milestone).Error
	return translate(err, fmt.Sprintf("milestone %s of shipment %d", milestone.Name, milestone.ShipmentID))
}

func (r *Repository) ListMilestones(ctx context.Context, shipmentID uint) ([]models.Milestone, error) {
	var milestones []models.Milestone
	err := r.conn(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("milestone_id").
		Find(&milestones).Error
	return milestones, translate(err, fmt.Sprintf("milestones of shipment %d", shipmentID))
}

// ListUnnotifiedMilestones returns completed milestones no notification has
// been composed for yet, oldest first.
func (r *Repository) ListUnnotifiedMilestones(ctx context.Context, limit int) ([]models.Milestone, error) {
	var milestones []models.Milestone
	err := r.conn(ctx).
		Where("milestone_status = ? AND notification_sent = ?", models.MilestoneCompleted, false).
		Order("actual_date").
		Order("milestone_id").
		Limit(limit).
		Find(&milestones).Error
	return milestones, translate(err, "unnotified milestones")
}

func (r *Repository) MarkMilestoneNotified(ctx context.Context, id uint) error {
	res := r.conn(ctx).Model(&models.Milestone{}).Where("milestone_id = ?", id).Update("notification_sent", true)
	return checkAffected(res, fmt.Sprintf("milestone %d", id))
}

// ListOverdueMilestones returns PENDING milestones whose expected date is
// before now and which have no actual date.
func (r *Repository) ListOverdueMilestones(ctx context.Context, now time.Time) ([]models.Milestone, error) {
	var milestones []models.Milestone
	err := r.conn(ctx).
		Where("milestone_status = ? AND actual_date IS NULL AND expected_date < ?", models.MilestonePending, now).
		Order("expected_date").
		Find(&milestones).Error
	return milestones, translate(err, "overdue milestones")
}

// MarkMilestoneDelayed moves a milestone from PENDING to DELAYED. It reports
// false when the row was no longer pending.
func (r *Repository) MarkMilestoneDelayed(ctx context.Context, id uint) (bool, error) {
	res := r.conn(ctx).Model(&models.Milestone{}).
		Where("milestone_id = ? AND milestone_status = ? AND actual_date IS NULL", id, models.MilestonePending).
		Update("milestone_status", models.MilestoneDelayed)
	if res.Error != nil {
		return false, translate(res.Error, fmt.Sprintf("milestone %d", id))
	}
	return res.RowsAffected > 0, nil
}
