package repositories

import (
	"context"
	"fmt"
	"shipment-tracking-service/models"
	"time"
)

func (r *Repository) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.Status == "" {
		n.Status = models.NotificationPending
	}
	err := r.conn(ctx).Create(n).Error
	return translate(err, "notification "+n.Type)
}

func (r *Repository) GetNotification(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.conn(ctx).First(&n, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("notification %d", id))
	}
	return &n, nil
}

// ListNotifications returns notifications oldest first, optionally
// restricted to one status.
func (r *Repository) ListNotifications(ctx context.Context, status models.NotificationStatus, limit int) ([]models.Notification, error) {
	q := r.conn(ctx).Model(&models.Notification{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var ns []models.Notification
	err := q.Order("notification_id").Find(&ns).Error
	return ns, translate(err, "notifications")
}

// MarkNotification records the dispatch outcome.
func (r *Repository) MarkNotification(ctx context.Context, id uint, status models.NotificationStatus, errMsg string, at time.Time) error {
	updates := map[string]any{
		"status":        status,
		"error_message": errMsg,
	}
	if status == models.NotificationSent {
		updates["sent_at"] = at.UTC()
	}
	res := r.conn(ctx).Model(&models.Notification{}).Where("notification_id = ?", id).Updates(updates)
	return checkAffected(res, fmt.Sprintf("notification %d", id))
}
