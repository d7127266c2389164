package notifications

import (
	"context"
	"github.com/juju/clock"
	"go.uber.org/zap"
	"shipment-tracking-service/metrics"
	"shipment-tracking-service/models"
	"shipment-tracking-service/repositories"
	"strings"
)

// Dispatcher hands PENDING notifications to the publisher and records the
// outcome on each row.
type Dispatcher struct {
	repo      *repositories.Repository
	publisher Publisher
	clock     clock.Clock
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewDispatcher(repo *repositories.Repository, publisher Publisher, clk clock.Clock, logger *zap.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		repo:      repo,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
		metrics:   m,
	}
}

// DispatchPending publishes up to limit pending notifications, oldest first.
// A publish failure marks that row FAILED and moves on.
func (d *Dispatcher) DispatchPending(ctx context.Context, limit int) (sent int, failed int, err error) {
	pending, err := d.repo.ListNotifications(ctx, models.NotificationPending, limit)
	if err != nil {
		return 0, 0, err
	}

	for _, n := range pending {
		if ctx.Err() != nil {
			return sent, failed, ctx.Err()
		}

		status := models.NotificationSent
		errMsg := ""
		if perr := d.publisher.Publish(ctx, toMessage(n)); perr != nil {
			status = models.NotificationFailed
			errMsg = perr.Error()
			d.logger.Warn("Failed to publish notification",
				zap.Uint("notification_id", n.ID),
				zap.String("type", n.Type),
				zap.Error(perr))
		}

		if err := d.repo.MarkNotification(ctx, n.ID, status, errMsg, d.clock.Now()); err != nil {
			return sent, failed, err
		}
		d.metrics.NotificationsDispatched.WithLabelValues(string(status)).Inc()
		if status == models.NotificationSent {
			sent++
		} else {
			failed++
		}
	}
	return sent, failed, nil
}

func toMessage(n models.Notification) Message {
	var recipients []string
	for _, r := range strings.Split(n.Recipients, ",") {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	return Message{
		NotificationID: n.ID,
		ShipmentID:     n.ShipmentID,
		MilestoneID:    n.MilestoneID,
		Type:           n.Type,
		Recipients:     recipients,
		Subject:        n.Subject,
		Body:           n.Message,
		CreatedAt:      n.CreatedAt,
	}
}
