package milestones

import (
	"context"
	"github.com/juju/clock"
	"go.uber.org/zap"
	"shipment-tracking-service/metrics"
	"shipment-tracking-service/notifications"
	"shipment-tracking-service/repositories"
	"shipment-tracking-service/tracking"
	"sync/atomic"
	"time"
)

// Worker moves overdue PENDING milestones to DELAYED and enqueues a
// MILESTONE_DELAYED notification for each one it moves.
type Worker struct {
	logger   *zap.Logger
	repo     *repositories.Repository
	composer *notifications.Composer
	clock    clock.Clock
	metrics  *metrics.Metrics
	busy     atomic.Bool
}

func NewWorker(logger *zap.Logger, repo *repositories.Repository, composer *notifications.Composer, clk clock.Clock, m *metrics.Metrics) *Worker {
	return &Worker{
		logger:   logger,
		repo:     repo,
		composer: composer,
		clock:    clk,
		metrics:  m,
	}
}

func (w *Worker) Name() string {
	return "milestone-delays"
}

func (w *Worker) Schedule() string {
	return "*/15 * * * *"
}

func (w *Worker) Ready(time.Time) bool {
	return !w.busy.Load()
}

func (w *Worker) Execute(ctx context.Context) {
	if !w.busy.CompareAndSwap(false, true) {
		return
	}
	defer w.busy.Store(false)

	now := w.clock.Now()
	overdue, err := w.repo.ListOverdueMilestones(ctx, now)
	if err != nil {
		w.logger.Error("Failed to list overdue milestones", zap.Error(err))
		return
	}

	delayed := 0
	for _, m := range overdue {
		if ctx.Err() != nil {
			return
		}
		if !tracking.CheckDelayed(m, now) {
			continue
		}

		moved, err := w.repo.MarkMilestoneDelayed(ctx, m.ID)
		if err != nil {
			w.logger.Error("Failed to mark milestone delayed",
				zap.Uint("milestone_id", m.ID),
				zap.Error(err))
			continue
		}
		if !moved {
			continue
		}
		delayed++
		w.metrics.MilestonesDelayed.Inc()

		if _, err := w.composer.MilestoneDelayed(ctx, m); err != nil {
			w.logger.Error("Failed to enqueue delay notification",
				zap.Uint("milestone_id", m.ID),
				zap.Error(err))
		}
	}

	if delayed > 0 {
		w.logger.Info("Milestones marked delayed", zap.Int("count", delayed))
	}
}
