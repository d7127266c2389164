package notify

import (
	"context"
	"go.uber.org/zap"
	"shipment-tracking-service/notifications"
	"sync/atomic"
	"time"
)

const batchSize = 100

// ComposeWorker turns newly completed milestones into notification rows.
type ComposeWorker struct {
	logger   *zap.Logger
	composer *notifications.Composer
	busy     atomic.Bool
}

func NewComposeWorker(logger *zap.Logger, composer *notifications.Composer) *ComposeWorker {
	return &ComposeWorker{logger: logger, composer: composer}
}

func (w *ComposeWorker) Name() string     { return "milestone-notifications" }
func (w *ComposeWorker) Schedule() string { return "*/5 * * * *" }

func (w *ComposeWorker) Ready(time.Time) bool {
	return !w.busy.Load()
}

func (w *ComposeWorker) Execute(ctx context.Context) {
	if !w.busy.CompareAndSwap(false, true) {
		return
	}
	defer w.busy.Store(false)

	n, err := w.composer.MilestoneUpdates(ctx, batchSize)
	if err != nil {
		w.logger.Error("Failed to compose milestone notifications", zap.Int("composed", n), zap.Error(err))
		return
	}
	if n > 0 {
		w.logger.Info("Milestone notifications composed", zap.Int("count", n))
	}
}

// DispatchWorker publishes pending notifications.
type DispatchWorker struct {
	logger     *zap.Logger
	dispatcher *notifications.Dispatcher
	busy       atomic.Bool
}

func NewDispatchWorker(logger *zap.Logger, dispatcher *notifications.Dispatcher) *DispatchWorker {
	return &DispatchWorker{logger: logger, dispatcher: dispatcher}
}

func (w *DispatchWorker) Name() string     { return "notification-dispatch" }
func (w *DispatchWorker) Schedule() string { return "* * * * *" }

func (w *DispatchWorker) Ready(time.Time) bool {
	return !w.busy.Load()
}

func (w *DispatchWorker) Execute(ctx context.Context) {
	if !w.busy.CompareAndSwap(false, true) {
		return
	}
	defer w.busy.Store(false)

	sent, failed, err := w.dispatcher.DispatchPending(ctx, batchSize)
	if err != nil {
		w.logger.Error("Notification dispatch stopped", zap.Int("sent", sent), zap.Int("failed", failed), zap.Error(err))
		return
	}
	if sent+failed > 0 {
		w.logger.Info("Notifications dispatched", zap.Int("sent", sent), zap.Int("failed", failed))
	}
}

// SummaryWorker composes the daily summary every morning at 08:00.
type SummaryWorker struct {
	logger   *zap.Logger
	composer *notifications.Composer
	busy     atomic.Bool
}

func NewSummaryWorker(logger *zap.Logger, composer *notifications.Composer) *SummaryWorker {
	return &SummaryWorker{logger: logger, composer: composer}
}

func (w *SummaryWorker) Name() string     { return "daily-summary" }
func (w *SummaryWorker) Schedule() string { return "0 8 * * *" }

func (w *SummaryWorker) Ready(time.Time) bool {
	return !w.busy.Load()
}

func (w *SummaryWorker) Execute(ctx context.Context) {
	if !w.busy.CompareAndSwap(false, true) {
		return
	}
	defer w.busy.Store(false)

	if _, err := w.composer.DailySummary(ctx); err != nil {
		w.logger.Error("Failed to compose daily summary", zap.Error(err))
	}
}
