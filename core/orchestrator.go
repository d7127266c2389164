package core

import (
	"context"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"time"
)

type Orchestrator struct {
	logger  *zap.Logger
	workers []Worker
}

func NewOrchestrator(logger *zap.Logger, workers []Worker) *Orchestrator {
	return &Orchestrator{logger: logger, workers: workers}
}

// Start schedules every worker and starts the cron loop. Jobs stop being
// launched once ctx is cancelled; in-flight runs observe ctx themselves.
func (o *Orchestrator) Start(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()

	for _, worker := range o.workers {
		_, err := c.AddFunc(worker.Schedule(), o.job(ctx, worker))
		if err != nil {
			o.logger.Error("Error adding cron job",
				zap.String("worker", worker.Name()),
				zap.String("schedule", worker.Schedule()),
				zap.Error(err),
			)
			return nil, err
		}
		o.logger.Info("Worker scheduled",
			zap.String("worker", worker.Name()),
			zap.String("schedule", worker.Schedule()),
		)
	}

	c.Start()
	return c, nil
}

func (o *Orchestrator) job(ctx context.Context, worker Worker) func() {
	return func() {
		if ctx.Err() != nil {
			return
		}
		if !worker.Ready(time.Now()) {
			o.logger.Debug("Worker busy, skipping tick", zap.String("worker", worker.Name()))
			return
		}
		go worker.Execute(ctx)
	}
}
