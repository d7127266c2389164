package unsupported

import (
	"context"
	"go.uber.org/zap"
	"shipment-tracking-service/models"
	"shipment-tracking-service/workers/carriers/processors"
	"time"
)

// TrackingProcessor stands in for feeds with no integration. It reports no
// events.
type TrackingProcessor struct {
	logger *zap.Logger
	kind   string
}

func NewTrackingProcessor(logger *zap.Logger, kind string) *TrackingProcessor {
	return &TrackingProcessor{logger: logger, kind: kind}
}

func (p *TrackingProcessor) Process(_ context.Context, shipment models.Shipment) (*processors.TrackingResults, error) {
	p.logger.Debug("Carrier feed not supported",
		zap.String("kind", p.kind),
		zap.String("container_number", shipment.ContainerNumber))

	return &processors.TrackingResults{
		ContainerNumber: shipment.ContainerNumber,
		CheckedAt:       time.Now().UTC(),
	}, nil
}
