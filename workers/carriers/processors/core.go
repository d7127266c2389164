package processors

import (
	"context"
	"shipment-tracking-service/models"
)

// TrackingProcessor polls one carrier feed for a shipment's container.
type TrackingProcessor interface {
	Process(ctx context.Context, shipment models.Shipment) (*TrackingResults, error)
}
