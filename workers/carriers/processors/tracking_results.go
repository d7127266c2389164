package processors

import "time"

// TrackingEvent is a carrier event already mapped onto a catalog milestone.
type TrackingEvent struct {
	Milestone  string
	Location   string
	OccurredAt time.Time
}

type TrackingResults struct {
	ContainerNumber string
	Events          []TrackingEvent
	CheckedAt       time.Time
}
