package scrape

import (
	"context"
	"fmt"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
	"shipment-tracking-service/models"
	"shipment-tracking-service/workers/carriers/processors"
	"strings"
	"time"
)

// statusMap maps the event text shown on the tracking page onto catalog
// milestones. Keys are lower-cased.
var statusMap = map[string]string{
	"booking confirmed":    "BOOKING_CONFIRMED",
	"loaded on vessel":     "CONTAINER_LOADED",
	"vessel departure":     "VESSEL_DEPARTED",
	"vessel arrival":       "PORT_OF_DISCHARGE",
	"rail departure":       "RAIL_DEPARTED",
	"arrived at rail ramp": "PORT_OF_ENTRY",
	"customs released":     "CUSTOMS_RELEASED",
	"unloaded from rail":   "DISCHARGE_COMPLETE",
	"available for pickup": "DOCUMENTS_AVAILABLE",
	"out-gated":            "PICKUP_COMPLETE",
}

const dateLayout = "2006-01-02 15:04"

type TrackingProcessor struct {
	logger *zap.Logger

	// urlFormat holds one %s for the container number.
	urlFormat string
}

func NewTrackingProcessor(logger *zap.Logger, urlFormat string) *TrackingProcessor {
	return &TrackingProcessor{logger: logger, urlFormat: urlFormat}
}

func (p *TrackingProcessor) Process(ctx context.Context, shipment models.Shipment) (*processors.TrackingResults, error) {
	if p.urlFormat == "" {
		return nil, fmt.Errorf("no tracking page configured")
	}
	url := fmt.Sprintf(p.urlFormat, shipment.ContainerNumber)
	results := &processors.TrackingResults{
		ContainerNumber: shipment.ContainerNumber,
		CheckedAt:       time.Now().UTC(),
	}

	c := colly.NewCollector(colly.StdlibContext(ctx))

	c.OnHTML("table.events tbody tr", func(e *colly.HTMLElement) {
		text := normalize(e.ChildText("td.event"))
		milestone, ok := statusMap[strings.ToLower(text)]
		if !ok {
			return
		}

		dateStr := normalize(e.ChildText("td.date"))
		at, err := time.ParseInLocation(dateLayout, dateStr, time.UTC)
		if err != nil {
			p.logger.Warn("Failed to parse event date",
				zap.String("container_number", shipment.ContainerNumber),
				zap.String("datetime", dateStr),
				zap.Error(err))
			return
		}

		results.Events = append(results.Events, processors.TrackingEvent{
			Milestone:  milestone,
			Location:   normalize(e.ChildText("td.location")),
			OccurredAt: at,
		})
	})

	if err := c.Visit(url); err != nil {
		return nil, err
	}
	return results, nil
}

// normalize collapses whitespace, including the &nbsp; the page pads cells with.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
