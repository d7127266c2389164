package carriers

import (
	"context"
	"fmt"
	"github.com/juju/errors"
	"go.uber.org/zap"
	"shipment-tracking-service/config"
	"shipment-tracking-service/metrics"
	"shipment-tracking-service/models"
	"shipment-tracking-service/repositories"
	"shipment-tracking-service/tracking"
	"shipment-tracking-service/workers/carriers/processors"
	"shipment-tracking-service/workers/carriers/processors/api"
	"shipment-tracking-service/workers/carriers/processors/scrape"
	"shipment-tracking-service/workers/carriers/processors/unsupported"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	KindAPI    = "api"
	KindScrape = "scrape"
)

// Worker polls the configured carrier feeds for open shipments and records
// newly reported milestones through the tracker.
type Worker struct {
	logger     *zap.Logger
	repo       *repositories.Repository
	tracker    *tracking.Tracker
	cfg        *config.Config
	metrics    *metrics.Metrics
	processors map[string]processors.TrackingProcessor
	mu         sync.Mutex
	busy       atomic.Bool
}

func NewWorker(logger *zap.Logger, repo *repositories.Repository, tracker *tracking.Tracker, cfg *config.Config, m *metrics.Metrics) *Worker {
	return &Worker{
		logger:     logger,
		repo:       repo,
		tracker:    tracker,
		cfg:        cfg,
		metrics:    m,
		processors: make(map[string]processors.TrackingProcessor),
	}
}

func (w *Worker) Name() string {
	return "carrier-feeds"
}

func (w *Worker) Schedule() string {
	return "*/30 * * * *"
}

func (w *Worker) Ready(time.Time) bool {
	return !w.busy.Load()
}

func (w *Worker) Execute(ctx context.Context) {
	if !w.busy.CompareAndSwap(false, true) {
		return
	}
	defer w.busy.Store(false)

	w.logger.Info("Starting carrier feed polling.")

	shipments, err := w.repo.GetOpenShipments(ctx)
	if err != nil {
		w.logger.Error("Failed to load open shipments", zap.Error(err))
		return
	}

	shipmentsToProcess := w.getShipmentsToProcess(shipments)
	if len(shipmentsToProcess) == 0 {
		w.logger.Info("No shipments have a carrier feed. Carrier polling completed")
		return
	}

	var wg sync.WaitGroup
	for _, shipment := range shipmentsToProcess {
		wg.Add(1)
		go func(sh models.Shipment) {
			defer wg.Done()
			w.processShipment(ctx, sh)
		}(shipment)
	}

	wg.Wait()
	w.logger.Info("Carrier polling completed", zap.Int("shipments", len(shipmentsToProcess)))
}

// feedKind returns the processor kind configured for the shipment's
// steamship line, falling back to its rail provider.
func (w *Worker) feedKind(sh models.Shipment) string {
	for _, carrier := range []string{sh.SteamshipLine, sh.RailProvider} {
		key := strings.ToUpper(strings.TrimSpace(carrier))
		if key == "" {
			continue
		}
		if kind, ok := w.cfg.CarrierFeeds[key]; ok {
			return kind
		}
	}
	return ""
}

func (w *Worker) getShipmentsToProcess(ss []models.Shipment) (ret []models.Shipment) {
	for _, s := range ss {
		if s.ContainerNumber != "" && w.feedKind(s) != "" {
			ret = append(ret, s)
		}
	}
	return
}

func (w *Worker) processShipment(ctx context.Context, sh models.Shipment) {
	kind := w.feedKind(sh)
	processor := w.getProcessor(kind)

	result, err := processor.Process(ctx, sh)
	if err != nil {
		w.metrics.CarrierPolls.WithLabelValues(kind, "error").Inc()
		w.logger.Error("Failed to poll carrier feed",
			zap.String("booking_number", sh.BookingNumber),
			zap.String("container_number", sh.ContainerNumber),
			zap.String("kind", kind),
			zap.Error(err),
		)
		return
	}
	w.metrics.CarrierPolls.WithLabelValues(kind, "ok").Inc()

	recorded, err := w.applyResults(ctx, sh, kind, result)
	if err != nil {
		w.logger.Error("Failed to record carrier events",
			zap.String("booking_number", sh.BookingNumber),
			zap.Error(err),
		)
		return
	}

	w.logger.Info("Shipment successfully polled",
		zap.String("booking_number", sh.BookingNumber),
		zap.Int("events", len(result.Events)),
		zap.Int("recorded", recorded),
	)
}

// applyResults records each reported milestone the shipment has not already
// completed, in catalog order.
func (w *Worker) applyResults(ctx context.Context, sh models.Shipment, kind string, result *processors.TrackingResults) (int, error) {
	catalog := w.tracker.Catalog()
	events := append([]processors.TrackingEvent(nil), result.Events...)
	sort.SliceStable(events, func(i, j int) bool {
		oi, _ := catalog.Order(events[i].Milestone)
		oj, _ := catalog.Order(events[j].Milestone)
		return oi < oj
	})

	recorded := 0
	for _, event := range events {
		existing, err := w.repo.FindMilestone(ctx, sh.ID, event.Milestone)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
		case err != nil:
			return recorded, err
		case existing.Status == models.MilestoneCompleted:
			continue
		}

		_, err = w.tracker.RecordMilestone(ctx, sh.ID, tracking.MilestoneUpdate{
			Name:       event.Milestone,
			ActualDate: event.OccurredAt,
			Location:   event.Location,
			Notes:      "Reported by carrier feed",
			CreatedBy:  "carrier:" + kind,
		})
		if errors.Is(err, tracking.ErrUnknownMilestoneType) {
			w.logger.Warn("Carrier reported a milestone outside the catalog",
				zap.String("booking_number", sh.BookingNumber),
				zap.String("milestone", event.Milestone))
			continue
		}
		if err != nil {
			return recorded, fmt.Errorf("recording %s: %w", event.Milestone, err)
		}
		recorded++
	}
	return recorded, nil
}

func (w *Worker) getProcessor(kind string) processors.TrackingProcessor {
	w.mu.Lock()
	defer w.mu.Unlock()

	if processor, exists := w.processors[kind]; exists {
		return processor
	}

	var processor processors.TrackingProcessor
	switch kind {
	case KindAPI:
		processor = api.NewTrackingProcessor(w.logger, w.cfg.CarrierApi)
	case KindScrape:
		processor = scrape.NewTrackingProcessor(w.logger, w.cfg.CarrierScrapeURL)
	default:
		processor = unsupported.NewTrackingProcessor(w.logger, kind)
	}

	w.processors[kind] = processor
	return processor
}
