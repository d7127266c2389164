package tracking

import (
	"context"
	"fmt"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"go.uber.org/zap"
	"shipment-tracking-service/metrics"
	"shipment-tracking-service/models"
	"shipment-tracking-service/repositories"
	"time"
)

// Tracker records milestone progress and keeps the shipment's derived
// current_status and current_milestone in step with it.
type Tracker struct {
	repo    *repositories.Repository
	catalog *Catalog
	clock   clock.Clock
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewTracker(repo *repositories.Repository, catalog *Catalog, clk clock.Clock, logger *zap.Logger, m *metrics.Metrics) *Tracker {
	return &Tracker{
		repo:    repo,
		catalog: catalog,
		clock:   clk,
		logger:  logger,
		metrics: m,
	}
}

func (t *Tracker) Catalog() *Catalog {
	return t.catalog
}

// MilestoneUpdate is a reported milestone event. A zero ActualDate means now.
type MilestoneUpdate struct {
	Name       string
	ActualDate time.Time
	Location   string
	Notes      string
	CreatedBy  string
}

type RecordResult struct {
	Shipment  *models.Shipment
	Milestone *models.Milestone

	// Previous is the shipment's milestone before this update, and Before
	// the milestone row as it was (nil when the row was created).
	Previous string
	Before   *models.Milestone

	// Warning wraps ErrMilestoneOutOfOrder when the milestone's order index
	// is not beyond the shipment's current one. The write was still made.
	Warning error
}

// RecordMilestone marks the named milestone COMPLETED on the shipment,
// creating the row when needed, stamps the matching shipment date and
// re-derives the shipment status, all in one transaction.
func (t *Tracker) RecordMilestone(ctx context.Context, shipmentID uint, update MilestoneUpdate) (*RecordResult, error) {
	order, ok := t.catalog.Order(update.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMilestoneType, update.Name)
	}

	actual := update.ActualDate
	if actual.IsZero() {
		actual = t.clock.Now()
	}
	actual = actual.UTC()

	result := &RecordResult{}
	err := t.repo.Transaction(ctx, func(tx *repositories.Repository) error {
		shipment, err := tx.LockShipment(ctx, shipmentID)
		if err != nil {
			return err
		}
		result.Previous = shipment.CurrentMilestone
		currentOrder, _ := t.catalog.Order(shipment.CurrentMilestone)

		milestone, err := tx.FindMilestone(ctx, shipmentID, update.Name)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			milestone = &models.Milestone{ShipmentID: shipmentID, Name: update.Name}
		case err != nil:
			return err
		default:
			before := *milestone
			result.Before = &before
		}

		if milestone.Status != models.MilestoneCompleted {
			milestone.NotificationSent = false
		}
		milestone.Status = models.MilestoneCompleted
		milestone.ActualDate = &actual
		if update.Location != "" {
			milestone.Location = update.Location
		}
		if update.Notes != "" {
			milestone.Notes = update.Notes
		}
		if update.CreatedBy != "" {
			milestone.CreatedBy = update.CreatedBy
		}
		if err := tx.SaveMilestone(ctx, milestone); err != nil {
			return err
		}

		milestones, err := tx.ListMilestones(ctx, shipmentID)
		if err != nil {
			return err
		}
		shipment.SetMilestoneDate(update.Name, actual)
		shipment.CurrentStatus, shipment.CurrentMilestone = t.catalog.DeriveStatus(milestones)
		if err := tx.SaveShipment(ctx, shipment); err != nil {
			return err
		}

		if order <= currentOrder {
			result.Warning = fmt.Errorf("%w: %s (order %d) recorded after %s (order %d)",
				ErrMilestoneOutOfOrder, update.Name, order, result.Previous, currentOrder)
		}
		result.Shipment = shipment
		result.Milestone = milestone
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("recording %s on shipment %d: %w", update.Name, shipmentID, err)
	}

	t.metrics.MilestonesRecorded.WithLabelValues(update.Name).Inc()
	fields := []zap.Field{
		zap.Uint("shipment_id", shipmentID),
		zap.String("booking_number", result.Shipment.BookingNumber),
		zap.String("milestone", update.Name),
		zap.String("current_status", result.Shipment.CurrentStatus),
	}
	if result.Warning != nil {
		t.metrics.MilestonesOutOfOrder.Inc()
		t.logger.Warn("Milestone recorded out of order",
			append(fields, zap.String("previous_milestone", result.Previous), zap.Error(result.Warning))...)
	} else {
		t.logger.Info("Milestone recorded", fields...)
	}
	return result, nil
}

// SetExpectedDate records when a milestone is expected. A milestone already
// completed keeps its status; a delayed one whose new date is still ahead
// returns to PENDING.
func (t *Tracker) SetExpectedDate(ctx context.Context, shipmentID uint, name string, expected time.Time) (*models.Milestone, error) {
	if _, ok := t.catalog.Order(name); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMilestoneType, name)
	}
	expected = expected.UTC()

	var milestone *models.Milestone
	err := t.repo.Transaction(ctx, func(tx *repositories.Repository) error {
		if _, err := tx.LockShipment(ctx, shipmentID); err != nil {
			return err
		}

		m, err := tx.FindMilestone(ctx, shipmentID, name)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			m = &models.Milestone{ShipmentID: shipmentID, Name: name, Status: models.MilestonePending}
		case err != nil:
			return err
		}

		m.ExpectedDate = &expected
		if m.Status == models.MilestoneDelayed && !CheckDelayed(*m, t.clock.Now()) {
			m.Status = models.MilestonePending
		}
		if err := tx.SaveMilestone(ctx, m); err != nil {
			return err
		}
		milestone = m
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("setting expected date of %s on shipment %d: %w", name, shipmentID, err)
	}
	return milestone, nil
}

// DeriveStatus computes the shipment's status from its stored milestones
// without writing anything.
func (t *Tracker) DeriveStatus(ctx context.Context, shipmentID uint) (status string, current string, err error) {
	if _, err := t.repo.GetShipment(ctx, shipmentID); err != nil {
		return "", "", err
	}
	milestones, err := t.repo.ListMilestones(ctx, shipmentID)
	if err != nil {
		return "", "", err
	}
	status, current = t.catalog.DeriveStatus(milestones)
	return status, current, nil
}

// CheckDelayed applies CheckDelayed at the tracker's current time.
func (t *Tracker) CheckDelayed(m models.Milestone) bool {
	return CheckDelayed(m, t.clock.Now())
}

// Milestones lists the shipment's milestones with their effective status
// computed at the current time.
func (t *Tracker) Milestones(ctx context.Context, shipmentID uint) ([]models.Milestone, error) {
	if _, err := t.repo.GetShipment(ctx, shipmentID); err != nil {
		return nil, err
	}
	milestones, err := t.repo.ListMilestones(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	now := t.clock.Now()
	for i := range milestones {
		milestones[i].Status = EffectiveStatus(milestones[i], now)
	}
	return milestones, nil
}
