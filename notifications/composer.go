package notifications

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"go.uber.org/zap"
	"html/template"
	"shipment-tracking-service/config"
	"shipment-tracking-service/metrics"
	"shipment-tracking-service/models"
	"shipment-tracking-service/repositories"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	timeLayout = "2006-01-02 15:04 UTC"

	summaryShipmentLimit = 10
)

// Composer turns tracking events into notification rows for the dispatch
// service.
type Composer struct {
	repo    *repositories.Repository
	cfg     *config.NotificationConfig
	clock   clock.Clock
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewComposer(repo *repositories.Repository, cfg *config.NotificationConfig, clk clock.Clock, logger *zap.Logger, m *metrics.Metrics) *Composer {
	return &Composer{
		repo:    repo,
		cfg:     cfg,
		clock:   clk,
		logger:  logger,
		metrics: m,
	}
}

// DisplayName turns VESSEL_DEPARTED into "Vessel Departed".
func DisplayName(milestone string) string {
	words := strings.Split(strings.ToLower(milestone), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.UTC().Format(timeLayout)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Annotatef(err, "rendering %s", name)
	}
	return buf.String(), nil
}

// MilestoneUpdates composes one MILESTONE_UPDATE notification for each
// completed milestone not yet notified, and flags the milestone. It returns
// the number of notifications created.
func (c *Composer) MilestoneUpdates(ctx context.Context, limit int) (int, error) {
	milestones, err := c.repo.ListUnnotifiedMilestones(ctx, limit)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, m := range milestones {
		shipment, err := c.repo.GetShipment(ctx, m.ShipmentID)
		if err != nil {
			return created, err
		}
		body, err := render("milestone_update.html", map[string]any{
			"Milestone": DisplayName(m.Name),
			"Shipment":  shipment,
			"At":        formatTime(m.ActualDate),
			"Location":  m.Location,
			"Notes":     m.Notes,
		})
		if err != nil {
			return created, err
		}

		milestoneID := m.ID
		n := &models.Notification{
			ShipmentID:  &shipment.ID,
			MilestoneID: &milestoneID,
			Type:        models.NotificationMilestoneUpdate,
			Recipients:  strings.Join(c.cfg.VHCRecipients, ","),
			Subject:     fmt.Sprintf("Milestone Update: %s - %s", DisplayName(m.Name), shipment.BookingNumber),
			Message:     body,
		}
		err = c.repo.Transaction(ctx, func(tx *repositories.Repository) error {
			if err := tx.CreateNotification(ctx, n); err != nil {
				return err
			}
			return tx.MarkMilestoneNotified(ctx, m.ID)
		})
		if err != nil {
			return created, err
		}
		created++
		c.metrics.NotificationsComposed.WithLabelValues(n.Type).Inc()
	}
	return created, nil
}

// ExceptionAlert enqueues an EXCEPTION_ALERT for a newly raised exception.
// HIGH and CRITICAL alerts also go to the escalation list.
func (c *Composer) ExceptionAlert(ctx context.Context, e *models.Exception) (*models.Notification, error) {
	shipment, err := c.repo.GetShipment(ctx, e.ShipmentID)
	if err != nil {
		return nil, err
	}
	at := e.CreatedAt
	body, err := render("exception_alert.html", map[string]any{
		"Exception": e,
		"Shipment":  shipment,
		"At":        formatTime(&at),
	})
	if err != nil {
		return nil, err
	}

	recipients := append([]string(nil), c.cfg.VHCRecipients...)
	if e.Severity.Escalates() {
		recipients = append(recipients, c.cfg.EscalationEmails...)
	}
	n := &models.Notification{
		ShipmentID: &shipment.ID,
		Type:       models.NotificationExceptionAlert,
		Recipients: strings.Join(recipients, ","),
		Subject:    fmt.Sprintf("Exception Alert [%s]: %s - %s", e.Severity, e.Title, shipment.BookingNumber),
		Message:    body,
	}
	if err := c.repo.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	c.metrics.NotificationsComposed.WithLabelValues(n.Type).Inc()
	return n, nil
}

// MilestoneDelayed enqueues a MILESTONE_DELAYED notification.
func (c *Composer) MilestoneDelayed(ctx context.Context, m models.Milestone) (*models.Notification, error) {
	shipment, err := c.repo.GetShipment(ctx, m.ShipmentID)
	if err != nil {
		return nil, err
	}
	body, err := render("milestone_delayed.html", map[string]any{
		"Milestone": DisplayName(m.Name),
		"Shipment":  shipment,
		"Expected":  formatTime(m.ExpectedDate),
	})
	if err != nil {
		return nil, err
	}

	milestoneID := m.ID
	n := &models.Notification{
		ShipmentID:  &shipment.ID,
		MilestoneID: &milestoneID,
		Type:        models.NotificationMilestoneDelayed,
		Recipients:  strings.Join(c.cfg.VHCRecipients, ","),
		Subject:     fmt.Sprintf("Milestone Delayed: %s - %s", DisplayName(m.Name), shipment.BookingNumber),
		Message:     body,
	}
	if err := c.repo.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	c.metrics.NotificationsComposed.WithLabelValues(n.Type).Inc()
	return n, nil
}

// DailySummary enqueues the DAILY_SUMMARY notification covering the current
// UTC day. It is not attached to any shipment.
func (c *Composer) DailySummary(ctx context.Context) (*models.Notification, error) {
	now := c.clock.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	stats, err := c.repo.Stats(ctx, dayStart)
	if err != nil {
		return nil, err
	}
	shipments, err := c.repo.ListActiveShipments(ctx, summaryShipmentLimit)
	if err != nil {
		return nil, err
	}

	date := dayStart.Format("2006-01-02")
	body, err := render("daily_summary.html", map[string]any{
		"Date":      date,
		"Stats":     stats,
		"Shipments": shipments,
	})
	if err != nil {
		return nil, err
	}

	n := &models.Notification{
		Type:       models.NotificationDailySummary,
		Recipients: strings.Join(c.cfg.VHCRecipients, ","),
		Subject:    "Daily Shipment Summary - " + date,
		Message:    body,
	}
	if err := c.repo.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	c.metrics.NotificationsComposed.WithLabelValues(n.Type).Inc()
	c.logger.Info("Daily summary composed",
		zap.Int64("active_shipments", stats.ActiveShipments),
		zap.Int64("open_exceptions", stats.OpenExceptions))
	return n, nil
}
