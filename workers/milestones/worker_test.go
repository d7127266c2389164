package milestones

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/juju/clock/testclock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"shipment-tracking-service/config"
	"shipment-tracking-service/metrics"
	"shipment-tracking-service/models"
	"shipment-tracking-service/notifications"
	"shipment-tracking-service/repositories"
	"shipment-tracking-service/repositories/repotest"
)

func TestExecuteMarksOverdueMilestones(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	now := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)
	clk := testclock.NewClock(now)
	repo := repositories.NewRepository(repotest.NewDB(c, clk))
	m := metrics.New(prometheus.NewRegistry())
	composer := notifications.NewComposer(repo, &config.NotificationConfig{VHCRecipients: []string{"vhc@example.com"}}, clk, zap.NewNop(), m)
	w := NewWorker(zap.NewNop(), repo, composer, clk, m)

	s := &models.Shipment{BookingNumber: "BK1101"}
	c.Assert(repo.CreateShipment(ctx, s), qt.IsNil)

	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)
	late := &models.Milestone{ShipmentID: s.ID, Name: "VESSEL_DEPARTED", Status: models.MilestonePending, ExpectedDate: &yesterday}
	onTime := &models.Milestone{ShipmentID: s.ID, Name: "PORT_OF_DISCHARGE", Status: models.MilestonePending, ExpectedDate: &tomorrow}
	done := &models.Milestone{ShipmentID: s.ID, Name: "CONTAINER_LOADED", Status: models.MilestoneCompleted, ExpectedDate: &yesterday, ActualDate: &now}
	for _, ms := range []*models.Milestone{late, onTime, done} {
		c.Assert(repo.SaveMilestone(ctx, ms), qt.IsNil)
	}

	c.Assert(w.Ready(now), qt.IsTrue)
	w.Execute(ctx)

	got, err := repo.GetMilestone(ctx, late.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Status, qt.Equals, models.MilestoneDelayed)

	got, err = repo.GetMilestone(ctx, onTime.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Status, qt.Equals, models.MilestonePending)

	ns, err := repo.ListNotifications(ctx, models.NotificationPending, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(ns, qt.HasLen, 1)
	c.Assert(ns[0].Type, qt.Equals, models.NotificationMilestoneDelayed)
	c.Assert(*ns[0].MilestoneID, qt.Equals, late.ID)

	// Already DELAYED rows are not picked up again.
	w.Execute(ctx)
	ns, err = repo.ListNotifications(ctx, models.NotificationPending, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(ns, qt.HasLen, 1)
	c.Assert(testutil.ToFloat64(m.MilestonesDelayed), qt.Equals, 1.0)
}
