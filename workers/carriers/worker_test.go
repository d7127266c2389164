package carriers

import (
	"context"
	"net/http"
	"net/http/httptest"
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
	"shipment-tracking-service/repositories"
	"shipment-tracking-service/repositories/repotest"
	"shipment-tracking-service/tracking"
)

const feedBody = `{"trackResponse":{"container":[{"containerNumber":"MSCU1234567","activity":[
  {"status":{"code":"VDL"},"location":{"name":"Ningbo"},"gmtDate":"20260305","gmtTime":"120000"},
  {"status":{"code":"BKD"},"location":{"name":"Ningbo"},"gmtDate":"20260301","gmtTime":"080000"}
]}]}}`

type fixture struct {
	worker  *Worker
	repo    *repositories.Repository
	metrics *metrics.Metrics
}

func newFixture(c *qt.C) *fixture {
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("/security/v1/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"tok"}`))
	})
	mux.HandleFunc("/api/track/v1/containers/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feedBody))
	})
	srv := httptest.NewServer(mux)
	c.Cleanup(srv.Close)

	clk := testclock.NewClock(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	repo := repositories.NewRepository(repotest.NewDB(c, clk))
	c.Assert(repo.SeedMilestoneTypes(ctx, tracking.DefaultCatalog.Types()), qt.IsNil)
	catalog, err := tracking.LoadCatalog(ctx, repo)
	c.Assert(err, qt.IsNil)

	m := metrics.New(prometheus.NewRegistry())
	tracker := tracking.NewTracker(repo, catalog, clk, zap.NewNop(), m)
	cfg := &config.Config{
		CarrierApi:   &config.CarrierApiConfig{BaseUri: srv.URL, ClientId: "id", ClientSecret: "secret"},
		CarrierFeeds: map[string]string{"MAERSK": KindAPI, "CMA CGM": "edi"},
	}
	return &fixture{
		worker:  NewWorker(zap.NewNop(), repo, tracker, cfg, m),
		repo:    repo,
		metrics: m,
	}
}

func TestWorkerSchedule(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	c.Assert(f.worker.Schedule(), qt.Equals, "*/30 * * * *")
	c.Assert(f.worker.Ready(time.Now()), qt.IsTrue)
}

func TestExecuteRecordsCarrierMilestones(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c)

	polled := &models.Shipment{BookingNumber: "BK9001", ContainerNumber: "MSCU1234567", SteamshipLine: "Maersk"}
	unsupported := &models.Shipment{BookingNumber: "BK9002", ContainerNumber: "CMAU0000001", SteamshipLine: "CMA CGM"}
	unconfigured := &models.Shipment{BookingNumber: "BK9003", ContainerNumber: "HLXU0000001", SteamshipLine: "Hapag"}
	noContainer := &models.Shipment{BookingNumber: "BK9004", SteamshipLine: "Maersk"}
	for _, s := range []*models.Shipment{polled, unsupported, unconfigured, noContainer} {
		c.Assert(f.repo.CreateShipment(ctx, s), qt.IsNil)
	}

	f.worker.Execute(ctx)

	got, err := f.repo.GetShipment(ctx, polled.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.CurrentStatus, qt.Equals, "IN_TRANSIT_OCEAN")
	c.Assert(got.CurrentMilestone, qt.Equals, tracking.VesselDeparted)
	c.Assert(got.BookingDate.Equal(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)), qt.IsTrue)

	m, err := f.repo.FindMilestone(ctx, polled.ID, tracking.VesselDeparted)
	c.Assert(err, qt.IsNil)
	c.Assert(m.Location, qt.Equals, "Ningbo")
	c.Assert(m.CreatedBy, qt.Equals, "carrier:api")

	// Sorted into catalog order, so nothing is flagged.
	c.Assert(testutil.ToFloat64(f.metrics.MilestonesOutOfOrder), qt.Equals, 0.0)
	c.Assert(testutil.ToFloat64(f.metrics.CarrierPolls.WithLabelValues(KindAPI, "ok")), qt.Equals, 1.0)
	c.Assert(testutil.ToFloat64(f.metrics.CarrierPolls.WithLabelValues("edi", "ok")), qt.Equals, 1.0)

	for _, s := range []*models.Shipment{unsupported, unconfigured, noContainer} {
		ms, err := f.repo.ListMilestones(ctx, s.ID)
		c.Assert(err, qt.IsNil)
		c.Assert(ms, qt.HasLen, 0)
	}

	// A second poll reports the same events; completed milestones are skipped.
	f.worker.Execute(ctx)
	c.Assert(testutil.ToFloat64(f.metrics.MilestonesRecorded.WithLabelValues(tracking.VesselDeparted)), qt.Equals, 1.0)
	c.Assert(testutil.ToFloat64(f.metrics.CarrierPolls.WithLabelValues(KindAPI, "ok")), qt.Equals, 2.0)
}

func TestFeedKindFallsBackToRailProvider(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	f.worker.cfg.CarrierFeeds["UNION PACIFIC"] = KindScrape

	c.Assert(f.worker.feedKind(models.Shipment{SteamshipLine: "Hapag", RailProvider: " union pacific "}), qt.Equals, KindScrape)
	c.Assert(f.worker.feedKind(models.Shipment{SteamshipLine: "maersk", RailProvider: "Union Pacific"}), qt.Equals, KindAPI)
	c.Assert(f.worker.feedKind(models.Shipment{}), qt.Equals, "")
}
