package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/juju/clock/testclock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"shipment-tracking-service/audit"
	"shipment-tracking-service/config"
	"shipment-tracking-service/metrics"
	"shipment-tracking-service/models"
	"shipment-tracking-service/notifications"
	"shipment-tracking-service/repositories"
	"shipment-tracking-service/repositories/repotest"
	"shipment-tracking-service/tracking"
)

var epoch = time.Date(2026, 5, 4, 14, 30, 0, 0, time.UTC)

type fixture struct {
	repo    *repositories.Repository
	clock   *testclock.Clock
	handler http.Handler
}

func newFixture(c *qt.C) *fixture {
	clk := testclock.NewClock(epoch)
	repo := repositories.NewRepository(repotest.NewDB(c, clk))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	logger := zap.NewNop()

	server := NewServer(Options{
		Repository: repo,
		Tracker:    tracking.NewTracker(repo, tracking.DefaultCatalog, clk, logger, m),
		Recorder:   audit.NewRecorder(repo, nil, logger),
		Composer: notifications.NewComposer(repo, &config.NotificationConfig{
			VHCRecipients:    []string{"vhc-team@example.com"},
			EscalationEmails: []string{"ops-director@example.com"},
		}, clk, logger, m),
		Clock:    clk,
		Logger:   logger,
		Metrics:  m,
		Gatherer: reg,
	})
	return &fixture{repo: repo, clock: clk, handler: server.Handler()}
}

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (f *fixture) do(c *qt.C, method, path string, role models.Role, body any) (int, response) {
	var buf bytes.Buffer
	if body != nil {
		c.Assert(json.NewEncoder(&buf).Encode(body), qt.IsNil)
	}
	req := httptest.NewRequest(method, path, &buf)
	if role != "" {
		req.Header.Set(HeaderUserID, "7")
		req.Header.Set(HeaderUserEmail, strings.ToLower(string(role))+"@example.com")
		req.Header.Set(HeaderUserRole, string(role))
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var resp response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		c.Assert(json.Unmarshal(rec.Body.Bytes(), &resp), qt.IsNil)
	}
	return rec.Code, resp
}

func (f *fixture) createShipment(c *qt.C, booking string) models.Shipment {
	code, resp := f.do(c, http.MethodPost, "/api/shipments", models.RoleSeairOrigin, map[string]any{
		"booking_number":   booking,
		"container_number": "MSCU" + booking,
		"steamship_line":   "MSC",
	})
	c.Assert(code, qt.Equals, http.StatusCreated, qt.Commentf("%s", resp.Message))
	var s models.Shipment
	c.Assert(json.Unmarshal(resp.Data, &s), qt.IsNil)
	return s
}

func shipmentPath(id uint, suffix string) string {
	return "/api/shipments/" + strconv.FormatUint(uint64(id), 10) + suffix
}

func TestIdentityAndRoles(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	code, _ := f.do(c, http.MethodGet, "/api/shipments", "", nil)
	c.Assert(code, qt.Equals, http.StatusUnauthorized)

	code, _ = f.do(c, http.MethodGet, "/api/shipments", "GUEST", nil)
	c.Assert(code, qt.Equals, http.StatusUnauthorized)

	code, _ = f.do(c, http.MethodGet, "/api/shipments", models.RoleVHCViewer, nil)
	c.Assert(code, qt.Equals, http.StatusOK)

	code, _ = f.do(c, http.MethodPost, "/api/shipments", models.RoleVHCViewer, map[string]any{"booking_number": "BK1"})
	c.Assert(code, qt.Equals, http.StatusForbidden)

	code, _ = f.do(c, http.MethodGet, "/api/users", models.RoleSeairUS, nil)
	c.Assert(code, qt.Equals, http.StatusForbidden)
}

func TestCreateShipmentRecordsBooking(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	s := f.createShipment(c, "BK1001")
	c.Assert(s.CurrentStatus, qt.Equals, "BOOKING_CONFIRMED")
	c.Assert(s.CurrentMilestone, qt.Equals, tracking.BookingConfirmed)
	c.Assert(s.BookingDate, qt.IsNotNil)
	c.Assert(s.BookingDate.Equal(epoch), qt.IsTrue)

	code, resp := f.do(c, http.MethodGet, shipmentPath(s.ID, ""), models.RoleVHCViewer, nil)
	c.Assert(code, qt.Equals, http.StatusOK)
	var detail models.Shipment
	c.Assert(json.Unmarshal(resp.Data, &detail), qt.IsNil)
	c.Assert(detail.Milestones, qt.HasLen, 1)
	c.Assert(detail.Milestones[0].Status, qt.Equals, models.MilestoneCompleted)
	c.Assert(detail.Milestones[0].CreatedBy, qt.Equals, "seair_origin@example.com")

	entries, err := f.repo.ListAuditLogs(context.Background(), repositories.AuditFilter{ShipmentID: s.ID})
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 1)
	c.Assert(entries[0].Action, qt.Equals, audit.ActionCreate)
	c.Assert(entries[0].UserEmail, qt.Equals, "seair_origin@example.com")
	c.Assert(entries[0].IPAddress, qt.Equals, "192.0.2.1")
	c.Assert(*entries[0].UserID, qt.Equals, uint(7))
}

func TestCreateShipmentValidation(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	f.createShipment(c, "BK1001")

	code, resp := f.do(c, http.MethodPost, "/api/shipments", models.RoleAdmin, map[string]any{"booking_number": "BK1001"})
	c.Assert(code, qt.Equals, http.StatusConflict)
	c.Assert(resp.Success, qt.IsFalse)

	code, _ = f.do(c, http.MethodPost, "/api/shipments", models.RoleAdmin, map[string]any{"container_number": "X"})
	c.Assert(code, qt.Equals, http.StatusBadRequest)

	code, _ = f.do(c, http.MethodPost, "/api/shipments", models.RoleAdmin, map[string]any{"booking_number": "BK2", "colour": "red"})
	c.Assert(code, qt.Equals, http.StatusBadRequest)

	code, _ = f.do(c, http.MethodGet, "/api/shipments/999", models.RoleAdmin, nil)
	c.Assert(code, qt.Equals, http.StatusNotFound)

	code, _ = f.do(c, http.MethodGet, "/api/shipments/abc", models.RoleAdmin, nil)
	c.Assert(code, qt.Equals, http.StatusBadRequest)
}

func TestListShipmentsFilters(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	f.createShipment(c, "BK1001")
	f.createShipment(c, "BK2002")

	code, resp := f.do(c, http.MethodGet, "/api/shipments?booking_number=bk2", models.RoleVHCViewer, nil)
	c.Assert(code, qt.Equals, http.StatusOK)
	var shipments []models.Shipment
	c.Assert(json.Unmarshal(resp.Data, &shipments), qt.IsNil)
	c.Assert(shipments, qt.HasLen, 1)
	c.Assert(shipments[0].BookingNumber, qt.Equals, "BK2002")
}

func TestRecordMilestone(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	s := f.createShipment(c, "BK1001")

	f.clock.Advance(time.Hour)
	code, resp := f.do(c, http.MethodPost, shipmentPath(s.ID, "/milestone"), models.RoleSeairUS, map[string]any{
		"milestone_name": "customs_released",
		"location":       "Chicago, IL",
	})
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(resp.Message, qt.Equals, "Milestone recorded")

	code, resp = f.do(c, http.MethodPost, shipmentPath(s.ID, "/milestone"), models.RoleSeairUS, map[string]any{
		"milestone_name": tracking.PortOfDischarge,
	})
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(resp.Message, qt.Equals, "Milestone recorded out of order")
	var data struct {
		Shipment models.Shipment `json:"shipment"`
		Warning  string          `json:"warning"`
	}
	c.Assert(json.Unmarshal(resp.Data, &data), qt.IsNil)
	c.Assert(data.Warning, qt.Matches, "milestone out of order: .*")
	c.Assert(data.Shipment.CurrentStatus, qt.Equals, "IN_TRANSIT_TO_DESTINATION")

	code, _ = f.do(c, http.MethodPost, shipmentPath(s.ID, "/milestone"), models.RoleSeairUS, map[string]any{
		"milestone_name": "TELEPORTED",
	})
	c.Assert(code, qt.Equals, http.StatusBadRequest)

	code, _ = f.do(c, http.MethodPost, shipmentPath(999, "/milestone"), models.RoleSeairUS, map[string]any{
		"milestone_name": tracking.VesselDeparted,
	})
	c.Assert(code, qt.Equals, http.StatusNotFound)

	code, resp = f.do(c, http.MethodGet, shipmentPath(s.ID, "/status"), models.RoleVHCViewer, nil)
	c.Assert(code, qt.Equals, http.StatusOK)
	var status map[string]string
	c.Assert(json.Unmarshal(resp.Data, &status), qt.IsNil)
	c.Assert(status, qt.DeepEquals, map[string]string{
		"current_status":    "IN_TRANSIT_TO_DESTINATION",
		"current_milestone": tracking.CustomsReleased,
	})
}

func TestExpectedDateShowsDelay(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	s := f.createShipment(c, "BK1001")

	code, _ := f.do(c, http.MethodPut, shipmentPath(s.ID, "/milestones/vessel_departed/expected"), models.RoleSeairOrigin, map[string]any{
		"expected_date": epoch.Add(24 * time.Hour),
	})
	c.Assert(code, qt.Equals, http.StatusOK)

	f.clock.Advance(48 * time.Hour)
	code, resp := f.do(c, http.MethodGet, shipmentPath(s.ID, "/milestones"), models.RoleVHCViewer, nil)
	c.Assert(code, qt.Equals, http.StatusOK)
	var milestones []models.Milestone
	c.Assert(json.Unmarshal(resp.Data, &milestones), qt.IsNil)
	c.Assert(milestones, qt.HasLen, 2)
	byName := map[string]models.MilestoneStatus{}
	for _, m := range milestones {
		byName[m.Name] = m.Status
	}
	c.Assert(byName[tracking.BookingConfirmed], qt.Equals, models.MilestoneCompleted)
	c.Assert(byName[tracking.VesselDeparted], qt.Equals, models.MilestoneDelayed)
}

func TestDeleteShipmentKeepsAudit(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	s := f.createShipment(c, "BK1001")

	code, _ := f.do(c, http.MethodPost, shipmentPath(s.ID, "/documents"), models.RoleVHCViewer, map[string]any{
		"document_type": "packing_list",
		"document_name": "packing-list.pdf",
		"file_path":     "shipments/BK1001/packing-list.pdf",
	})
	c.Assert(code, qt.Equals, http.StatusCreated)

	code, _ = f.do(c, http.MethodDelete, shipmentPath(s.ID, ""), models.RoleAdmin, nil)
	c.Assert(code, qt.Equals, http.StatusOK)

	code, _ = f.do(c, http.MethodGet, shipmentPath(s.ID, ""), models.RoleAdmin, nil)
	c.Assert(code, qt.Equals, http.StatusNotFound)

	code, resp := f.do(c, http.MethodGet, "/api/audit?shipment_id="+strconv.FormatUint(uint64(s.ID), 10), models.RoleAdmin, nil)
	c.Assert(code, qt.Equals, http.StatusOK)
	var entries []models.AuditLog
	c.Assert(json.Unmarshal(resp.Data, &entries), qt.IsNil)
	c.Assert(entries, qt.HasLen, 3)
	c.Assert(entries[0].Action, qt.Equals, audit.ActionDelete)
	c.Assert(entries[1].EntityType, qt.Equals, "document")
}

func TestDocumentUploadSource(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	s := f.createShipment(c, "BK1001")

	code, resp := f.do(c, http.MethodPost, shipmentPath(s.ID, "/documents"), models.RoleSeairUS, map[string]any{
		"document_type": "CBP_7501",
		"document_name": "entry.pdf",
		"file_path":     "shipments/BK1001/entry.pdf",
		"file_size":     20480,
	})
	c.Assert(code, qt.Equals, http.StatusCreated)
	var doc models.Document
	c.Assert(json.Unmarshal(resp.Data, &doc), qt.IsNil)
	c.Assert(doc.UploadSource, qt.Equals, models.UploadSeairUS)
	c.Assert(doc.UploadedBy, qt.Equals, "seair_us@example.com")

	code, _ = f.do(c, http.MethodPost, shipmentPath(s.ID, "/documents"), models.RoleSeairUS, map[string]any{
		"document_type": "SELFIE",
		"document_name": "me.jpg",
		"file_path":     "me.jpg",
	})
	c.Assert(code, qt.Equals, http.StatusBadRequest)
}

func TestExceptionAlertAndResolve(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	s := f.createShipment(c, "BK1001")

	code, resp := f.do(c, http.MethodPost, shipmentPath(s.ID, "/exceptions"), models.RoleSeairOrigin, map[string]any{
		"exception_type": "CUSTOMS_HOLD",
		"severity":       "high",
		"title":          "Held for exam",
	})
	c.Assert(code, qt.Equals, http.StatusCreated)
	var e models.Exception
	c.Assert(json.Unmarshal(resp.Data, &e), qt.IsNil)
	c.Assert(e.Status, qt.Equals, models.ExceptionOpen)
	c.Assert(e.ReportedBy, qt.Equals, "seair_origin@example.com")

	code, resp = f.do(c, http.MethodGet, "/api/notifications?status=pending", models.RoleAdmin, nil)
	c.Assert(code, qt.Equals, http.StatusOK)
	var ns []models.Notification
	c.Assert(json.Unmarshal(resp.Data, &ns), qt.IsNil)
	c.Assert(ns, qt.HasLen, 1)
	c.Assert(ns[0].Type, qt.Equals, models.NotificationExceptionAlert)
	c.Assert(ns[0].Recipients, qt.Equals, "vhc-team@example.com,ops-director@example.com")

	f.clock.Advance(2 * time.Hour)
	code, resp = f.do(c, http.MethodPut, "/api/exceptions/"+strconv.FormatUint(uint64(e.ID), 10), models.RoleSeairUS, map[string]any{
		"status":     "RESOLVED",
		"resolution": "Released after exam",
	})
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(json.Unmarshal(resp.Data, &e), qt.IsNil)
	c.Assert(e.Status, qt.Equals, models.ExceptionResolved)
	c.Assert(e.ResolvedAt, qt.IsNotNil)
	c.Assert(e.ResolvedAt.Equal(epoch.Add(2*time.Hour)), qt.IsTrue)

	code, resp = f.do(c, http.MethodPut, "/api/notifications/"+strconv.FormatUint(uint64(ns[0].ID), 10)+"/status", models.RoleAdmin, map[string]any{
		"status": "SENT",
	})
	c.Assert(code, qt.Equals, http.StatusOK)
	var n models.Notification
	c.Assert(json.Unmarshal(resp.Data, &n), qt.IsNil)
	c.Assert(n.Status, qt.Equals, models.NotificationSent)
	c.Assert(n.SentAt, qt.IsNotNil)
}

func TestInvoices(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	s := f.createShipment(c, "BK1001")

	body := map[string]any{
		"shipment_id":    s.ID,
		"invoice_number": "INV-2026-001",
		"total_amount":   "1250.00",
	}
	code, _ := f.do(c, http.MethodPost, "/api/invoices", models.RoleSeairOrigin, body)
	c.Assert(code, qt.Equals, http.StatusForbidden)

	code, resp := f.do(c, http.MethodPost, "/api/invoices", models.RoleSeairUS, body)
	c.Assert(code, qt.Equals, http.StatusCreated)
	var invoice models.Invoice
	c.Assert(json.Unmarshal(resp.Data, &invoice), qt.IsNil)
	c.Assert(invoice.InvoiceType, qt.Equals, models.InvoiceFinal)
	c.Assert(invoice.Currency, qt.Equals, "USD")
	c.Assert(invoice.PaymentStatus, qt.Equals, models.PaymentPending)

	code, _ = f.do(c, http.MethodPost, "/api/invoices", models.RoleSeairUS, map[string]any{
		"shipment_id":    s.ID,
		"invoice_number": "INV-2026-002",
	})
	c.Assert(code, qt.Equals, http.StatusBadRequest)

	code, resp = f.do(c, http.MethodPut, "/api/invoices/"+strconv.FormatUint(uint64(invoice.ID), 10)+"/payment", models.RoleAdmin, map[string]any{
		"payment_status": "paid",
	})
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(json.Unmarshal(resp.Data, &invoice), qt.IsNil)
	c.Assert(invoice.PaymentStatus, qt.Equals, models.PaymentPaid)
	c.Assert(invoice.PaidDate, qt.IsNotNil)

	code, resp = f.do(c, http.MethodGet, shipmentPath(s.ID, "/invoices"), models.RoleVHCViewer, nil)
	c.Assert(code, qt.Equals, http.StatusOK)
	var invoices []models.Invoice
	c.Assert(json.Unmarshal(resp.Data, &invoices), qt.IsNil)
	c.Assert(invoices, qt.HasLen, 1)
}

func TestShippersAndPurchaseOrders(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	s := f.createShipment(c, "BK1001")

	code, resp := f.do(c, http.MethodPost, "/api/shippers", models.RoleSeairOrigin, map[string]any{
		"shipper_name": "Ningbo Textiles",
		"shipper_code": "nbt",
	})
	c.Assert(code, qt.Equals, http.StatusCreated)
	var shipper models.Shipper
	c.Assert(json.Unmarshal(resp.Data, &shipper), qt.IsNil)
	c.Assert(shipper.Code, qt.Equals, "NBT")

	code, _ = f.do(c, http.MethodPost, shipmentPath(s.ID, "/purchase-orders"), models.RoleSeairOrigin, map[string]any{
		"shipper_id": 999,
		"po_number":  "PO-1",
	})
	c.Assert(code, qt.Equals, http.StatusNotFound)

	code, _ = f.do(c, http.MethodPost, shipmentPath(s.ID, "/purchase-orders"), models.RoleSeairOrigin, map[string]any{
		"shipper_id": shipper.ID,
		"po_number":  "PO-1",
	})
	c.Assert(code, qt.Equals, http.StatusCreated)

	code, resp = f.do(c, http.MethodGet, shipmentPath(s.ID, "/purchase-orders"), models.RoleVHCViewer, nil)
	c.Assert(code, qt.Equals, http.StatusOK)
	var pos []models.PurchaseOrder
	c.Assert(json.Unmarshal(resp.Data, &pos), qt.IsNil)
	c.Assert(pos, qt.HasLen, 1)
	c.Assert(pos[0].Currency, qt.Equals, "USD")
	c.Assert(pos[0].Shipper, qt.IsNotNil)
}

func TestUsers(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	code, resp := f.do(c, http.MethodPost, "/api/users", models.RoleAdmin, map[string]any{
		"email":    "Jane.Doe@example.com",
		"password": "s3cret-pass",
		"role":     "seair_us",
	})
	c.Assert(code, qt.Equals, http.StatusCreated)
	c.Assert(string(resp.Data), qt.Not(qt.Contains), "password")
	var user models.User
	c.Assert(json.Unmarshal(resp.Data, &user), qt.IsNil)
	c.Assert(user.Username, qt.Equals, "jane.doe")
	c.Assert(user.Role, qt.Equals, models.RoleSeairUS)

	code, _ = f.do(c, http.MethodPost, "/api/users", models.RoleAdmin, map[string]any{
		"email":    "jane.doe@example.com",
		"password": "another",
		"role":     "ADMIN",
	})
	c.Assert(code, qt.Equals, http.StatusConflict)

	code, resp = f.do(c, http.MethodPut, "/api/users/"+strconv.FormatUint(uint64(user.ID), 10), models.RoleAdmin, map[string]any{
		"is_active": false,
	})
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(json.Unmarshal(resp.Data, &user), qt.IsNil)
	c.Assert(user.IsActive, qt.IsFalse)
}

func TestDashboardStats(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	f.createShipment(c, "BK1001")
	f.createShipment(c, "BK2002")

	code, resp := f.do(c, http.MethodGet, "/api/dashboard/stats", models.RoleVHCViewer, nil)
	c.Assert(code, qt.Equals, http.StatusOK)
	var stats repositories.ShipmentStats
	c.Assert(json.Unmarshal(resp.Data, &stats), qt.IsNil)
	c.Assert(stats.ActiveShipments, qt.Equals, int64(2))
	c.Assert(stats.MilestonesToday, qt.Equals, int64(2))
}

func TestMilestoneTypes(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	code, resp := f.do(c, http.MethodGet, "/api/milestone-types", models.RoleVHCViewer, nil)
	c.Assert(code, qt.Equals, http.StatusOK)
	var types []models.MilestoneType
	c.Assert(json.Unmarshal(resp.Data, &types), qt.IsNil)
	c.Assert(types, qt.HasLen, 11)
	c.Assert(types[0].Name, qt.Equals, tracking.BookingConfirmed)
	c.Assert(types[10].Name, qt.Equals, tracking.InvoiceSent)
}

func TestHealthzAndMetrics(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	code, resp := f.do(c, http.MethodGet, "/healthz", "", nil)
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(resp.Success, qt.IsTrue)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, `shipments_http_requests_total{code="200",route="/healthz"} 1`)
}

func TestCORSAndRequestID(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	req := httptest.NewRequest(http.MethodOptions, "/api/shipments", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Header().Get("Access-Control-Allow-Origin"), qt.Equals, "*")
	c.Assert(rec.Header().Get(HeaderRequestID), qt.Not(qt.Equals), "")

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	c.Assert(rec.Header().Get(HeaderRequestID), qt.Equals, "req-42")
}

func TestRecoverWrapper(t *testing.T) {
	c := qt.New(t)
	s := &Server{logger: zap.NewNop()}

	h := s.recoverWrapper(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	c.Assert(rec.Code, qt.Equals, http.StatusInternalServerError)
	var resp response
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &resp), qt.IsNil)
	c.Assert(resp.Success, qt.IsFalse)
}
