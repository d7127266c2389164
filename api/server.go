package api

import (
	"context"
	"github.com/gorilla/mux"
	"github.com/juju/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"net/http"
	"shipment-tracking-service/audit"
	"shipment-tracking-service/metrics"
	"shipment-tracking-service/models"
	"shipment-tracking-service/notifications"
	"shipment-tracking-service/repositories"
	"shipment-tracking-service/tracking"
	"time"
)

// Server serves the REST surface over the repository and the tracker.
type Server struct {
	repo     *repositories.Repository
	tracker  *tracking.Tracker
	recorder *audit.Recorder
	composer *notifications.Composer
	clock    clock.Clock
	logger   *zap.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

type Options struct {
	Repository *repositories.Repository
	Tracker    *tracking.Tracker
	Recorder   *audit.Recorder
	Composer   *notifications.Composer
	Clock      clock.Clock
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
}

func NewServer(opts Options) *Server {
	return &Server{
		repo:     opts.Repository,
		tracker:  opts.Tracker,
		recorder: opts.Recorder,
		composer: opts.Composer,
		clock:    opts.Clock,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		gatherer: opts.Gatherer,
	}
}

var (
	writers    = []models.Role{models.RoleSeairOrigin, models.RoleAdmin}
	trackers   = []models.Role{models.RoleSeairOrigin, models.RoleSeairUS, models.RoleAdmin}
	billers    = []models.Role{models.RoleSeairUS, models.RoleAdmin}
	adminsOnly = []models.Role{models.RoleAdmin}
)

// Handler builds the full routing tree.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.instrument)

	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(identify)

	write := requireRoles(writers...)
	track := requireRoles(trackers...)
	bill := requireRoles(billers...)
	admin := requireRoles(adminsOnly...)

	api.HandleFunc("/milestone-types", s.listMilestoneTypes).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/stats", s.dashboardStats).Methods(http.MethodGet)

	api.HandleFunc("/shipments", s.listShipments).Methods(http.MethodGet)
	api.HandleFunc("/shipments", write(s.createShipment)).Methods(http.MethodPost)
	api.HandleFunc("/shipments/{id}", s.getShipment).Methods(http.MethodGet)
	api.HandleFunc("/shipments/{id}", write(s.updateShipment)).Methods(http.MethodPut)
	api.HandleFunc("/shipments/{id}", write(s.deleteShipment)).Methods(http.MethodDelete)

	api.HandleFunc("/shipments/{id}/milestone", track(s.recordMilestone)).Methods(http.MethodPost)
	api.HandleFunc("/shipments/{id}/milestones", s.listMilestones).Methods(http.MethodGet)
	api.HandleFunc("/shipments/{id}/milestones/{name}/expected", track(s.setExpectedDate)).Methods(http.MethodPut)
	api.HandleFunc("/shipments/{id}/status", s.deriveStatus).Methods(http.MethodGet)

	api.HandleFunc("/shipments/{id}/documents", s.listDocuments).Methods(http.MethodGet)
	api.HandleFunc("/shipments/{id}/documents", s.createDocument).Methods(http.MethodPost)
	api.HandleFunc("/documents/{id}", track(s.deleteDocument)).Methods(http.MethodDelete)

	api.HandleFunc("/shipments/{id}/purchase-orders", s.listPurchaseOrders).Methods(http.MethodGet)
	api.HandleFunc("/shipments/{id}/purchase-orders", write(s.createPurchaseOrder)).Methods(http.MethodPost)
	api.HandleFunc("/purchase-orders/{id}", write(s.deletePurchaseOrder)).Methods(http.MethodDelete)

	api.HandleFunc("/shippers", s.listShippers).Methods(http.MethodGet)
	api.HandleFunc("/shippers", write(s.createShipper)).Methods(http.MethodPost)

	api.HandleFunc("/shipments/{id}/invoices", s.listInvoices).Methods(http.MethodGet)
	api.HandleFunc("/invoices", bill(s.createInvoice)).Methods(http.MethodPost)
	api.HandleFunc("/invoices/{id}/payment", bill(s.updatePayment)).Methods(http.MethodPut)

	api.HandleFunc("/shipments/{id}/exceptions", s.listExceptions).Methods(http.MethodGet)
	api.HandleFunc("/shipments/{id}/exceptions", track(s.createException)).Methods(http.MethodPost)
	api.HandleFunc("/exceptions/{id}", track(s.updateException)).Methods(http.MethodPut)

	api.HandleFunc("/users", admin(s.listUsers)).Methods(http.MethodGet)
	api.HandleFunc("/users", admin(s.createUser)).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}", admin(s.updateUser)).Methods(http.MethodPut)

	api.HandleFunc("/notifications", admin(s.listNotifications)).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/status", admin(s.markNotification)).Methods(http.MethodPut)

	api.HandleFunc("/audit", admin(s.listAudit)).Methods(http.MethodGet)

	return withRequestID(s.recoverWrapper(withCORS(r)))
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.repo.Ping(ctx); err != nil {
		s.logger.Warn("Health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, ApiResponse{Message: "database unavailable"})
		return
	}
	ok(w, http.StatusOK, "ok", nil)
}

// audit records a change made by the caller. A failed write is logged
// and does not fail the request.
func (s *Server) audit(r *http.Request, e audit.Entry) {
	id := identity(r.Context())
	actor := audit.Actor{UserID: id.UserID, Email: id.Email, IP: id.IP}
	if _, err := s.recorder.Record(r.Context(), actor, e); err != nil {
		s.logger.Error("Failed to record audit entry",
			zap.String("request_id", requestID(r.Context())),
			zap.String("action", e.Action),
			zap.String("entity_type", e.EntityType),
			zap.Error(err))
	}
}

func ref(id uint) *uint {
	return &id
}
