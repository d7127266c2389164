package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shipments"

type Metrics struct {
	MilestonesRecorded      *prometheus.CounterVec
	MilestonesOutOfOrder    prometheus.Counter
	MilestonesDelayed       prometheus.Counter
	NotificationsComposed   *prometheus.CounterVec
	NotificationsDispatched *prometheus.CounterVec
	CarrierPolls            *prometheus.CounterVec
	HTTPRequests            *prometheus.CounterVec
}

// New registers the service metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		MilestonesRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "milestones_recorded_total",
			Help:      "Milestones recorded as completed, by milestone name.",
		}, []string{"milestone"}),
		MilestonesOutOfOrder: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "milestones_out_of_order_total",
			Help:      "Milestones recorded at or before the shipment's current milestone.",
		}),
		MilestonesDelayed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "milestones_delayed_total",
			Help:      "Pending milestones moved to DELAYED by the sweep.",
		}),
		NotificationsComposed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_composed_total",
			Help:      "Notification rows created, by notification type.",
		}, []string{"type"}),
		NotificationsDispatched: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dispatched_total",
			Help:      "Notification dispatch attempts, by resulting status.",
		}, []string{"status"}),
		CarrierPolls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "carrier_polls_total",
			Help:      "Carrier feed polls, by processor kind and outcome.",
		}, []string{"kind", "outcome"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
	}
}
