package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SubscriptionsCreated prometheus.Counter
	EventsMatched        *prometheus.CounterVec
	EmailsDispatched     prometheus.Counter
	EmailsSucceeded      prometheus.Counter
	EmailsFailed         prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SubscriptionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "casewatch_subscriptions_created_total",
			Help: "Total number of subscriptions created",
		}),
		EventsMatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "casewatch_events_matched_total",
			Help: "Total number of matching-engine results produced, by trigger type",
		}, []string{"trigger"}),
		EmailsDispatched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "casewatch_emails_dispatched_total",
			Help: "Total number of send-email commands dispatched to subscribers",
		}),
		EmailsSucceeded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "casewatch_emails_succeeded_total",
			Help: "Total number of delivery success callbacks processed",
		}),
		EmailsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "casewatch_emails_failed_total",
			Help: "Total number of delivery failure callbacks processed",
		}),
	}
}
