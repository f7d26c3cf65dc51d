package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LeadsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "portal", Name: "leads_created_total", Help: "Number of leads created via the contact form."},
	)
	LeadStatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portal", Name: "lead_status_transitions_total", Help: "Number of lead status changes by target status."},
		[]string{"status"},
	)
	MessagesSent = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "portal", Name: "messages_sent_total", Help: "Number of in-app messages stored."},
	)
	NotificationsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portal", Name: "notifications_recorded_total", Help: "Number of notification records created by kind."},
		[]string{"kind"},
	)
	SnapshotsDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "portal", Name: "message_snapshots_delivered_total", Help: "Number of full message snapshots delivered to subscribers."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portal", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portal", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(
		LeadsCreated,
		LeadStatusTransitions,
		MessagesSent,
		NotificationsRecorded,
		SnapshotsDelivered,
		RateLimitAllowed,
		RateLimitRejected,
	)
}
