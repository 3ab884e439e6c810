package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Live state, refreshed by the monitoring worker
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_gateway_connections_active",
			Help: "Authenticated live connections",
		},
	)

	UsersOnline = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_gateway_users_online",
			Help: "Distinct users with at least one live connection",
		},
	)

	RoomsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_gateway_rooms_active",
			Help: "Rooms with at least one joined user",
		},
	)

	// Gateway events
	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_gateway_auth_failures_total",
			Help: "Rejected connection attempts",
		},
		[]string{"reason"},
	)

	JoinRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_gateway_join_rejections_total",
			Help: "Rejected room joins",
		},
		[]string{"reason"},
	)

	RoomsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_gateway_rooms_created_total",
			Help: "Rooms created through the gateway",
		},
	)

	MessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_gateway_messages_total",
			Help: "Messages handled by the fan-out",
		},
		[]string{"status"}, // "persisted" or "failed"
	)

	MessageRecipients = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_gateway_message_recipients",
			Help:    "Live connections reached by one message",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	EventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_gateway_events_dropped_total",
			Help: "Outbound events not delivered to a connection",
		},
		[]string{"event"},
	)

	// HTTP surface
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_gateway_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_gateway_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Process
	ProcessCPUPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_gateway_process_cpu_percent",
			Help: "CPU usage of the gateway process",
		},
	)

	ProcessRSSBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_gateway_process_rss_bytes",
			Help: "Resident memory of the gateway process",
		},
	)
)
