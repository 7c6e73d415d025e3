package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BlocksFetched tracks blocks fetched from ledgers per token
	BlocksFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_blocks_fetched_total",
			Help: "Total number of ledger blocks fetched",
		},
		[]string{"token"},
	)

	// SyncsTotal tracks sync attempts per token and outcome
	SyncsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_syncs_total",
			Help: "Total number of ledger sync attempts",
		},
		[]string{"token", "result"},
	)

	// NotificationsEnqueued tracks notifications appended to the queue
	NotificationsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_notifications_enqueued_total",
			Help: "Total number of notifications enqueued",
		},
		[]string{"token"},
	)

	// NotificationsSent tracks successfully delivered notifications
	NotificationsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifier_notifications_sent_total",
			Help: "Total number of notifications delivered",
		},
	)

	// PushFailures tracks dropped notification deliveries
	PushFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifier_push_failures_total",
			Help: "Total number of failed notification pushes",
		},
	)

	// QueueDepth tracks the pending notification backlog
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notifier_queue_depth",
			Help: "Number of notifications waiting for dispatch",
		},
	)

	// RPCLatency tracks outbound remote call latency
	RPCLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notifier_rpc_latency_seconds",
			Help:    "Outbound remote call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"target", "method"},
	)

	// DBConnectionPoolUsage tracks database connection pool utilization
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notifier_db_pool_usage_percent",
			Help: "Database connection pool usage percentage",
		},
	)
)
