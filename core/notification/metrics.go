package notification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coursehub",
		Subsystem: "notifications",
		Name:      "queued_total",
		Help:      "Notifications accepted by the dispatcher queue.",
	})
	droppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coursehub",
		Subsystem: "notifications",
		Name:      "dropped_total",
		Help:      "Notifications dropped before reaching a worker (queue full or closed).",
	})
	deliveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coursehub",
		Subsystem: "notifications",
		Name:      "delivered_total",
		Help:      "Notifications stored by the dispatcher workers.",
	})
	failedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coursehub",
		Subsystem: "notifications",
		Name:      "failed_total",
		Help:      "Notifications lost because the store rejected their batch.",
	})
)
