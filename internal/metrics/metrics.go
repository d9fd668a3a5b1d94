// Package metrics provides Prometheus instrumentation for the Safe-Passage backend.
package metrics

import (
	"context"
	"database/sql"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safepassage",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "safepassage",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// RiskAssessmentsTotal counts risk assessments performed.
	RiskAssessmentsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "safepassage",
		Name:      "risk_assessments_total",
		Help:      "Total risk assessments performed.",
	})

	// RiskLevelGauge tracks the most recently computed risk level.
	RiskLevelGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "safepassage",
		Name:      "risk_level",
		Help:      "Most recently assessed risk level (1-10).",
	})

	// AlertsActive tracks the number of active alerts in the store.
	AlertsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "safepassage",
		Name:      "alerts_active",
		Help:      "Number of currently active risk alerts.",
	})

	// CrisisTriggersTotal counts manual crisis injections.
	CrisisTriggersTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "safepassage",
		Name:      "crisis_triggers_total",
		Help:      "Total manual crisis alert injections.",
	})

	// FeedFetchesTotal counts external feed fetches by source and result.
	FeedFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safepassage",
			Name:      "feed_fetches_total",
			Help:      "Total external feed fetches by source and result.",
		},
		[]string{"source", "result"},
	)

	// PayoutsTotal counts payouts by method and final status.
	PayoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safepassage",
			Name:      "payouts_total",
			Help:      "Total payouts initiated by method and status.",
		},
		[]string{"method", "status"},
	)

	// PayoutAmount observes payout amounts in USD.
	PayoutAmount = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "safepassage",
		Name:      "payout_amount_usd",
		Help:      "Payout amounts in USD.",
		Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
	})

	// RecommendationsTotal counts method recommendation requests.
	RecommendationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "safepassage",
		Name:      "recommendations_total",
		Help:      "Total payout method recommendation requests.",
	})

	// OfflineCodesTotal counts generated offline access codes.
	OfflineCodesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "safepassage",
		Name:      "offline_codes_total",
		Help:      "Total offline access codes generated.",
	})

	// GuardianNotificationsTotal counts guardian notifications by reason.
	GuardianNotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safepassage",
			Name:      "guardian_notifications_total",
			Help:      "Total guardian notifications by reason.",
		},
		[]string{"reason"},
	)

	// ActiveWebSocketClients tracks connected WebSocket clients.
	ActiveWebSocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "safepassage",
		Name:      "active_websocket_clients",
		Help:      "Number of currently connected WebSocket clients.",
	})

	// DBOpenConnections tracks open database connections.
	DBOpenConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "safepassage", Name: "db_open_connections",
		Help: "Number of open database connections.",
	})
	// DBIdleConnections tracks idle database connections.
	DBIdleConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "safepassage", Name: "db_idle_connections",
		Help: "Number of idle database connections.",
	})
	// DBInUseConnections tracks in-use database connections.
	DBInUseConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "safepassage", Name: "db_in_use_connections",
		Help: "Number of in-use database connections.",
	})
	// GoroutineCount tracks the current number of goroutines.
	GoroutineCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "safepassage", Name: "goroutines",
		Help: "Current number of goroutines.",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		RiskAssessmentsTotal,
		RiskLevelGauge,
		AlertsActive,
		CrisisTriggersTotal,
		FeedFetchesTotal,
		PayoutsTotal,
		PayoutAmount,
		RecommendationsTotal,
		OfflineCodesTotal,
		GuardianNotificationsTotal,
		ActiveWebSocketClients,
		DBOpenConnections,
		DBIdleConnections,
		DBInUseConnections,
		GoroutineCount,
	)
}

// StartDBStatsCollector periodically samples sql.DBStats and runtime goroutine
// count into Prometheus gauges. Call in a goroutine; exits when ctx is done.
func StartDBStatsCollector(ctx context.Context, db *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := db.Stats()
			DBOpenConnections.Set(float64(stats.OpenConnections))
			DBIdleConnections.Set(float64(stats.Idle))
			DBInUseConnections.Set(float64(stats.InUse))
			GoroutineCount.Set(float64(runtime.NumGoroutine()))
		}
	}
}

// Middleware returns a gin middleware that records request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := prometheus.NewTimer(HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(), // Uses route pattern, not actual path (avoids cardinality explosion)
		))

		c.Next()

		timer.ObserveDuration()
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusBucket(c.Writer.Status()),
		).Inc()
	}
}

// Handler returns the Prometheus metrics HTTP handler for /metrics endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// statusBucket groups HTTP status codes into buckets (2xx, 3xx, 4xx, 5xx).
func statusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
