package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	BankAssemblies = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "insquiz_bank_assemblies_total",
			Help: "Number of full question bank assemblies",
		},
	)

	// result: memory, hit, miss, corrupt, error
	BankCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insquiz_bank_cache_total",
			Help: "Question bank cache lookups by result",
		},
		[]string{"result"},
	)

	BankExcluded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insquiz_bank_questions_excluded_total",
			Help: "Questions excluded during bank assembly",
		},
		[]string{"subject", "reason"},
	)

	QuizSessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insquiz_quiz_sessions_total",
			Help: "Quiz sessions started by mode",
		},
		[]string{"mode"},
	)

	initOnce sync.Once
)

// Init 注册指标，重复调用无副作用
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			BankAssemblies,
			BankCacheLookups,
			BankExcluded,
			QuizSessions,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
