package monitoring

import (
	"strconv"
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
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// PushCounter WebSocket 推送事件计数，按事件类型和方向区分
	PushCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ws_push_events_total",
			Help: "Total number of websocket push events",
		},
		[]string{"type", "direction"},
	)

	// MealAPICacheCounter 第三方食谱 API 缓存命中统计
	MealAPICacheCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealapi_cache_total",
			Help: "Meal API cache hits and misses",
		},
		[]string{"result"},
	)

	// OnlineUsers 当前 WebSocket 在线人数
	OnlineUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_online_users",
			Help: "Current number of connected websocket users",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(PushCounter)
	prometheus.MustRegister(MealAPICacheCounter)
	prometheus.MustRegister(OnlineUsers)
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
