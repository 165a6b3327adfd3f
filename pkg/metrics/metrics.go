package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clipnest_http_requests_total",
		Help: "HTTP请求总数",
	}, []string{"method", "path", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "clipnest_http_request_duration_seconds",
		Help:    "HTTP请求耗时",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Middleware 按路由模板统计请求数和耗时
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// FullPath返回路由模板（如/api/videos/:video_id），避免标签基数爆炸
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		requestTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
