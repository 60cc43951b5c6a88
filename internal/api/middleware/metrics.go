package middleware

import (
	"strconv"
	"time"

	"recipe-finder/internal/metrics"

	"github.com/gin-gonic/gin"
)

const unmatchedEndpoint = "unmatched"

// Metrics 記錄請求數與延遲；endpoint 使用路由樣板避免標籤爆量
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = unmatchedEndpoint
		}
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}
}
