package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "user-api/internal/transport/http/response"
)

// ConcurrencyLimit 同时处理的请求数上限；排队等待最多到请求 ctx 结束
func ConcurrencyLimit(n int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(n)
	return func(c *gin.Context) {
		if !sem.TryAcquire(1) {
			if err := sem.Acquire(c.Request.Context(), 1); err != nil {
				c.Header("Retry-After", "1")
				resp.Abort(c, http.StatusServiceUnavailable)
				return
			}
		}
		defer sem.Release(1)
		c.Next()
	}
}
