package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "user-api/internal/transport/http/response"
)

// MaxBodyBytes 声明长度超限直接 413；其余情况读 body 时得到 *http.MaxBytesError
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			resp.Abort(c, http.StatusRequestEntityTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
