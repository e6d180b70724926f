package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"user-api/internal/domain"
)

// Body 统一错误体：{"error": "...", "error code": 404}
type Body struct {
	Error string `json:"error"`
	Code  int    `json:"error code"`
}

// Error 构造错误体（customMsg 为空时用默认文案）
func Error(code int, customMsg string) Body {
	msg := customMsg
	if msg == "" {
		msg = CodeMsgMap[code]
	}
	if msg == "" {
		msg = http.StatusText(code)
	}
	return Body{Error: msg, Code: code}
}

// FromError 把领域错误映射到 HTTP 状态；名字冲突同样是 400，请求超时是 504
func FromError(err error) (int, Body) {
	var status int
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNameTaken):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
	}
	return status, Error(status, "")
}

func Abort(c *gin.Context, code int) {
	c.AbortWithStatusJSON(code, Error(code, ""))
}
