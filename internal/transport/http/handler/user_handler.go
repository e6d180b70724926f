package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-api/internal/domain"
	"user-api/internal/service"
	mdw "user-api/internal/transport/http/middleware"
	resp "user-api/internal/transport/http/response"
)

// UserView 对外表示：永不包含 password
type UserView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	URI   string `json:"uri"`
}

type UserHandler struct {
	svc     *service.UserService
	log     *zap.Logger
	baseURL string // 为空则按请求推导
}

func NewUserHandler(svc *service.UserService, l *zap.Logger, baseURL string) *UserHandler {
	return &UserHandler{svc: svc, log: l, baseURL: strings.TrimRight(baseURL, "/")}
}

func (h *UserHandler) Index(c *gin.Context) {
	c.String(http.StatusOK, "User API")
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, h.view(c, &users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": views})
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), service.ParseRef(c.Param("ref")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": h.view(c, u)})
}

func (h *UserHandler) Create(c *gin.Context) {
	body, ok := h.body(c)
	if !ok {
		return
	}
	in, err := service.DecodeCreateInput(body)
	if err != nil {
		h.fail(c, err)
		return
	}
	u, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user created": h.view(c, u)})
}

func (h *UserHandler) Update(c *gin.Context) {
	body, ok := h.body(c)
	if !ok {
		return
	}
	in, err := service.DecodeUpdateInput(body)
	if err != nil {
		h.fail(c, err)
		return
	}
	u, err := h.svc.Update(c.Request.Context(), service.ParseRef(c.Param("ref")), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user modified": h.view(c, u)})
}

func (h *UserHandler) Delete(c *gin.Context) {
	u, err := h.svc.Delete(c.Request.Context(), service.ParseRef(c.Param("ref")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user deleted": h.view(c, u)})
}

// Options 空 body + Allow 头
func (h *UserHandler) Options(allow string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Allow", allow)
		c.Header("Content-Length", "0")
		c.Status(http.StatusOK)
	}
}

func (h *UserHandler) MethodNotAllowed(c *gin.Context) {
	resp.Abort(c, http.StatusMethodNotAllowed)
}

func (h *UserHandler) NotFound(c *gin.Context) {
	resp.Abort(c, http.StatusNotFound)
}

func (h *UserHandler) body(c *gin.Context) ([]byte, bool) {
	b, err := c.GetRawData()
	if err == nil {
		return b, true
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		_ = c.Error(err)
		resp.Abort(c, http.StatusRequestEntityTooLarge)
		return nil, false
	}
	h.fail(c, errors.Join(domain.ErrInvalidInput, err))
	return nil, false
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	status, body := resp.FromError(err)
	_ = c.Error(err)
	fields := []zap.Field{
		zap.String("rid", mdw.GetRequestID(c)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	}
	switch {
	case status == http.StatusGatewayTimeout:
		h.log.Warn("request timed out", fields...)
	case status >= http.StatusInternalServerError:
		h.log.Error("request failed", fields...)
	}
	c.AbortWithStatusJSON(status, body)
}

func (h *UserHandler) view(c *gin.Context, u *domain.User) UserView {
	return UserView{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		URI:   h.origin(c) + "/users/" + strconv.FormatInt(u.ID, 10),
	}
}

func (h *UserHandler) origin(c *gin.Context) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if p := c.GetHeader("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + c.Request.Host
}
