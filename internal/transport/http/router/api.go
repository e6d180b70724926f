package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"user-api/internal/core/server"
	"user-api/internal/transport/http/handler"
	mdw "user-api/internal/transport/http/middleware"
)

const (
	collectionPath = "/users"
	itemPath       = "/users/:ref"
)

// Options 中的零值表示关闭对应中间件
type Options struct {
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	RateLimitPerIP bool
	MaxConcurrent  int64
	CORS           bool
	Metrics        bool
}

// Route 路由表的一项；Advertise=false 的不出现在 Allow 头里
type Route struct {
	Method    string
	Path      string
	Handler   gin.HandlerFunc
	Advertise bool
}

type Table []Route

// Allowed 返回 path 上对外公布的方法（按注册顺序）
func (t Table) Allowed(path string) []string {
	var out []string
	for _, r := range t {
		if r.Path == path && r.Advertise {
			out = append(out, r.Method)
		}
	}
	return out
}

func (t Table) Mount(r gin.IRoutes) {
	for _, rt := range t {
		r.Handle(rt.Method, rt.Path, rt.Handler)
	}
}

// UserRoutes 构建完整路由表，初始化后不再修改
func UserRoutes(h *handler.UserHandler) Table {
	t := Table{
		{http.MethodGet, "/", h.Index, true},
		{http.MethodGet, collectionPath, h.List, true},
		{http.MethodPut, collectionPath, h.Create, true},
		{http.MethodPost, collectionPath, h.Create, true},
	}
	allow := strings.Join(append(t.Allowed(collectionPath), http.MethodOptions), ", ")
	t = append(t, Route{http.MethodOptions, collectionPath, h.Options(allow), true})
	for _, m := range []string{http.MethodDelete, http.MethodPatch, http.MethodTrace} {
		t = append(t, Route{m, collectionPath, h.MethodNotAllowed, false})
	}
	t = append(t,
		Route{http.MethodGet, itemPath, h.Get, true},
		Route{http.MethodPut, itemPath, h.Update, true},
		Route{http.MethodPatch, itemPath, h.Update, true},
		Route{http.MethodDelete, itemPath, h.Delete, true},
	)
	// 每个 GET 同时应答 HEAD（body 由 net/http 丢弃），不写进 Allow
	for _, r := range t {
		if r.Method == http.MethodGet {
			t = append(t, Route{http.MethodHead, r.Path, r.Handler, false})
		}
	}
	return t
}

func NewAPIEngine(l *zap.Logger, h *handler.UserHandler, o Options) *gin.Engine {
	r := server.NewRouter(l, o.CORS)

	var metrics *mdw.Metrics
	mws := []gin.HandlerFunc{mdw.RequestID(), mdw.AccessLog(l)}
	if o.Metrics {
		metrics = mdw.NewMetrics()
		mws = append(mws, metrics.Middleware())
	}
	if o.RateLimitRPS > 0 {
		burst := max(1, o.RateLimitBurst)
		if o.RateLimitPerIP {
			mws = append(mws, mdw.RateLimitPerIP(rate.Limit(o.RateLimitRPS), burst))
		} else {
			mws = append(mws, mdw.RateLimit(rate.Limit(o.RateLimitRPS), burst))
		}
	}
	if o.RequestTimeout > 0 {
		mws = append(mws, mdw.Timeout(o.RequestTimeout))
	}
	if o.MaxConcurrent > 0 {
		mws = append(mws, mdw.ConcurrencyLimit(o.MaxConcurrent))
	}
	if o.MaxBodyBytes > 0 {
		mws = append(mws, mdw.MaxBodyBytes(o.MaxBodyBytes))
	}
	r.Use(mws...)

	r.HandleMethodNotAllowed = true
	r.NoMethod(h.MethodNotAllowed)
	r.NoRoute(h.NotFound)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	UserRoutes(h).Mount(r)
	return r
}
