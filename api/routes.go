package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/meetscribe/errors"
	"github.com/kbukum/meetscribe/observability"
	"github.com/kbukum/meetscribe/server"
	"github.com/kbukum/meetscribe/server/middleware"
)

// RouteConfig holds route-level settings.
type RouteConfig struct {
	// AnalysisMaxBody caps the /analyze body, e.g. "2MB".
	AnalysisMaxBody string
	// Metrics is optional; when set every routed request is recorded.
	Metrics *observability.Metrics
}

// Register mounts the API routes and the JSON 404/405 fallbacks.
func Register(engine *gin.Engine, h *Handlers, cfg RouteConfig) {
	if cfg.Metrics != nil {
		engine.Use(RequestMetrics(cfg.Metrics))
	}

	engine.POST("/transcribe", h.Transcribe)
	engine.POST("/analyze", middleware.GinWrap(middleware.BodySizeLimit(cfg.AnalysisMaxBody)), h.Analyze)

	engine.NoRoute(func(c *gin.Context) {
		server.RespondWithError(c, apperrors.NotFound(c.Request.URL.Path))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.Header("Allow", allowedMethods(engine, c.Request.URL.Path))
		server.RespondWithError(c, apperrors.MethodNotAllowed(c.Request.Method))
	})
}

// allowedMethods lists the methods routed for path plus OPTIONS, which the
// CORS middleware answers on every path.
func allowedMethods(engine *gin.Engine, path string) string {
	var methods []string
	for _, r := range engine.Routes() {
		if r.Path == path {
			methods = append(methods, r.Method)
		}
	}
	return strings.Join(append(methods, http.MethodOptions), ", ")
}

// RequestMetrics records request count, duration and in-flight requests.
func RequestMetrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()
		m.RecordRequestStart(ctx)
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequestEnd(ctx, c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
