package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"talentai/internal/analysis"
	"talentai/internal/services/health"
	"talentai/internal/shared/config"
	"talentai/internal/shared/metrics"
	"talentai/internal/shared/server/middleware"
	"talentai/internal/shared/server/respond"
	"talentai/internal/web"
)

const analyzeRateGroup = "ANALYZE"

// RouterDeps holds the handlers mounted on the engine.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analysis.Handler
	Health          *health.Service

	// Now is the rate limiter clock; nil uses time.Now.
	Now func() time.Time
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = deps.Config.MaxUploadBytes

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	limit := middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			analyzeRateGroup: perMinute(deps.Config.RateLimitPerMinute),
		},
		DefaultGroup: analyzeRateGroup,
		KeyFor:       formUserID(deps.Config.MaxUploadBytes),
		Limiter:      middleware.NewRateLimiter(deps.Now),
	})

	r.GET("/", web.Index)
	r.GET("/metrics", metrics.Handler())
	if deps.AnalysisHandler != nil {
		r.POST("/analyze/", limit, deps.AnalysisHandler.Analyze)
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		st := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !st.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, st)
	})
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api.Group("", limit))
	}

	return r
}

// formUserID reads the user_id form field so each caller gets its own bucket.
// The body is capped first; a form that fails to parse yields "" and the
// handler reports the error.
func formUserID(maxBytes int64) func(*gin.Context) string {
	if maxBytes <= 0 {
		maxBytes = analysis.DefaultMaxUploadBytes
	}
	return func(c *gin.Context) string {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		return c.PostForm("user_id")
	}
}

// perMinute spreads n requests per minute with a burst of n. Non-positive n disables limiting.
func perMinute(n int) middleware.RateLimitRule {
	if n <= 0 {
		return middleware.RateLimitRule{}
	}
	return middleware.RateLimitRule{Rate: float64(n) / 60.0, Burst: n}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
