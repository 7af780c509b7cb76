package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"github.com/irfndi/paragon-ai-go/internal/api/handlers"
	"github.com/irfndi/paragon-ai-go/internal/metrics"
	"github.com/irfndi/paragon-ai-go/internal/middleware"
)

// Handlers groups everything SetupRoutes mounts.
type Handlers struct {
	Analysis *handlers.AnalysisHandler
	Wallet   *handlers.WalletHandler
	Health   *handlers.HealthHandler

	// Admin guards operator routes; nil leaves them unmounted.
	Admin *middleware.AdminMiddleware
}

// RouterConfig configures the shared middleware chain.
type RouterConfig struct {
	ServiceName    string
	AllowedOrigins []string
	TracerProvider trace.TracerProvider
	Logger         *logrus.Logger
}

// NewRouter builds a gin engine with recovery, tracing, request ids,
// access logging and CORS installed.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "paragon-ai"
	}

	var opts []otelgin.Option
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgin.WithTracerProvider(cfg.TracerProvider))
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName, opts...))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(cfg.Logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	return router
}

func SetupRoutes(router *gin.Engine, h Handlers, m *metrics.Metrics) {
	// Health check endpoints
	router.GET("/health", gin.WrapF(h.Health.HealthCheck))
	router.GET("/ready", gin.WrapF(h.Health.ReadinessCheck))
	router.GET("/live", gin.WrapF(h.Health.LivenessCheck))

	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/analyze", h.Analysis.Analyze)
		v1.GET("/indicators", h.Analysis.GetIndicators)
		v1.GET("/ratelimit/:wallet", h.Wallet.GetRateLimitStatus)
		v1.GET("/credits/:wallet", h.Wallet.GetCredits)
	}

	if h.Admin != nil {
		admin := v1.Group("/admin", h.Admin.RequireAdminAuth())
		admin.POST("/credits/:wallet", h.Wallet.AddCredits)
	}
}
