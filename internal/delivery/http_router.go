package delivery

import (
	"time"

	"adspilot/internal/delivery/middleware"
	"adspilot/pkg/logger"
	"adspilot/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HTTPRouter struct {
	handlers *HTTPHandlers
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewHTTPRouter(handlers *HTTPHandlers, logger *logger.Logger, metrics *metrics.Metrics) *HTTPRouter {
	return &HTTPRouter{
		handlers: handlers,
		logger:   logger,
		metrics:  metrics,
	}
}

func (r *HTTPRouter) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.Recovery(r.logger))
	router.Use(middleware.Metrics(r.metrics))
	router.Use(middleware.Timeout(60 * time.Second))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Content-Type", "X-Request-ID"}
	config.ExposeHeaders = []string{"X-Request-ID"}

	router.Use(cors.New(config))

	// Health endpoint
	router.GET("/health", r.handlers.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/", r.handlers.GetAPIInfo)
		v1.GET("", r.handlers.GetAPIInfo)

		// Upload-feedback endpoints
		feedback := v1.Group("/feedback")
		{
			feedback.POST("/parse", r.handlers.ParseFeedback)
			feedback.POST("/submit", r.handlers.SubmitFeedback)
		}

		// Campaign assembly endpoints
		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("/generate", r.handlers.GenerateCampaign)
		}

		// Backend proxy endpoints
		v1.GET("/sites", r.handlers.GetSites)
		v1.POST("/sync", r.handlers.Sync)

		stats := v1.Group("/stats")
		{
			stats.GET("", r.handlers.GetAllStats)
			stats.GET("/farmer", r.handlers.GetFarmerStats)
		}
	}

	// Prometheus metrics endpoint
	router.GET("/metrics", middleware.PrometheusHandler())

	return router
}
