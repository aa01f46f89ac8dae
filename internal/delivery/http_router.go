package delivery

import (
	"time"

	"profitgo/internal/delivery/middleware"
	"profitgo/pkg/logger"
	"profitgo/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type HTTPRouter struct {
	handlers       *HTTPHandlers
	logger         *logger.Logger
	metrics        *metrics.Metrics
	gatherer       prometheus.Gatherer
	requestTimeout time.Duration
}

func NewHTTPRouter(handlers *HTTPHandlers, logger *logger.Logger, metrics *metrics.Metrics, gatherer prometheus.Gatherer, requestTimeout time.Duration) *HTTPRouter {
	return &HTTPRouter{
		handlers:       handlers,
		logger:         logger,
		metrics:        metrics,
		gatherer:       gatherer,
		requestTimeout: requestTimeout,
	}
}

func (r *HTTPRouter) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.Recovery(r.logger))
	router.Use(middleware.Metrics(r.metrics))
	router.Use(middleware.Timeout(r.requestTimeout))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Content-Type", "X-Request-ID", "X-User"}
	config.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}

	router.Use(cors.New(config))

	// Health endpoint
	router.GET("/health", r.handlers.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/", r.handlers.GetAPIInfo)
		v1.GET("", r.handlers.GetAPIInfo)

		analysis := v1.Group("/analysis")
		{
			analysis.POST("", r.handlers.Analyze)
			analysis.POST("/batch", r.handlers.AnalyzeBatch)
			analysis.POST("/sweep", r.handlers.Sweep)
		}

		platform := v1.Group("/platform")
		{
			platform.GET("/commission-rates", r.handlers.CommissionRates)
			platform.GET("/ad-bids", r.handlers.AdBids)
		}

		history := v1.Group("/history")
		{
			history.GET("", r.handlers.ListHistory)
			history.GET("/summary", r.handlers.HistorySummary)
			history.GET("/trend", r.handlers.HistoryTrend)
			history.GET("/export.csv", r.handlers.ExportHistoryCSV)
			history.GET("/:id", r.handlers.GetHistory)
			history.DELETE("/:id", r.handlers.DeleteHistory)
			history.DELETE("", r.handlers.ClearHistory)
		}

		export := v1.Group("/export")
		{
			export.POST("/run", r.handlers.ExportRun)
		}
	}

	// Prometheus metrics endpoint
	router.GET("/metrics", middleware.PrometheusHandler(r.gatherer))

	return router
}
