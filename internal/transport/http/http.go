package http

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"     // swagger embed files
	ginSwagger "github.com/swaggo/gin-swagger" // gin-swagger middleware

	_ "github.com/dwarvesf/htlc-backend/docs"
	"github.com/dwarvesf/htlc-backend/internal/handler"
	"github.com/dwarvesf/htlc-backend/internal/monitoring"
	"github.com/dwarvesf/htlc-backend/internal/utils/config"
	"github.com/dwarvesf/htlc-backend/internal/utils/logger"
)

const RequestIDHeader = "X-Request-ID"

func setupCORS(r *gin.Engine, cfg *config.AppConfig) {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS", "HEAD"},
		AllowHeaders: []string{
			"Origin", "Host", "Content-Type", "Content-Length", "Accept-Encoding", "Accept-Language", "Accept",
			"X-CSRF-Token", "Authorization", "X-Requested-With", "X-Access-Token",
			"X-Account-Address", RequestIDHeader,
		},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,
	}

	for _, origin := range strings.Split(cfg.ApiServer.AllowedOrigins, ";") {
		if origin = strings.TrimSpace(origin); origin != "" {
			corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, origin)
		}
	}
	// no configured origin means a local deployment
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}

	r.Use(cors.New(corsConfig))
}

// requestID tags every request with an id, reusing the caller's when given.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func NewHttpServer(appConfig *config.AppConfig, logger *logger.Logger, h *handler.Handler, httpMetrics *monitoring.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		gin.Recovery(),
		requestID(),
	)
	if httpMetrics != nil {
		r.Use(monitoring.HTTPMetricsMiddleware(httpMetrics))
	}
	setupCORS(r, appConfig)

	// use ginSwagger middleware to serve the API docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/metrics", h.MetricsHandler.Handler())
	r.GET("/healthz", h.HealthHandler.Basic)

	loadV1Routes(r, h, appConfig, logger)

	return r
}
