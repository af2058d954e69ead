// Package handlers serves the trigger API.
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kosarica/catalog-service/internal/middleware"
	"github.com/kosarica/catalog-service/internal/trigger"
)

// RouterConfig configures NewRouter
type RouterConfig struct {
	Runner            trigger.Runner
	DB                Pinger
	Logger            zerolog.Logger
	RequestsPerSecond float64
	Burst             int
}

// NewRouter registers every route of the trigger server. Only POST /run is
// rate limited.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Logger))

	router.GET("/health", HealthCheck(cfg.DB))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	runs := NewRunHandler(cfg.Runner, cfg.Logger)
	router.POST("/run",
		middleware.ServiceRateLimitMiddleware(cfg.RequestsPerSecond, cfg.Burst),
		runs.Run,
	)

	return router
}
