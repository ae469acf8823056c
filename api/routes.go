package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jhonatancruzmail/SkyConnectExplorer/config"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/health"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/metrics"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/middleware"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svc AirportService, checker *health.HealthChecker, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.Metrics())

	router.GET("/health", Health(checker))
	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, checker.CheckLiveness(c.Request.Context()))
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/airports", GetAirports(svc))
		apiGroup.GET("/airports/:iata", GetAirportByIATA(svc))

		admin := apiGroup.Group("/admin", middleware.AdminAuth(cfg.AdminAuthConfig))
		{
			admin.POST("/cache/invalidate", InvalidateCache(svc))
		}
	}
}
