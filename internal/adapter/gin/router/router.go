package router

import (
	"net/http"

	"user-dashboard/internal/adapter/gin/handler"
	"user-dashboard/internal/adapter/gin/middleware"
	"user-dashboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(dashboardHandler *handler.DashboardHandler, log *zap.Logger) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(logger.RequestID())
	router.Use(middleware.Logger(log))

	router.SetHTMLTemplate(handler.Templates())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "user-dashboard",
		})
	})

	// Rendered dashboard
	router.GET("/", dashboardHandler.Page)
	router.POST("/filter/:letter", dashboardHandler.SelectLetter)
	router.POST("/sort", dashboardHandler.ToggleSort)

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.GET("/dashboard", dashboardHandler.Snapshot)
		v1.GET("/dashboard/events", dashboardHandler.Events)
	}

	return router
}
