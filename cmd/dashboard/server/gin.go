package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ginhandler "user-dashboard/internal/adapter/gin/handler"
	ginrouter "user-dashboard/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the HTTP server of the web dashboard.
// WriteTimeout stays unset because the event stream is long-lived.
func SetupGinServer(handler *ginhandler.DashboardHandler, addr string, environment string, l *zap.Logger) *http.Server {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := ginrouter.SetupRouter(handler, l)

	l.Info("web dashboard configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
