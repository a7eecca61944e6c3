package di

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"user-dashboard/internal/adapter/gin/handler"
	"user-dashboard/internal/adapter/source/rest"
	"user-dashboard/internal/config"
	"user-dashboard/internal/usecase/dashboard"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *zap.Logger
	UserSource       *rest.UserSource
	Store            *dashboard.Store
	DashboardHandler *handler.DashboardHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// The fetch has no timeout of its own; cancellation comes from the caller's context.
	source := rest.NewUserSource(&http.Client{}, cfg.Source.URL, l.Named("source"))

	store := dashboard.NewStore(source, l.Named("store"))

	dashboardHandler := handler.NewDashboardHandler(store, l.Named("web"))

	return &Container{
		Config:           cfg,
		Logger:           l,
		UserSource:       source,
		Store:            store,
		DashboardHandler: dashboardHandler,
	}, nil
}

// Close tears down the dashboard store
func (c *Container) Close() error {
	if c.Store != nil {
		c.Store.Close()
	}
	return nil
}
