package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"

	ginhandler "user-dashboard/internal/adapter/gin/handler"
	"user-dashboard/internal/config"
)

// Server holds the web dashboard listener
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	Gin    *http.Server

	listener net.Listener
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, handler *ginhandler.DashboardHandler) *Server {
	return &Server{
		Config: cfg,
		Logger: l,
		Gin:    SetupGinServer(handler, cfg.HTTPAddress(), cfg.App.Environment, l),
	}
}

// Listen binds the server address. Start calls it when it has not been called yet.
func (s *Server) Listen(ctx context.Context) error {
	lc := net.ListenConfig{}
	lis, err := lc.Listen(ctx, "tcp", s.Gin.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = lis
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start serves requests until Shutdown is called. A server closed by
// Shutdown returns nil. Request contexts derive from ctx, so canceling it
// ends open event streams.
func (s *Server) Start(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(ctx); err != nil {
			return err
		}
	}

	s.Gin.BaseContext = func(net.Listener) context.Context { return ctx }

	s.Logger.Info("web dashboard running", zap.String("address", s.listener.Addr().String()))

	if err := s.Gin.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Gin.Shutdown(ctx)
}
