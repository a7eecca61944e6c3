package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"user-dashboard/cmd/dashboard/di"
	"user-dashboard/cmd/dashboard/server"
	"user-dashboard/internal/adapter/tui"
	"user-dashboard/internal/config"
	"user-dashboard/pkg/logger"
)

// App represents the application
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Server    *server.Server
	Container *di.Container

	// runProgram runs the terminal presenter. Replaced in tests.
	runProgram func(ctx context.Context, model tui.Model) error
}

// New creates a new application instance. configPath is the directory
// holding app.env; empty means $CONFIG_PATH or the working directory.
func New(configPath string, flags *pflag.FlagSet) (*App, error) {
	// Load configuration
	cfg, err := config.LoadConfig(getConfigPath(configPath), flags)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := initLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Create DI container
	container, err := di.NewContainer(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	a := &App{
		Config:     cfg,
		Logger:     l,
		Container:  container,
		runProgram: runProgram,
	}

	if cfg.App.Mode == config.ModeWeb {
		a.Server = server.New(cfg, l, container.DashboardHandler)
	}

	return a, nil
}

// Run starts the configured presenter and blocks until it exits or ctx is canceled.
func (a *App) Run(ctx context.Context) (err error) {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			a.Logger.Error("panic recovered in application",
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			err = fmt.Errorf("application panic: %v", r)
		}
	}()

	a.Logger.Info("starting application",
		zap.String("service", a.Config.Logger.ServiceName),
		zap.String("version", a.Config.Logger.ServiceVersion),
		zap.String("environment", a.Config.App.Environment),
		zap.String("mode", a.Config.App.Mode),
	)

	var runErr error
	switch a.Config.App.Mode {
	case config.ModeWeb:
		runErr = a.runWeb(ctx)
	default:
		runErr = a.runTUI(ctx)
	}

	return errors.Join(runErr, a.shutdown())
}

// runWeb mounts the shared store and serves it until ctx is canceled.
func (a *App) runWeb(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	a.Container.Store.Mount(gctx)

	g.Go(func() error {
		if err := a.Server.Start(gctx); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("shutting down web dashboard...")

		timeout := time.Duration(a.Config.App.ShutdownTimeoutSeconds) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("failed to shutdown web dashboard", zap.Error(err))
			return fmt.Errorf("gin shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// runTUI runs the terminal presenter until the user quits or ctx is canceled.
func (a *App) runTUI(ctx context.Context) error {
	model := tui.NewModel(ctx, a.Container.Store)
	defer model.Close()

	if err := a.runProgram(ctx, model); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal dashboard: %w", err)
	}
	return nil
}

func runProgram(ctx context.Context, model tui.Model) error {
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// shutdown releases container resources and flushes the logger
func (a *App) shutdown() error {
	var errs []error

	// Close container resources
	if a.Container != nil {
		a.Logger.Info("closing container resources...")
		if err := a.Container.Close(); err != nil {
			a.Logger.Error("failed to close container", zap.Error(err))
			errs = append(errs, fmt.Errorf("container close: %w", err))
		}
	}

	a.Logger.Info("application shutdown complete")

	// Sync logger
	if err := a.Logger.Sync(); err != nil {
		// Ignore sync errors for stdout/stderr
		if err.Error() != "sync /dev/stdout: invalid argument" &&
			err.Error() != "sync /dev/stderr: invalid argument" {
			errs = append(errs, fmt.Errorf("logger sync: %w", err))
		}
	}

	return errors.Join(errs...)
}

// initLogger initializes the application logger
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	loggerCfg := logger.Config{
		Level:          cfg.Logger.Level,
		Format:         cfg.Logger.Format,
		OutputPath:     cfg.Logger.OutputPath,
		MaxSizeMB:      cfg.Logger.MaxSizeMB,
		MaxBackups:     cfg.Logger.MaxBackups,
		EnableSampling: cfg.Logger.EnableSampling,
		ServiceName:    cfg.Logger.ServiceName,
		ServiceVersion: cfg.Logger.ServiceVersion,
		Environment:    cfg.App.Environment,
	}

	return logger.NewWithConfig(loggerCfg)
}

// getConfigPath returns the configuration path
func getConfigPath(path string) string {
	if path != "" {
		return path
	}
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "."
}
