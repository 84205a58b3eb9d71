package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/hacksoc/calendar-api/pkg/calendar"
	"github.com/hacksoc/calendar-api/pkg/calendar/providers"
	"github.com/hacksoc/calendar-api/pkg/config"
	"github.com/hacksoc/calendar-api/pkg/nats"
	"github.com/hacksoc/calendar-api/pkg/retry"
	"github.com/hacksoc/calendar-api/pkg/server"
)

const defaultConfigPath = "config.yaml"

var (
	configPath = flag.String("config", defaultConfigPath, "Path to configuration file")
	version    = flag.Bool("version", false, "Print version information")
	debug      = flag.Bool("debug", false, "Enable debug logging")
	testMode   = flag.Bool("test-mode", false, "Start without feed credentials")
)

// Version information - can be set at build time
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	flag.Parse()

	if *version {
		printVersion()
		os.Exit(0)
	}

	app, err := NewApp(*configPath, *debug, *testMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := app.Start()
	app.logger.Info("Calendar API started successfully", "listen", app.config.Server.Listen)

	select {
	case sig := <-sigChan:
		app.logger.Info("Received shutdown signal", "signal", sig)
	case err := <-errChan:
		app.logger.Error("HTTP server failed", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.Stop(shutdownCtx); err != nil {
		app.logger.Error("Error during shutdown", "error", err)
		os.Exit(1)
	}

	app.logger.Info("Calendar API stopped gracefully")
}

// App holds the main application components
type App struct {
	config        *config.Config
	logger        *slog.Logger
	manager       *calendar.Manager
	natsPublisher *nats.Publisher
	httpServer    *http.Server
}

// NewApp creates a new application instance
func NewApp(configPath string, debugMode, testMode bool) (*App, error) {
	cfg, err := config.Load(configPath, testMode)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.Logging, debugMode)
	logger.Info("Starting calendar API",
		"version", Version,
		"commit", GitCommit,
		"build_time", BuildTime,
		"config_path", configPath,
		"feed_type", cfg.Feed.Type,
		"test_mode", cfg.TestMode)

	factory := calendar.NewDefaultProviderFactory()
	providers.InitializeBuiltinProviders(factory, retry.NewRetryer(&cfg.Retry, logger))

	provider, err := factory.CreateProvider(cfg.Feed.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s calendar provider: %w", cfg.Feed.Type, err)
	}
	provider.SetLogger(logger)

	source := cfg.Source()
	if err := provider.Initialize(context.Background(), source); err != nil {
		if !cfg.TestMode {
			return nil, fmt.Errorf("failed to initialize %s provider: %w", cfg.Feed.Type, err)
		}
		// Requests will answer 502 until real credentials are configured
		logger.Warn("Provider not initialized in test mode", "error", err)
	}

	app := &App{
		config: cfg,
		logger: logger,
	}

	var notifier calendar.FetchNotifier
	if cfg.NATS.Enabled() {
		app.natsPublisher, err = nats.NewPublisher(&cfg.NATS, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
		}
		notifier = app.natsPublisher
	}

	app.manager = calendar.NewManager(provider, source, notifier, logger)

	if !debugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(app.manager, server.Options{
		WeekStart: cfg.WeekStart(),
		Provider:  provider.Type(),
	}, logger)

	app.httpServer = &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return app, nil
}

// Start serves HTTP in the background. The returned channel receives the
// error if the listener fails.
func (a *App) Start() <-chan error {
	errChan := make(chan error, 1)
	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()
	return errChan
}

// Stop gracefully stops the application services
func (a *App) Stop(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	var shutdownErr error
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("Error shutting down HTTP server", "error", err)
		shutdownErr = err
	}

	if a.natsPublisher != nil {
		if err := a.natsPublisher.Close(); err != nil {
			a.logger.Error("Error closing NATS publisher", "error", err)
		}
	}

	if err := a.manager.Close(); err != nil {
		a.logger.Error("Error closing calendar manager", "error", err)
	}

	return shutdownErr
}

// setupLogger configures the application logger
func setupLogger(cfg config.LoggingConfig, debugMode bool) *slog.Logger {
	var level slog.Level

	// Override config level if debug mode is enabled
	if debugMode {
		level = slog.LevelDebug
	} else {
		switch cfg.Level {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Calendar API %s\n", Version)
	fmt.Printf("Git Commit: %s\n", GitCommit)
	fmt.Printf("Build Time: %s\n", BuildTime)
}
