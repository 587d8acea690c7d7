package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/qj0r9j0vc2/calendar-bridge/internal/adapter/handler"
	"github.com/qj0r9j0vc2/calendar-bridge/internal/domain/entity"
	"github.com/qj0r9j0vc2/calendar-bridge/internal/infrastructure/config"
	"github.com/qj0r9j0vc2/calendar-bridge/internal/infrastructure/googlecal"
	"github.com/qj0r9j0vc2/calendar-bridge/internal/infrastructure/observability"
	"github.com/qj0r9j0vc2/calendar-bridge/internal/infrastructure/server"
	infraslack "github.com/qj0r9j0vc2/calendar-bridge/internal/infrastructure/slack"
	"github.com/qj0r9j0vc2/calendar-bridge/internal/usecase/sync"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to config file")
	once := flag.Bool("once", false, "Run a single sync pass and exit")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config/config.yaml"
	}

	// Bootstrap logger; replaced once config is loaded
	logger := setupLogger("info", "json")

	cfg, err := config.Load(path)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = setupLogger(cfg.Logging.Level, cfg.Logging.Format)

	logger.Info("configuration loaded",
		"calendar_id", cfg.Calendar.CalendarID,
		"channel", cfg.Slack.ChannelID,
		"scan_limit", cfg.Sync.ScanLimit,
		"days_ahead", cfg.Sync.DaysAhead,
		"interval", cfg.Sync.Interval,
		"once", *once,
	)

	manager := config.NewManager(path, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure clients
	calendarService, err := googlecal.NewCalendarService(ctx, cfg.Calendar.CredentialsFile, cfg.Calendar.TokenFile)
	if err != nil {
		logger.Error("failed to initialize calendar service", "error", err)
		os.Exit(1)
	}

	slackClient := infraslack.NewClient(cfg.Slack.BotToken, cfg.Slack.ChannelID)
	if err := slackClient.Authenticate(ctx); err != nil {
		logger.Error("failed to authenticate with slack", "error", err)
		os.Exit(1)
	}
	logger.Info("slack authentication succeeded", "channel", cfg.Slack.ChannelID)

	// Telemetry
	telemetry, err := observability.NewTelemetry(observability.ServiceName, version)
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown telemetry", "error", err)
		}
	}()

	useCaseLogger := &slogAdapter{logger: logger}
	publisher := sync.NewRetryablePublisher(slackClient, sync.DefaultRetryPolicy(), useCaseLogger)

	statusHandler := handler.NewStatusHandler()

	runSync := func(ctx context.Context) error {
		current := manager.Current()

		runCtx, cancel := context.WithTimeout(ctx, current.Sync.Timeout)
		defer cancel()

		runID := uuid.New().String()
		runLogger := logger.With("run_id", runID)

		// Rebuilt per run so reloaded sync tunables take effect.
		calendarClient := googlecal.NewClient(calendarService,
			current.Calendar.CalendarID, int64(current.Sync.MaxResults))

		runner := sync.NewRunner(slackClient, calendarClient, publisher,
			&slogAdapter{logger: runLogger},
			sync.Options{
				ScanLimit: current.Sync.ScanLimit,
				DaysAhead: current.Sync.DaysAhead,
			})

		start := time.Now()
		report, err := runner.Execute(runCtx)
		duration := time.Since(start)

		if report == nil {
			report = &entity.SyncReport{}
		}
		telemetry.Metrics.RecordSyncRun(ctx, *report, duration, err)
		statusHandler.Record(*report, duration, err)

		if err != nil && !errors.Is(err, sync.ErrPartialPublish) {
			runLogger.Error("sync run failed", "error", err, "duration", duration.String())
			return err
		}
		if err != nil {
			runLogger.Warn("sync run completed with publish failures",
				"failed", report.Failed,
				"duration", duration.String(),
			)
			return err
		}
		return nil
	}

	if *once {
		if err := runSync(ctx); err != nil {
			os.Exit(1)
		}
		logger.Info("single sync pass completed")
		return
	}

	// Loop mode: config hot reload, scheduled runs and the ops server.
	go func() {
		if err := manager.Watch(ctx, logger); err != nil {
			logger.Error("config watcher stopped", "error", err)
		}
	}()

	job := newSyncJob(func() { _ = runSync(ctx) }, logger)

	scheduler := cron.New()
	_, err = scheduler.AddJob("@every "+cfg.Sync.Interval.String(), job)
	if err != nil {
		logger.Error("failed to schedule sync", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	// First run immediately rather than waiting a full interval. Going
	// through the job keeps it serialized with scheduled runs.
	go job.Run()

	readyHandler := handler.NewReadyHandler()
	readyHandler.AddChecker("slack", slackClient)

	handlers := &server.Handlers{
		Health:  handler.NewHealthHandler(),
		Ready:   readyHandler,
		Status:  statusHandler,
		Metrics: handler.NewMetricsHandler(),
		Reload:  handler.NewReloadHandler(manager, logger),
	}

	router := server.NewRouter(handlers, telemetry.Metrics, logger)
	srv := server.New(cfg.Server, router, logger)

	logger.Info("starting calendar-bridge",
		"version", version,
		"port", cfg.Server.Port,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("calendar-bridge stopped")
}

// setupLogger creates and configures the logger.
func setupLogger(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(h)
}

// slogAdapter adapts slog.Logger to the sync.Logger interface.
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Debug(msg string, keysAndValues ...any) {
	a.logger.Debug(msg, keysAndValues...)
}

func (a *slogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Info(msg, keysAndValues...)
}

func (a *slogAdapter) Warn(msg string, keysAndValues ...any) {
	a.logger.Warn(msg, keysAndValues...)
}

func (a *slogAdapter) Error(msg string, keysAndValues ...any) {
	a.logger.Error(msg, keysAndValues...)
}

// newSyncJob wraps run in a single-flight guard. Every sync run, including
// the immediate startup run, goes through the same job so overlapping runs
// are skipped rather than racing the channel scan.
func newSyncJob(run func(), logger *slog.Logger) cron.Job {
	return cron.NewChain(
		cron.SkipIfStillRunning(&cronLogger{logger: logger}),
	).Then(cron.FuncJob(run))
}

// cronLogger adapts slog.Logger to the cron.Logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (c *cronLogger) Info(msg string, keysAndValues ...any) {
	c.logger.Info(msg, keysAndValues...)
}

func (c *cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.logger.Error(msg, append(keysAndValues, "error", err)...)
}
