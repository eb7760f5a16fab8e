// Package main provides the entry point for the signals server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/bet-signals/internal/api"
	"github.com/yourusername/bet-signals/internal/config"
	"github.com/yourusername/bet-signals/internal/database"
	"github.com/yourusername/bet-signals/internal/health"
	"github.com/yourusername/bet-signals/internal/logger"
	"github.com/yourusername/bet-signals/internal/metrics"
	"github.com/yourusername/bet-signals/internal/models"
	"github.com/yourusername/bet-signals/internal/notifier"
	"github.com/yourusername/bet-signals/internal/rowsource"
	"github.com/yourusername/bet-signals/internal/scheduler"
	"github.com/yourusername/bet-signals/internal/service"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "signals-server",
		Short: "Serves aggregated betting signal views and upcoming-match alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	rootCmd.Flags().StringVar(&configPath, "config", "config/config.yaml", "path to config file")

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("signals-server: %v", err)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("loading secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.IsProduction())
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"source":      cfg.Source.Kind,
		"version":     version,
	}).Info("Signals server starting")

	metrics.InitRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source, cleanup, err := buildSource(ctx, cfg, appLog)
	if err != nil {
		return err
	}
	defer cleanup()

	store := service.NewSnapshotStore()
	aggregator := service.NewAggregator(cfg.Aggregation.StakeUnit, cfg.Aggregation.WindowDays)
	refresher := service.NewRefresher(
		source,
		service.NewNormalizer(appLog),
		aggregator,
		store,
		appLog,
	)

	var watcher *notifier.Watcher
	if cfg.Notifier.Enabled {
		watcher, err = buildWatcher(cfg, appLog)
		if err != nil {
			return err
		}
		refresher.OnPending(func(pending []models.MatchRecord) {
			watcher.UpdateBets(ctx, pending)
		})
		go watcher.Run(ctx)
	}

	// First refresh before serving traffic; a failure is logged, not fatal,
	// so the server can come up while the source is flaky.
	if err := refresher.Refresh(ctx); err != nil {
		appLog.WithError(err).Warn("Initial refresh failed, serving without data until next cycle")
	}

	sched := scheduler.NewScheduler(refresher, appLog)
	if err := sched.ScheduleRefresh(cfg.PollInterval()); err != nil {
		return fmt.Errorf("scheduling refresh: %w", err)
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	if cfg.ChangeFeed.Enabled {
		feed := rowsource.NewChangeFeed(cfg.ChangeFeed.URL, func(ev rowsource.ChangeEvent) {
			appLog.WithFields(logrus.Fields{
				"event": ev.Event,
				"table": ev.Table,
			}).Debug("Change event received, triggering refresh")
			if err := refresher.Refresh(ctx); err != nil && !errors.Is(err, models.ErrRefreshActive) {
				appLog.WithError(err).Warn("Change-triggered refresh failed")
			}
		}, appLog)
		go feed.Run(ctx)
	}

	healthSrv := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     version,
		Commit:      commit,
		Port:        fmt.Sprintf("%d", cfg.Server.HealthPort),
		Logger:      appLog,
		Source:      source,
	})
	if err := healthSrv.Start(ctx); err != nil {
		return fmt.Errorf("starting health server: %w", err)
	}
	healthSrv.SetReady(true)

	apiSrv := api.NewServer(store, aggregator, cfg, appLog)
	apiErr := make(chan error, 1)
	go func() {
		apiErr <- apiSrv.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig.String()).Info("Shutdown signal received")
	case err := <-apiErr:
		if err != nil {
			appLog.WithError(err).Error("API server failed")
		}
	}

	healthSrv.SetReady(false)
	cancel()
	time.Sleep(2 * time.Second)

	appLog.Info("Signals server shut down")
	return nil
}

// buildSource constructs the configured row source. The cleanup function
// releases whatever backend resources the source holds.
func buildSource(ctx context.Context, cfg *config.Config, appLog *logrus.Logger) (rowsource.RowSource, func(), error) {
	switch cfg.Source.Kind {
	case config.SourceKindSheet:
		httpCfg := rowsource.DefaultHTTPClientConfig()
		if cfg.Sheet.TimeoutSeconds > 0 {
			httpCfg.Timeout = time.Duration(cfg.Sheet.TimeoutSeconds) * time.Second
		}
		if cfg.Sheet.MaxRetries > 0 {
			httpCfg.MaxRetries = cfg.Sheet.MaxRetries
		}
		if cfg.Sheet.RateLimit > 0 {
			httpCfg.RateLimit = cfg.Sheet.RateLimit
		}
		client := rowsource.NewRateLimitedHTTPClient(httpCfg, appLog)
		return rowsource.NewSheetSource(cfg.Sheet.URL, client, appLog), func() {}, nil

	case config.SourceKindPostgres:
		db, err := database.NewDB(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		src := rowsource.NewPostgresSource(db, cfg.Database.Table, appLog)
		return src, func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

// buildWatcher assembles the notified store and alert sinks per config.
func buildWatcher(cfg *config.Config, appLog *logrus.Logger) (*notifier.Watcher, error) {
	var store notifier.NotifiedStore
	switch cfg.Notifier.Store {
	case config.NotifiedStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = notifier.NewRedisStore(client, time.Duration(cfg.Redis.TTLHours)*time.Hour)
	default:
		store = notifier.NewMemoryStore()
	}

	sinks := []notifier.AlertSink{notifier.NewLogSink(appLog)}
	if cfg.Telegram.Enabled {
		tg, err := notifier.NewTelegramSink(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			return nil, fmt.Errorf("creating telegram sink: %w", err)
		}
		sinks = append(sinks, tg)
	}

	return notifier.NewWatcher(store, sinks, cfg.Lookahead(), cfg.NotifierTick(), appLog), nil
}
