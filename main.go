package main

import (
	"context"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"log"
	"net/http"
	"os/signal"
	"shipment-tracking-service/api"
	"shipment-tracking-service/audit"
	"shipment-tracking-service/config"
	"shipment-tracking-service/core"
	"shipment-tracking-service/database"
	"shipment-tracking-service/metrics"
	"shipment-tracking-service/notifications"
	"shipment-tracking-service/repositories"
	"shipment-tracking-service/tracking"
	"shipment-tracking-service/workers/carriers"
	"shipment-tracking-service/workers/milestones"
	"shipment-tracking-service/workers/notify"
	"syscall"
	"time"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := core.NewLogger(*cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	clk := clock.WallClock

	if cfg.MigrationsEnabled {
		if err := database.RunMigrations(cfg.DSN, logger); err != nil {
			logger.Fatal("Migrations failed", zap.Error(err))
		}
	}

	db, err := database.Open(cfg.DSN, clk)
	if err != nil {
		logger.Fatal("Could not open database", zap.Error(err))
	}
	repo := repositories.NewRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog, err := tracking.LoadCatalog(ctx, repo)
	if err != nil {
		logger.Fatal("Could not load milestone catalog", zap.Error(err))
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	tracker := tracking.NewTracker(repo, catalog, clk, logger, m)

	var archive audit.Archive
	if cfg.Audit.MongoURL != "" {
		mongoArchive, err := audit.ConnectMongo(ctx, cfg.Audit.MongoURL, cfg.Audit.MongoDatabase)
		if err != nil {
			logger.Fatal("Could not connect to audit archive", zap.Error(err))
		}
		defer mongoArchive.Close(context.Background())
		archive = mongoArchive
	}
	recorder := audit.NewRecorder(repo, archive, logger)
	composer := notifications.NewComposer(repo, cfg.Notifications, clk, logger, m)

	workers := []core.Worker{
		carriers.NewWorker(logger, repo, tracker, cfg, m),
		milestones.NewWorker(logger, repo, composer, clk, m),
		notify.NewComposeWorker(logger, composer),
		notify.NewSummaryWorker(logger, composer),
	}

	// Without a broker, rows stay PENDING for the external dispatch service
	if cfg.Notifications.RabbitMQURL != "" {
		publisher, err := notifications.DialRabbit(cfg.Notifications.RabbitMQURL, logger)
		if err != nil {
			logger.Fatal("Could not connect to RabbitMQ", zap.Error(err))
		}
		defer publisher.Close()
		dispatcher := notifications.NewDispatcher(repo, publisher, clk, logger, m)
		workers = append(workers, notify.NewDispatchWorker(logger, dispatcher))
	}

	orchestrator := core.NewOrchestrator(logger, workers)
	c, err := orchestrator.Start(ctx)
	if err != nil {
		logger.Fatal("Could not start workers", zap.Error(err))
	}

	server := api.NewServer(api.Options{
		Repository: repo,
		Tracker:    tracker,
		Recorder:   recorder,
		Composer:   composer,
		Clock:      clk,
		Logger:     logger,
		Metrics:    m,
		Gatherer:   prometheus.DefaultGatherer,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server stopped", zap.Error(err))
			stop()
		}
	}()

	// Wait for termination signal to exit gracefully
	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", zap.Error(err))
	}
	<-c.Stop().Done()
}
