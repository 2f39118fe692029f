package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dosewise/dosewise/internal/config"
	v1 "github.com/dosewise/dosewise/internal/handler/v1"
	"github.com/dosewise/dosewise/internal/repository"
	"github.com/dosewise/dosewise/internal/service"
	"github.com/dosewise/dosewise/pkg/database"
	"github.com/dosewise/dosewise/pkg/logger"
	"github.com/dosewise/dosewise/pkg/metrics"
	"github.com/dosewise/dosewise/pkg/tracer"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	medicineRepo := repository.NewMedicineRepository(db)
	protocolRepo := repository.NewProtocolRepository(db)
	stockRepo := repository.NewStockRepository(db)
	doseRepo := repository.NewDoseLogRepository(db)
	eventRepo := repository.NewEventRepository(db)

	events := service.NewEventLogService(eventRepo, log)
	defer events.Shutdown()

	stockSvc := service.NewStockService(stockRepo, events, log)
	svcs := v1.Services{
		Medicines: service.NewMedicineService(medicineRepo, protocolRepo, events, log),
		Protocols: service.NewProtocolService(protocolRepo, medicineRepo, events, log),
		Stock:     stockSvc,
		Doses:     service.NewDoseLogService(doseRepo, protocolRepo, stockSvc, events, log),
		Analytics: service.NewAnalyticsService(doseRepo, protocolRepo, log),
		Reminders: service.NewReminderService(protocolRepo, medicineRepo, stockRepo, cfg.Reminder.LookAhead, log),
	}

	m := metrics.NewCollector("dosewise")
	router := v1.NewRouter(cfg, svcs, m, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
