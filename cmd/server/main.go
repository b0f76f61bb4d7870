package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/dmarinho2/prt-fiscal/internal/config"
	"github.com/dmarinho2/prt-fiscal/internal/report"
	"github.com/dmarinho2/prt-fiscal/internal/repository/mongodb"
	"github.com/dmarinho2/prt-fiscal/internal/repository/supabase"
	"github.com/dmarinho2/prt-fiscal/internal/scheduler"
	"github.com/dmarinho2/prt-fiscal/internal/server/handlers"
	"github.com/dmarinho2/prt-fiscal/internal/server/router"
	recordsvc "github.com/dmarinho2/prt-fiscal/internal/service/records"
	reportsvc "github.com/dmarinho2/prt-fiscal/internal/service/reports"
	"github.com/dmarinho2/prt-fiscal/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	backend := supabase.NewClient(cfg.Supabase, logger.Named(baseLogger, "repo.supabase"))

	archive, err := mongodb.NewMongoDBArchive(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb archive", zap.Error(err))
	}
	defer func() {
		if err := archive.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	composer := report.NewComposer(cfg.Report.OrgName, cfg.Report.DeptName, logger.Named(baseLogger, "report.composer"))

	recordsSvc := recordsvc.NewService(backend, logger.Named(baseLogger, "svc.records"))
	reportsSvc := reportsvc.NewService(backend, archive, composer, logger.Named(baseLogger, "svc.reports"))

	recordsHandler := handlers.NewRecordsHandler(recordsSvc, logger.Named(baseLogger, "handlers.records"))
	reportsHandler := handlers.NewReportsHandler(reportsSvc, logger.Named(baseLogger, "handlers.reports"))
	engine := router.New(recordsHandler, reportsHandler, backend, logger.Named(baseLogger, "router"))

	// Initialize Scheduler
	sched := scheduler.NewScheduler(*cfg, reportsSvc, logger.Named(baseLogger, "scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
