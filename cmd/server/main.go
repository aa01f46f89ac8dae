package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"profitgo/internal/delivery"
	"profitgo/internal/domain"
	"profitgo/internal/infrastructure"
	"profitgo/internal/profit"
	"profitgo/internal/usecase"
	"profitgo/pkg/config"
	"profitgo/pkg/logger"
	"profitgo/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.WithFields(map[string]any{
		"port":            cfg.Server.Port,
		"history_backend": cfg.History.Backend,
	}).Info("Starting server")

	m := metrics.New()

	repo, closeRepo, err := openHistory(cfg.History, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to open history store")
	}
	defer closeRepo.Close()

	var sink domain.ReportSink
	if cfg.Export.SinkURL != "" {
		sink = infrastructure.NewSinkClient(cfg.Export.SinkURL, cfg.Export.SinkSecret,
			cfg.Export.RequestTimeout, cfg.Export.RateLimitPerSecond, log, m)
	}

	historyService := usecase.NewHistoryService(repo, sink, log, m)

	thresholds := profit.Thresholds{
		LowProfit:  cfg.Platform.Risk.LowProfit,
		HighRefund: cfg.Platform.Risk.HighRefund,
		HighCost:   cfg.Platform.Risk.HighCost,
		HighAdCost: cfg.Platform.Risk.HighAdCost,
	}
	analysisService := usecase.NewAnalysisService(historyService, thresholds,
		profit.CommissionSchedule(cfg.Platform.CommissionRates), log, m,
		cfg.Analysis.WorkerPoolSize, cfg.Analysis.MaxBatchRows)

	gin.SetMode(gin.ReleaseMode)
	handlers := delivery.NewHTTPHandlers(analysisService, historyService, log, cfg.Analysis.DefaultOrderCount)
	router := delivery.NewHTTPRouter(handlers, log, m, prometheus.DefaultGatherer, cfg.Server.RequestTimeout)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("Listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openHistory(cfg config.HistoryConfig, log *logger.Logger) (domain.HistoryRepository, io.Closer, error) {
	switch cfg.Backend {
	case "memory":
		return infrastructure.NewMemoryHistoryRepository(log), nopCloser{}, nil

	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		db, err := infrastructure.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := infrastructure.MigrateSQLite(db, log); err != nil {
			db.Close()
			return nil, nil, err
		}
		return infrastructure.NewSQLiteHistoryRepository(db, log), db, nil

	default:
		repo, err := infrastructure.NewJSONHistoryRepository(cfg.Path, log)
		if err != nil {
			return nil, nil, err
		}
		return repo, nopCloser{}, nil
	}
}
