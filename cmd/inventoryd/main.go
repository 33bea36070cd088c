package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Pissaia92/assetforge-plataform/internal/api"
	"github.com/Pissaia92/assetforge-plataform/internal/config"
	"github.com/Pissaia92/assetforge-plataform/internal/db"
	"github.com/Pissaia92/assetforge-plataform/internal/events"
	"github.com/Pissaia92/assetforge-plataform/internal/metrics"
	"github.com/Pissaia92/assetforge-plataform/internal/repo"
	"github.com/Pissaia92/assetforge-plataform/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.ServiceName, cfg.LogLevel)
	defer log.Sync()

	log.Info("inventory service starting")

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	repository := repo.NewAssetRepository(database, log)
	m := metrics.New(cfg.ServiceName, prometheus.DefaultRegisterer)

	// The consumer runs for the whole service lifetime and is cancelled
	// cooperatively at shutdown.
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	consumer := events.NewConsumer(cfg.RabbitMQURL, cfg.ServiceName, repository, m, log)

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := consumer.Run(consumerCtx); err != nil {
			log.Error("consumer exited with error", zap.Error(err))
		}
	}()

	go refreshAssetGauge(consumerCtx, repository, m)

	handler := api.NewHandler(repository, log)
	router := api.NewRouter(handler, m, cfg, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown error", zap.Error(err))
	}

	// Cancel the consumer and wait for it to finish cleanup before exit.
	cancelConsumer()
	<-consumerDone

	log.Info("server stopped")
}

// refreshAssetGauge periodically updates the assets_by_status gauge.
func refreshAssetGauge(ctx context.Context, repository *repo.AssetRepository, m *metrics.Metrics) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			counts, err := repository.CountByStatus(ctx)
			if err != nil {
				continue
			}
			for status, count := range counts {
				m.AssetsByStatus.WithLabelValues(string(status)).Set(float64(count))
			}
		}
	}
}
