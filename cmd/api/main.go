package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/geohash-service/internal/config"
	httpDelivery "github.com/geohash-service/internal/delivery/http"
	"github.com/geohash-service/internal/delivery/http/handler"
	"github.com/geohash-service/internal/pkg/logger"
	"github.com/geohash-service/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "geohash-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Geohash Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.Int("batch_threads", cfg.Batch.Threads),
		zap.Bool("batch_shared_pool", cfg.Batch.SharedPool),
	)

	// 3. Use case (shared pool живет до остановки сервиса)
	geohashUC, err := usecase.NewGeohashUseCase(cfg.Batch, log)
	if err != nil {
		log.Fatal("Failed to initialize geohash use case", zap.Error(err))
	}
	defer geohashUC.Close()

	// 4. HTTP
	geohashHandler := handler.NewGeohashHandler(geohashUC, log)
	server := httpDelivery.NewServer(cfg, log, geohashHandler)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 5. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
