package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/geohash-service/internal/config"
	"github.com/geohash-service/internal/pkg/logger"
	redisRepo "github.com/geohash-service/internal/repository/redis"
	"github.com/geohash-service/internal/usecase"
	"github.com/geohash-service/internal/worker"
	"github.com/geohash-service/internal/worker/conversion"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "geohash-worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Geohash Conversion Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.String("stream_in", cfg.Worker.StreamIn),
		zap.String("stream_out", cfg.Worker.StreamOut),
		zap.Int("batch_threads", cfg.Batch.Threads))

	// 3. Connect to Redis
	redisClient, err := redisRepo.NewClient(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	streamRepo := redisRepo.NewStreamRepository(redisClient.Redis(), redisRepo.StreamOptions{
		Count: cfg.Worker.ReadCount,
		Block: cfg.Worker.ReadBlock,
	}, log)

	// 4. Use case
	geohashUC, err := usecase.NewGeohashUseCase(cfg.Batch, log)
	if err != nil {
		log.Fatal("Failed to initialize geohash use case", zap.Error(err))
	}
	defer geohashUC.Close()

	// 5. Workers
	conversionWorker := conversion.NewConversionWorker(
		streamRepo,
		geohashUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.StreamIn,
		cfg.Worker.StreamOut,
		log,
	)

	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	workerManager.Register(conversionWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
