package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/geohash-service/internal/batch"
	"github.com/geohash-service/internal/config"
	"github.com/geohash-service/internal/domain"
	"github.com/geohash-service/internal/geohash"
	"github.com/geohash-service/internal/metrics"
	apperrors "github.com/geohash-service/internal/pkg/errors"
	"github.com/geohash-service/internal/usecase/dto"
)

// GeohashUseCase связывает кодек и пакетный исполнитель с настройками сервиса.
type GeohashUseCase struct {
	cfg    config.BatchConfig
	pool   *batch.Pool
	logger *zap.Logger
}

// NewGeohashUseCase создает use case. При cfg.SharedPool здесь запускается один пул,
// который используют все пакетные вызовы до Close.
func NewGeohashUseCase(cfg config.BatchConfig, logger *zap.Logger) (*GeohashUseCase, error) {
	uc := &GeohashUseCase{
		cfg:    cfg,
		logger: logger,
	}

	if cfg.SharedPool {
		size := uc.defaultThreads()
		pool, err := batch.NewPool(size)
		if err != nil {
			return nil, err
		}
		uc.pool = pool
		logger.Info("Shared worker pool started", zap.Int("threads", size))
	}

	return uc, nil
}

// Close останавливает общий пул, если он есть
func (uc *GeohashUseCase) Close() {
	if uc.pool != nil {
		uc.pool.Close()
		uc.logger.Info("Shared worker pool stopped")
	}
}

// Encode кодирует одну точку
func (uc *GeohashUseCase) Encode(ctx context.Context, req dto.EncodeRequest) (*dto.EncodeResponse, error) {
	if req.Lon == nil || req.Lat == nil {
		return nil, apperrors.ErrInvalidRequest.WithMessage("lon and lat are required")
	}
	hash, err := geohash.Encode(domain.Coordinate{X: *req.Lon, Y: *req.Lat}, req.Length)
	if err != nil {
		uc.recordError(metrics.OpEncode, err)
		return nil, err
	}
	return &dto.EncodeResponse{Geohash: hash}, nil
}

// Decode декодирует один геохэш в центр ячейки и погрешности
func (uc *GeohashUseCase) Decode(ctx context.Context, req dto.DecodeRequest) (*dto.DecodeResponse, error) {
	point, err := geohash.Decode(req.Geohash)
	if err != nil {
		uc.recordError(metrics.OpDecode, err)
		return nil, err
	}
	return &dto.DecodeResponse{
		Geohash:  req.Geohash,
		Lon:      point.X,
		Lat:      point.Y,
		LonError: point.LonError,
		LatError: point.LatError,
	}, nil
}

// EncodeBatch кодирует пакет точек; при ошибке любого элемента результата нет
func (uc *GeohashUseCase) EncodeBatch(ctx context.Context, req dto.BatchEncodeRequest) (*dto.BatchEncodeResponse, error) {
	if len(req.Longitudes) != len(req.Latitudes) {
		err := apperrors.ErrLengthMismatch.WithDetails(map[string]interface{}{
			"longitudes": len(req.Longitudes),
			"latitudes":  len(req.Latitudes),
		})
		uc.recordError(metrics.OpEncode, err)
		return nil, err
	}

	opts, threads, err := uc.options(len(req.Longitudes), req.Threads)
	if err != nil {
		uc.recordError(metrics.OpEncode, err)
		return nil, err
	}

	start := time.Now()
	hashes, err := batch.EncodeMany(ctx, req.Longitudes, req.Latitudes, req.Length, opts...)
	uc.observe(metrics.OpEncode, len(req.Longitudes), threads, start, err)
	if err != nil {
		return nil, err
	}

	return &dto.BatchEncodeResponse{
		Geohashes: hashes,
		Count:     len(hashes),
		Threads:   threads,
	}, nil
}

// DecodeBatch декодирует пакет геохэшей в центры ячеек
func (uc *GeohashUseCase) DecodeBatch(ctx context.Context, req dto.BatchDecodeRequest) (*dto.BatchDecodeResponse, error) {
	opts, threads, err := uc.options(len(req.Geohashes), req.Threads)
	if err != nil {
		uc.recordError(metrics.OpDecode, err)
		return nil, err
	}

	start := time.Now()
	points, err := batch.DecodeMany(ctx, req.Geohashes, opts...)
	uc.observe(metrics.OpDecode, len(req.Geohashes), threads, start, err)
	if err != nil {
		return nil, err
	}

	return &dto.BatchDecodeResponse{
		Points:  points,
		Count:   len(points),
		Threads: threads,
	}, nil
}

// options - опции batch из переопределения в запросе и настроек сервиса
func (uc *GeohashUseCase) options(size int, override *int) ([]batch.Option, int, error) {
	if size > uc.cfg.MaxSize {
		return nil, 0, apperrors.ErrBatchTooLarge.WithDetails(map[string]interface{}{
			"size": size,
			"max":  uc.cfg.MaxSize,
		})
	}

	var opts []batch.Option
	if uc.cfg.ChunksPerThread > 0 {
		opts = append(opts, batch.WithChunksPerThread(uc.cfg.ChunksPerThread))
	}

	if override != nil {
		if *override > uc.cfg.MaxThreads {
			return nil, 0, apperrors.ErrInvalidThreadCount.WithDetails(map[string]interface{}{
				"threads": *override,
				"max":     uc.cfg.MaxThreads,
			})
		}
		opts = append(opts, batch.WithThreads(*override))
	}

	if uc.pool != nil {
		opts = append(opts, batch.WithPool(uc.pool))
	} else if override == nil {
		opts = append(opts, batch.WithThreads(uc.defaultThreads()))
	}

	threads, err := batch.ResolveThreads(opts...)
	if err != nil {
		return nil, 0, err
	}
	return opts, threads, nil
}

func (uc *GeohashUseCase) defaultThreads() int {
	if uc.cfg.Threads > 0 {
		return uc.cfg.Threads
	}
	threads := batch.PhysicalCores()
	if uc.cfg.MaxThreads > 0 && threads > uc.cfg.MaxThreads {
		threads = uc.cfg.MaxThreads
	}
	return threads
}

func (uc *GeohashUseCase) observe(op string, size, threads int, start time.Time, err error) {
	elapsed := time.Since(start)
	metrics.BatchDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	metrics.BatchSize.WithLabelValues(op).Observe(float64(size))
	metrics.PoolThreads.WithLabelValues(op).Set(float64(threads))

	if err != nil {
		uc.recordError(op, err)
		uc.logger.Warn("Batch conversion failed",
			zap.String("operation", op),
			zap.Int("size", size),
			zap.Int("threads", threads),
			zap.Error(err))
		return
	}

	uc.logger.Debug("Batch conversion finished",
		zap.String("operation", op),
		zap.Int("size", size),
		zap.Int("threads", threads),
		zap.Duration("elapsed", elapsed))
}

func (uc *GeohashUseCase) recordError(op string, err error) {
	code := apperrors.CodeInternalServer
	if appErr, ok := apperrors.As(err); ok {
		code = appErr.Code
	}
	metrics.ConversionErrors.WithLabelValues(op, code).Inc()
}
