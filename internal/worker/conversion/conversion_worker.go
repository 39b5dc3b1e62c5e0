package conversion

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/geohash-service/internal/domain"
	"github.com/geohash-service/internal/domain/repository"
	apperrors "github.com/geohash-service/internal/pkg/errors"
	"github.com/geohash-service/internal/usecase/dto"
	"github.com/geohash-service/internal/worker"
)

// Converter - пакетная конвертация, которую выполняет воркер
type Converter interface {
	EncodeBatch(ctx context.Context, req dto.BatchEncodeRequest) (*dto.BatchEncodeResponse, error)
	DecodeBatch(ctx context.Context, req dto.BatchDecodeRequest) (*dto.BatchDecodeResponse, error)
}

// ConversionWorker читает запросы из входного стрима и публикует результаты в выходной
type ConversionWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	converter  Converter
	streamIn   string
	streamOut  string
}

// NewConversionWorker создает новый ConversionWorker
func NewConversionWorker(
	streamRepo repository.StreamRepository,
	converter Converter,
	consumerGroup, streamIn, streamOut string,
	logger *zap.Logger,
) *ConversionWorker {
	return &ConversionWorker{
		BaseWorker: worker.NewBaseWorker("geohash-conversion", consumerGroup, logger),
		streamRepo: streamRepo,
		converter:  converter,
		streamIn:   streamIn,
		streamOut:  streamOut,
	}
}

// Start запускает воркер
func (w *ConversionWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting ConversionWorker",
		zap.String("stream_in", w.streamIn),
		zap.String("stream_out", w.streamOut),
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()))

	if err := w.streamRepo.CreateConsumerGroup(ctx, w.streamIn, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := w.streamRepo.ConsumeStream(ctx, w.streamIn, w.ConsumerGroup(), w.ConsumerName())
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case msg, ok := <-messages:
			if !ok {
				logger.Info("Stream closed")
				return nil
			}
			if err := w.handleMessage(ctx, msg); err != nil {
				logger.Error("Failed to handle message",
					zap.String("message_id", msg.ID),
					zap.Error(err))
			}
		}
	}
}

// handleMessage конвертирует одно сообщение. Сообщение подтверждается только после
// публикации результата, иначе остаётся в PEL для повторной доставки.
func (w *ConversionWorker) handleMessage(ctx context.Context, msg domain.StreamMessage) error {
	logger := w.Logger()

	var event domain.ConversionRequestEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		logger.Warn("Failed to parse message, skipping",
			zap.String("message_id", msg.ID),
			zap.Error(err))
		return w.streamRepo.AckMessage(ctx, w.streamIn, w.ConsumerGroup(), msg.ID)
	}

	done := w.convert(ctx, &event)

	if err := w.streamRepo.PublishToStream(ctx, w.streamOut, done); err != nil {
		return fmt.Errorf("failed to publish result for %s: %w", event.RequestID, err)
	}

	if done.Failed() {
		logger.Info("Conversion failed",
			zap.String("request_id", event.RequestID.String()),
			zap.String("operation", event.Operation),
			zap.String("error_code", done.ErrorCode))
	} else {
		logger.Debug("Conversion done",
			zap.String("request_id", event.RequestID.String()),
			zap.String("operation", event.Operation))
	}

	return w.streamRepo.AckMessage(ctx, w.streamIn, w.ConsumerGroup(), msg.ID)
}

func (w *ConversionWorker) convert(ctx context.Context, event *domain.ConversionRequestEvent) *domain.ConversionDoneEvent {
	done := &domain.ConversionDoneEvent{
		RequestID: event.RequestID,
		Operation: event.Operation,
	}

	if err := event.Validate(); err != nil {
		setError(done, err)
		return done
	}

	switch event.Operation {
	case domain.OperationEncode:
		resp, err := w.converter.EncodeBatch(ctx, dto.BatchEncodeRequest{
			Longitudes: event.Longitudes,
			Latitudes:  event.Latitudes,
			Length:     event.Length,
			Threads:    event.Threads,
		})
		if err != nil {
			setError(done, err)
			return done
		}
		done.Geohashes = resp.Geohashes

	case domain.OperationDecode:
		resp, err := w.converter.DecodeBatch(ctx, dto.BatchDecodeRequest{
			Geohashes: event.Geohashes,
			Threads:   event.Threads,
		})
		if err != nil {
			setError(done, err)
			return done
		}
		done.Points = resp.Points
	}

	return done
}

func setError(done *domain.ConversionDoneEvent, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.ErrInternalServer.Wrap(err)
	}
	done.ErrorCode = appErr.Code
	done.Error = appErr.Message
	done.ErrorDetails = appErr.Details
}
