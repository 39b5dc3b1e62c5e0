package domain

import (
	"github.com/google/uuid"

	apperrors "github.com/geohash-service/internal/pkg/errors"
)

// Операции конвертации в событиях стрима
const (
	OperationEncode = "encode"
	OperationDecode = "decode"
)

// ConversionRequestEvent - входящее событие на пакетную конвертацию
type ConversionRequestEvent struct {
	RequestID  uuid.UUID `json:"request_id"`
	Operation  string    `json:"operation"`
	Longitudes []float64 `json:"longitudes,omitempty"`
	Latitudes  []float64 `json:"latitudes,omitempty"`
	Length     int       `json:"length,omitempty"`
	Geohashes  []string  `json:"geohashes,omitempty"`
	Threads    *int      `json:"threads,omitempty"`
}

// Validate проверяет только конверт; содержимое проверяет сама конвертация
func (e *ConversionRequestEvent) Validate() error {
	if e.RequestID == uuid.Nil {
		return apperrors.ErrInvalidRequest.WithMessage("request_id is required")
	}
	switch e.Operation {
	case OperationEncode, OperationDecode:
		return nil
	default:
		return apperrors.ErrInvalidRequest.WithMessage("unknown operation %q", e.Operation)
	}
}

// ConversionDoneEvent - результат конвертации; при ошибке заполнены только Error*
type ConversionDoneEvent struct {
	RequestID    uuid.UUID              `json:"request_id"`
	Operation    string                 `json:"operation"`
	Geohashes    []string               `json:"geohashes,omitempty"`
	Points       []Coordinate           `json:"points,omitempty"`
	ErrorCode    string                 `json:"error_code,omitempty"`
	Error        string                 `json:"error,omitempty"`
	ErrorDetails map[string]interface{} `json:"error_details,omitempty"`
}

// Failed - конвертация завершилась ошибкой
func (e *ConversionDoneEvent) Failed() bool {
	return e.ErrorCode != ""
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
