package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/geohash-service/internal/pkg/errors"
	"github.com/geohash-service/internal/pkg/utils"
	"github.com/geohash-service/internal/pkg/validator"
	"github.com/geohash-service/internal/usecase"
	"github.com/geohash-service/internal/usecase/dto"
)

// GeohashHandler - обработчик запросов кодирования/декодирования
type GeohashHandler struct {
	geohashUC *usecase.GeohashUseCase
	logger    *zap.Logger
}

// NewGeohashHandler - создание нового GeohashHandler
func NewGeohashHandler(geohashUC *usecase.GeohashUseCase, logger *zap.Logger) *GeohashHandler {
	return &GeohashHandler{
		geohashUC: geohashUC,
		logger:    logger,
	}
}

// Encode - POST /api/v1/encode
func (h *GeohashHandler) Encode(c *fiber.Ctx) error {
	var req dto.EncodeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.Wrap(err))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.geohashUC.Encode(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// Decode - GET /api/v1/decode/:geohash
func (h *GeohashHandler) Decode(c *fiber.Ctx) error {
	req := dto.DecodeRequest{Geohash: c.Params("geohash")}

	result, err := h.geohashUC.Decode(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// BatchEncode - POST /api/v1/batch/encode
func (h *GeohashHandler) BatchEncode(c *fiber.Ctx) error {
	var req dto.BatchEncodeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.Wrap(err))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	start := time.Now()
	result, err := h.geohashUC.EncodeBatch(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.Count,
		Threads:  result.Threads,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}

// BatchDecode - POST /api/v1/batch/decode
func (h *GeohashHandler) BatchDecode(c *fiber.Ctx) error {
	var req dto.BatchDecodeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.Wrap(err))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	start := time.Now()
	result, err := h.geohashUC.DecodeBatch(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.Count,
		Threads:  result.Threads,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}
