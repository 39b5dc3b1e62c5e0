package errors

import "net/http"

const (
	CodeInvalidCoordinate        = "INVALID_COORDINATE"
	CodeInvalidLength            = "INVALID_LENGTH"
	CodeInvalidGeohashCharacter  = "INVALID_GEOHASH_CHARACTER"
	CodeEmptyInput               = "EMPTY_INPUT"
	CodeLengthMismatch           = "LENGTH_MISMATCH"
	CodeInvalidThreadCount       = "INVALID_THREAD_COUNT"
	CodeThreadPoolCreationFailed = "THREAD_POOL_CREATION_FAILED"
	CodePoolClosed               = "POOL_CLOSED"
	CodeBatchTooLarge            = "BATCH_TOO_LARGE"
	CodeInvalidRequest           = "INVALID_REQUEST"
	CodeInternalServer           = "INTERNAL_SERVER_ERROR"
)

// Ошибки конвертации
var (
	ErrInvalidCoordinate = New(
		CodeInvalidCoordinate,
		"Longitude must be within [-180, 180] and latitude within [-90, 90]",
		http.StatusBadRequest,
	)

	ErrInvalidLength = New(
		CodeInvalidLength,
		"Invalid geohash length",
		http.StatusBadRequest,
	)

	ErrInvalidGeohashCharacter = New(
		CodeInvalidGeohashCharacter,
		"Geohash contains a character outside the base-32 alphabet",
		http.StatusBadRequest,
	)

	ErrEmptyInput = New(
		CodeEmptyInput,
		"Geohash must not be empty",
		http.StatusBadRequest,
	)
)

// Ошибки пакетного выполнения
var (
	ErrLengthMismatch = New(
		CodeLengthMismatch,
		"Longitude and latitude sequences differ in length",
		http.StatusBadRequest,
	)

	ErrInvalidThreadCount = New(
		CodeInvalidThreadCount,
		"Thread count must be a positive integer",
		http.StatusBadRequest,
	)

	ErrThreadPoolCreationFailed = New(
		CodeThreadPoolCreationFailed,
		"Failed to create worker pool",
		http.StatusInternalServerError,
	)

	ErrPoolClosed = New(
		CodePoolClosed,
		"Worker pool is closed",
		http.StatusServiceUnavailable,
	)

	ErrBatchTooLarge = New(
		CodeBatchTooLarge,
		"Batch exceeds the configured maximum size",
		http.StatusRequestEntityTooLarge,
	)
)

var (
	ErrInvalidRequest = New(
		CodeInvalidRequest,
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		CodeInternalServer,
		"Internal server error",
		http.StatusInternalServerError,
	)
)
