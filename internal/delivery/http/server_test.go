package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/geohash-service/internal/config"
	"github.com/geohash-service/internal/delivery/http/handler"
	"github.com/geohash-service/internal/usecase"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string                 `json:"code"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total   int `json:"total"`
		Threads int `json:"threads"`
	} `json:"meta"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{BodyLimit: 4 * 1024 * 1024},
		Batch: config.BatchConfig{
			Threads:         2,
			MaxThreads:      8,
			MaxSize:         100,
			ChunksPerThread: 2,
		},
	}
	logger := zap.NewNop()

	uc, err := usecase.NewGeohashUseCase(cfg.Batch, logger)
	require.NoError(t, err)
	t.Cleanup(uc.Close)

	return NewServer(cfg, logger, handler.NewGeohashHandler(uc, logger))
}

func do(t *testing.T, s *Server, method, path, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func TestServer_Encode(t *testing.T) {
	s := newTestServer(t)

	status, env := do(t, s, fiber.MethodPost, "/api/v1/encode", `{"lon":-72.747917,"lat":45.207615,"length":5}`)
	require.Equal(t, fiber.StatusOK, status)

	var data struct {
		Geohash string `json:"geohash"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "f2h30", data.Geohash)
}

func TestServer_EncodeErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{name: "longitude out of range", body: `{"lon":200,"lat":0,"length":5}`, status: 400, code: "INVALID_COORDINATE"},
		{name: "zero length", body: `{"lon":0,"lat":0,"length":0}`, status: 400, code: "INVALID_LENGTH"},
		{name: "missing latitude", body: `{"lon":0,"length":5}`, status: 400, code: "INVALID_REQUEST"},
		{name: "malformed body", body: `{"lon":`, status: 400, code: "INVALID_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, s, fiber.MethodPost, "/api/v1/encode", tt.body)
			assert.Equal(t, tt.status, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestServer_Decode(t *testing.T) {
	s := newTestServer(t)

	status, env := do(t, s, fiber.MethodGet, "/api/v1/decode/f2h30", "")
	require.Equal(t, fiber.StatusOK, status)

	var data struct {
		Lon      float64 `json:"lon"`
		Lat      float64 `json:"lat"`
		LonError float64 `json:"lon_error"`
		LatError float64 `json:"lat_error"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, -72.75146484375, data.Lon)
	assert.Equal(t, 45.19775390625, data.Lat)
	assert.Equal(t, 0.02197265625, data.LonError)
	assert.Equal(t, 0.02197265625, data.LatError)

	status, env = do(t, s, fiber.MethodGet, "/api/v1/decode/f2ha0", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_GEOHASH_CHARACTER", env.Error.Code)
}

func TestServer_BatchEncode(t *testing.T) {
	s := newTestServer(t)

	status, env := do(t, s, fiber.MethodPost, "/api/v1/batch/encode",
		`{"longitudes":[-76.6,-80.8501],"latitudes":[47.1,35.204],"length":4,"threads":2}`)
	require.Equal(t, fiber.StatusOK, status)

	var data struct {
		Geohashes []string `json:"geohashes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, []string{"f23e", "dnq8"}, data.Geohashes)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 2, env.Meta.Total)
	assert.Equal(t, 2, env.Meta.Threads)

	status, env = do(t, s, fiber.MethodPost, "/api/v1/batch/encode",
		`{"longitudes":[1,2],"latitudes":[1],"length":5}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "LENGTH_MISMATCH", env.Error.Code)

	status, env = do(t, s, fiber.MethodPost, "/api/v1/batch/encode",
		`{"longitudes":[1],"latitudes":[1],"length":5,"threads":0}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_THREAD_COUNT", env.Error.Code)
}

func TestServer_BatchDecode(t *testing.T) {
	s := newTestServer(t)

	status, env := do(t, s, fiber.MethodPost, "/api/v1/batch/decode", `{"geohashes":["f2h30","f2h30"]}`)
	require.Equal(t, fiber.StatusOK, status)

	var data struct {
		Points []struct {
			Lon float64 `json:"lon"`
			Lat float64 `json:"lat"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Points, 2)
	assert.Equal(t, -72.75146484375, data.Points[1].Lon)
	assert.Equal(t, 45.19775390625, data.Points[1].Lat)

	status, env = do(t, s, fiber.MethodPost, "/api/v1/batch/decode", `{"geohashes":["f2h30","!!!"]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_GEOHASH_CHARACTER", env.Error.Code)
	assert.Equal(t, float64(1), env.Error.Details["index"])
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/health", nil)
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
