package dto

// EncodeRequest - запрос на кодирование одной точки
type EncodeRequest struct {
	Lon    *float64 `json:"lon" validate:"required"`
	Lat    *float64 `json:"lat" validate:"required"`
	Length int      `json:"length"`
}

// DecodeRequest - запрос на декодирование одного геохэша
type DecodeRequest struct {
	Geohash string `json:"geohash"`
}

// BatchEncodeRequest - пакетное кодирование; longitudes[i] и latitudes[i] образуют пару
type BatchEncodeRequest struct {
	Longitudes []float64 `json:"longitudes" validate:"required"`
	Latitudes  []float64 `json:"latitudes" validate:"required"`
	Length     int       `json:"length"`
	Threads    *int      `json:"threads,omitempty"`
}

// BatchDecodeRequest - пакетное декодирование
type BatchDecodeRequest struct {
	Geohashes []string `json:"geohashes" validate:"required"`
	Threads   *int     `json:"threads,omitempty"`
}
