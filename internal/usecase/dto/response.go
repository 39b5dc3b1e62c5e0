package dto

import "github.com/geohash-service/internal/domain"

type EncodeResponse struct {
	Geohash string `json:"geohash"`
}

type DecodeResponse struct {
	Geohash  string  `json:"geohash"`
	Lon      float64 `json:"lon"`
	Lat      float64 `json:"lat"`
	LonError float64 `json:"lon_error"`
	LatError float64 `json:"lat_error"`
}

type BatchEncodeResponse struct {
	Geohashes []string `json:"geohashes"`
	Count     int      `json:"count"`
	Threads   int      `json:"threads"`
}

type BatchDecodeResponse struct {
	Points  []domain.Coordinate `json:"points"`
	Count   int                 `json:"count"`
	Threads int                 `json:"threads"`
}
