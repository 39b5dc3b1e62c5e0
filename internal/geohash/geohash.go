// Package geohash - кодирование координат в base-32 геохэш и обратно.
//
// Долгота берется из отрезка [-180, 180], широта из [-90, 90]; оба конца допустимы в Encode.
// При делении пополам значение, равное середине, уходит в верхнюю половину, поэтому
// верхние границы (180 и 90) попадают в последнюю ячейку своей оси.
package geohash

import (
	"github.com/geohash-service/internal/domain"
	apperrors "github.com/geohash-service/internal/pkg/errors"
)

// Alphabet - base-32 алфавит геохэша (без a, i, l, o)
const Alphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

const (
	// MaxLength - максимальная длина для Encode; дальше 20 символов float64 деление не уточняет ячейку
	MaxLength   = 20
	bitsPerChar = 5
)

var decodeTable [128]int8

func init() {
	for i := range decodeTable {
		decodeTable[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		decodeTable[Alphabet[i]] = int8(i)
	}
}

func world() domain.Box {
	return domain.Box{
		Lon: domain.Range{Min: domain.MinLongitude, Max: domain.MaxLongitude},
		Lat: domain.Range{Min: domain.MinLatitude, Max: domain.MaxLatitude},
	}
}

// ValidateLength проверяет, что длина лежит в [1, MaxLength]
func ValidateLength(length int) error {
	if length < 1 || length > MaxLength {
		return apperrors.ErrInvalidLength.WithDetails(map[string]interface{}{
			"length": length,
			"max":    MaxLength,
		})
	}
	return nil
}

// Encode возвращает геохэш точки c ровно из length символов
func Encode(c domain.Coordinate, length int) (string, error) {
	if err := ValidateLength(length); err != nil {
		return "", err
	}
	if !c.Valid() {
		return "", apperrors.ErrInvalidCoordinate.WithDetails(map[string]interface{}{
			"lon": c.X,
			"lat": c.Y,
		})
	}

	box := world()
	buf := make([]byte, length)
	even := true

	for i := range buf {
		var chunk byte
		for b := 0; b < bitsPerChar; b++ {
			chunk <<= 1
			if even {
				chunk |= bisect(&box.Lon, c.X)
			} else {
				chunk |= bisect(&box.Lat, c.Y)
			}
			even = !even
		}
		buf[i] = Alphabet[chunk]
	}

	return string(buf), nil
}

// bisect сужает r до половины, содержащей v, и возвращает бит
func bisect(r *domain.Range, v float64) byte {
	mid := r.Mid()
	if v >= mid {
		r.Min = mid
		return 1
	}
	r.Max = mid
	return 0
}

func narrow(r *domain.Range, upper bool) {
	mid := r.Mid()
	if upper {
		r.Min = mid
	} else {
		r.Max = mid
	}
}

// DecodeBounds возвращает ячейку, которую задает геохэш
func DecodeBounds(hash string) (domain.Box, error) {
	if hash == "" {
		return domain.Box{}, apperrors.ErrEmptyInput
	}

	box := world()
	even := true

	for pos, r := range hash {
		v := charValue(r)
		if v < 0 {
			return domain.Box{}, apperrors.ErrInvalidGeohashCharacter.WithDetails(map[string]interface{}{
				"geohash":   hash,
				"position":  pos,
				"character": string(r),
			})
		}
		for mask := int8(1 << (bitsPerChar - 1)); mask > 0; mask >>= 1 {
			if even {
				narrow(&box.Lon, v&mask != 0)
			} else {
				narrow(&box.Lat, v&mask != 0)
			}
			even = !even
		}
	}

	return box, nil
}

// Decode возвращает центр ячейки и погрешности по осям
func Decode(hash string) (domain.DecodedPoint, error) {
	box, err := DecodeBounds(hash)
	if err != nil {
		return domain.DecodedPoint{}, err
	}
	return domain.DecodedPoint{
		Coordinate: box.Center(),
		LonError:   box.Lon.HalfWidth(),
		LatError:   box.Lat.HalfWidth(),
	}, nil
}

// Valid - непустая строка из символов Alphabet
func Valid(hash string) bool {
	if hash == "" {
		return false
	}
	for _, r := range hash {
		if charValue(r) < 0 {
			return false
		}
	}
	return true
}

func charValue(r rune) int8 {
	if r < 0 || int(r) >= len(decodeTable) {
		return -1
	}
	return decodeTable[r]
}
