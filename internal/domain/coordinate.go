package domain

const (
	MinLongitude = -180.0
	MaxLongitude = 180.0
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
)

// Coordinate - точка на поверхности: X долгота, Y широта.
type Coordinate struct {
	X float64 `json:"lon"`
	Y float64 `json:"lat"`
}

// Valid - точка лежит в замкнутых диапазонах WGS84. NaN недопустим.
func (c Coordinate) Valid() bool {
	return c.X >= MinLongitude && c.X <= MaxLongitude &&
		c.Y >= MinLatitude && c.Y <= MaxLatitude
}

// Range - отрезок [Min, Max] одной оси. Значение, равное середине, относится к верхней
// половине, так что Max входит только в последнюю ячейку оси.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Mid - середина отрезка
func (r Range) Mid() float64 {
	return (r.Min + r.Max) / 2
}

// HalfWidth - погрешность ячейки по оси
func (r Range) HalfWidth() float64 {
	return (r.Max - r.Min) / 2
}

// Box - ячейка геохэша.
type Box struct {
	Lon Range `json:"lon"`
	Lat Range `json:"lat"`
}

// Center - центр ячейки
func (b Box) Center() Coordinate {
	return Coordinate{X: b.Lon.Mid(), Y: b.Lat.Mid()}
}

// DecodedPoint - центр ячейки и погрешности по осям.
type DecodedPoint struct {
	Coordinate
	LonError float64 `json:"lon_error"`
	LatError float64 `json:"lat_error"`
}
