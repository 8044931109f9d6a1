package geospatial

import "math"

// SRID of the stored geometry (WGS 84).
const SRID = 4326

const (
	MaxLatitude  = 90.0
	MaxLongitude = 180.0
)

// Point is a PostGIS-style point. X is longitude, Y is latitude.
type Point struct {
	X float64
	Y float64
}

// Encode maps a (latitude, longitude) pair onto the stored axis order.
func Encode(lat, lng float64) Point {
	return Point{X: lng, Y: lat}
}

// Decode maps a stored point back to (latitude, longitude).
func Decode(p Point) (lat, lng float64) {
	return p.Y, p.X
}

// ValidLatitude reports whether lat is a finite value in [-90, 90].
func ValidLatitude(lat float64) bool {
	return finite(lat) && lat >= -MaxLatitude && lat <= MaxLatitude
}

// ValidLongitude reports whether lng is a finite value in [-180, 180].
func ValidLongitude(lng float64) bool {
	return finite(lng) && lng >= -MaxLongitude && lng <= MaxLongitude
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
