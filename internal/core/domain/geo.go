package domain

import "github.com/hanamagouda9611/map-poi-app/internal/pkg/geospatial"

// GeoPoint represents a geographic coordinate (WGS 84) as seen by API clients.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point encodes the coordinate into the stored (longitude, latitude) axis order.
func (g GeoPoint) Point() geospatial.Point {
	return geospatial.Encode(g.Lat, g.Lng)
}

// GeoPointFromPoint decodes a stored point.
func GeoPointFromPoint(p geospatial.Point) GeoPoint {
	lat, lng := geospatial.Decode(p)
	return GeoPoint{Lat: lat, Lng: lng}
}
