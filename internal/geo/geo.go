// Package geo provides great-circle distance math for proximity search.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lng float64
}

// Distance returns the haversine great-circle distance between a and b
// in meters.
func Distance(a, b Point) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180.0
	dLng := (b.Lng - a.Lng) * math.Pi / 180.0

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180.0)*math.Cos(b.Lat*math.Pi/180.0)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

// FormatDistance renders a distance in meters for display: whole meters
// below one kilometer, otherwise kilometers to one decimal place.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// metersPerDegree deliberately undershoots the true great-circle value
// (2*pi*R/360 at R=6371000 is ~111195 m) so the box strictly
// over-covers the radius and never clips a point sitting exactly on
// the boundary.
const metersPerDegree = 111000.0

// BoundingBox returns an approximate lat/lng box containing every point
// within radiusMeters of the center. It over-covers; it is a
// prefilter, not an exact test.
func BoundingBox(lat, lng, radiusMeters float64) (minLat, maxLat, minLng, maxLng float64) {
	latDelta := radiusMeters / metersPerDegree

	cosLat := math.Cos(lat * math.Pi / 180.0)
	lngDelta := 180.0
	if cosLat > 1e-9 {
		lngDelta = radiusMeters / (metersPerDegree * cosLat)
	}

	minLat = math.Max(lat-latDelta, -90)
	maxLat = math.Min(lat+latDelta, 90)
	minLng = math.Max(lng-lngDelta, -180)
	maxLng = math.Min(lng+lngDelta, 180)
	return minLat, maxLat, minLng, maxLng
}

// IsValidCoordinate reports whether lat/lng form a usable WGS84 pair.
func IsValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
