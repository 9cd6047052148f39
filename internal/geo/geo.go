package geo

import "math"

const (
	// earthRadiusMeters is the mean spherical-earth radius.
	earthRadiusMeters = 6371000.0

	// DefaultCheckInRadiusMeters is the geofence radius applied to every
	// located event. Radius is not configurable per event.
	DefaultCheckInRadiusMeters = 100.0
)

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceMeters returns the great-circle distance between two points using
// the haversine formula. Accuracy is well within consumer-GPS error for
// geofence radii in the tens to low hundreds of meters.
func DistanceMeters(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// WithinRadius reports whether a measured distance falls inside the geofence.
func WithinRadius(distanceMeters, radiusMeters float64) bool {
	return distanceMeters <= radiusMeters
}
