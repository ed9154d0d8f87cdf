// Package geo computes great-circle distances for proximity checks.
package geo

import "math"

// earthRadiusMeters is the mean spherical earth radius.
const earthRadiusMeters = 6371000.0

// DiscoveryToleranceMeters is the maximum allowed distance between a
// claimed location and the treasure location for a claim to pass.
const DiscoveryToleranceMeters = 100.0

// Distance returns the haversine great-circle distance in meters
// between two coordinate pairs.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// WithinTolerance reports whether distance is inside tolerance.
// The boundary itself is accepted.
func WithinTolerance(distance, toleranceMeters float64) bool {
	return distance <= toleranceMeters
}

// BoundingBox returns the lat/lng deltas spanning radiusMeters around
// a latitude, used to prefilter candidates before exact distance checks.
func BoundingBox(lat, radiusMeters float64) (latDelta, lngDelta float64) {
	latDelta = radiusMeters / earthRadiusMeters * 180 / math.Pi
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lngDelta = latDelta / cosLat
	return latDelta, lngDelta
}
