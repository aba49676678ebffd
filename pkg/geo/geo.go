package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance in kilometers between two
// WGS84 coordinate pairs, using the haversine formula. Inputs are not
// range-validated; out-of-range coordinates produce mathematically defined
// but meaningless results.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// WithinGeofence reports whether the point lies within radiusMeters of the
// geofence center.
func WithinGeofence(pointLat, pointLon, centerLat, centerLon, radiusMeters float64) bool {
	return DistanceKm(pointLat, pointLon, centerLat, centerLon)*1000 <= radiusMeters
}
