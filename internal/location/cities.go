package location

import "lineup/pkg/geo"

type referenceCity struct {
	name string
	lat  float64
	lon  float64
}

// referenceCities is the fixed set used for the synchronous fallback label
// when the reverse geocoder has not answered yet.
var referenceCities = []referenceCity{
	{"Chandigarh", 30.7333, 76.7794},
	{"Delhi", 28.6139, 77.2090},
	{"Mumbai", 19.0760, 72.8777},
	{"Bangalore", 12.9716, 77.5946},
	{"Chennai", 13.0827, 80.2707},
	{"Kolkata", 22.5726, 88.3639},
	{"Hyderabad", 17.3850, 78.4867},
	{"Pune", 18.5204, 73.8567},
}

// NearestCityLabel returns the name of the reference city closest to the
// given coordinates.
func NearestCityLabel(lat, lon float64) string {
	nearest := referenceCities[0].name
	minDistance := geo.DistanceKm(lat, lon, referenceCities[0].lat, referenceCities[0].lon)

	for _, city := range referenceCities[1:] {
		if d := geo.DistanceKm(lat, lon, city.lat, city.lon); d < minDistance {
			minDistance = d
			nearest = city.name
		}
	}

	return nearest
}
