package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers

	// DegreeKm approximates the length of one degree of latitude.
	// Used for coverage-area estimates, not for point distances.
	DegreeKm = 111.0
)

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// HaversineKm calculates the great-circle distance in kilometers
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	return HaversineDistance(lat1, lon1, lat2, lon2) / 1000.0
}

// DegreeDistance is the euclidean distance in degree space. Cluster
// neighborhoods are specified as an ε in degrees, so reachability uses
// this metric rather than great-circle distance.
func DegreeDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat1 - lat2
	dLon := lon1 - lon2
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

// DestinationPoint calculates the destination point given a start point, bearing, and distance
// bearing: degrees (0-360), distance: meters
func DestinationPoint(lat, lon, bearing, distance float64) (float64, float64) {
	p := s2.LatLngFromDegrees(lat, lon)
	bearingRad := bearing * math.Pi / 180
	angularDistance := distance / EarthRadiusMeters

	latRad := p.Lat.Radians()
	lonRad := p.Lng.Radians()

	lat2 := math.Asin(math.Sin(latRad)*math.Cos(angularDistance) +
		math.Cos(latRad)*math.Sin(angularDistance)*math.Cos(bearingRad))

	lon2 := lonRad + math.Atan2(
		math.Sin(bearingRad)*math.Sin(angularDistance)*math.Cos(latRad),
		math.Cos(angularDistance)-math.Sin(latRad)*math.Sin(lat2))

	return lat2 * 180 / math.Pi, lon2 * 180 / math.Pi
}
