package spatial

import (
	"github.com/citywatch/rtcc-backend-go/internal/models"
)

// WeightedCentroid calculates the weight-weighted centroid of a point set.
// Zero total weight falls back to the unweighted mean.
func WeightedCentroid(points []models.WeightedPoint) (lat, lon float64) {
	if len(points) == 0 {
		return 0, 0
	}

	var sumLat, sumLon, sumWeight float64
	for _, p := range points {
		sumLat += p.Lat * p.Weight
		sumLon += p.Lon * p.Weight
		sumWeight += p.Weight
	}

	if sumWeight == 0 {
		for _, p := range points {
			sumLat += p.Lat
			sumLon += p.Lon
		}
		n := float64(len(points))
		return sumLat / n, sumLon / n
	}

	return sumLat / sumWeight, sumLon / sumWeight
}

// BoundingBox returns the tight bounds around a point set. The second
// return value is false for an empty set.
func BoundingBox(points []models.WeightedPoint) (models.GeoBounds, bool) {
	if len(points) == 0 {
		return models.GeoBounds{}, false
	}

	b := models.GeoBounds{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLon: points[0].Lon, MaxLon: points[0].Lon,
	}
	for _, p := range points[1:] {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
		if p.Lon < b.MinLon {
			b.MinLon = p.Lon
		}
		if p.Lon > b.MaxLon {
			b.MaxLon = p.Lon
		}
	}
	return b, true
}

// ClosedRing builds the 5-point closed polygon ring (first == last)
// around a bounding box, in [lat, lon] order.
func ClosedRing(b models.GeoBounds) [][2]float64 {
	return [][2]float64{
		{b.MinLat, b.MinLon},
		{b.MinLat, b.MaxLon},
		{b.MaxLat, b.MaxLon},
		{b.MaxLat, b.MinLon},
		{b.MinLat, b.MinLon},
	}
}
