package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citywatch/rtcc-backend-go/internal/models"
	gospatial "github.com/citywatch/rtcc-backend-go/internal/spatial"
)

// seededCluster scatters n points deterministically around a center
// within ±0.003°
func seededCluster(centerLat, centerLon float64, n int) []models.WeightedPoint {
	points := make([]models.WeightedPoint, n)
	for i := 0; i < n; i++ {
		dLat := float64(i%7)*0.001 - 0.003
		dLon := float64((i*3)%7)*0.001 - 0.003
		points[i] = models.WeightedPoint{
			Lat:    centerLat + dLat,
			Lon:    centerLon + dLon,
			Weight: 1.0,
		}
	}
	return points
}

func TestDetectThreeSeededClusters(t *testing.T) {
	seeds := [][2]float64{
		{40.70, -74.00},
		{40.80, -73.90},
		{40.90, -73.80},
	}

	var points []models.WeightedPoint
	for _, s := range seeds {
		points = append(points, seededCluster(s[0], s[1], 50)...)
	}

	det := NewClusterDetector(DefaultDetectorConfig())
	clusters := det.Detect(points)
	require.Len(t, clusters, 3)

	// Every seed must be matched by exactly one centroid within 0.01°
	for _, s := range seeds {
		matched := 0
		for _, c := range clusters {
			if gospatial.DegreeDistance(s[0], s[1], c.CentroidLat, c.CentroidLon) < 0.01 {
				matched++
				assert.Equal(t, 50, c.PointCount)
				assert.InDelta(t, 50.0, c.TotalWeight, 1e-9)
				assert.Equal(t, 1.0, c.Confidence, "50 points saturate confidence")
			}
		}
		assert.Equal(t, 1, matched, "seed (%v, %v) should match one centroid", s[0], s[1])
	}
}

func TestDetectMembershipInvariants(t *testing.T) {
	points := seededCluster(40.70, -74.00, 30)

	det := NewClusterDetector(DefaultDetectorConfig())
	clusters := det.Detect(points)
	require.NotEmpty(t, clusters)

	// Total membership never exceeds the point count (disjointness)
	total := 0
	for _, c := range clusters {
		total += c.PointCount
	}
	assert.LessOrEqual(t, total, len(points))
}

func TestDetectExcludesBorderPoints(t *testing.T) {
	// Five mutually ε-reachable core points, plus one outlier within ε
	// of only two of them. The outlier's own neighborhood (3 points
	// counting itself) is below MinPoints, so it must stay noise.
	points := []models.WeightedPoint{
		{Lat: 40.0000, Lon: -74.0000, Weight: 1},
		{Lat: 40.0010, Lon: -74.0000, Weight: 1},
		{Lat: 40.0000, Lon: -74.0010, Weight: 1},
		{Lat: 40.0010, Lon: -74.0010, Weight: 1},
		{Lat: 40.0005, Lon: -74.0005, Weight: 1},
		{Lat: 40.0055, Lon: -74.0000, Weight: 1}, // outlier
	}

	det := NewClusterDetector(DefaultDetectorConfig())
	clusters := det.Detect(points)
	require.Len(t, clusters, 1)

	assert.Equal(t, 5, clusters[0].PointCount,
		"every member must have MinPoints members of its cluster within epsilon")
	assert.InDelta(t, 5.0, clusters[0].TotalWeight, 1e-9)
}

func TestDetectNoise(t *testing.T) {
	// Isolated points never meet MinPoints
	points := []models.WeightedPoint{
		{Lat: 40.0, Lon: -74.0, Weight: 1},
		{Lat: 41.0, Lon: -73.0, Weight: 1},
		{Lat: 42.0, Lon: -72.0, Weight: 1},
	}

	det := NewClusterDetector(DefaultDetectorConfig())
	assert.Empty(t, det.Detect(points))
}

func TestDetectEmpty(t *testing.T) {
	det := NewClusterDetector(DefaultDetectorConfig())
	assert.Nil(t, det.Detect(nil))
}

func TestDetectSortedByWeight(t *testing.T) {
	// Heavier cluster first regardless of discovery order
	var points []models.WeightedPoint
	points = append(points, seededCluster(40.70, -74.00, 10)...)
	heavy := seededCluster(40.90, -73.80, 10)
	for i := range heavy {
		heavy[i].Weight = 5.0
	}
	points = append(points, heavy...)

	det := NewClusterDetector(DefaultDetectorConfig())
	clusters := det.Detect(points)
	require.Len(t, clusters, 2)
	assert.Greater(t, clusters[0].TotalWeight, clusters[1].TotalWeight)
}

func TestDetectCap(t *testing.T) {
	cfg := DefaultDetectorConfig()
	cfg.MaxClusters = 2

	var points []models.WeightedPoint
	for i := 0; i < 4; i++ {
		points = append(points, seededCluster(40.0+float64(i)*0.5, -74.0, 20)...)
	}

	det := NewClusterDetector(cfg)
	clusters := det.Detect(points)
	assert.Len(t, clusters, 2)
}
