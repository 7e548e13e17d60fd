package spatial

import (
	"sort"

	"github.com/citywatch/rtcc-backend-go/internal/models"
	"github.com/citywatch/rtcc-backend-go/internal/spatial"
	"github.com/citywatch/rtcc-backend-go/internal/stats"
)

// DetectorConfig tunes density-reachability clustering
type DetectorConfig struct {
	// EpsilonDeg is the neighborhood radius in degrees
	EpsilonDeg float64
	// MinPoints is the minimum neighborhood size for a core point
	MinPoints int
	// MaxClusters caps the result set, strongest first
	MaxClusters int
	// FullConfidenceCount is the member count at which cluster
	// confidence saturates at 1.0
	FullConfidenceCount int
}

// DefaultDetectorConfig returns the stock clustering tuning
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		EpsilonDeg:          0.005,
		MinPoints:           4,
		MaxClusters:         10,
		FullConfidenceCount: 20,
	}
}

// ClusterDetector groups a point snapshot by density reachability
// (DBSCAN). Neighbor lookups run against an R-tree rather than the
// naive O(P²) scan; the documented input scale is a few thousand points.
type ClusterDetector struct {
	cfg DetectorConfig
}

// NewClusterDetector creates a detector with the given tuning
func NewClusterDetector(cfg DetectorConfig) *ClusterDetector {
	def := DefaultDetectorConfig()
	if cfg.EpsilonDeg <= 0 {
		cfg.EpsilonDeg = def.EpsilonDeg
	}
	if cfg.MinPoints <= 0 {
		cfg.MinPoints = def.MinPoints
	}
	if cfg.MaxClusters <= 0 {
		cfg.MaxClusters = def.MaxClusters
	}
	if cfg.FullConfidenceCount <= 0 {
		cfg.FullConfidenceCount = def.FullConfidenceCount
	}
	return &ClusterDetector{cfg: cfg}
}

const noCluster = -1

// Detect runs the clustering pass. Clusters come back sorted by total
// weight descending, capped at MaxClusters, with discovery order
// breaking ties so results are stable for a fixed input order. An
// empty snapshot yields nil.
func (d *ClusterDetector) Detect(points []models.WeightedPoint) []models.Cluster {
	if len(points) == 0 {
		return nil
	}

	index := spatial.NewPointIndex(points)
	assignment := make([]int, len(points))
	for i := range assignment {
		assignment[i] = noCluster
	}
	visited := make([]bool, len(points))

	var memberSets [][]int
	for i := range points {
		if visited[i] {
			continue
		}
		visited[i] = true

		neighbors := index.Neighbors(i, d.cfg.EpsilonDeg)
		if len(neighbors) < d.cfg.MinPoints {
			continue // noise
		}

		members := d.expand(i, neighbors, index, visited, assignment, len(memberSets))
		memberSets = append(memberSets, members)
	}

	clusters := make([]models.Cluster, 0, len(memberSets))
	for _, members := range memberSets {
		clusters = append(clusters, d.summarize(points, members))
	}

	// Weight descending; slice order already reflects discovery order,
	// and SliceStable preserves it for equal weights
	sort.SliceStable(clusters, func(a, b int) bool {
		return clusters[a].TotalWeight > clusters[b].TotalWeight
	})
	if len(clusters) > d.cfg.MaxClusters {
		clusters = clusters[:d.cfg.MaxClusters]
	}
	return clusters
}

// expand grows cluster id from a seed core point via breadth-first
// density reachability. Only points whose own ε-neighborhood meets
// MinPoints join; everything else stays noise, so every member is
// within ε of at least MinPoints members of its cluster.
func (d *ClusterDetector) expand(seed int, seedNeighbors []int, index *spatial.PointIndex, visited []bool, assignment []int, id int) []int {
	assignment[seed] = id
	members := []int{seed}

	queue := append([]int(nil), seedNeighbors...)
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if visited[p] {
			continue
		}
		visited[p] = true

		neighbors := index.Neighbors(p, d.cfg.EpsilonDeg)
		if len(neighbors) < d.cfg.MinPoints {
			continue
		}
		if assignment[p] == noCluster {
			assignment[p] = id
			members = append(members, p)
		}
		queue = append(queue, neighbors...)
	}

	sort.Ints(members)
	return members
}

// summarize computes the reported shape of one cluster
func (d *ClusterDetector) summarize(points []models.WeightedPoint, members []int) models.Cluster {
	subset := make([]models.WeightedPoint, len(members))
	for i, m := range members {
		subset[i] = points[m]
	}

	lat, lon := spatial.WeightedCentroid(subset)

	var totalWeight float64
	dists := make([]float64, len(subset))
	for i, p := range subset {
		totalWeight += p.Weight
		dists[i] = spatial.HaversineKm(lat, lon, p.Lat, p.Lon)
	}

	confidence := float64(len(members)) / float64(d.cfg.FullConfidenceCount)
	if confidence > 1 {
		confidence = 1
	}

	return models.Cluster{
		CentroidLat: lat,
		CentroidLon: lon,
		PointCount:  len(members),
		TotalWeight: totalWeight,
		RadiusKm:    stats.Percentile(dists, 90),
		Confidence:  confidence,
	}
}
