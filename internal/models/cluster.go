package models

// Cluster is a density-reachable group of weighted points
type Cluster struct {
	CentroidLat float64 `json:"centroid_lat"`
	CentroidLon float64 `json:"centroid_lon"`
	PointCount  int     `json:"point_count"`
	TotalWeight float64 `json:"total_weight"`
	RadiusKm    float64 `json:"radius_km"` // 90th-percentile member distance from centroid
	Confidence  float64 `json:"confidence"`
}

// HotZone is a contiguous above-threshold region of a density grid
type HotZone struct {
	ID          string     `json:"id"`
	CentroidLat float64    `json:"centroid_lat"`
	CentroidLon float64    `json:"centroid_lon"`
	// BoundingPolygon is a closed 5-point ring (first == last) of
	// [lat, lon] pairs around the region's bounding rectangle.
	BoundingPolygon [][2]float64 `json:"bounding_polygon"`
	CellCount       int          `json:"cell_count"`
	MeanDensity     float64      `json:"mean_density"`
	Confidence      float64      `json:"confidence"`
}
