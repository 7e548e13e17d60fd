package spatial

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/citywatch/rtcc-backend-go/internal/models"
)

const (
	indexDimensions  = 2
	indexMinChildren = 25
	indexMaxChildren = 50

	// minRectSize keeps degenerate (zero-area) rects out of the tree
	minRectSize = 1e-9
)

// indexEntry wraps a point index for R-tree storage
type indexEntry struct {
	idx  int
	rect *rtreego.Rect
}

func (e *indexEntry) Bounds() *rtreego.Rect {
	return e.rect
}

// PointIndex is an R-tree over a fixed point snapshot. It accelerates
// the ε-neighborhood queries of the cluster detector and the proximity
// dedup pass of the route optimizer: a box query narrows the candidate
// set, the caller applies the exact distance metric.
type PointIndex struct {
	tree   *rtreego.Rtree
	points []models.WeightedPoint
}

// NewPointIndex builds an index over the snapshot. The slice is
// retained, not copied; callers must not mutate it afterwards.
func NewPointIndex(points []models.WeightedPoint) *PointIndex {
	tree := rtreego.NewTree(indexDimensions, indexMinChildren, indexMaxChildren)
	for i, p := range points {
		rect, err := rtreego.NewRect(rtreego.Point{p.Lat, p.Lon}, []float64{minRectSize, minRectSize})
		if err != nil {
			continue
		}
		tree.Insert(&indexEntry{idx: i, rect: rect})
	}
	return &PointIndex{tree: tree, points: points}
}

// Len returns the number of indexed points
func (ix *PointIndex) Len() int {
	return len(ix.points)
}

// Neighbors returns the indices of all points within epsilonDeg
// (degree-space euclidean distance) of point i, including i itself.
// Results preserve input order so downstream expansion stays stable.
func (ix *PointIndex) Neighbors(i int, epsilonDeg float64) []int {
	center := ix.points[i]
	return ix.WithinDegrees(center.Lat, center.Lon, epsilonDeg)
}

// WithinDegrees returns indices of points within epsilonDeg of (lat, lon),
// sorted ascending by index
func (ix *PointIndex) WithinDegrees(lat, lon, epsilonDeg float64) []int {
	rect, err := rtreego.NewRect(
		rtreego.Point{lat - epsilonDeg, lon - epsilonDeg},
		[]float64{2 * epsilonDeg, 2 * epsilonDeg},
	)
	if err != nil {
		return nil
	}

	candidates := ix.tree.SearchIntersect(rect)
	hits := make([]int, 0, len(candidates))
	for _, c := range candidates {
		e := c.(*indexEntry)
		p := ix.points[e.idx]
		if DegreeDistance(lat, lon, p.Lat, p.Lon) <= epsilonDeg {
			hits = append(hits, e.idx)
		}
	}
	sort.Ints(hits)
	return hits
}

// WithinKm returns indices of points within radiusKm great-circle
// distance of (lat, lon)
func (ix *PointIndex) WithinKm(lat, lon, radiusKm float64) []int {
	// Over-approximate the search box in degrees, then filter exactly.
	// Longitude degrees shrink with latitude, so the lon extent widens
	// by 1/cos(lat).
	latDeg := radiusKm / DegreeKm
	lonDeg := latDeg / math.Cos(lat*math.Pi/180)
	if lonDeg < latDeg {
		lonDeg = latDeg
	}
	rect, err := rtreego.NewRect(
		rtreego.Point{lat - latDeg, lon - lonDeg},
		[]float64{2 * latDeg, 2 * lonDeg},
	)
	if err != nil {
		return nil
	}

	candidates := ix.tree.SearchIntersect(rect)
	hits := make([]int, 0, len(candidates))
	for _, c := range candidates {
		e := c.(*indexEntry)
		p := ix.points[e.idx]
		if HaversineKm(lat, lon, p.Lat, p.Lon) <= radiusKm {
			hits = append(hits, e.idx)
		}
	}
	sort.Ints(hits)
	return hits
}
