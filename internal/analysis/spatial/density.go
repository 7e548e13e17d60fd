// Package spatial implements the spatial half of the tactical analytics
// core: kernel density estimation, density-reachability clustering and
// hot-zone extraction. All entry points are pure functions over the
// snapshot they are given; callers may run any number of them
// concurrently.
package spatial

import (
	"math"
	"runtime"
	"sync"

	"github.com/citywatch/rtcc-backend-go/internal/models"
	"github.com/citywatch/rtcc-backend-go/internal/spatial"
	"github.com/citywatch/rtcc-backend-go/internal/stats"
)

// EstimatorConfig tunes kernel density estimation
type EstimatorConfig struct {
	// DefaultBandwidthDeg is the kernel bandwidth used when the point
	// spread is too small or the set too sparse to derive one.
	DefaultBandwidthDeg float64
}

// DefaultEstimatorConfig returns the stock KDE tuning
func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{DefaultBandwidthDeg: 0.005}
}

// DensityGrid is a rasterized density surface normalized so the peak
// cell equals 1.0 (all cells zero for an empty snapshot)
type DensityGrid struct {
	Grid         *spatial.GeoGrid
	Values       [][]float64
	BandwidthDeg float64
}

// DensityEstimator rasterizes a weighted Gaussian KDE onto a GeoGrid
type DensityEstimator struct {
	cfg EstimatorConfig
}

// NewDensityEstimator creates an estimator with the given tuning
func NewDensityEstimator(cfg EstimatorConfig) *DensityEstimator {
	if cfg.DefaultBandwidthDeg <= 0 {
		cfg = DefaultEstimatorConfig()
	}
	return &DensityEstimator{cfg: cfg}
}

// Estimate computes the density surface of the point snapshot over the
// bounds at gridSize×gridSize resolution. An empty snapshot yields an
// all-zero grid. Complexity is O(N²·P); gridSize is capped at 200 and
// the documented point scale is a few thousand.
func (e *DensityEstimator) Estimate(points []models.WeightedPoint, bounds models.GeoBounds, gridSize int) (*DensityGrid, error) {
	grid, err := spatial.NewGeoGrid(bounds, gridSize)
	if err != nil {
		return nil, err
	}

	values := make([][]float64, gridSize)
	for i := range values {
		values[i] = make([]float64, gridSize)
	}

	bandwidth := e.bandwidth(points)
	out := &DensityGrid{Grid: grid, Values: values, BandwidthDeg: bandwidth}
	if len(points) == 0 {
		return out, nil
	}

	// Each cell is independent, so rows are computed in parallel
	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < runtime.NumCPU(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range rows {
				for col := 0; col < gridSize; col++ {
					lat, lon := grid.CellCenter(row, col)
					values[row][col] = kernelSum(points, lat, lon, bandwidth)
				}
			}
		}()
	}
	for row := 0; row < gridSize; row++ {
		rows <- row
	}
	close(rows)
	wg.Wait()

	normalizeGrid(values)
	return out, nil
}

// bandwidth derives the kernel width from the point spread:
// max(default, 0.5·(std(lat)+std(lon))). Fewer than two points always
// use the default.
func (e *DensityEstimator) bandwidth(points []models.WeightedPoint) float64 {
	if len(points) < 2 {
		return e.cfg.DefaultBandwidthDeg
	}

	lats := make([]float64, len(points))
	lons := make([]float64, len(points))
	for i, p := range points {
		lats[i] = p.Lat
		lons[i] = p.Lon
	}

	derived := 0.5 * (stats.StdDev(lats) + stats.StdDev(lons))
	if derived > e.cfg.DefaultBandwidthDeg {
		return derived
	}
	return e.cfg.DefaultBandwidthDeg
}

// kernelSum evaluates the weighted Gaussian kernel at one cell center
func kernelSum(points []models.WeightedPoint, lat, lon, bandwidth float64) float64 {
	var sum float64
	for _, p := range points {
		d := spatial.DegreeDistance(lat, lon, p.Lat, p.Lon) / bandwidth
		sum += p.Weight * gaussian(d)
	}
	return sum
}

func gaussian(d float64) float64 {
	return math.Exp(-0.5 * d * d)
}

// normalizeGrid scales values so the maximum cell equals 1.0. A zero
// maximum leaves the grid untouched.
func normalizeGrid(values [][]float64) {
	var max float64
	for _, row := range values {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	if max == 0 {
		return
	}
	for _, row := range values {
		for i := range row {
			row[i] /= max
		}
	}
}

// Cells flattens the grid into the cell records consumed by the
// rendering layer, skipping zero cells
func (g *DensityGrid) Cells() []models.GridCell {
	var cells []models.GridCell
	for row := range g.Values {
		for col, v := range g.Values[row] {
			if v == 0 {
				continue
			}
			lat, lon := g.Grid.CellCenter(row, col)
			cells = append(cells, models.GridCell{
				Row: row, Col: col,
				CenterLat: lat, CenterLon: lon,
				Density: v,
			})
		}
	}
	return cells
}

// HeatmapPoints converts non-zero cells into rendering points
func (g *DensityGrid) HeatmapPoints() []models.HeatmapPoint {
	cells := g.Cells()
	points := make([]models.HeatmapPoint, len(cells))
	for i, c := range cells {
		points[i] = models.HeatmapPoint{Lat: c.CenterLat, Lng: c.CenterLon, Intensity: c.Density}
	}
	return points
}
