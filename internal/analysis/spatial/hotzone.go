package spatial

import (
	"sort"

	"github.com/google/uuid"

	"github.com/citywatch/rtcc-backend-go/internal/models"
	"github.com/citywatch/rtcc-backend-go/internal/spatial"
)

// ExtractorConfig tunes hot-zone extraction
type ExtractorConfig struct {
	// Threshold is the minimum normalized density for a hot cell
	Threshold float64
	// MinCells discards regions smaller than this many cells
	MinCells int
	// MaxZones caps the result set, densest first
	MaxZones int
}

// DefaultExtractorConfig returns the stock extraction tuning
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Threshold: 0.55,
		MinCells:  4,
		MaxZones:  5,
	}
}

// HotZoneExtractor lifts contiguous above-threshold regions of a
// density surface into polygons for the map layer
type HotZoneExtractor struct {
	cfg ExtractorConfig
}

// NewHotZoneExtractor creates an extractor with the given tuning
func NewHotZoneExtractor(cfg ExtractorConfig) *HotZoneExtractor {
	def := DefaultExtractorConfig()
	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		cfg.Threshold = def.Threshold
	}
	if cfg.MinCells <= 0 {
		cfg.MinCells = def.MinCells
	}
	if cfg.MaxZones <= 0 {
		cfg.MaxZones = def.MaxZones
	}
	return &HotZoneExtractor{cfg: cfg}
}

type cellRef struct {
	row, col int
}

// Extract flood-fills 4-connected regions of cells at or above the
// threshold. Regions below MinCells are discarded; survivors come back
// sorted by mean density descending, capped at MaxZones.
func (x *HotZoneExtractor) Extract(grid *DensityGrid) []models.HotZone {
	if grid == nil || len(grid.Values) == 0 {
		return nil
	}

	size := grid.Grid.Size
	seen := make([][]bool, size)
	for i := range seen {
		seen[i] = make([]bool, size)
	}

	var zones []models.HotZone
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if seen[row][col] || grid.Values[row][col] < x.cfg.Threshold {
				continue
			}
			region := x.floodFill(grid, seen, row, col)
			if len(region) < x.cfg.MinCells {
				continue
			}
			zones = append(zones, x.buildZone(grid, region))
		}
	}

	sort.SliceStable(zones, func(a, b int) bool {
		return zones[a].MeanDensity > zones[b].MeanDensity
	})
	if len(zones) > x.cfg.MaxZones {
		zones = zones[:x.cfg.MaxZones]
	}
	return zones
}

// floodFill collects the 4-connected above-threshold region containing
// (row, col)
func (x *HotZoneExtractor) floodFill(grid *DensityGrid, seen [][]bool, row, col int) []cellRef {
	size := grid.Grid.Size
	var region []cellRef

	stack := []cellRef{{row, col}}
	seen[row][col] = true
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		region = append(region, c)

		for _, n := range [4]cellRef{
			{c.row - 1, c.col}, {c.row + 1, c.col},
			{c.row, c.col - 1}, {c.row, c.col + 1},
		} {
			if n.row < 0 || n.row >= size || n.col < 0 || n.col >= size {
				continue
			}
			if seen[n.row][n.col] || grid.Values[n.row][n.col] < x.cfg.Threshold {
				continue
			}
			seen[n.row][n.col] = true
			stack = append(stack, n)
		}
	}
	return region
}

// buildZone summarizes a region into its reported polygon and scores
func (x *HotZoneExtractor) buildZone(grid *DensityGrid, region []cellRef) models.HotZone {
	minRow, maxRow := region[0].row, region[0].row
	minCol, maxCol := region[0].col, region[0].col
	var sumDensity, sumLat, sumLon float64

	for _, c := range region {
		if c.row < minRow {
			minRow = c.row
		}
		if c.row > maxRow {
			maxRow = c.row
		}
		if c.col < minCol {
			minCol = c.col
		}
		if c.col > maxCol {
			maxCol = c.col
		}
		sumDensity += grid.Values[c.row][c.col]
		lat, lon := grid.Grid.CellCenter(c.row, c.col)
		sumLat += lat
		sumLon += lon
	}

	n := float64(len(region))
	meanDensity := sumDensity / n

	confidence := meanDensity * 1.2
	if confidence > 1 {
		confidence = 1
	}

	low := grid.Grid.CellBounds(minRow, minCol)
	high := grid.Grid.CellBounds(maxRow, maxCol)
	box := models.GeoBounds{
		MinLat: low.MinLat, MaxLat: high.MaxLat,
		MinLon: low.MinLon, MaxLon: high.MaxLon,
	}

	return models.HotZone{
		ID:              uuid.NewString(),
		CentroidLat:     sumLat / n,
		CentroidLon:     sumLon / n,
		BoundingPolygon: spatial.ClosedRing(box),
		CellCount:       len(region),
		MeanDensity:     meanDensity,
		Confidence:      confidence,
	}
}
