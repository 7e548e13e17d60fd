package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gospatial "github.com/citywatch/rtcc-backend-go/internal/spatial"
)

// denseGrid builds a zeroed size×size density surface over testBounds
func denseGrid(t *testing.T, size int) *DensityGrid {
	t.Helper()
	grid, err := gospatial.NewGeoGrid(testBounds(), size)
	require.NoError(t, err)

	values := make([][]float64, size)
	for i := range values {
		values[i] = make([]float64, size)
	}
	return &DensityGrid{Grid: grid, Values: values, BandwidthDeg: 0.005}
}

func TestExtractSingleZone(t *testing.T) {
	grid := denseGrid(t, 10)
	// 2×2 hot block at rows 2-3, cols 2-3
	for r := 2; r <= 3; r++ {
		for c := 2; c <= 3; c++ {
			grid.Values[r][c] = 0.9
		}
	}

	x := NewHotZoneExtractor(DefaultExtractorConfig())
	zones := x.Extract(grid)
	require.Len(t, zones, 1)

	z := zones[0]
	assert.Equal(t, 4, z.CellCount)
	assert.InDelta(t, 0.9, z.MeanDensity, 1e-9)
	assert.Equal(t, 1.0, z.Confidence, "0.9×1.2 clamps to 1")
	assert.NotEmpty(t, z.ID)

	require.Len(t, z.BoundingPolygon, 5)
	assert.Equal(t, z.BoundingPolygon[0], z.BoundingPolygon[4])
}

func TestExtractDiscardsSmallRegions(t *testing.T) {
	grid := denseGrid(t, 10)
	// 3 hot cells: below the 4-cell minimum
	grid.Values[5][5] = 0.9
	grid.Values[5][6] = 0.9
	grid.Values[6][5] = 0.9

	x := NewHotZoneExtractor(DefaultExtractorConfig())
	assert.Empty(t, x.Extract(grid))
}

func TestExtractDiagonalNotConnected(t *testing.T) {
	grid := denseGrid(t, 10)
	// Two 2×2 blocks touching only diagonally: separate regions,
	// both exactly at the minimum size
	for r := 1; r <= 2; r++ {
		for c := 1; c <= 2; c++ {
			grid.Values[r][c] = 0.8
		}
	}
	for r := 3; r <= 4; r++ {
		for c := 3; c <= 4; c++ {
			grid.Values[r][c] = 0.7
		}
	}

	x := NewHotZoneExtractor(DefaultExtractorConfig())
	zones := x.Extract(grid)
	require.Len(t, zones, 2)
	// Sorted by mean density descending
	assert.Greater(t, zones[0].MeanDensity, zones[1].MeanDensity)
}

func TestExtractCap(t *testing.T) {
	grid := denseGrid(t, 20)
	// Seven well-separated 2×2 blocks
	for i := 0; i < 7; i++ {
		r, c := (i%3)*6, (i/3)*6
		for dr := 0; dr < 2; dr++ {
			for dc := 0; dc < 2; dc++ {
				grid.Values[r+dr][c+dc] = 0.6 + float64(i)*0.01
			}
		}
	}

	x := NewHotZoneExtractor(DefaultExtractorConfig())
	zones := x.Extract(grid)
	assert.Len(t, zones, 5, "zone count caps at 5")
}

func TestExtractEmptyGrid(t *testing.T) {
	x := NewHotZoneExtractor(DefaultExtractorConfig())
	assert.Empty(t, x.Extract(denseGrid(t, 10)))
	assert.Empty(t, x.Extract(nil))
}
