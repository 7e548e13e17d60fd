package spatial

import (
	"fmt"

	"github.com/citywatch/rtcc-backend-go/internal/models"
)

// GeoGrid discretizes a bounding box into an N×N raster. It is the
// shared coordinate frame for density estimation and hot-zone
// extraction: cell (0,0) sits at the south-west corner.
type GeoGrid struct {
	Bounds  models.GeoBounds
	Size    int
	latStep float64
	lonStep float64
}

// NewGeoGrid validates the bounds and resolution and builds a grid
func NewGeoGrid(bounds models.GeoBounds, size int) (*GeoGrid, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if size < 1 || size > models.MaxGridSize {
		return nil, fmt.Errorf("%w: got %d", models.ErrInvalidGridSize, size)
	}

	return &GeoGrid{
		Bounds:  bounds,
		Size:    size,
		latStep: (bounds.MaxLat - bounds.MinLat) / float64(size),
		lonStep: (bounds.MaxLon - bounds.MinLon) / float64(size),
	}, nil
}

// CellCenter returns the lat/lon midpoint of cell (row, col)
func (g *GeoGrid) CellCenter(row, col int) (lat, lon float64) {
	lat = g.Bounds.MinLat + (float64(row)+0.5)*g.latStep
	lon = g.Bounds.MinLon + (float64(col)+0.5)*g.lonStep
	return lat, lon
}

// CellBounds returns the bounding box of cell (row, col)
func (g *GeoGrid) CellBounds(row, col int) models.GeoBounds {
	return models.GeoBounds{
		MinLat: g.Bounds.MinLat + float64(row)*g.latStep,
		MaxLat: g.Bounds.MinLat + float64(row+1)*g.latStep,
		MinLon: g.Bounds.MinLon + float64(col)*g.lonStep,
		MaxLon: g.Bounds.MinLon + float64(col+1)*g.lonStep,
	}
}

// CellAt locates the cell containing a point. The second return value
// is false when the point lies outside the grid bounds.
func (g *GeoGrid) CellAt(lat, lon float64) (row, col int, ok bool) {
	if !g.Bounds.Contains(lat, lon) {
		return 0, 0, false
	}
	row = int((lat - g.Bounds.MinLat) / g.latStep)
	col = int((lon - g.Bounds.MinLon) / g.lonStep)
	// Points on the max edge belong to the last cell
	if row == g.Size {
		row = g.Size - 1
	}
	if col == g.Size {
		col = g.Size - 1
	}
	return row, col, true
}
