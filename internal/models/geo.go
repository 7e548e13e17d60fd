package models

import (
	"errors"
	"fmt"
)

// Validation errors raised by the analytics core. Everything else
// degrades to a neutral output instead of failing.
var (
	ErrInvalidBounds   = errors.New("bounds min must be less than max on both axes")
	ErrInvalidGridSize = errors.New("grid size must be in [1,200]")
)

// MaxGridSize bounds the density grid resolution. KDE is O(N²·P), so the
// cell count has to stay bounded for the documented point scale.
const MaxGridSize = 200

// GeoBounds is a lat/lon bounding box
type GeoBounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Validate checks the min<max invariant on both axes
func (b GeoBounds) Validate() error {
	if b.MinLat >= b.MaxLat || b.MinLon >= b.MaxLon {
		return fmt.Errorf("%w: got lat [%v,%v] lon [%v,%v]",
			ErrInvalidBounds, b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
	}
	return nil
}

// Contains reports whether the point lies inside the bounds (inclusive)
func (b GeoBounds) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Center returns the midpoint of the bounding box
func (b GeoBounds) Center() (lat, lon float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}

// WeightedPoint is a geolocated observation with an analytic weight
// (recency decay × severity weight)
type WeightedPoint struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Weight float64 `json:"weight"`
}

// GridCell is a single cell of a rasterized density surface
type GridCell struct {
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
	Density   float64 `json:"density"` // Normalized 0~1
}

// HeatmapPoint is the rendering-layer view of a grid cell
type HeatmapPoint struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Intensity float64 `json:"intensity"` // Normalized 0-1
}
