// Package grid maps logical editor grid points to canvas pixels.
package grid

import (
	"math"

	"makerbot/internal/domain"
)

// Region classifies a grid point against the floating menu footprint
type Region int

const (
	RegionClear Region = iota
	RegionLeft
	RegionRight
	RegionTop
)

func (r Region) String() string {
	switch r {
	case RegionLeft:
		return "left"
	case RegionRight:
		return "right"
	case RegionTop:
		return "top"
	default:
		return "clear"
	}
}

// Geometry holds the canvas calibration. The zero value is not usable;
// start from Default().
type Geometry struct {
	CanvasWidth  float64
	CanvasHeight float64
	TopMargin    float64
	Columns      int
	Rows         int

	// Floating menu footprint, in grid units
	ClearMinX int // points with X below this are covered on the left
	ClearMaxX int // points with X above this are covered on the right
	ClearMinY int // points with Y below this are covered at the top
}

// Default returns the calibration observed for the editor's 915x495 canvas
func Default() Geometry {
	return Geometry{
		CanvasWidth:  915,
		CanvasHeight: 495,
		TopMargin:    78,
		Columns:      24,
		Rows:         14,
		ClearMinX:    5,
		ClearMaxX:    22,
		ClearMinY:    4,
	}
}

// ToPixel returns the canvas pixel at the centre of the grid cell
func (g Geometry) ToPixel(p domain.GridPoint) (int, int) {
	cellW := g.CanvasWidth / float64(g.Columns)
	cellH := g.CanvasHeight / float64(g.Rows)

	x := math.Round(float64(p.X)*cellW - cellW/2)
	y := math.Round(float64(p.Y)*cellH - cellH/2 + g.TopMargin)
	return int(x), int(y)
}

// Region classifies p. A point that is both left of and above the clear
// area reports RegionLeft.
func (g Geometry) Region(p domain.GridPoint) Region {
	switch {
	case p.X < g.ClearMinX:
		return RegionLeft
	case p.X > g.ClearMaxX:
		return RegionRight
	case p.Y < g.ClearMinY:
		return RegionTop
	default:
		return RegionClear
	}
}

// IsObstructed reports whether the floating menu covers p
func (g Geometry) IsObstructed(p domain.GridPoint) bool {
	return g.Region(p) != RegionClear
}

// Validate rejects points outside the logical grid
func (g Geometry) Validate(p domain.GridPoint) error {
	if p.X < 1 || p.X > g.Columns || p.Y < 1 || p.Y > g.Rows {
		return &domain.InvalidPointError{Point: p, Columns: g.Columns, Rows: g.Rows}
	}
	return nil
}
