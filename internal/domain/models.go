package domain

import (
	"fmt"
	"time"
)

// CatalogEntry locates a placeable object inside the editor's object menu
type CatalogEntry struct {
	Name       string
	Category   string
	GroupIndex int // flattened across all groups of all categories
	ItemIndex  int // position inside the group
}

// GridPoint is a 1-based placement coordinate on the editor canvas.
// It is distinct from screen pixels; see grid.Geometry for the mapping.
type GridPoint struct {
	X int
	Y int
}

func (p GridPoint) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Placement is a single batch record as produced by the level generator
type Placement struct {
	Name string `json:"name" yaml:"name"`
	X    int    `json:"x" yaml:"x"`
	Y    int    `json:"y" yaml:"y"`
}

// Point returns the record's grid coordinate
func (p Placement) Point() GridPoint {
	return GridPoint{X: p.X, Y: p.Y}
}

// Input is a logical editor input emitted by the navigation planner
type Input string

const (
	InputOpenAnchor    Input = "open-anchor"    // escape to a known menu state
	InputOpenMenu      Input = "open-menu"      // open the object selector
	InputNextGroup     Input = "next-group"
	InputPrevGroup     Input = "prev-group"
	InputNextItem      Input = "next-item"
	InputPrevItem      Input = "prev-item"
	InputConfirm       Input = "confirm"
	InputToggleOverlay Input = "toggle-overlay" // hide/show the floating menu
	InputToggleEraser  Input = "toggle-eraser"
)

// PixelPoint is an absolute screen coordinate
type PixelPoint struct {
	X int
	Y int
}

// PlacementFailure records a skipped batch record
type PlacementFailure struct {
	Index     int
	Placement Placement
	Err       error
}

// BatchSummary reports the outcome of a placement batch
type BatchSummary struct {
	Source   string
	Total    int
	Placed   int
	Skipped  int
	Failures []PlacementFailure
	Elapsed  time.Duration

	Cancelled bool  // stopped between records by context cancellation
	Err       error // backend failure that stopped the batch early
}

// Attempted is the number of records that were tried
func (s BatchSummary) Attempted() int {
	return s.Placed + s.Skipped
}
