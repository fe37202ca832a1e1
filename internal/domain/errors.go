package domain

import "fmt"

// UnknownStyleError is returned when a style key is not registered
type UnknownStyleError struct {
	Style string
}

func (e *UnknownStyleError) Error() string {
	return fmt.Sprintf("unknown style %q", e.Style)
}

// UnknownObjectError is returned when a name is absent from the active catalog
type UnknownObjectError struct {
	Name  string
	Style string
}

func (e *UnknownObjectError) Error() string {
	return fmt.Sprintf("object %q not found in style %q", e.Name, e.Style)
}

// UnsupportedPlatformError means no input backend exists for this OS.
// It is fatal at startup.
type UnsupportedPlatformError struct {
	Platform string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform %q", e.Platform)
}

// BackendIOError wraps a failed physical input or window call
type BackendIOError struct {
	Op  string
	Err error
}

func (e *BackendIOError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
}

func (e *BackendIOError) Unwrap() error { return e.Err }

// InvalidPointError is returned for grid points outside the canvas
type InvalidPointError struct {
	Point   GridPoint
	Columns int
	Rows    int
}

func (e *InvalidPointError) Error() string {
	return fmt.Sprintf("grid point %s outside %dx%d canvas", e.Point, e.Columns, e.Rows)
}
