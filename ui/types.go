package ui

import (
	"fmt"
	"strconv"
	"strings"
)

// Dimensions is a size on the terminal cell grid.
type Dimensions struct {
	Width  int
	Height int
}

// NewDimensions creates Dimensions, clamping negative values to zero.
func NewDimensions(width, height int) Dimensions {
	return Dimensions{Width: max(width, 0), Height: max(height, 0)}
}

// ParseDimensions parses "WIDTHxHEIGHT", e.g. "80x24".
func ParseDimensions(s string) (Dimensions, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Dimensions{}, fmt.Errorf("invalid dimensions %q: want WIDTHxHEIGHT", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return Dimensions{}, fmt.Errorf("invalid width in %q", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return Dimensions{}, fmt.Errorf("invalid height in %q", s)
	}
	return Dimensions{Width: width, Height: height}, nil
}

// IsZero reports whether either axis is empty.
func (d Dimensions) IsZero() bool {
	return d.Width <= 0 || d.Height <= 0
}

// SaturatingSub shrinks one axis by n, stopping at zero.
func (d Dimensions) SaturatingSub(n int, dir Direction) Dimensions {
	switch dir {
	case Horizontal:
		d.Width = max(d.Width-n, 0)
	case Vertical:
		d.Height = max(d.Height-n, 0)
	}
	return d
}

// String returns the WIDTHxHEIGHT form.
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Direction selects an axis of Dimensions.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

// DrawMode tells a component whether more frames will follow.
type DrawMode int

const (
	// Normal is an intermediate tick; the component will be drawn again.
	Normal DrawMode = iota
	// Final is the last draw before teardown; components flush what they hold.
	Final
)

// String returns a human-readable representation of the draw mode.
func (m DrawMode) String() string {
	switch m {
	case Normal:
		return "Normal"
	case Final:
		return "Final"
	default:
		return "Unknown"
	}
}
