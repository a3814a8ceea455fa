package ui

import "github.com/drake/marquee/text"

// Component is anything that can draw a frame of the canvas.
// Draw returns the rows to show for the given size; rows past the size are
// clipped by the Canvas.
type Component interface {
	Draw(size Dimensions, mode DrawMode) (text.Lines, error)
}

// ComponentFunc adapts a function to the Component interface.
type ComponentFunc func(size Dimensions, mode DrawMode) (text.Lines, error)

// Draw calls f.
func (f ComponentFunc) Draw(size Dimensions, mode DrawMode) (text.Lines, error) {
	return f(size, mode)
}

// Echo draws a fixed set of lines.
type Echo text.Lines

// Draw returns a copy of the lines.
func (e Echo) Draw(Dimensions, DrawMode) (text.Lines, error) {
	out := make(text.Lines, len(e))
	copy(out, e)
	return out, nil
}

// Blank draws nothing.
type Blank struct{}

// Draw returns no lines.
func (Blank) Draw(Dimensions, DrawMode) (text.Lines, error) { return nil, nil }

// Stack draws children top to bottom. Each child gets the height left over
// by the children above it.
type Stack []Component

// Draw draws every child in order.
func (s Stack) Draw(size Dimensions, mode DrawMode) (text.Lines, error) {
	var out text.Lines
	for _, c := range s {
		remaining := size.SaturatingSub(out.Len(), Vertical)
		lines, err := c.Draw(remaining, mode)
		if err != nil {
			return nil, err
		}
		out.Append(lines.ShrinkTo(remaining.Width, remaining.Height))
	}
	return out, nil
}
