package ui

import (
	"io"

	"github.com/charmbracelet/x/ansi"

	"github.com/drake/marquee/text"
)

// Canvas is the region at the bottom of the terminal that is redrawn in
// place every tick. It remembers how tall the last written frame was so the
// next frame can start from the same row.
type Canvas struct {
	rows int
}

// NewCanvas creates an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{}
}

// Rows returns the height of the last frame that reached the terminal.
func (c *Canvas) Rows() int {
	return c.rows
}

// Draw asks root for a frame and clips it to size.
func (c *Canvas) Draw(root Component, size Dimensions, mode DrawMode) (text.Lines, error) {
	frame, err := root.Draw(size, mode)
	if err != nil {
		return nil, err
	}
	return frame.ShrinkTo(size.Width, size.Height), nil
}

// MoveUp writes the sequence that returns the cursor to the first row of the
// previous frame.
func (c *Canvas) MoveUp(w io.Writer) error {
	if c.rows == 0 {
		return nil
	}
	_, err := io.WriteString(w, ansi.CursorUp(c.rows))
	return err
}

// Clear writes the sequence that erases the previous frame.
func (c *Canvas) Clear(w io.Writer) error {
	if err := c.MoveUp(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, ansi.EraseScreenBelow)
	return err
}

// Commit records the height of a frame once it has been written.
func (c *Canvas) Commit(rows int) {
	c.rows = max(rows, 0)
}
