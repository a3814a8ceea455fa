package output

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/drake/marquee/ui"
)

// Mock implements Output for tests. Every buffer passed to Output is kept in
// Frames.
type Mock struct {
	Frames [][]byte

	// Render is returned by ShouldRender.
	Render bool

	Size      ui.Dimensions
	SizeErr   error
	OutputErr error

	Finalized bool
}

// NewMock creates a mock that accepts frames and reports size.
func NewMock(size ui.Dimensions) *Mock {
	return &Mock{Render: true, Size: size}
}

// Output records buf, or fails with OutputErr when set.
func (m *Mock) Output(buf []byte) error {
	if m.Finalized {
		return ErrFinalized
	}
	if m.OutputErr != nil {
		return m.OutputErr
	}
	frame := make([]byte, len(buf))
	copy(frame, buf)
	m.Frames = append(m.Frames, frame)
	return nil
}

// TerminalSize returns Size, or SizeErr when set.
func (m *Mock) TerminalSize() (ui.Dimensions, error) {
	if m.SizeErr != nil {
		return ui.Dimensions{}, m.SizeErr
	}
	return m.Size, nil
}

// ShouldRender returns Render.
func (m *Mock) ShouldRender() bool {
	return m.Render
}

// Finalize marks the mock finalized.
func (m *Mock) Finalize() error {
	if m.Finalized {
		return ErrFinalized
	}
	m.Finalized = true
	return nil
}

// LastFrame returns the most recent frame, or nil.
func (m *Mock) LastFrame() []byte {
	if len(m.Frames) == 0 {
		return nil
	}
	return m.Frames[len(m.Frames)-1]
}

// FrameContains reports whether the visible text of frame contains s.
func FrameContains(frame []byte, s string) bool {
	return strings.Contains(ansi.Strip(string(frame)), s)
}
