package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/drake/marquee/text"
)

// Sizer is implemented by models that want to know the canvas size before
// their View is rendered.
type Sizer interface {
	SetSize(width, height int)
}

// Model draws a Bubble Tea model's View as a canvas frame. The model is only
// used for rendering; its Update loop stays with the caller.
type Model struct {
	tea.Model
}

// Draw renders the model's view, one row per line of output.
func (m Model) Draw(size Dimensions, _ DrawMode) (text.Lines, error) {
	if s, ok := m.Model.(Sizer); ok {
		s.SetSize(size.Width, size.Height)
	}
	view := strings.TrimSuffix(m.View(), "\n")
	if view == "" {
		return nil, nil
	}
	rows := strings.Split(view, "\n")
	out := make(text.Lines, 0, len(rows))
	for _, r := range rows {
		out = append(out, text.FromANSI(r))
	}
	return out, nil
}
