package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"

	"github.com/drake/marquee/ui"
)

// Blocking writes each frame synchronously. A slow terminal slows down the
// render loop, which keeps the frame rate in line with what the device can
// display.
type Blocking struct {
	w       io.Writer
	fd      uintptr
	restore func() error
	done    bool
}

// NewBlocking creates a Blocking output that writes to w and queries the
// terminal size through fd.
func NewBlocking(w io.Writer, fd uintptr) *Blocking {
	return &Blocking{w: w, fd: fd}
}

// Stderr creates a Blocking output on the process's stderr. ANSI processing
// is enabled when the platform needs it and restored by Finalize.
func Stderr() *Blocking {
	b := NewBlocking(os.Stderr, os.Stderr.Fd())
	if isTerminal(os.Stderr) {
		if restore, err := enableANSI(os.Stderr); err == nil {
			b.restore = restore
		}
	}
	return b
}

// Output writes buf in full.
func (b *Blocking) Output(buf []byte) error {
	if b.done {
		return ErrFinalized
	}
	if _, err := b.w.Write(buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// TerminalSize asks the OS for the size of the terminal behind fd.
func (b *Blocking) TerminalSize() (ui.Dimensions, error) {
	w, h, err := term.GetSize(b.fd)
	if err != nil {
		return ui.Dimensions{}, fmt.Errorf("terminal size: %w", err)
	}
	return ui.NewDimensions(w, h), nil
}

// ShouldRender is always true; Blocking applies back-pressure by blocking.
func (b *Blocking) ShouldRender() bool {
	return true
}

// Finalize restores the console mode.
func (b *Blocking) Finalize() error {
	if b.done {
		return ErrFinalized
	}
	b.done = true
	if b.restore != nil {
		return b.restore()
	}
	return nil
}
