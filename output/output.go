// Package output moves rendered frames to the terminal.
//
// The console decides what to draw; an Output decides how the bytes get to
// the device. Blocking writes synchronously, NonBlocking hands buffers to a
// writer goroutine and pushes back while one is in flight, and Mock records
// frames for tests.
package output

import (
	"errors"

	"github.com/drake/marquee/ui"
)

// ErrFinalized is returned when an Output is used after Finalize.
var ErrFinalized = errors.New("output finalized")

// Output is a terminal device, or a stand-in for one.
type Output interface {
	// Output writes buf to the device. Calls are delivered in order.
	Output(buf []byte) error

	// TerminalSize reports the current size. A zero axis is possible while
	// the terminal is being resized.
	TerminalSize() (ui.Dimensions, error)

	// ShouldRender reports whether the device can take a frame right now.
	// When false the console skips drawing and keeps all of its state.
	ShouldRender() bool

	// Finalize restores terminal state. It is called once, after the last
	// Output.
	Finalize() error
}
