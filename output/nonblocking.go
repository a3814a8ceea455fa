package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/x/term"

	"github.com/drake/marquee/ui"
)

// NonBlocking hands frames to a writer goroutine. While a frame is still
// being written ShouldRender returns false, so the console skips ticks
// instead of queueing frames behind a slow terminal. Its methods must be
// called from a single goroutine.
type NonBlocking struct {
	w       io.Writer
	fd      uintptr
	restore func() error

	frames  chan []byte
	done    chan struct{}
	pending atomic.Int32

	mu  sync.Mutex
	err error

	closed bool
}

// NewNonBlocking starts a writer goroutine for w. fd is used for size queries.
func NewNonBlocking(w io.Writer, fd uintptr) *NonBlocking {
	n := &NonBlocking{
		w:      w,
		fd:     fd,
		frames: make(chan []byte, 1),
		done:   make(chan struct{}),
	}
	go n.writerLoop()
	return n
}

// NonBlockingStderr creates a NonBlocking output on the process's stderr.
func NonBlockingStderr() *NonBlocking {
	n := NewNonBlocking(os.Stderr, os.Stderr.Fd())
	if isTerminal(os.Stderr) {
		if restore, err := enableANSI(os.Stderr); err == nil {
			n.restore = restore
		}
	}
	return n
}

func (n *NonBlocking) writerLoop() {
	defer close(n.done)
	for buf := range n.frames {
		if _, err := n.w.Write(buf); err != nil {
			n.setErr(fmt.Errorf("write frame: %w", err))
		}
		n.pending.Add(-1)
	}
}

func (n *NonBlocking) setErr(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err == nil {
		n.err = err
	}
}

func (n *NonBlocking) takeErr() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	err := n.err
	n.err = nil
	return err
}

// Output queues buf for the writer goroutine and returns before it is
// written, so the console commits the frame early. A failure from an
// earlier write is returned here instead of queueing.
func (n *NonBlocking) Output(buf []byte) error {
	if n.closed {
		return ErrFinalized
	}
	if err := n.takeErr(); err != nil {
		return err
	}
	n.pending.Add(1)
	n.frames <- buf
	return nil
}

// TerminalSize asks the OS for the size of the terminal behind fd.
func (n *NonBlocking) TerminalSize() (ui.Dimensions, error) {
	w, h, err := term.GetSize(n.fd)
	if err != nil {
		return ui.Dimensions{}, fmt.Errorf("terminal size: %w", err)
	}
	return ui.NewDimensions(w, h), nil
}

// ShouldRender is false while an earlier frame is still being written.
func (n *NonBlocking) ShouldRender() bool {
	return n.pending.Load() == 0
}

// Finalize waits for queued frames, restores the console mode and returns
// the first write error not yet reported.
func (n *NonBlocking) Finalize() error {
	if n.closed {
		return ErrFinalized
	}
	n.closed = true
	close(n.frames)
	<-n.done

	err := n.takeErr()
	if n.restore != nil {
		if rerr := n.restore(); err == nil {
			err = rerr
		}
	}
	return err
}
