// Package console draws a live canvas at the bottom of the terminal while
// streaming log lines above it.
//
// The embedding program owns the tick loop. Producers call Emit to queue log
// lines; each tick calls Render, which redraws the canvas in place and
// flushes a bounded slice of the queue above it in a single write. Finalize
// performs the last draw and restores the terminal.
//
// A Console is not safe for concurrent use. Programs that emit from several
// goroutines must funnel the lines to the goroutine that renders.
package console

import (
	"bytes"
	"errors"
	"io"
	"log"

	"github.com/charmbracelet/x/ansi"

	"github.com/drake/marquee/output"
	"github.com/drake/marquee/text"
	"github.com/drake/marquee/ui"
)

const (
	// MinimumEmit is the number of queued lines drained per pass even when
	// the canvas leaves no room, so small terminals still make progress.
	MinimumEmit = 5

	// MaxBuffered is the total display width of queued lines above which the
	// whole queue is flushed in one pass, whatever the terminal height.
	MaxBuffered = 1_000_000
)

// ErrFinalized is returned by operations on a finalized console.
var ErrFinalized = errors.New("console finalized")

// Console renders a canvas component and a log of emitted lines.
type Console struct {
	canvas *ui.Canvas
	queue  text.Lines

	// Used when the terminal size cannot be read or reports a zero axis.
	// Mostly useful for tests and non-interactive sessions.
	fallback *ui.Dimensions

	out output.Output

	minimumEmit  int
	maxBuffered  int
	drainBacklog bool
	logger       *log.Logger

	stats Stats
	done  bool
}

// Stats counts what the console has done so far.
type Stats struct {
	Frames         int // successful writes
	BytesWritten   int
	LinesDrained   int
	SkippedRenders int // renders refused by Output.ShouldRender
	Queued         int // lines waiting to be drawn
	CanvasRows     int
}

// Option configures a Console.
type Option func(*Console)

// WithMinimumEmit sets how many queued lines are drained per pass at the
// least. Values below one are raised to one.
func WithMinimumEmit(n int) Option {
	return func(c *Console) { c.minimumEmit = max(n, 1) }
}

// WithMaxBuffered sets the queued display width above which the queue is
// flushed in full.
func WithMaxBuffered(n int) Option {
	return func(c *Console) { c.maxBuffered = n }
}

// WithDrainBacklog makes Render repeat passes until the queue is empty
// instead of draining one bounded slice per call.
func WithDrainBacklog(on bool) Option {
	return func(c *Console) { c.drainBacklog = on }
}

// WithLogger sets the logger for diagnostics. It must not write to the
// terminal the console draws on.
func WithLogger(l *log.Logger) Option {
	return func(c *Console) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a console on stderr. It reports false when stderr cannot host
// a live canvas (see output.Compatible).
func New(opts ...Option) (*Console, bool) {
	if !output.Compatible() {
		return nil, false
	}
	return NewWithOutput(nil, output.Stderr(), opts...), true
}

// ForcedNew creates a console on stderr without checking compatibility.
// fallback is used whenever the terminal size is unavailable.
func ForcedNew(fallback ui.Dimensions, opts ...Option) *Console {
	return NewWithOutput(&fallback, output.Stderr(), opts...)
}

// NewWithOutput creates a console that draws through out. fallback may be nil.
func NewWithOutput(fallback *ui.Dimensions, out output.Output, opts ...Option) *Console {
	c := &Console{
		canvas:      ui.NewCanvas(),
		fallback:    fallback,
		out:         out,
		minimumEmit: MinimumEmit,
		maxBuffered: MaxBuffered,
		logger:      log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Emit queues lines to be drawn above the canvas on the next Render.
// Nothing is written until then.
func (c *Console) Emit(lines text.Lines) {
	c.queue.Append(lines)
}

// EmitNow queues lines and renders immediately. Every call queries the
// terminal size, redraws the canvas and writes a frame, so calling it at a
// high rate is expensive; prefer Emit plus a periodic Render.
func (c *Console) EmitNow(lines text.Lines, root ui.Component) error {
	c.Emit(lines)
	return c.Render(root)
}

// Size returns the terminal size, falling back to the configured size when
// the terminal cannot be queried or reports an empty axis.
func (c *Console) Size() (ui.Dimensions, error) {
	size, err := c.out.TerminalSize()
	switch {
	case err == nil && size.IsZero() && c.fallback != nil:
		return *c.fallback, nil
	case err == nil:
		return size, nil
	case c.fallback != nil:
		c.logger.Printf("[console] size unavailable, using fallback %v: %v", *c.fallback, err)
		return *c.fallback, nil
	default:
		return ui.Dimensions{}, err
	}
}

// Clear erases the canvas. Queued lines are kept, and the write happens even
// when the output is pushing back.
func (c *Console) Clear() error {
	if c.done {
		return ErrFinalized
	}
	var buf bytes.Buffer
	if err := c.canvas.Clear(&buf); err != nil {
		return err
	}
	if err := c.out.Output(buf.Bytes()); err != nil {
		return err
	}
	c.canvas.Commit(0)
	c.stats.Frames++
	c.stats.BytesWritten += buf.Len()
	return nil
}

// Render redraws root and flushes queued lines above it. Nothing is drawn
// and no state changes when the output is pushing back.
//
// One pass drains at most the rows the canvas leaves free (MinimumEmit at
// the least), unless the queue is larger than MaxBuffered, in which case
// the whole queue goes out at once.
func (c *Console) Render(root ui.Component) error {
	if c.done {
		return ErrFinalized
	}
	for {
		if !c.out.ShouldRender() {
			c.stats.SkippedRenders++
			return nil
		}

		before := c.queue.Len()
		if err := c.renderWithMode(root, ui.Normal); err != nil {
			return err
		}
		if c.queue.IsEmpty() {
			return nil
		}
		// Another pass only helps when this one made no progress, or when
		// the caller asked for the backlog to be flushed.
		if before != c.queue.Len() && !c.drainBacklog {
			return nil
		}
	}
}

// Finalize performs the last render with ui.Final and then finalizes the
// output. The console cannot be used afterwards.
func (c *Console) Finalize(root ui.Component) error {
	return c.FinalizeWithMode(root, ui.Final)
}

// FinalizeWithMode is Finalize with an explicit draw mode. The render ignores
// ShouldRender because teardown has to complete. The output is finalized
// even when the render fails, so the terminal is always restored.
func (c *Console) FinalizeWithMode(root ui.Component, mode ui.DrawMode) error {
	if c.done {
		return ErrFinalized
	}
	c.done = true
	renderErr := c.renderWithMode(root, mode)
	return errors.Join(renderErr, c.out.Finalize())
}

// Stats returns counters describing the console's activity.
func (c *Console) Stats() Stats {
	s := c.stats
	s.Queued = c.queue.Len()
	s.CanvasRows = c.canvas.Rows()
	return s
}

func (c *Console) renderWithMode(root ui.Component, mode ui.DrawMode) error {
	// The last terminal row stays blank: the cursor rests there between
	// frames.
	size, err := c.Size()
	if err != nil {
		return err
	}
	size = size.SaturatingSub(1, ui.Vertical)

	// TODO: keep each write under the pipe buffer size so a frame can land
	// in a single syscall.
	var buf bytes.Buffer
	p, err := c.renderPass(&buf, root, mode, size)
	if err != nil {
		return err
	}
	if err := c.out.Output(buf.Bytes()); err != nil {
		return err
	}

	c.queue.Discard(p.drained)
	c.canvas.Commit(p.rows)
	c.stats.Frames++
	c.stats.BytesWritten += buf.Len()
	c.stats.LinesDrained += p.drained
	return nil
}

// pass is the outcome of rendering one frame into a buffer. It is applied
// to the console only after the buffer reaches the output.
type pass struct {
	drained int
	rows    int
}

func (c *Console) renderPass(buf *bytes.Buffer, root ui.Component, mode ui.DrawMode, size ui.Dimensions) (pass, error) {
	if err := c.canvas.MoveUp(buf); err != nil {
		return pass{}, err
	}

	// Draw the frame first: its height decides how many log lines fit.
	frame, err := c.canvas.Draw(root, size, mode)
	if err != nil {
		return pass{}, err
	}

	drained, err := c.queue.WritePrefix(buf, c.drainLimit(mode, size, frame.Len()))
	if err != nil {
		return pass{}, err
	}
	if _, err := frame.WritePrefix(buf, text.Unlimited); err != nil {
		return pass{}, err
	}

	// Remove whatever is left of a taller previous frame.
	buf.WriteString(ansi.EraseScreenBelow)

	return pass{drained: drained, rows: frame.Len()}, nil
}

func (c *Console) drainLimit(mode ui.DrawMode, size ui.Dimensions, frameRows int) int {
	if mode == ui.Final || c.queue.DisplayLen() > c.maxBuffered {
		return text.Unlimited
	}
	return max(size.Height-frameRows, c.minimumEmit)
}
