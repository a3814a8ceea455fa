// Package debug provides runtime monitoring and diagnostics.
package debug

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/drake/marquee/console"
)

// Enabled returns true if debug mode is active (MARQUEE_DEBUG=1).
func Enabled() bool {
	return os.Getenv("MARQUEE_DEBUG") == "1"
}

// Monitor logs console statistics at a fixed interval. It is driven from the
// goroutine that owns the console, so it never reads console state
// concurrently with a render.
type Monitor struct {
	interval time.Duration
	logger   *log.Logger
	last     time.Time
	prev     console.Stats
}

// NewMonitor creates a monitor writing to w. A nil *Monitor is valid and
// does nothing, so callers can skip the enabled check.
func NewMonitor(w io.Writer, interval time.Duration) *Monitor {
	return &Monitor{
		interval: interval,
		logger:   log.New(w, "", log.LstdFlags),
	}
}

// Logger returns the monitor's logger, or nil.
func (m *Monitor) Logger() *log.Logger {
	if m == nil {
		return nil
	}
	return m.logger
}

// Observe logs s if the interval has passed since the last log line.
func (m *Monitor) Observe(now time.Time, s console.Stats) {
	if m == nil {
		return
	}
	if m.last.IsZero() {
		m.last = now
		m.prev = s
		m.logger.Println("[DEBUG] Monitor started")
		return
	}
	if now.Sub(m.last) < m.interval {
		return
	}

	elapsed := now.Sub(m.last).Seconds()
	fps := float64(s.Frames-m.prev.Frames) / elapsed
	m.logger.Printf("[DEBUG] frames=%d (%.1f/s) bytes=%d drained=%d skipped=%d queued=%d canvas=%d",
		s.Frames, fps,
		s.BytesWritten,
		s.LinesDrained,
		s.SkippedRenders,
		s.Queued,
		s.CanvasRows,
	)
	m.last = now
	m.prev = s
}

// Stop logs the final statistics.
func (m *Monitor) Stop(s console.Stats) {
	if m == nil {
		return
	}
	m.logger.Printf("[DEBUG] Monitor stopped: frames=%d bytes=%d drained=%d skipped=%d",
		s.Frames, s.BytesWritten, s.LinesDrained, s.SkippedRenders)
}
