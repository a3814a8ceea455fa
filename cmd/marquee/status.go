package main

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/drake/marquee/text"
	"github.com/drake/marquee/ui"
	"github.com/drake/marquee/ui/style"
)

// status is the one-row canvas shown under the command's output.
type status struct {
	styles  style.Styles
	spinner spinner.Spinner
	command string

	started time.Time
	now     time.Time
	lines   int
	dropped int64

	exited   bool
	exitCode int
}

func newStatus(styles style.Styles, args []string, started time.Time) *status {
	return &status{
		styles:  styles,
		spinner: spinner.Dot,
		command: strings.Map(printable, strings.Join(args, " ")),
		started: started,
		now:     started,
	}
}

func (s *status) elapsed() time.Duration {
	return s.now.Sub(s.started).Round(100 * time.Millisecond)
}

func (s *status) Draw(_ ui.Dimensions, mode ui.DrawMode) (text.Lines, error) {
	var b lineBuilder

	switch {
	case mode == ui.Final && s.exited && s.exitCode == 0:
		b.add("✓", s.styles.Success)
	case mode == ui.Final:
		b.add("✗", s.styles.Failure)
	default:
		frames := s.spinner.Frames
		i := int(s.now.Sub(s.started)/s.spinner.FPS) % len(frames)
		b.add(frames[i], s.styles.Spinner)
	}

	b.add(" ", lipgloss.NewStyle())
	b.add(s.command, s.styles.Command)

	sep := s.styles.Separator
	b.add(" · ", sep)
	b.add(fmt.Sprintf("%d lines", s.lines), s.styles.Counter)
	if s.dropped > 0 {
		b.add(" · ", sep)
		b.add(fmt.Sprintf("%d dropped", s.dropped), s.styles.Warn)
	}
	b.add(" · ", sep)
	b.add(s.elapsed().String(), s.styles.Elapsed)

	if mode == ui.Final && s.exited {
		b.add(" · ", sep)
		st := s.styles.Success
		if s.exitCode != 0 {
			st = s.styles.Failure
		}
		b.add(fmt.Sprintf("exit %d", s.exitCode), st)
	}

	if b.err != nil {
		return nil, b.err
	}
	return text.Lines{b.line}, nil
}

func printable(r rune) rune {
	if unicode.IsControl(r) {
		return ' '
	}
	return r
}

// lineBuilder collects styled spans, keeping the first error.
type lineBuilder struct {
	line text.Line
	err  error
}

func (b *lineBuilder) add(s string, st lipgloss.Style) {
	if b.err != nil {
		return
	}
	span, err := text.Styled(s, st)
	if err != nil {
		b.err = err
		return
	}
	b.line = append(b.line, span)
}
