package text

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// ErrInvalidSpan is returned when span text contains characters that would
// move the cursor on their own (newlines, tabs, other control characters).
var ErrInvalidSpan = errors.New("invalid span text")

// Span is a fragment of text drawn with a single style.
type Span struct {
	Text  string
	Style lipgloss.Style

	styled bool
	raw    bool // Text carries its own escape sequences
}

// NewSpan creates an unstyled span.
func NewSpan(s string) (Span, error) {
	if err := validate(s); err != nil {
		return Span{}, err
	}
	return Span{Text: s}, nil
}

// Styled creates a span drawn with style.
func Styled(s string, style lipgloss.Style) (Span, error) {
	if err := validate(s); err != nil {
		return Span{}, err
	}
	return Span{Text: s, Style: style, styled: true}, nil
}

func validate(s string) error {
	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q", ErrInvalidSpan, s)
		}
	}
	return nil
}

// Len returns the display width of the span.
func (s Span) Len() int {
	return Width(s.Text)
}

func (s Span) render() string {
	switch {
	case s.raw:
		if strings.IndexByte(s.Text, ansi.ESC) >= 0 {
			return s.Text + ansi.ResetStyle
		}
		return s.Text
	case s.styled:
		return s.Style.Render(s.Text)
	default:
		return s.Text
	}
}

// truncate clips the span to width cells. Widths are measured per grapheme
// cluster with the same metric as Width, so the result never measures
// wider than width.
func (s Span) truncate(width int) Span {
	var b strings.Builder
	used := 0
	if s.raw {
		rest := s.Text
		var state byte
		for rest != "" {
			seq, _, n, newState := ansi.DecodeSequence(rest, state, nil)
			state = newState
			rest = rest[max(n, 1):]
			if isSGR(seq) {
				b.WriteString(seq)
				continue
			}
			w := runewidth.StringWidth(seq)
			if used+w > width {
				break
			}
			b.WriteString(seq)
			used += w
		}
		s.Text = b.String()
		return s
	}

	rest := s.Text
	state := -1
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		w := runewidth.StringWidth(cluster)
		if used+w > width {
			break
		}
		b.WriteString(cluster)
		used += w
	}
	s.Text = b.String()
	return s
}

// Line is one row of styled text.
type Line []Span

// NewLine joins spans into a line.
func NewLine(spans ...Span) Line {
	return Line(spans)
}

// Plain creates a single-span unstyled line.
func Plain(s string) (Line, error) {
	span, err := NewSpan(s)
	if err != nil {
		return nil, err
	}
	return Line{span}, nil
}

// FromANSI wraps text that may already contain SGR sequences, as produced by
// child processes or other renderers. Only colours and attributes survive:
// tabs become spaces, and every other escape sequence (cursor movement,
// screen clears, OSC titles) and control character is removed. Only the
// console moves the cursor.
func FromANSI(s string) Line {
	s = strings.ReplaceAll(s, "\t", "    ")

	var b strings.Builder
	var state byte
	for s != "" {
		seq, width, n, newState := ansi.DecodeSequence(s, state, nil)
		state = newState
		s = s[max(n, 1):]
		if width > 0 || isSGR(seq) || isPrintable(seq) {
			b.WriteString(seq)
		}
	}
	return Line{{Text: b.String(), raw: true}}
}

// isSGR reports whether seq is a complete "CSI ... m" sequence.
func isSGR(seq string) bool {
	body, ok := strings.CutPrefix(seq, "\x1b[")
	if !ok {
		return false
	}
	params, ok := strings.CutSuffix(body, "m")
	if !ok {
		return false
	}
	return strings.Trim(params, "0123456789;:") == ""
}

// isPrintable reports whether a zero-width grapheme (a lone combining mark,
// say) is text rather than a control character or stray byte.
func isPrintable(seq string) bool {
	r, size := utf8.DecodeRuneInString(seq)
	if r == utf8.RuneError && size <= 1 {
		return false
	}
	return !unicode.IsControl(r)
}

// Len returns the display width of the line in terminal cells.
func (l Line) Len() int {
	n := 0
	for _, s := range l {
		n += s.Len()
	}
	return n
}

// Truncate returns the line clipped to at most width cells.
func (l Line) Truncate(width int) Line {
	if width <= 0 {
		return Line{}
	}
	if l.Len() <= width {
		return l
	}

	out := make(Line, 0, len(l))
	remaining := width
	for _, s := range l {
		n := s.Len()
		if n <= remaining {
			out = append(out, s)
			remaining -= n
			continue
		}
		if remaining > 0 {
			out = append(out, s.truncate(remaining))
		}
		break
	}
	return out
}

// String returns the visible text of the line without styling.
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l {
		if s.raw {
			b.WriteString(ansi.Strip(s.Text))
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// ANSI returns the line with its styling as escape sequences.
func (l Line) ANSI() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.render())
	}
	return b.String()
}

// Render writes the line as one terminal row: the styled spans, an erase to
// the end of the row so leftovers of a longer previous row disappear, and a
// newline.
func (l Line) Render(w io.Writer) error {
	_, err := io.WriteString(w, l.ANSI()+ansi.EraseLineRight+"\n")
	return err
}
