package text

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestNewSpanRejectsControlCharacters(t *testing.T) {
	for _, s := range []string{"a\nb", "tab\there", "bell\a", "cr\r"} {
		if _, err := NewSpan(s); !errors.Is(err, ErrInvalidSpan) {
			t.Errorf("NewSpan(%q) err = %v, want ErrInvalidSpan", s, err)
		}
	}
	if _, err := NewSpan("plain ✓ text"); err != nil {
		t.Errorf("unexpected error for printable text: %v", err)
	}
}

func TestLineLen(t *testing.T) {
	tests := []struct {
		name string
		line Line
		want int
	}{
		{"ascii", mustLine(t, "hello"), 5},
		{"wide", mustLine(t, "日本"), 4},
		{"empty", Line{}, 0},
		{"ansi ignored", FromANSI("\x1b[31mred\x1b[0m"), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.line.Len(); got != tt.want {
				t.Errorf("Len() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLineLenSumsSpans(t *testing.T) {
	a, _ := NewSpan("ab")
	b, _ := Styled("cde", lipgloss.NewStyle().Bold(true))
	if got := NewLine(a, b).Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}
}

func TestTruncate(t *testing.T) {
	a, _ := NewSpan("abc")
	b, _ := NewSpan("日本語")
	line := NewLine(a, b)

	tests := []struct {
		width int
		want  string
	}{
		{10, "abc日本語"},
		{5, "abc日"},
		// A wide rune never gets split in half.
		{4, "abc"},
		{2, "ab"},
		{0, ""},
	}
	for _, tt := range tests {
		got := line.Truncate(tt.width)
		if got.String() != tt.want {
			t.Errorf("Truncate(%d) = %q, want %q", tt.width, got.String(), tt.want)
		}
		if got.Len() > tt.width {
			t.Errorf("Truncate(%d) produced %d cells", tt.width, got.Len())
		}
	}
}

func TestTruncateANSI(t *testing.T) {
	line := FromANSI("\x1b[32mgreen text\x1b[0m")
	got := line.Truncate(5)
	if got.String() != "green" {
		t.Errorf("Truncate(5) = %q, want %q", got.String(), "green")
	}
}

func TestFromANSIStripsCursorMovement(t *testing.T) {
	line := FromANSI("a\tb\r\n")
	if got := line.String(); got != "a    b" {
		t.Errorf("String() = %q", got)
	}
}

func TestFromANSIDropsControlSequences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string // bytes of the rendered row before the erase
	}{
		{"clear screen", "a\x1b[2Jb", "ab"},
		{"cursor up", "a\x1b[5Ab", "ab"},
		{"cursor home", "\x1b[Hab", "ab"},
		{"cursor position", "a\x1b[10;20Hb", "ab"},
		{"backspace", "ab\bc", "abc"},
		{"bell", "ab\a", "ab"},
		{"osc title", "\x1b]0;title\x07ab", "ab"},
		{"private mode", "\x1b[?25lab", "ab"},
		{"sgr kept", "\x1b[31mab", "\x1b[31mab" + ansi.ResetStyle},
		{"sgr with subparams kept", "\x1b[38:5:196mab", "\x1b[38:5:196mab" + ansi.ResetStyle},
		{"wide text kept", "日本", "日本"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := FromANSI(tt.in).Render(&buf); err != nil {
				t.Fatal(err)
			}
			want := tt.want + ansi.EraseLineRight + "\n"
			if buf.String() != want {
				t.Errorf("FromANSI(%q) rendered %q, want %q", tt.in, buf.String(), want)
			}
		})
	}
}

func TestTruncateNeverExceedsWidth(t *testing.T) {
	inputs := []string{
		"👍🏽 thumbs",
		"🇯🇵🇫🇷 flags",
		"e\u0301tude",
		"ｆｕｌｌ width",
		"👨‍👩‍👧 family",
	}
	for _, in := range inputs {
		for _, line := range []Line{mustLine(t, in), FromANSI("\x1b[1m" + in)} {
			for w := 0; w <= line.Len(); w++ {
				if got := line.Truncate(w).Len(); got > w {
					t.Errorf("Truncate(%d) of %q has width %d", w, in, got)
				}
			}
		}
	}
}

func TestRenderTerminatesRow(t *testing.T) {
	var buf bytes.Buffer
	if err := mustLine(t, "status").Render(&buf); err != nil {
		t.Fatal(err)
	}
	want := "status" + ansi.EraseLineRight + "\n"
	if buf.String() != want {
		t.Errorf("Render wrote %q, want %q", buf.String(), want)
	}
}

func TestRenderResetsRawStyle(t *testing.T) {
	var buf bytes.Buffer
	if err := FromANSI("\x1b[1mbold").Render(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), ansi.ResetStyle) {
		t.Errorf("raw styled text should be followed by a reset: %q", buf.String())
	}
}

func TestWidthCache(t *testing.T) {
	// Repeated lookups must agree with the first computation.
	for i := 0; i < 3; i++ {
		if got := Width("ｆｕｌｌ"); got != 8 {
			t.Fatalf("Width = %d, want 8", got)
		}
	}
}

func mustLine(t *testing.T, s string) Line {
	t.Helper()
	l, err := Plain(s)
	if err != nil {
		t.Fatal(err)
	}
	return l
}
