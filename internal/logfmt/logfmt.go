// Package logfmt turns raw output lines from a child process into styled
// log lines.
package logfmt

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/tidwall/gjson"

	"github.com/drake/marquee/text"
	"github.com/drake/marquee/ui/style"
)

var (
	levelKeys   = []string{"level", "lvl", "severity"}
	messageKeys = []string{"msg", "message"}
	timeKeys    = []string{"time", "ts", "timestamp"}
)

// Decoder converts lines. With JSON set, structured log records such as
// {"level":"info","msg":"ready","port":8080} are shown as a coloured level,
// the message and the remaining fields; anything else passes through.
type Decoder struct {
	JSON   bool
	Styles style.Styles
}

// Decode converts one line of output.
func (d Decoder) Decode(raw string) text.Line {
	raw = strings.TrimRight(raw, "\r\n")
	if d.JSON {
		if line, ok := d.decodeJSON(raw); ok {
			return line
		}
	}
	return text.FromANSI(raw)
}

func (d Decoder) decodeJSON(raw string) (text.Line, bool) {
	if !gjson.Valid(raw) {
		return nil, false
	}
	rec := gjson.Parse(raw)
	if !rec.IsObject() {
		return nil, false
	}

	level := strings.ToLower(first(rec, levelKeys).String())
	msg := first(rec, messageKeys).String()

	var line text.Line
	if level != "" {
		lvl := d.Styles.Level(level)
		line = append(line, span(strings.ToUpper(pad(level, 5)), &lvl), span(" ", nil))
	}
	line = append(line, span(msg, nil))

	skip := make(map[string]bool)
	for _, keys := range [][]string{levelKeys, messageKeys, timeKeys} {
		for _, k := range keys {
			skip[k] = true
		}
	}
	rec.ForEach(func(key, value gjson.Result) bool {
		if skip[key.String()] {
			return true
		}
		line = append(line, span(" "+key.String()+"=", &d.Styles.Muted), span(value.String(), nil))
		return true
	})
	return line, true
}

func first(rec gjson.Result, keys []string) gjson.Result {
	for _, k := range keys {
		if r := rec.Get(k); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

// span builds a span from arbitrary text, replacing control characters so
// the span is always valid. A nil style leaves the text plain.
func span(s string, st *lipgloss.Style) text.Span {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	var sp text.Span
	if st == nil {
		sp, _ = text.NewSpan(s)
	} else {
		sp, _ = text.Styled(s, *st)
	}
	return sp
}
