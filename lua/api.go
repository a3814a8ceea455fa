package lua

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	glua "github.com/yuin/gopher-lua"

	"github.com/drake/marquee/text"
)

// registerAPI installs the marquee table.
func (c *Component) registerAPI() {
	tbl := c.L.NewTable()
	c.L.SetFuncs(tbl, map[string]glua.LGFunction{
		"style":    c.luaStyle,
		"width":    luaWidth,
		"truncate": luaTruncate,
		"repeat":   luaRepeat,
	})
	c.L.SetGlobal("marquee", tbl)
}

// luaStyle colours text.
// Usage: marquee.style("ok", "71", true)
func (c *Component) luaStyle(L *glua.LState) int {
	s := L.CheckString(1)
	color := L.OptString(2, "")
	bold := L.OptBool(3, false)

	L.Push(glua.LString(c.style(color, bold).Render(s)))
	return 1
}

func (c *Component) style(color string, bold bool) lipgloss.Style {
	key := color
	if bold {
		key += "+b"
	}
	if st, ok := c.styles.Get(key); ok {
		return st
	}
	st := lipgloss.NewStyle().Bold(bold)
	if color != "" {
		st = st.Foreground(lipgloss.Color(color))
	}
	c.styles.Add(key, st)
	return st
}

// luaWidth returns the display width of text, ignoring escape sequences.
// Usage: marquee.width(s)
func luaWidth(L *glua.LState) int {
	L.Push(glua.LNumber(text.Width(L.CheckString(1))))
	return 1
}

// luaTruncate clips text to a display width, keeping its colours.
// Usage: marquee.truncate(s, 20)
func luaTruncate(L *glua.LState) int {
	s := L.CheckString(1)
	n := L.CheckInt(2)
	L.Push(glua.LString(text.FromANSI(s).Truncate(n).ANSI()))
	return 1
}

// luaRepeat repeats s n times; handy for bars and rules.
// Usage: marquee.repeat("─", width)
func luaRepeat(L *glua.LState) int {
	s := L.CheckString(1)
	n := L.CheckInt(2)
	if n < 0 {
		n = 0
	}
	L.Push(glua.LString(strings.Repeat(s, n)))
	return 1
}
