package lua

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru/v2"
	glua "github.com/yuin/gopher-lua"

	"github.com/drake/marquee/text"
	"github.com/drake/marquee/ui"
)

// ErrNoDraw is returned when a script does not define a global draw function.
var ErrNoDraw = errors.New("script does not define draw(width, height, final)")

// Component is a canvas component implemented by a Lua script. The script
// defines a global function
//
//	function draw(width, height, final) ... end
//
// returning a string or an array of strings, one per row. Rows may contain
// ANSI styling; marquee.style(text, color, bold) builds styled text.
type Component struct {
	L *glua.LState

	styles *lru.Cache[string, lipgloss.Style]
	draw   *glua.LFunction
}

// New creates a component with a fresh Lua state and the marquee API
// registered. Load a script with DoString or DoFile before drawing.
func New() *Component {
	cache, _ := lru.New[string, lipgloss.Style](64)
	c := &Component{
		L:      glua.NewState(),
		styles: cache,
	}
	c.registerAPI()
	return c
}

// Close releases the Lua state.
func (c *Component) Close() {
	if c.L != nil {
		c.L.Close()
		c.L = nil
	}
}

// DoString executes a raw string of Lua code.
// The name parameter is used for stack traces.
func (c *Component) DoString(name, code string) error {
	fn, err := c.L.Load(strings.NewReader(code), name)
	if err != nil {
		return err
	}
	c.L.Push(fn)
	if err := c.L.PCall(0, 0, nil); err != nil {
		return err
	}
	return c.bindDraw()
}

// DoFile executes a Lua file from the filesystem.
// It temporarily adjusts package.path to allow local requires.
func (c *Component) DoFile(path string) error {
	path = expandTilde(path)

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(absPath)

	// Temporarily prepend script's directory to package.path
	pkg := c.L.GetGlobal("package").(*glua.LTable)
	oldPath := c.L.GetField(pkg, "path").String()
	c.L.SetField(pkg, "path", glua.LString(dir+"/?.lua;"+oldPath))

	err = c.L.DoFile(absPath)

	// Restore original path
	c.L.SetField(pkg, "path", glua.LString(oldPath))

	if err != nil {
		return err
	}
	return c.bindDraw()
}

func (c *Component) bindDraw() error {
	fn, ok := c.L.GetGlobal("draw").(*glua.LFunction)
	if !ok {
		return ErrNoDraw
	}
	c.draw = fn
	return nil
}

// Set exposes a host value to the script as a global. Supported types are
// string, bool, the integer types and float64; anything else is formatted
// as a string.
func (c *Component) Set(name string, value any) {
	c.L.SetGlobal(name, toLValue(value))
}

func toLValue(v any) glua.LValue {
	switch v := v.(type) {
	case nil:
		return glua.LNil
	case string:
		return glua.LString(v)
	case bool:
		return glua.LBool(v)
	case int:
		return glua.LNumber(v)
	case int64:
		return glua.LNumber(v)
	case float64:
		return glua.LNumber(v)
	default:
		return glua.LString(fmt.Sprint(v))
	}
}

// Draw calls the script's draw function.
func (c *Component) Draw(size ui.Dimensions, mode ui.DrawMode) (text.Lines, error) {
	if c.draw == nil {
		return nil, ErrNoDraw
	}

	if err := c.L.CallByParam(glua.P{
		Fn:      c.draw,
		NRet:    1,
		Protect: true,
	}, glua.LNumber(size.Width), glua.LNumber(size.Height), glua.LBool(mode == ui.Final)); err != nil {
		return nil, fmt.Errorf("lua draw: %w", err)
	}

	ret := c.L.Get(-1)
	c.L.Pop(1)

	switch v := ret.(type) {
	case *glua.LNilType:
		return nil, nil
	case glua.LString:
		return rows(strings.Split(string(v), "\n")), nil
	case *glua.LTable:
		var out []string
		v.ForEach(func(_, row glua.LValue) {
			out = append(out, row.String())
		})
		return rows(out), nil
	default:
		return nil, fmt.Errorf("lua draw: want string or table, got %s", ret.Type())
	}
}

func rows(rs []string) text.Lines {
	out := make(text.Lines, 0, len(rs))
	for _, r := range rs {
		out = append(out, text.FromANSI(r))
	}
	return out
}

func expandTilde(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
