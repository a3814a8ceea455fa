package lua

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drake/marquee/ui"
)

// setupTest loads script into a fresh component.
func setupTest(t *testing.T, script string) *Component {
	t.Helper()
	c := New()
	t.Cleanup(c.Close)
	if err := c.DoString("test.lua", script); err != nil {
		t.Fatal("Failed to load script:", err)
	}
	return c
}

func TestDrawTable(t *testing.T) {
	c := setupTest(t, `
function draw(width, height, final)
  local rows = {"size " .. width .. "x" .. height}
  if final then table.insert(rows, "done") end
  return rows
end`)

	frame, err := c.Draw(ui.Dimensions{Width: 40, Height: 5}, ui.Normal)
	if err != nil {
		t.Fatal(err)
	}
	if frame.Len() != 1 || frame[0].String() != "size 40x5" {
		t.Fatalf("unexpected frame: %v", frame)
	}

	frame, err = c.Draw(ui.Dimensions{Width: 40, Height: 5}, ui.Final)
	if err != nil {
		t.Fatal(err)
	}
	if frame.Len() != 2 || frame[1].String() != "done" {
		t.Fatalf("final draw should add a row: %v", frame)
	}
}

func TestDrawString(t *testing.T) {
	c := setupTest(t, `function draw() return "a\nb" end`)

	frame, err := c.Draw(ui.Dimensions{Width: 10, Height: 10}, ui.Normal)
	if err != nil {
		t.Fatal(err)
	}
	if frame.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", frame.Len())
	}
}

func TestDrawNil(t *testing.T) {
	c := setupTest(t, `function draw() end`)

	frame, err := c.Draw(ui.Dimensions{Width: 10, Height: 10}, ui.Normal)
	if err != nil || frame.Len() != 0 {
		t.Fatalf("frame = %v, err = %v", frame, err)
	}
}

func TestSetGlobals(t *testing.T) {
	c := setupTest(t, `function draw() return {label .. ":" .. count .. ":" .. tostring(ok)} end`)
	c.Set("label", "lines")
	c.Set("count", 42)
	c.Set("ok", true)

	frame, err := c.Draw(ui.Dimensions{Width: 80, Height: 10}, ui.Normal)
	if err != nil {
		t.Fatal(err)
	}
	if got := frame[0].String(); got != "lines:42:true" {
		t.Errorf("got %q", got)
	}
}

func TestStyleAPI(t *testing.T) {
	c := setupTest(t, `
function draw(width)
  local s = marquee.style("ok", "71", true)
  return {s, tostring(marquee.width(s)), marquee.truncate("abcdef", 3), marquee.repeat("-", 4)}
end`)

	frame, err := c.Draw(ui.Dimensions{Width: 80, Height: 10}, ui.Normal)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"ok", "2", "abc", "----"}
	for i, w := range want {
		if got := frame[i].String(); got != w {
			t.Errorf("row %d = %q, want %q", i, got, w)
		}
	}
}

func TestTruncateKeepsColour(t *testing.T) {
	c := setupTest(t, `function draw() return {marquee.truncate("\27[31mhello\27[0m", 3)} end`)

	frame, err := c.Draw(ui.Dimensions{Width: 80, Height: 1}, ui.Normal)
	if err != nil {
		t.Fatal(err)
	}
	if got := frame[0].String(); got != "hel" {
		t.Errorf("visible text = %q, want %q", got, "hel")
	}
	if got := frame[0].ANSI(); !strings.Contains(got, "\x1b[31m") {
		t.Errorf("colour lost: %q", got)
	}
}

func TestScriptErrors(t *testing.T) {
	c := New()
	defer c.Close()

	if err := c.DoString("empty.lua", `x = 1`); !errors.Is(err, ErrNoDraw) {
		t.Errorf("missing draw: err = %v", err)
	}
	if err := c.DoString("syntax.lua", `function draw(`); err == nil {
		t.Error("expected a syntax error")
	}
	if _, err := c.Draw(ui.Dimensions{}, ui.Normal); !errors.Is(err, ErrNoDraw) {
		t.Errorf("Draw without script: err = %v", err)
	}

	if err := c.DoString("boom.lua", `function draw() error("boom") end`); err != nil {
		t.Fatal(err)
	}
	_, err := c.Draw(ui.Dimensions{Width: 1, Height: 1}, ui.Normal)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("runtime error not propagated: %v", err)
	}

	if err := c.DoString("bad.lua", `function draw() return 42 end`); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Draw(ui.Dimensions{Width: 1, Height: 1}, ui.Normal); err == nil {
		t.Error("a number is not a frame")
	}
}

func TestDoFileRequiresSiblings(t *testing.T) {
	dir := t.TempDir()
	helper := `return { title = function() return "from helper" end }`
	main := `local h = require("helper")
function draw() return {h.title()} end`
	if err := os.WriteFile(filepath.Join(dir, "helper.lua"), []byte(helper), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "canvas.lua"), []byte(main), 0o600); err != nil {
		t.Fatal(err)
	}

	c := New()
	defer c.Close()
	if err := c.DoFile(filepath.Join(dir, "canvas.lua")); err != nil {
		t.Fatal(err)
	}
	frame, err := c.Draw(ui.Dimensions{Width: 20, Height: 2}, ui.Normal)
	if err != nil {
		t.Fatal(err)
	}
	if frame[0].String() != "from helper" {
		t.Errorf("got %q", frame[0].String())
	}
}
