package text

import (
	"github.com/charmbracelet/x/ansi"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mattn/go-runewidth"
)

// widthCacheSize bounds the memoised widths. Status lines repeat the same
// fragments every tick, so a small cache covers most lookups.
const widthCacheSize = 4096

var widthCache, _ = lru.New[string, int](widthCacheSize)

// Width returns the display width of s in terminal cells.
// ANSI escape sequences are not counted.
func Width(s string) int {
	if s == "" {
		return 0
	}
	if w, ok := widthCache.Get(s); ok {
		return w
	}
	w := runewidth.StringWidth(ansi.Strip(s))
	widthCache.Add(s, w)
	return w
}
