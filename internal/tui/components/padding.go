package components

import (
	"strings"
	"sync"
)

const maxCachedPad = 120

var (
	paddingCache [maxCachedPad + 1]string
	paddingOnce  sync.Once
)

func initPaddingCache() {
	for i := 1; i <= maxCachedPad; i++ {
		paddingCache[i] = strings.Repeat(" ", i)
	}
}

// Pad returns a string of n spaces. Widths up to maxCachedPad are served from
// a shared cache since rows are re-padded on every render.
func Pad(n int) string {
	if n <= 0 {
		return ""
	}
	if n <= maxCachedPad {
		paddingOnce.Do(initPaddingCache)
		return paddingCache[n]
	}
	return strings.Repeat(" ", n)
}

// PadRight pads s with spaces to the given display width. Strings already at
// or past width are returned unchanged.
func PadRight(s string, width, displayWidth int) string {
	return s + Pad(width-displayWidth)
}
