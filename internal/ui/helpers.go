package ui

import "fmt"

const (
	// MaxLogsInViewer is how many rows the log viewer draws at once
	MaxLogsInViewer = 40

	// DefaultViewerWidth is used until the terminal reports its size
	DefaultViewerWidth = 100
)

// Plural formats a count with its noun, e.g. "1 line", "3 lines"
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// Clamp bounds v to [lo, hi]. hi wins when lo > hi.
func Clamp(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}
