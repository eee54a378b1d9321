package output

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// ansiRegex matches ANSI escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// displayWidth returns the visible terminal width of s, ignoring color codes.
func displayWidth(s string) int {
	return runewidth.StringWidth(stripAnsi(s))
}

// fit truncates plain text to width columns with a trailing "..." and pads
// it with spaces to exactly width.
func fit(s string, width int) string {
	s = runewidth.Truncate(s, width, "...")
	return padRight(s, runewidth.StringWidth(s), width)
}

// padRight pads s (whose visible width is visible) to target columns.
func padRight(s string, visible, target int) string {
	if visible >= target {
		return s
	}
	return s + strings.Repeat(" ", target-visible)
}

// formatAge renders how long ago something happened: "now", "5m", "2h",
// "3d", "2w", "3mo".
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	days := int(d.Hours() / 24)
	switch {
	case days < 7:
		return fmt.Sprintf("%dd", days)
	case days < 30:
		return fmt.Sprintf("%dw", days/7)
	default:
		return fmt.Sprintf("%dmo", days/30)
	}
}

// compact renders counts as "950", "1.2k", "34k".
func compact(n int) string {
	switch {
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case n < 10000:
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	default:
		return fmt.Sprintf("%dk", n/1000)
	}
}
