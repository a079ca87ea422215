package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// TruncateString truncates plain text to fit within maxWidth, adding an
// ellipsis if needed.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// TruncateANSI cuts styled text to maxWidth cells without breaking escape
// sequences.
func TruncateANSI(s string, maxWidth int) string {
	return ansi.Truncate(s, maxWidth, "")
}

// Gutter renders right-aligned line numbers 1..lines, one per line.
func Gutter(lines int) string {
	if lines < 1 {
		lines = 1
	}
	width := len(fmt.Sprint(lines))
	style := lipgloss.NewStyle().Foreground(GutterColor)

	var b strings.Builder
	for i := 1; i <= lines; i++ {
		if i > 1 {
			b.WriteByte('\n')
		}
		b.WriteString(style.Render(fmt.Sprintf("%*d ", width, i)))
	}
	return b.String()
}

// FormatSpeed formats a playback speed multiplier, e.g. "1.25x".
func FormatSpeed(speed float64) string {
	return fmt.Sprintf("%.2fx", speed)
}
