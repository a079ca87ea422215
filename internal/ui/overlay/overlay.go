// Package overlay draws a box over an already rendered screen, keeping the
// styling of the cells around it.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position is the anchor for the foreground box.
type Position int

const (
	// Center places the box in the middle of the screen (log viewer).
	Center Position = iota
	// BottomRight places the box in the bottom right corner (toasts).
	BottomRight
)

// Config describes the screen and where the box goes.
type Config struct {
	Width    int
	Height   int
	Position Position
	// Margin is the gap kept to the screen edges for BottomRight.
	Margin int
}

// Place draws fg over bg. bg is padded with blank rows up to cfg.Height; a
// box larger than the screen is clipped at the bottom and starts at column 0.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, "")
	}

	x, y := origin(cfg, lipgloss.Width(fg), len(fgLines))
	for i, line := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = splice(bgLines[row], line, x)
	}
	return strings.Join(bgLines, "\n")
}

// splice replaces the cells of under starting at column x with line.
func splice(under, line string, x int) string {
	left := ansi.Truncate(under, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	right := ""
	if end := x + ansi.StringWidth(line); end < ansi.StringWidth(under) {
		right = ansi.TruncateLeft(under, end, "")
	}
	return left + line + right
}

func origin(cfg Config, w, h int) (x, y int) {
	switch cfg.Position {
	case BottomRight:
		x = cfg.Width - w - cfg.Margin
		y = cfg.Height - h - cfg.Margin
	default:
		x = (cfg.Width - w) / 2
		y = (cfg.Height - h) / 2
	}
	return max(x, 0), max(y, 0)
}
