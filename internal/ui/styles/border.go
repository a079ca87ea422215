package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

const dot = "●"

// ChromeDots renders the red/yellow/green window buttons.
func ChromeDots() string {
	return lipgloss.NewStyle().Foreground(DotRedColor).Render(dot) + " " +
		lipgloss.NewStyle().Foreground(DotYellowColor).Render(dot) + " " +
		lipgloss.NewStyle().Foreground(DotGreenColor).Render(dot)
}

// chromeDotsWidth is the display width of ChromeDots.
const chromeDotsWidth = 5

// RenderWindow draws content inside a rounded editor window whose top
// border carries the chrome dots and the file name:
//
//	╭─ ● ● ●  main.go ─────╮
//
// The title is truncated with an ellipsis when it does not fit. width and
// height include the border.
func RenderWindow(content, title string, width, height int, focused bool) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if focused {
		borderColor = BorderFocusColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(TextSecondaryColor)

	innerWidth := max(width-2, 1)
	contentHeight := max(height-2, 1)

	top := buildTopBorder(title, innerWidth, borderStyle, titleStyle)
	bottom := borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight)

	lines := strings.Split(content, "\n")
	var b strings.Builder
	b.WriteString(top)
	for i := 0; i < contentHeight; i++ {
		var line string
		if i < len(lines) {
			line = TruncateANSI(lines[i], innerWidth)
		}
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		b.WriteString("\n")
		b.WriteString(borderStyle.Render(borderVertical) + line + borderStyle.Render(borderVertical))
	}
	b.WriteString("\n")
	b.WriteString(bottom)
	return b.String()
}

// buildTopBorder creates the top border with the dots and the title.
func buildTopBorder(title string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	// "─ " + dots + " "
	lead := 2 + chromeDotsWidth + 1
	if innerWidth < lead+1 {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	}

	head := borderStyle.Render(borderTopLeft+borderHorizontal+" ") + ChromeDots() + " "
	used := lead

	if title != "" {
		// " " + title + " " and at least one trailing dash
		available := innerWidth - used - 3
		if available > 0 {
			display := TruncateString(title, available)
			head += " " + titleStyle.Render(display) + " "
			used += 2 + lipgloss.Width(display)
		}
	}

	return head + borderStyle.Render(strings.Repeat(borderHorizontal, max(innerWidth-used, 0))+borderTopRight)
}
