// Package logoverlay shows recent debug log entries on top of the running
// player without leaving the terminal UI.
package logoverlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/livecode/internal/log"
	"github.com/zjrosen/livecode/internal/ui/overlay"
	"github.com/zjrosen/livecode/internal/ui/styles"
)

const (
	viewportMaxHeight = 25
	viewportMinHeight = 5
	boxMaxWidth       = 160
	boxMinWidth       = 40
)

// Model is the log viewer state.
type Model struct {
	visible  bool
	minLevel log.Level
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden log viewer showing every level.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// Visible reports whether the viewer is open.
func (m Model) Visible() bool {
	return m.visible
}

// MinLevel returns the lowest level shown.
func (m Model) MinLevel() log.Level {
	return m.minLevel
}

// Toggle opens or closes the viewer.
func (m Model) Toggle() Model {
	m.visible = !m.visible
	if m.visible {
		m.refresh()
		m.viewport.GotoBottom()
	}
	return m
}

// SetSize records the screen size.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.refresh()
	return m
}

// Refresh reloads the entries, following the tail when the view was already
// at the bottom.
func (m Model) Refresh() Model {
	if !m.visible {
		return m
	}
	atBottom := m.viewport.AtBottom()
	m.refresh()
	if atBottom {
		m.viewport.GotoBottom()
	}
	return m
}

// Update handles keys while the viewer is open. Keys are swallowed so they
// never reach the screen underneath.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "c":
		log.ClearRecent()
		m.refresh()
	case "d":
		m = m.filter(log.LevelDebug)
	case "i":
		m = m.filter(log.LevelInfo)
	case "w":
		m = m.filter(log.LevelWarn)
	case "e":
		m = m.filter(log.LevelError)
	case "j", "down":
		m.viewport.ScrollDown(1)
	case "k", "up":
		m.viewport.ScrollUp(1)
	case "g":
		m.viewport.GotoTop()
	case "G":
		m.viewport.GotoBottom()
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+x", "esc":
		m.visible = false
	}
	return m, nil
}

func (m Model) filter(level log.Level) Model {
	m.minLevel = level
	m.refresh()
	return m
}

// View renders the viewer box.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	boxWidth := m.boxWidth()

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1).
		Render("Logs")
	divider := lipgloss.NewStyle().
		Foreground(styles.OverlayBorderColor).
		Render(strings.Repeat("─", boxWidth))

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		divider,
		m.viewport.View(),
		divider,
		m.filterHint(),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(boxWidth).
		Render(body)
}

// Overlay draws the viewer in the middle of bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

func (m *Model) refresh() {
	if m.width == 0 || m.height == 0 {
		return
	}
	// Title, two dividers, the hint and the border take six rows.
	height := max(min(viewportMaxHeight, m.height-6), viewportMinHeight)
	width := m.contentWidth()
	if m.viewport.Width != width || m.viewport.Height != height {
		offset := m.viewport.YOffset
		m.viewport = viewport.New(width, height)
		m.viewport.YOffset = offset
	}
	m.viewport.SetContent(m.content(width))
}

func (m Model) content(width int) string {
	var lines []string
	for _, entry := range log.Recent() {
		level, known := entryLevel(entry)
		if known && level < m.minLevel {
			continue
		}
		lines = append(lines, colorize(entry, level, known, width))
	}
	if len(lines) == 0 {
		return lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Italic(true).
			Render("No logs to display")
	}
	return strings.Join(lines, "\n")
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m Model) contentWidth() int {
	return m.boxWidth() - 2
}

// entryLevel reads the level tag written by the log package.
func entryLevel(entry string) (log.Level, bool) {
	for _, level := range []log.Level{log.LevelError, log.LevelWarn, log.LevelInfo, log.LevelDebug} {
		if strings.Contains(entry, "["+level.String()+"]") {
			return level, true
		}
	}
	return log.LevelDebug, false
}

func colorize(entry string, level log.Level, known bool, width int) string {
	if ansi.StringWidth(entry) > width {
		entry = ansi.Truncate(entry, width, "...")
	}
	color := styles.TextPrimaryColor
	if known {
		switch level {
		case log.LevelError:
			color = styles.StatusErrorColor
		case log.LevelWarn:
			color = styles.StatusWarningColor
		case log.LevelInfo:
			color = styles.ToastBorderInfoColor
		default:
			color = styles.TextMutedColor
		}
	}
	return lipgloss.NewStyle().Foreground(color).Render(entry)
}

func (m Model) filterHint() string {
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)

	parts := []string{hint.Render("[c] Clear")}
	for _, f := range []struct {
		level log.Level
		label string
	}{
		{log.LevelDebug, "[d] Debug"},
		{log.LevelInfo, "[i] Info"},
		{log.LevelWarn, "[w] Warn"},
		{log.LevelError, "[e] Error"},
	} {
		if f.level == m.minLevel {
			parts = append(parts, active.Render(f.label))
		} else {
			parts = append(parts, hint.Render(f.label))
		}
	}
	return strings.Join(parts, "  ")
}
