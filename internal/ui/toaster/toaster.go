// Package toaster shows short-lived notices, such as theme changes or failed
// preference writes, in the bottom right corner of the screen.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/livecode/internal/ui/overlay"
	"github.com/zjrosen/livecode/internal/ui/styles"
)

// Style determines the border color and icon of the toast.
type Style int

const (
	StyleInfo Style = iota
	StyleError
)

// DefaultDuration is how long a toast stays up.
const DefaultDuration = 2 * time.Second

// Model holds the toaster state.
type Model struct {
	message string
	style   Style
	seq     int
}

// New creates an empty toaster.
func New() Model {
	return Model{}
}

// DismissMsg hides the toast it was scheduled for. A newer toast is left
// alone.
type DismissMsg struct {
	seq int
}

// Show displays message and returns the command that dismisses it after d.
func (m Model) Show(message string, style Style, d time.Duration) (Model, tea.Cmd) {
	m.seq++
	m.message = message
	m.style = style
	seq := m.seq
	return m, tea.Tick(d, func(time.Time) tea.Msg {
		return DismissMsg{seq: seq}
	})
}

// Update handles dismissals.
func (m Model) Update(msg tea.Msg) Model {
	if dismiss, ok := msg.(DismissMsg); ok && dismiss.seq == m.seq {
		m.message = ""
	}
	return m
}

// Visible reports whether a toast is showing.
func (m Model) Visible() bool {
	return m.message != ""
}

// Message returns the current toast text.
func (m Model) Message() string {
	return m.message
}

// View renders the toast box.
func (m Model) View() string {
	if m.message == "" {
		return ""
	}
	style := lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	if m.style == StyleError {
		return style.BorderForeground(styles.ToastBorderErrorColor).Render("✗ " + m.message)
	}
	return style.BorderForeground(styles.ToastBorderInfoColor).Render("● " + m.message)
}

// Overlay draws the toast over the bottom right corner of bg, which is
// width by height cells.
func (m Model) Overlay(bg string, width, height int) string {
	fg := m.View()
	if fg == "" {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.BottomRight,
		Margin:   1,
	}, fg, bg)
}
