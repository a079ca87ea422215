package toaster

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestNew_Hidden(t *testing.T) {
	m := New()
	require.False(t, m.Visible())
	require.Empty(t, m.View())
	require.Equal(t, "bg", m.Overlay("bg", 10, 1))
}

func TestShow_ReturnsDismissCmd(t *testing.T) {
	m, cmd := New().Show("Theme: dark", StyleInfo, time.Millisecond)
	require.True(t, m.Visible())
	require.Contains(t, m.View(), "Theme: dark")
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, DismissMsg{}, msg)
	m = m.Update(msg)
	require.False(t, m.Visible())
}

func TestDismiss_IgnoresOlderToast(t *testing.T) {
	m, first := New().Show("first", StyleInfo, time.Millisecond)
	m, _ = m.Show("second", StyleError, time.Hour)

	m = m.Update(first())
	require.True(t, m.Visible())
	require.Equal(t, "second", m.Message())
}

func TestView_Icons(t *testing.T) {
	info, _ := New().Show("saved", StyleInfo, time.Second)
	require.Contains(t, info.View(), "● saved")

	failed, _ := New().Show("could not save", StyleError, time.Second)
	require.Contains(t, failed.View(), "✗ could not save")
}

func TestOverlay_BottomRight(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 30)+"\n", 8), "\n")
	m, _ := New().Show("hi", StyleInfo, time.Second)

	out := ansi.Strip(m.Overlay(bg, 30, 8))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 8)

	// Box is three rows high and sits one row above the bottom edge.
	require.Equal(t, strings.Repeat(".", 30), lines[0])
	require.Contains(t, lines[5], "hi")
	require.Equal(t, strings.Repeat(".", 30), lines[7])
	for _, line := range lines {
		require.Equal(t, 30, lipgloss.Width(line), "line %q", line)
	}
	require.True(t, strings.HasSuffix(lines[5], "│."))
}

func TestOverlay_PadsShortBackground(t *testing.T) {
	m, _ := New().Show("x", StyleInfo, time.Second)
	out := ansi.Strip(m.Overlay("", 20, 5))
	require.Len(t, strings.Split(out, "\n"), 5)
	require.Contains(t, out, "x")
}
