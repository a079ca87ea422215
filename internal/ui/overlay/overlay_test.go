package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func grid(w, h int) string {
	rows := make([]string, h)
	for i := range rows {
		rows[i] = strings.Repeat("A", w)
	}
	return strings.Join(rows, "\n")
}

func TestPlace_Center(t *testing.T) {
	lines := strings.Split(Place(Config{Width: 5, Height: 3}, "XX\nXX", grid(5, 3)), "\n")
	require.Equal(t, []string{"AXXAA", "AXXAA", "AAAAA"}, lines)
}

func TestPlace_BottomRight(t *testing.T) {
	out := Place(Config{Width: 6, Height: 4, Position: BottomRight, Margin: 1}, "XX", grid(6, 4))
	require.Equal(t, []string{"AAAAAA", "AAAAAA", "AAAXXA", "AAAAAA"}, strings.Split(out, "\n"))
}

func TestPlace_BottomRightNoMargin(t *testing.T) {
	out := Place(Config{Width: 4, Height: 2, Position: BottomRight}, "XX", grid(4, 2))
	require.Equal(t, []string{"AAAA", "AAXX"}, strings.Split(out, "\n"))
}

func TestPlace_LargerThanScreen(t *testing.T) {
	out := Place(Config{Width: 3, Height: 2}, "XXXXX\nXXXXX\nXXXXX", grid(3, 2))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "XXXXX", lines[0])
}

func TestPlace_PadsShortBackground(t *testing.T) {
	out := Place(Config{Width: 4, Height: 3}, "X", "AAAA")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	require.Equal(t, " X", lines[1])
}

func TestPlace_KeepsBackgroundStyling(t *testing.T) {
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	bg := red.Render("AAAAAA")
	out := Place(Config{Width: 6, Height: 1}, "XX", bg)

	require.Equal(t, "AAXXAA", ansi.Strip(out))
	require.Equal(t, 6, ansi.StringWidth(out))
}
