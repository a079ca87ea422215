package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func TestRenderFormSection(t *testing.T) {
	tests := []struct {
		name           string
		content        []string
		title          string
		hint           string
		width          int
		wantContains   []string
		wantNotContain []string
	}{
		{
			name:         "basic section with title",
			content:      []string{"  Content line"},
			title:        "Language",
			width:        30,
			wantContains: []string{"╭─ Language", "│", "Content line", "╰"},
		},
		{
			name:         "section with title and hint",
			content:      []string{"  1.00x"},
			title:        "Speed",
			hint:         "←/→",
			width:        40,
			wantContains: []string{"╭─ Speed", "(←/→)", "1.00x"},
		},
		{
			name:           "empty title renders plain border",
			content:        []string{"Content"},
			width:          20,
			wantContains:   []string{"╭──", "Content"},
			wantNotContain: []string{"╭─ "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RenderFormSection(tt.content, tt.title, tt.hint, tt.width, false)
			for _, want := range tt.wantContains {
				require.Contains(t, result, want)
			}
			for _, notWant := range tt.wantNotContain {
				require.NotContains(t, result, notWant)
			}
		})
	}
}

func TestRenderFormSection_FocusChangesBorder(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })

	content := []string{"Content"}
	unfocused := RenderFormSection(content, "Code", "", 30, false)
	focused := RenderFormSection(content, "Code", "", 30, true)
	require.NotEqual(t, unfocused, focused)
}

func TestRenderFormSection_LinesHaveEqualWidth(t *testing.T) {
	result := RenderFormSection([]string{"short", strings.Repeat("x", 80)}, "Title", "", 30, false)
	for _, line := range strings.Split(result, "\n") {
		require.Equal(t, 30, lipgloss.Width(line), "line %q", line)
	}
}
