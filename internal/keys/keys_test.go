package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"
)

func TestPlayer_KeyAssignments(t *testing.T) {
	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{"Replay uses r", Player.Replay, []string{"r"}},
		{"Back uses esc", Player.Back, []string{"esc"}},
		{"CycleTheme uses t", Player.CycleTheme, []string{"t"}},
		{"Quit uses q and ctrl+c", Player.Quit, []string{"q", "ctrl+c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

func TestSetup_QuitDoesNotStealTyping(t *testing.T) {
	// "q" must reach the code textarea on the setup screen.
	require.Equal(t, []string{"ctrl+c"}, Setup.Quit.Keys())
}

func TestHelp_AllBindingsDescribed(t *testing.T) {
	for _, group := range Player.FullHelp() {
		for _, b := range group {
			require.NotEmpty(t, b.Help().Key)
			require.NotEmpty(t, b.Help().Desc)
		}
	}
	for _, group := range Setup.FullHelp() {
		for _, b := range group {
			require.NotEmpty(t, b.Help().Key)
			require.NotEmpty(t, b.Help().Desc)
		}
	}
	require.Len(t, Player.ShortHelp(), 5)
	require.Len(t, Setup.ShortHelp(), 3)
}

func TestApp_ToggleLogAvoidsPrintableKeys(t *testing.T) {
	// Works from the setup screen, where printable keys go to the textarea.
	require.Equal(t, []string{"ctrl+x"}, App.ToggleLog.Keys())
}
