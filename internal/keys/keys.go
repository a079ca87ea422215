// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// PlayerKeyMap defines the keybindings for the playback view.
type PlayerKeyMap struct {
	Replay     key.Binding
	Back       key.Binding
	CycleTheme key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings for the short help view.
func (k PlayerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Replay, k.Back, k.CycleTheme, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k PlayerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Replay, k.Back, k.CycleTheme},
		{k.ScrollUp, k.ScrollDown},
		{k.Help, k.Quit},
	}
}

// SetupKeyMap defines the keybindings for the setup screen.
type SetupKeyMap struct {
	NextField    key.Binding
	PrevField    key.Binding
	NextLanguage key.Binding
	PrevLanguage key.Binding
	Faster       key.Binding
	Slower       key.Binding
	Press        key.Binding
	Start        key.Binding
	Quit         key.Binding
}

// ShortHelp returns keybindings for the short help view.
func (k SetupKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Start, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k SetupKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField},
		{k.NextLanguage, k.PrevLanguage, k.Faster, k.Slower},
		{k.Press, k.Start, k.Quit},
	}
}

// AppKeyMap defines bindings handled by the root model on every screen.
type AppKeyMap struct {
	ToggleLog key.Binding
}

// App holds the global bindings.
var App = AppKeyMap{
	ToggleLog: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "toggle log viewer"),
	),
}

// Player holds the playback view bindings.
var Player = PlayerKeyMap{
	Replay: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "replay"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back to setup"),
	),
	CycleTheme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "cycle theme"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("k", "up", "pgup"),
		key.WithHelp("k/↑", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("j", "down", "pgdown"),
		key.WithHelp("j/↓", "scroll down"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Setup holds the setup screen bindings. Printable keys are left to the
// focused input, so only control and navigation keys appear here.
var Setup = SetupKeyMap{
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous field"),
	),
	NextLanguage: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "next language"),
	),
	PrevLanguage: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "previous language"),
	),
	Faster: key.NewBinding(
		key.WithKeys("right", "+", "l"),
		key.WithHelp("→/+", "faster"),
	),
	Slower: key.NewBinding(
		key.WithKeys("left", "-", "h"),
		key.WithHelp("←/-", "slower"),
	),
	Press: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "select"),
	),
	Start: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "start"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}
