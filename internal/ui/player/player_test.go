package player

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/livecode/internal/highlight"
	"github.com/zjrosen/livecode/internal/pubsub"
	"github.com/zjrosen/livecode/internal/reveal"
	"github.com/zjrosen/livecode/internal/theme"
)

// harness adapts the value-returning Model to tea.Model for teatest.
type harness struct {
	m Model
}

func (h *harness) Init() tea.Cmd {
	var cmd tea.Cmd
	h.m, cmd = h.m.Start()
	return cmd
}

func (h *harness) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	h.m, cmd = h.m.Update(msg)
	return h, cmd
}

func (h *harness) View() string {
	return h.m.View()
}

func newPlayer(t *testing.T, cfg Config, opts ...reveal.Option) Model {
	t.Helper()
	registry := highlight.NewRegistry()
	m := New(cfg, reveal.NewScheduler(opts...), registry, highlight.NewHighlighter(highlight.DefaultDarkStyle))
	t.Cleanup(m.Close)
	return m.SetSize(60, 20)
}

func stateEvent(s reveal.State) pubsub.Event[reveal.State] {
	return pubsub.Event[reveal.State]{Type: pubsub.UpdatedEvent, Payload: s}
}

func TestPlayer_PlaysToCompletion(t *testing.T) {
	code := "package main\n\nfunc main() {}\n"
	registry := highlight.NewRegistry()
	require.NoError(t, registry.Wait(context.Background(), "go"))

	m := New(Config{Code: code, Language: "go", FileName: "main.go", Speed: 100, ShowLineNumbers: true},
		reveal.NewScheduler(reveal.WithRand(func() float64 { return 0 })),
		registry, highlight.NewHighlighter(highlight.DefaultDarkStyle))

	tm := teatest.NewTestModel(t, &harness{m: m}, teatest.WithInitialTermSize(60, 20))

	total := len(code)
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("done"))
	}, teatest.WithDuration(5*time.Second), teatest.WithCheckInterval(20*time.Millisecond))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	final := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second)).(*harness)

	frame := final.m.Frame()
	require.Equal(t, total, frame.Next)
	require.Equal(t, total, frame.Total)
	require.Equal(t, 4, frame.Lines)
	require.False(t, frame.Plain)
	require.Equal(t, code, ansi.Strip(frame.Output))
	require.True(t, final.m.Session().Completed())
}

func TestPlayer_RendersGutterAndChrome(t *testing.T) {
	m := newPlayer(t, Config{Code: "a\nb\nc", Language: "brainfuck", FileName: "notes.txt", Speed: 0.1, ShowLineNumbers: true})
	m, _ = m.Start()

	m, _ = m.Update(stateEvent(reveal.State{Session: m.Session().ID(), Prefix: "a\nb\nc", Next: 5, Total: 5}))
	require.Equal(t, 3, m.Frame().Lines)

	view := ansi.Strip(m.View())
	require.Contains(t, view, "● ● ●  notes.txt")
	require.Contains(t, view, "1 a")
	require.Contains(t, view, "2 b")
	require.Contains(t, view, "3 c")
	require.NotContains(t, view, "4 ")
}

func TestPlayer_HidesGutter(t *testing.T) {
	m := newPlayer(t, Config{Code: "abc", Language: "go", Speed: 0.1})
	m, _ = m.Start()
	m, _ = m.Update(stateEvent(reveal.State{Session: m.Session().ID(), Prefix: "ab", Next: 2, Total: 3}))

	require.NotContains(t, ansi.Strip(m.View()), "1 ab")
}

func TestPlayer_IgnoresStatesFromReplacedSession(t *testing.T) {
	m := newPlayer(t, Config{Code: "hello", Language: "go", Speed: 0.1})
	m, _ = m.Start()
	old := m.Session()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotEqual(t, old.ID(), m.Session().ID())
	require.True(t, old.Cancelled())

	m, cmd := m.Update(stateEvent(reveal.State{Session: old.ID(), Prefix: "hel", Next: 3, Total: 5}))
	require.Nil(t, cmd)
	require.NotEqual(t, "hel", m.Frame().Output)
	require.Zero(t, m.Frame().Next)
}

func TestPlayer_QuitCancelsSession(t *testing.T) {
	m := newPlayer(t, Config{Code: "some long text", Language: "go", Speed: 0.1})
	m, _ = m.Start()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	require.Equal(t, tea.Quit(), cmd())
	require.True(t, m.Session().Cancelled())
}

func TestPlayer_EscGoesBack(t *testing.T) {
	m := newPlayer(t, Config{Code: "some long text", Language: "go", Speed: 0.1})
	m, _ = m.Start()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	require.Equal(t, BackMsg{}, cmd())
	require.True(t, m.Session().Cancelled())
}

func TestPlayer_ThemeKeyRequestsCycle(t *testing.T) {
	m := newPlayer(t, Config{Code: "x", Language: "go", Speed: 1})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	require.NotNil(t, cmd)
	require.Equal(t, CycleThemeMsg{}, cmd())
}

func TestPlayer_SetThemeShowsMode(t *testing.T) {
	m := newPlayer(t, Config{Code: "x", Language: "go", Speed: 1})
	m = m.SetTheme(theme.ModeDark, highlight.NewHighlighter(highlight.DefaultDarkStyle))
	require.Contains(t, ansi.Strip(m.View()), "theme: dark")
}

func TestPlayer_HelpToggleKeepsHeight(t *testing.T) {
	m := newPlayer(t, Config{Code: "x", Language: "go", Speed: 1})

	require.Len(t, strings.Split(m.View(), "\n"), 20)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	require.Len(t, strings.Split(m.View(), "\n"), 20)
	require.Contains(t, ansi.Strip(m.View()), "back to setup")
}

func TestPlayer_ViewEmptyBeforeSize(t *testing.T) {
	m := New(Config{}, reveal.NewScheduler(), highlight.NewRegistry(), nil)
	require.Empty(t, m.View())
}
