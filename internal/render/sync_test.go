package render

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/livecode/internal/highlight"
	"github.com/zjrosen/livecode/internal/reveal"
)

func newTestSync(t *testing.T) (*Sync, *highlight.Registry) {
	t.Helper()
	reg := highlight.NewRegistry()
	return NewSync(reg, highlight.NewHighlighter(highlight.DefaultDarkStyle)), reg
}

func TestLineCount(t *testing.T) {
	require.Equal(t, 3, LineCount("a\nb\nc"))
	require.Equal(t, 1, LineCount(""))
	require.Equal(t, 2, LineCount("a\n"))
	require.Equal(t, 3, LineCount("\n\n"))
}

func TestLineCount_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringOf(rapid.RuneFrom([]rune{'a', 'b', '\n', ' '})).Draw(t, "s")
		require.Equal(t, len(strings.Split(s, "\n")), LineCount(s))
	})
}

func TestSync_PlainUntilGrammarLoads(t *testing.T) {
	s, reg := newTestSync(t)
	s.Reset("s1")

	frame, ok := s.Render(reveal.State{Session: "s1", Prefix: "package main", Next: 12, Total: 20}, "go")
	require.True(t, ok)
	require.Equal(t, "package main", ansi.Strip(frame.Output))
	require.True(t, frame.ScrollToBottom)
	require.Equal(t, 1, frame.Lines)

	require.NoError(t, reg.Wait(context.Background(), "go"))

	frame, ok = s.Render(reveal.State{Session: "s1", Prefix: "package main\n", Next: 13, Total: 20}, "go")
	require.True(t, ok)
	require.False(t, frame.Plain)
	require.Equal(t, 2, frame.Lines)
	require.Equal(t, "package main\n", ansi.Strip(frame.Output))
}

func TestSync_AliasesResolveToSameGrammar(t *testing.T) {
	for _, tag := range []string{"ts", "typescript", "c++", "cpp"} {
		t.Run(tag, func(t *testing.T) {
			s, reg := newTestSync(t)
			require.NoError(t, reg.Wait(context.Background(), tag))

			frame, ok := s.Render(reveal.State{Session: "s", Prefix: "let x = 1", Next: 9, Total: 9}, tag)
			require.True(t, ok)
			require.False(t, frame.Plain)
		})
	}
}

func TestSync_UnknownLanguageRendersPlain(t *testing.T) {
	s, reg := newTestSync(t)
	require.Error(t, reg.Wait(context.Background(), "brainfuck"))

	frame, ok := s.Render(reveal.State{Session: "s", Prefix: "+++[>+<-]", Next: 9, Total: 9}, "brainfuck")
	require.True(t, ok)
	require.True(t, frame.Plain)
	require.Equal(t, "+++[>+<-]", frame.Output)
}

func TestSync_DropsStaleStates(t *testing.T) {
	s, _ := newTestSync(t)
	s.Reset("new")

	_, ok := s.Render(reveal.State{Session: "old", Prefix: "abc", Next: 3, Total: 5}, "go")
	require.False(t, ok, "state from a cancelled session")

	_, ok = s.Render(reveal.State{Session: "new", Prefix: "ab", Next: 2, Total: 5}, "go")
	require.True(t, ok)

	_, ok = s.Render(reveal.State{Session: "new", Prefix: "a", Next: 1, Total: 5}, "go")
	require.False(t, ok, "older state of the current session")

	_, ok = s.Render(reveal.State{Session: "new", Prefix: "ab", Next: 2, Total: 5}, "go")
	require.False(t, ok, "duplicate state")
}

func TestSync_ResetAcceptsResetState(t *testing.T) {
	s, _ := newTestSync(t)
	s.Reset("s1")
	_, ok := s.Render(reveal.State{Session: "s1", Prefix: "abc", Next: 3, Total: 3}, "go")
	require.True(t, ok)

	s.Reset("s2")
	frame, ok := s.Render(reveal.State{Session: "s2", Total: 3}, "go")
	require.True(t, ok)
	require.Equal(t, "", frame.Output)
	require.Equal(t, 1, frame.Lines)
}

func TestSync_FirstSessionAdoptedWithoutReset(t *testing.T) {
	s, _ := newTestSync(t)
	_, ok := s.Render(reveal.State{Session: "s1", Prefix: "a", Next: 1, Total: 2}, "go")
	require.True(t, ok)
	_, ok = s.Render(reveal.State{Session: "s2", Prefix: "a", Next: 1, Total: 2}, "go")
	require.False(t, ok)
}

func TestSync_RefreshAfterGrammarLoad(t *testing.T) {
	s, reg := newTestSync(t)

	_, ok := s.Refresh()
	require.False(t, ok)

	s.Reset("s1")
	frame, ok := s.Render(reveal.State{Session: "s1", Prefix: "fn main() {}", Next: 12, Total: 12}, "rust")
	require.True(t, ok)
	require.True(t, frame.Plain)

	require.NoError(t, reg.Wait(context.Background(), "rust"))
	frame, ok = s.Refresh()
	require.True(t, ok)
	require.False(t, frame.Plain)
	require.Equal(t, 12, frame.Next)
}

func TestSync_ExpandsTabs(t *testing.T) {
	s, _ := newTestSync(t)
	frame, ok := s.Render(reveal.State{Session: "s", Prefix: "\tx", Next: 2, Total: 2}, "brainfuck")
	require.True(t, ok)
	require.Equal(t, "    x", frame.Output)
}

func TestSync_NormalizesCRLF(t *testing.T) {
	s, _ := newTestSync(t)
	frame, ok := s.Render(reveal.State{Session: "s", Prefix: "\tx\r\ny", Next: 3, Total: 3}, "brainfuck")
	require.True(t, ok)
	require.Equal(t, "    x\ny", frame.Output)
	require.Equal(t, 2, frame.Lines)
}
