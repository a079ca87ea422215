package highlight

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestHighlighter_PreservesTextAndLines(t *testing.T) {
	lexer, err := ChromaLoader.Load(context.Background(), "go")
	require.NoError(t, err)
	h := NewHighlighter(DefaultDarkStyle)

	tests := []string{
		"package main",
		"package main\n",
		"func main() {\n\tprintln(\"hi\")\n}",
		"/* open comment\nstill open",
		"x := `raw\nstring",
		"",
	}
	for _, src := range tests {
		out, err := h.Highlight(src, lexer)
		require.NoError(t, err)
		require.Equal(t, src, ansi.Strip(out), "source %q", src)
		require.Equal(t, strings.Count(src, "\n"), strings.Count(out, "\n"))
	}
}

func TestHighlighter_PartialInput(t *testing.T) {
	lexer, err := ChromaLoader.Load(context.Background(), "python")
	require.NoError(t, err)
	h := NewHighlighter(DefaultLightStyle)

	// Mid-token prefixes still tokenise.
	src := "def greet(name):\n    return f\"hel"
	out, err := h.Highlight(src, lexer)
	require.NoError(t, err)
	require.Equal(t, src, ansi.Strip(out))
}

func TestHighlighter_UnknownStyleFallsBack(t *testing.T) {
	h := NewHighlighter("no-such-style")
	require.NotEmpty(t, h.StyleName())
}

func TestStyleExists(t *testing.T) {
	require.True(t, StyleExists(DefaultDarkStyle))
	require.True(t, StyleExists(DefaultLightStyle))
	require.False(t, StyleExists("no-such-style"))
}
