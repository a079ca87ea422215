package highlight

import (
	"fmt"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Default chroma styles per display mode.
const (
	DefaultDarkStyle  = "dracula"
	DefaultLightStyle = "github"
)

// StyleExists reports whether chroma ships a style called name.
func StyleExists(name string) bool {
	_, ok := styles.Registry[strings.ToLower(name)]
	return ok
}

// Highlighter renders token streams as lipgloss-styled lines.
// Each line is styled independently, so the output can be split on "\n"
// without leaking escape sequences across lines.
type Highlighter struct {
	style *chroma.Style

	mu    sync.Mutex
	cache map[chroma.TokenType]lipgloss.Style
}

// NewHighlighter creates a highlighter for the named chroma style.
// Unknown names fall back to chroma's default style.
func NewHighlighter(styleName string) *Highlighter {
	return &Highlighter{
		style: styles.Get(styleName),
		cache: make(map[chroma.TokenType]lipgloss.Style),
	}
}

// StyleName returns the chroma style in use.
func (h *Highlighter) StyleName() string {
	return h.style.Name
}

// Highlight tokenises text with lexer and returns the styled result. The
// output has exactly as many lines as text.
func (h *Highlighter) Highlight(text string, lexer chroma.Lexer) (string, error) {
	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return "", fmt.Errorf("tokenise: %w", err)
	}

	var b strings.Builder
	for tok := it(); tok != chroma.EOF; tok = it() {
		st := h.lipglossStyle(tok.Type)
		for i, line := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(st.Render(line))
			}
		}
	}

	out := b.String()
	// Many lexers force a trailing newline onto their input.
	if !strings.HasSuffix(text, "\n") {
		out = strings.TrimSuffix(out, "\n")
	}
	return out, nil
}

func (h *Highlighter) lipglossStyle(tt chroma.TokenType) lipgloss.Style {
	h.mu.Lock()
	defer h.mu.Unlock()

	if st, ok := h.cache[tt]; ok {
		return st
	}

	entry := h.style.Get(tt)
	st := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	if entry.Colour.IsSet() {
		st = st.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		st = st.Underline(true)
	}
	h.cache[tt] = st
	return st
}
