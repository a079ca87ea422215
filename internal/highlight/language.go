// Package highlight resolves language tags to chroma grammars and renders
// highlighted source for the terminal.
package highlight

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// Language is one entry of the supported catalogue.
type Language struct {
	// Tag is the canonical identifier, e.g. "cpp".
	Tag string
	// Label is the human readable name, e.g. "C++".
	Label string
	// lexer names the chroma lexer when it differs from Tag.
	lexer string
}

// LexerName returns the chroma lexer name or alias for the language.
func (l Language) LexerName() string {
	if l.lexer != "" {
		return l.lexer
	}
	return l.Tag
}

var catalogue = []Language{
	{Tag: "c", Label: "C"},
	{Tag: "cpp", Label: "C++", lexer: "c++"},
	{Tag: "csharp", Label: "C#", lexer: "c#"},
	{Tag: "objectivec", Label: "Objective-C", lexer: "objective-c"},
	{Tag: "java", Label: "Java"},
	{Tag: "kotlin", Label: "Kotlin"},
	{Tag: "scala", Label: "Scala"},
	{Tag: "go", Label: "Go"},
	{Tag: "rust", Label: "Rust"},
	{Tag: "swift", Label: "Swift"},
	{Tag: "php", Label: "PHP"},
	{Tag: "ruby", Label: "Ruby"},
	{Tag: "python", Label: "Python"},
	{Tag: "bash", Label: "Bash"},
	{Tag: "javascript", Label: "JavaScript"},
	{Tag: "jsx", Label: "JSX", lexer: "react"},
	{Tag: "typescript", Label: "TypeScript"},
	{Tag: "tsx", Label: "TSX"},
	{Tag: "json", Label: "JSON"},
	{Tag: "html", Label: "HTML"},
	{Tag: "css", Label: "CSS"},
	{Tag: "markdown", Label: "Markdown"},
	{Tag: "graphql", Label: "GraphQL"},
	{Tag: "sql", Label: "SQL"},
	{Tag: "yaml", Label: "YAML"},
	{Tag: "toml", Label: "TOML"},
	{Tag: "ini", Label: "INI"},
	{Tag: "makefile", Label: "Makefile"},
	{Tag: "docker", Label: "Dockerfile"},
	{Tag: "perl", Label: "Perl"},
	{Tag: "dart", Label: "Dart"},
	{Tag: "lua", Label: "Lua"},
}

var aliases = map[string]string{
	"ts":  "typescript",
	"js":  "javascript",
	"c++": "cpp",
}

// Normalize maps common aliases to canonical tags. Unknown tags pass through
// lowercased and trimmed.
func Normalize(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if canonical, ok := aliases[tag]; ok {
		return canonical
	}
	return tag
}

// Languages returns the supported catalogue in display order.
func Languages() []Language {
	return append([]Language(nil), catalogue...)
}

// Lookup returns the catalogue entry for tag after normalization.
func Lookup(tag string) (Language, bool) {
	tag = Normalize(tag)
	for _, l := range catalogue {
		if l.Tag == tag {
			return l, true
		}
	}
	return Language{}, false
}

// DetectFromPath guesses the language tag for a file name using chroma's
// filename patterns. Returns "" when the file maps to no catalogue entry.
func DetectFromPath(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	lexer := lexers.Match(base)
	if lexer == nil {
		return ""
	}
	name := strings.ToLower(lexer.Config().Name)
	for _, l := range catalogue {
		candidate := lexers.Get(l.LexerName())
		if candidate != nil && strings.ToLower(candidate.Config().Name) == name {
			return l.Tag
		}
	}
	return ""
}
