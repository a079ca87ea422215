// Package config provides configuration types and defaults for livecode.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/livecode/internal/highlight"
	"github.com/zjrosen/livecode/internal/log"
	"github.com/zjrosen/livecode/internal/tracing"
)

// Speed limits offered by the setup screen.
const (
	MinSpeed  = 0.25
	MaxSpeed  = 3.0
	SpeedStep = 0.25
)

// Config holds all configuration options for livecode.
type Config struct {
	Speed       float64           `mapstructure:"speed" yaml:"speed"`
	Language    string            `mapstructure:"language" yaml:"language"`
	StatePath   string            `mapstructure:"state_path" yaml:"state_path"`
	ChromaStyle ChromaStyleConfig `mapstructure:"chroma_style" yaml:"chroma_style"`
	UI          UIConfig          `mapstructure:"ui" yaml:"ui"`
	Tracing     tracing.Config    `mapstructure:"tracing" yaml:"tracing"`
	Flags       map[string]bool   `mapstructure:"flags" yaml:"flags,omitempty"`
}

// ChromaStyleConfig names the chroma style used for each appearance.
type ChromaStyleConfig struct {
	Dark  string `mapstructure:"dark" yaml:"dark"`
	Light string `mapstructure:"light" yaml:"light"`
}

// For returns the style for dark or light backgrounds.
func (c ChromaStyleConfig) For(dark bool) string {
	if dark {
		return c.Dark
	}
	return c.Light
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowLineNumbers bool   `mapstructure:"show_line_numbers" yaml:"show_line_numbers"`
	MarkdownStyle   string `mapstructure:"markdown_style" yaml:"markdown_style"` // "dark" (default) or "light"
}

// DefaultStatePath returns ~/.config/livecode/state.db, or a relative path
// when the home directory is unavailable.
func DefaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".livecode", "state.db")
	}
	return filepath.Join(home, ".config", "livecode", "state.db")
}

// DefaultTracesFilePath returns ~/.config/livecode/traces/traces.jsonl or
// empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "livecode", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tc := tracing.DefaultConfig()
	tc.FilePath = DefaultTracesFilePath()
	return Config{
		Speed:     1.0,
		Language:  "c",
		StatePath: DefaultStatePath(),
		ChromaStyle: ChromaStyleConfig{
			Dark:  highlight.DefaultDarkStyle,
			Light: highlight.DefaultLightStyle,
		},
		UI: UIConfig{
			ShowLineNumbers: true,
			MarkdownStyle:   "dark",
		},
		Tracing: tc,
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %v", c.Speed)
	}
	if c.Language != "" {
		if _, ok := highlight.Lookup(c.Language); !ok {
			return fmt.Errorf("language %q is not supported (run 'livecode languages')", c.Language)
		}
	}
	for _, name := range []string{c.ChromaStyle.Dark, c.ChromaStyle.Light} {
		if name != "" && !highlight.StyleExists(name) {
			return fmt.Errorf("chroma_style %q is not a known chroma style", name)
		}
	}
	switch c.UI.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be dark or light, got %q", c.UI.MarkdownStyle)
	}
	if err := c.Tracing.Validate(); err != nil {
		return err
	}
	return nil
}

// ClampSpeed snaps speed into the range the setup screen offers.
func ClampSpeed(speed float64) float64 {
	switch {
	case speed < MinSpeed:
		return MinSpeed
	case speed > MaxSpeed:
		return MaxSpeed
	default:
		return speed
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# livecode configuration

# Default playback speed multiplier (setup screen offers 0.25 - 3.00)
speed: 1.0

# Default language for the setup screen (run 'livecode languages' for the list)
language: c

# Preference database (theme, last language and speed)
# state_path: ~/.config/livecode/state.db

# Chroma styles used for highlighting, per appearance
chroma_style:
  dark: dracula
  light: github

# UI settings
ui:
  show_line_numbers: true  # Show the line number gutter
  # markdown_style: dark   # Markdown rendering style: "dark" (default) or "light"

# Tracing of playback sessions and grammar loads
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/livecode/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)

# Feature flags (all on by default)
# flags:
#   theme-watch: true   # Follow theme changes made by other livecode processes
#   mouse: true         # Clickable setup fields and buttons
#   preferences: true   # Remember the last used language and speed
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
