// Package flags provides feature flags read from the config file's flags map.
// Flags are read-only after initialization.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/livecode/internal/log"
)

const (
	// FlagThemeWatch follows theme changes saved by other livecode processes.
	FlagThemeWatch = "theme-watch"

	// FlagMouse enables mouse support (clickable setup fields and buttons).
	FlagMouse = "mouse"

	// FlagPreferences restores and saves the last used language and speed.
	// The theme is persisted regardless.
	FlagPreferences = "preferences"
)

// Defaults holds the value of every known flag when the config omits it.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagThemeWatch:  true,
		FlagMouse:       true,
		FlagPreferences: true,
	}
}

// Registry holds feature flag state.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from the config map layered over Defaults.
// Unknown names are kept so they show up in All, but they have no effect.
func New(overrides map[string]bool) *Registry {
	flags := Defaults()
	maps.Copy(flags, overrides)
	r := &Registry{flags: flags}
	log.Debug(log.CatConfig, "feature flags initialized", "flags", r.All())
	return r
}

// Enabled reports whether the named flag is on. Unknown flags and a nil
// registry report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "unknown flag accessed", "flag", name)
		return false
	}
	return value
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	result := make(map[string]bool, len(r.flags))
	maps.Copy(result, r.flags)
	return result
}

// Unknown returns the configured names that match no known flag, sorted.
func (r *Registry) Unknown() []string {
	if r == nil {
		return nil
	}
	known := Defaults()
	var out []string
	for name := range r.flags {
		if _, ok := known[name]; !ok {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
