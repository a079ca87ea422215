// Package theme manages the light/dark display preference.
package theme

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/zjrosen/livecode/internal/log"
	"github.com/zjrosen/livecode/internal/store"
	"github.com/zjrosen/livecode/internal/watcher"
)

// ErrInvalidMode is returned by ParseMode for anything but system, light or dark.
var ErrInvalidMode = errors.New("invalid theme mode")

// Mode is the user's display preference.
type Mode string

const (
	ModeSystem Mode = "system"
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
)

// Modes lists the modes in cycle order.
func Modes() []Mode {
	return []Mode{ModeSystem, ModeLight, ModeDark}
}

// ParseMode accepts exactly "system", "light" or "dark".
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeSystem, ModeLight, ModeDark:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Next returns the mode after m in cycle order.
func (m Mode) Next() Mode {
	switch m {
	case ModeSystem:
		return ModeLight
	case ModeLight:
		return ModeDark
	default:
		return ModeSystem
	}
}

// Appearance is a resolved mode.
type Appearance string

const (
	Light Appearance = "light"
	Dark  Appearance = "dark"
)

// SystemPrefersDark queries the terminal background color.
func SystemPrefersDark() bool {
	return termenv.HasDarkBackground()
}

// Resolve turns mode into an appearance; system defers to systemDark.
func Resolve(mode Mode, systemDark bool) Appearance {
	switch mode {
	case ModeDark:
		return Dark
	case ModeLight:
		return Light
	default:
		if systemDark {
			return Dark
		}
		return Light
	}
}

// Apply makes lipgloss adaptive colors follow a.
func Apply(a Appearance) {
	lipgloss.SetHasDarkBackground(a == Dark)
}

// KV is the subset of the preference store used here.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Store persists the mode under the "theme" key.
type Store struct {
	kv KV
}

// NewStore wraps kv.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Stored returns the saved mode. An unknown stored value counts as absent.
func (s *Store) Stored(ctx context.Context) (Mode, bool, error) {
	raw, ok, err := s.kv.Get(ctx, store.KeyTheme)
	if err != nil || !ok {
		return "", false, err
	}
	m, err := ParseMode(raw)
	if err != nil {
		log.Warn(log.CatTheme, "ignoring stored theme", "value", raw)
		return "", false, nil
	}
	return m, true, nil
}

// Load returns the saved mode or ModeSystem.
func (s *Store) Load(ctx context.Context) Mode {
	m, ok, err := s.Stored(ctx)
	if err != nil {
		log.ErrorErr(log.CatTheme, "reading theme preference", err)
	}
	if !ok {
		return ModeSystem
	}
	return m
}

// Save persists m.
func (s *Store) Save(ctx context.Context, m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}
	return s.kv.Set(ctx, store.KeyTheme, string(m))
}

// Watch emits the stored mode each time it changes on disk at path, for
// example when another process saves a new theme. The channel closes when
// ctx is done.
func (s *Store) Watch(ctx context.Context, path string) (<-chan Mode, error) {
	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		return nil, err
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		return nil, err
	}

	out := make(chan Mode, 1)
	last := s.Load(ctx)
	go func() {
		defer close(out)
		defer func() { _ = w.Stop() }()
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
			}
			m := s.Load(ctx)
			if m == last {
				continue
			}
			last = m
			log.Debug(log.CatTheme, "theme changed on disk", "mode", m)
			select {
			case out <- m:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
