package testutil

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/livecode/internal/store"
)

// Setter is the write half of a preference store.
type Setter interface {
	Set(ctx context.Context, key, value string) error
}

type pref struct {
	key   string
	value string
}

// Builder accumulates preferences and writes them in order.
type Builder struct {
	t     *testing.T
	kv    Setter
	prefs []pref
}

// NewBuilder creates a builder writing to kv.
func NewBuilder(t *testing.T, kv Setter) *Builder {
	t.Helper()
	return &Builder{t: t, kv: kv}
}

// WithTheme stores a theme mode ("system", "light", "dark" or anything
// else, to exercise invalid values).
func (b *Builder) WithTheme(mode string) *Builder {
	return b.WithValue(store.KeyTheme, mode)
}

// WithLanguage stores the last used language tag.
func (b *Builder) WithLanguage(tag string) *Builder {
	return b.WithValue(store.KeyLanguage, tag)
}

// WithSpeed stores the last used speed, formatted as the app writes it.
func (b *Builder) WithSpeed(speed float64) *Builder {
	return b.WithValue(store.KeySpeed, strconv.FormatFloat(speed, 'f', 2, 64))
}

// WithValue stores an arbitrary key.
func (b *Builder) WithValue(key, value string) *Builder {
	b.prefs = append(b.prefs, pref{key, value})
	return b
}

// Build writes the accumulated preferences.
func (b *Builder) Build() {
	b.t.Helper()
	for _, p := range b.prefs {
		require.NoError(b.t, b.kv.Set(context.Background(), p.key, p.value))
	}
}
