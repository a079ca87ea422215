package highlight

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/zjrosen/livecode/internal/cachemanager"
	"github.com/zjrosen/livecode/internal/log"
	"github.com/zjrosen/livecode/internal/tracing"
)

// ErrUnsupportedLanguage is returned for tags with no grammar.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Status is the load state of one grammar.
type Status int

const (
	StatusAbsent Status = iota
	StatusPending
	StatusLoaded
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusPending:
		return "pending"
	case StatusLoaded:
		return "loaded"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Loader resolves a canonical tag to a grammar.
type Loader interface {
	Load(ctx context.Context, tag string) (chroma.Lexer, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, tag string) (chroma.Lexer, error)

func (f LoaderFunc) Load(ctx context.Context, tag string) (chroma.Lexer, error) {
	return f(ctx, tag)
}

// ChromaLoader loads catalogue languages from chroma's built-in lexers.
// Tags outside the catalogue are unsupported even if chroma knows them.
var ChromaLoader = LoaderFunc(func(_ context.Context, tag string) (chroma.Lexer, error) {
	lang, ok := Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, tag)
	}
	lexer := lexers.Get(lang.LexerName())
	if lexer == nil {
		return nil, fmt.Errorf("%w: no lexer for %q", ErrUnsupportedLanguage, tag)
	}
	return chroma.Coalesce(lexer), nil
})

// Registry is the process-wide grammar cache. Grammars load on demand, at
// most once per tag, and are never evicted. Failed loads are remembered as
// unavailable and never retried.
type Registry struct {
	loader Loader
	tracer trace.Tracer

	cache  cachemanager.CacheManager[string, chroma.Lexer]
	lexers *cachemanager.ReadThroughCache[string, chroma.Lexer, string]
	group  singleflight.Group

	mu     sync.RWMutex
	status map[string]Status
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLoader replaces ChromaLoader.
func WithLoader(l Loader) RegistryOption {
	return func(r *Registry) {
		r.loader = l
	}
}

// WithRegistryTracer sets the tracer for grammar.load spans.
func WithRegistryTracer(t trace.Tracer) RegistryOption {
	return func(r *Registry) {
		r.tracer = t
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		loader: ChromaLoader,
		status: make(map[string]Status),
		cache:  cachemanager.NewInMemoryCacheManager[string, chroma.Lexer]("grammars", cachemanager.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.lexers = cachemanager.NewReadThroughCache(r.cache, r.loader.Load, false)
	return r
}

// Status returns the load state of tag.
func (r *Registry) Status(tag string) Status {
	tag = Normalize(tag)
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status[tag]
}

// IsLoaded reports whether tag's grammar is ready for use.
func (r *Registry) IsLoaded(tag string) bool {
	return r.Status(tag) == StatusLoaded
}

// Lexer returns the loaded grammar for tag. It never triggers a load.
func (r *Registry) Lexer(tag string) (chroma.Lexer, bool) {
	tag = Normalize(tag)
	if !r.IsLoaded(tag) {
		return nil, false
	}
	return r.cache.Get(context.Background(), tag)
}

// Ensure starts an asynchronous load of tag if none has started yet.
// It never blocks.
func (r *Registry) Ensure(tag string) {
	tag = Normalize(tag)

	r.mu.Lock()
	if r.status[tag] != StatusAbsent {
		r.mu.Unlock()
		return
	}
	r.status[tag] = StatusPending
	r.mu.Unlock()

	log.Debug(log.CatHighlight, "grammar load requested", "language", tag)
	go func() {
		_, _, _ = r.group.Do(tag, r.loadFn(tag))
	}()
}

// Wait ensures tag is loading and blocks until it settles or ctx is done.
// Returns nil once loaded, or the load error.
func (r *Registry) Wait(ctx context.Context, tag string) error {
	tag = Normalize(tag)
	r.Ensure(tag)

	switch r.Status(tag) {
	case StatusLoaded:
		return nil
	case StatusUnavailable:
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, tag)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-r.group.DoChan(tag, r.loadFn(tag)):
		return res.Err
	}
}

// loadFn runs inside a singleflight call. It settles the status before
// returning, so a call that starts after a completed flight sees the
// settled status and never invokes the loader again.
func (r *Registry) loadFn(tag string) func() (any, error) {
	return func() (any, error) {
		switch r.Status(tag) {
		case StatusLoaded:
			lexer, _ := r.cache.Get(context.Background(), tag)
			return lexer, nil
		case StatusUnavailable:
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, tag)
		}

		tracer := r.tracer
		if tracer == nil {
			tracer = tracing.Tracer()
		}
		ctx, span := tracer.Start(context.Background(), tracing.SpanGrammarLoad,
			trace.WithAttributes(attribute.String(tracing.AttrLanguage, tag)))
		defer span.End()

		lexer, err := r.lexers.Get(ctx, tag, tag, cachemanager.NoExpiration)
		if err == nil && lexer == nil {
			err = fmt.Errorf("%w: %q", ErrUnsupportedLanguage, tag)
		}

		r.mu.Lock()
		if err != nil {
			r.status[tag] = StatusUnavailable
		} else {
			r.status[tag] = StatusLoaded
		}
		r.mu.Unlock()

		span.SetAttributes(attribute.Bool(tracing.AttrGrammarFound, err == nil))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Debug(log.CatHighlight, "grammar unavailable", "language", tag, "error", err)
			return nil, err
		}
		log.Debug(log.CatHighlight, "grammar loaded", "language", tag)
		return lexer, nil
	}
}
