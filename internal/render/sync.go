// Package render turns reveal states into display frames.
package render

import (
	"strings"
	"sync"

	"github.com/zjrosen/livecode/internal/highlight"
	"github.com/zjrosen/livecode/internal/log"
	"github.com/zjrosen/livecode/internal/reveal"
)

const tabWidth = 4

// LineCount returns the number of display lines in prefix.
// An empty prefix is one (empty) line.
func LineCount(prefix string) int {
	return strings.Count(prefix, "\n") + 1
}

// Frame is one rendered view of the revealed prefix.
type Frame struct {
	Session string
	Next    int
	Total   int
	Output  string
	Lines   int
	// Plain is true when no grammar was available and Output is unstyled.
	Plain bool
	// ScrollToBottom asks the view to keep the newest line visible.
	ScrollToBottom bool
}

// Sync renders the latest state of the current session. States from other
// sessions, and states not newer than the last rendered one, are dropped.
type Sync struct {
	registry *highlight.Registry

	mu          sync.Mutex
	highlighter *highlight.Highlighter
	session     string
	last        reveal.State
	tag         string
	rendered    bool
}

// NewSync creates a render sync over registry and highlighter.
func NewSync(registry *highlight.Registry, h *highlight.Highlighter) *Sync {
	return &Sync{
		registry:    registry,
		highlighter: h,
	}
}

// Reset forgets the last rendered state and accepts only states of session
// from now on.
func (s *Sync) Reset(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.last = reveal.State{}
	s.rendered = false
}

// SetHighlighter swaps the highlighter used by subsequent renders.
func (s *Sync) SetHighlighter(h *highlight.Highlighter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highlighter = h
}

// Render produces a frame for state, or returns false when state is stale.
// It asks the registry for tag's grammar without waiting; until the grammar
// is loaded frames are plain text.
func (s *Sync) Render(state reveal.State, tag string) (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == "" {
		s.session = state.Session
	}
	if state.Session != s.session {
		log.Debug(log.CatRender, "dropped state from old session", "session", state.Session, "current", s.session)
		return Frame{}, false
	}
	if s.rendered && state.Next <= s.last.Next {
		return Frame{}, false
	}

	s.last = state
	s.tag = highlight.Normalize(tag)
	s.rendered = true
	return s.frameLocked(), true
}

// Refresh re-renders the last accepted state, for example after its grammar
// finished loading. Returns false when nothing was rendered yet.
func (s *Sync) Refresh() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rendered {
		return Frame{}, false
	}
	return s.frameLocked(), true
}

func (s *Sync) frameLocked() Frame {
	text := strings.ReplaceAll(s.last.Prefix, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))
	frame := Frame{
		Session:        s.last.Session,
		Next:           s.last.Next,
		Total:          s.last.Total,
		Output:         text,
		Lines:          LineCount(s.last.Prefix),
		Plain:          true,
		ScrollToBottom: true,
	}

	s.registry.Ensure(s.tag)
	lexer, ok := s.registry.Lexer(s.tag)
	if !ok || s.highlighter == nil {
		return frame
	}

	out, err := s.highlighter.Highlight(text, lexer)
	if err != nil {
		log.Warn(log.CatRender, "highlight failed, rendering plain text", "language", s.tag, "error", err)
		return frame
	}
	frame.Output = out
	frame.Plain = false
	return frame
}
