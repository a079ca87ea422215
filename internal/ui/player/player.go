// Package player implements the playback view: a window with chrome, a line
// number gutter and a viewport that follows the code as it is typed.
package player

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/livecode/internal/highlight"
	"github.com/zjrosen/livecode/internal/keys"
	"github.com/zjrosen/livecode/internal/log"
	"github.com/zjrosen/livecode/internal/pubsub"
	"github.com/zjrosen/livecode/internal/render"
	"github.com/zjrosen/livecode/internal/reveal"
	"github.com/zjrosen/livecode/internal/theme"
	"github.com/zjrosen/livecode/internal/ui/styles"
)

// Config describes what to play.
type Config struct {
	Code            string
	Language        string
	FileName        string
	Speed           float64
	ShowLineNumbers bool
}

// BackMsg asks the app to return to the setup screen.
type BackMsg struct{}

// CycleThemeMsg asks the app to switch to the next theme mode.
type CycleThemeMsg struct{}

// grammarReadyMsg reports that a grammar load settled.
type grammarReadyMsg struct {
	language string
	err      error
}

// Model is the playback view.
type Model struct {
	cfg       Config
	scheduler *reveal.Scheduler
	sync      *render.Sync
	registry  *highlight.Registry

	session  *reveal.Session
	listener *pubsub.ContinuousListener[reveal.State]
	cancel   context.CancelFunc

	viewport viewport.Model
	help     help.Model
	showHelp bool
	frame    render.Frame
	mode     theme.Mode
	width    int
	height   int
}

// New creates a player. Call Start to begin playback.
func New(cfg Config, scheduler *reveal.Scheduler, registry *highlight.Registry, h *highlight.Highlighter) Model {
	cfg.Language = highlight.Normalize(cfg.Language)
	return Model{
		cfg:       cfg,
		scheduler: scheduler,
		registry:  registry,
		sync:      render.NewSync(registry, h),
		viewport:  viewport.New(0, 0),
		help:      help.New(),
		mode:      theme.ModeSystem,
		frame:     render.Frame{Lines: 1},
	}
}

// Init does nothing; playback begins with Start.
func (m Model) Init() tea.Cmd {
	return nil
}

// Start begins a new session for the configured code, cancelling any
// session in progress first.
func (m Model) Start() (Model, tea.Cmd) {
	m.stopListening()

	m.session = m.scheduler.Start(context.Background(), m.cfg.Code, m.cfg.Speed)
	m.sync.Reset(m.session.ID())

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.listener = pubsub.NewContinuousListener[reveal.State](ctx, m.session)

	log.Debug(log.CatUI, "playback started", "session", m.session.ID(), "language", m.cfg.Language, "file", m.cfg.FileName)
	return m, tea.Batch(m.listener.Listen(), m.waitForGrammar(ctx))
}

// Close cancels the active session and stops listening for its states.
func (m Model) Close() {
	m.stopListening()
	m.scheduler.Cancel()
}

func (m Model) stopListening() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m Model) waitForGrammar(ctx context.Context) tea.Cmd {
	language := m.cfg.Language
	registry := m.registry
	if registry.IsLoaded(language) {
		return nil
	}
	return func() tea.Msg {
		err := registry.Wait(ctx, language)
		if ctx.Err() != nil {
			return nil
		}
		return grammarReadyMsg{language: language, err: err}
	}
}

// SetSize sets the outer dimensions of the view.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.layout()
	return m
}

// layout sizes the viewport to the window left over by the footer.
func (m *Model) layout() {
	m.viewport.Width = max(m.width-2, 1)
	m.viewport.Height = max(m.height-lipgloss.Height(m.footer())-2, 1)
	m.applyFrame()
}

// SetTheme swaps the highlighter after a theme change and re-renders.
func (m Model) SetTheme(mode theme.Mode, h *highlight.Highlighter) Model {
	m.mode = mode
	m.sync.SetHighlighter(h)
	if frame, ok := m.sync.Refresh(); ok {
		m.frame = frame
		m.applyFrame()
	}
	return m
}

// Frame returns the most recently rendered frame.
func (m Model) Frame() render.Frame {
	return m.frame
}

// Session returns the active session, or nil before Start.
func (m Model) Session() *reveal.Session {
	return m.session
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case pubsub.Event[reveal.State]:
		if frame, ok := m.sync.Render(msg.Payload, m.cfg.Language); ok {
			m.frame = frame
			m.applyFrame()
		}
		if m.listener == nil || msg.Payload.Session != m.session.ID() {
			return m, nil
		}
		return m, m.listener.Listen()

	case grammarReadyMsg:
		if msg.language != m.cfg.Language || msg.err != nil {
			return m, nil
		}
		if frame, ok := m.sync.Refresh(); ok {
			m.frame = frame
			m.applyFrame()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Player.Quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, keys.Player.Back):
		m.Close()
		return m, func() tea.Msg { return BackMsg{} }
	case key.Matches(msg, keys.Player.Replay):
		return m.Start()
	case key.Matches(msg, keys.Player.CycleTheme):
		return m, func() tea.Msg { return CycleThemeMsg{} }
	case key.Matches(msg, keys.Player.Help):
		m.showHelp = !m.showHelp
		m.layout()
		return m, nil
	case key.Matches(msg, keys.Player.ScrollUp):
		m.viewport.ScrollUp(1)
		return m, nil
	case key.Matches(msg, keys.Player.ScrollDown):
		m.viewport.ScrollDown(1)
		return m, nil
	}
	return m, nil
}

// applyFrame pushes the current frame into the viewport.
func (m *Model) applyFrame() {
	content := m.frame.Output
	if m.cfg.ShowLineNumbers {
		content = lipgloss.JoinHorizontal(lipgloss.Top, styles.Gutter(m.frame.Lines), content)
	}
	m.viewport.SetContent(content)
	if m.frame.ScrollToBottom {
		m.viewport.GotoBottom()
	}
}

// View renders the window and the footer.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	footer := m.footer()
	window := styles.RenderWindow(m.viewport.View(), m.cfg.FileName, m.width, m.height-lipgloss.Height(footer), true)
	return window + "\n" + footer
}

// footer is the status line, followed by the full key help when toggled on.
func (m Model) footer() string {
	state := "typing"
	if m.session != nil && m.session.Completed() {
		state = "done"
	}
	label := m.cfg.Language
	if lang, ok := highlight.Lookup(m.cfg.Language); ok {
		label = lang.Label
	}
	status := fmt.Sprintf("%s %d/%d  %s  %s  theme: %s",
		state, m.frame.Next, m.frame.Total, label, styles.FormatSpeed(m.cfg.Speed), m.mode)

	m.help.Width = m.width
	if !m.showHelp {
		line := styles.StatusBarStyle.Render(status) + "  " + m.help.ShortHelpView(keys.Player.ShortHelp())
		return styles.TruncateANSI(line, m.width)
	}
	return styles.TruncateANSI(styles.StatusBarStyle.Render(status), m.width) + "\n" +
		styles.StatusBarStyle.Render(m.help.FullHelpView(keys.Player.FullHelp()))
}
