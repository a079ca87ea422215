// Package app contains the root application model.
package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/livecode/internal/config"
	"github.com/zjrosen/livecode/internal/flags"
	"github.com/zjrosen/livecode/internal/highlight"
	"github.com/zjrosen/livecode/internal/keys"
	"github.com/zjrosen/livecode/internal/log"
	"github.com/zjrosen/livecode/internal/pubsub"
	"github.com/zjrosen/livecode/internal/reveal"
	"github.com/zjrosen/livecode/internal/store"
	"github.com/zjrosen/livecode/internal/theme"
	"github.com/zjrosen/livecode/internal/ui/logoverlay"
	"github.com/zjrosen/livecode/internal/ui/player"
	"github.com/zjrosen/livecode/internal/ui/setup"
	"github.com/zjrosen/livecode/internal/ui/toaster"
)

// Screen identifies the active view.
type Screen int

const (
	ScreenSetup Screen = iota
	ScreenPlayer
)

// Options configures the application.
type Options struct {
	Config config.Config

	// Prefs persists the theme and last used language and speed. Optional.
	Prefs theme.KV
	// PrefsPath is watched for theme changes made by other processes.
	PrefsPath string

	Registry  *highlight.Registry
	Scheduler *reveal.Scheduler

	// SystemDark is the terminal background detected at startup.
	SystemDark bool

	// Code, when non-empty, skips the setup screen and plays immediately.
	Code     string
	FileName string
	// Language and Speed override the stored choices when set.
	Language string
	Speed    float64

	// Debug enables the log viewer (ctrl+x).
	Debug bool

	// Flags defaults to flags.New(cfg.Flags).
	Flags *flags.Registry
}

// themeChangedMsg carries a mode saved by another process.
type themeChangedMsg struct {
	mode theme.Mode
}

// Model is the root application state.
type Model struct {
	screen Screen
	setup  setup.Model
	player player.Model

	cfg        config.Config
	prefs      theme.KV
	themes     *theme.Store
	mode       theme.Mode
	systemDark bool

	registry  *highlight.Registry
	scheduler *reveal.Scheduler
	flags     *flags.Registry

	toaster toaster.Model
	logs    logoverlay.Model
	width   int
	height  int

	debug       bool
	logListener *pubsub.ContinuousListener[string]
	logCancel   context.CancelFunc

	autoStart   *setup.StartMsg
	themeCh     <-chan theme.Mode
	watchCancel context.CancelFunc
}

// New builds the application, restoring stored preferences.
func New(opts Options) Model {
	ctx := context.Background()
	cfg := opts.Config

	if opts.Registry == nil {
		opts.Registry = highlight.NewRegistry()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = reveal.NewScheduler()
	}
	if opts.Flags == nil {
		opts.Flags = flags.New(cfg.Flags)
	}

	m := Model{
		screen:     ScreenSetup,
		cfg:        cfg,
		prefs:      opts.Prefs,
		mode:       theme.ModeSystem,
		systemDark: opts.SystemDark,
		registry:   opts.Registry,
		scheduler:  opts.Scheduler,
		flags:      opts.Flags,
		toaster:    toaster.New(),
		logs:       logoverlay.New(),
		debug:      opts.Debug,
	}
	if m.debug {
		logCtx, cancel := context.WithCancel(ctx)
		if l := log.NewListener(logCtx); l != nil {
			m.logListener = l
			m.logCancel = cancel
		} else {
			cancel()
		}
	}

	language := cfg.Language
	speed := cfg.Speed
	if m.prefs != nil {
		m.themes = theme.NewStore(m.prefs)
		m.mode = m.themes.Load(ctx)
		if m.flags.Enabled(flags.FlagPreferences) {
			if v, ok := m.loadPref(ctx, store.KeyLanguage); ok {
				language = v
			}
			if v, ok := m.loadPref(ctx, store.KeySpeed); ok {
				if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
					speed = f
				}
			}
		}

		if opts.PrefsPath != "" && m.flags.Enabled(flags.FlagThemeWatch) {
			watchCtx, cancel := context.WithCancel(ctx)
			ch, err := m.themes.Watch(watchCtx, opts.PrefsPath)
			if err != nil {
				cancel()
				log.Warn(log.CatTheme, "theme watch disabled", "path", opts.PrefsPath, "error", err)
			} else {
				m.themeCh = ch
				m.watchCancel = cancel
			}
		}
	}
	if opts.Language != "" {
		language = opts.Language
	}
	if opts.Speed > 0 {
		speed = opts.Speed
	}
	if opts.Language == "" && opts.FileName != "" {
		if tag := highlight.DetectFromPath(opts.FileName); tag != "" {
			language = tag
		}
	}

	theme.Apply(theme.Resolve(m.mode, m.systemDark))

	m.setup = setup.New(setup.Options{
		Code:     opts.Code,
		Language: language,
		FileName: opts.FileName,
		Speed:    speed,
		Mode:     m.mode,
	})
	if opts.Code != "" {
		m.autoStart = &setup.StartMsg{
			Code:     opts.Code,
			Language: m.setup.Language(),
			FileName: opts.FileName,
			Speed:    speed,
		}
	}

	// Warm the grammar the setup screen starts on.
	m.registry.Ensure(m.setup.Language())
	return m
}

func (m Model) loadPref(ctx context.Context, key string) (string, bool) {
	v, ok, err := m.prefs.Get(ctx, key)
	if err != nil {
		log.ErrorErr(log.CatStore, "reading preference", err, "key", key)
		return "", false
	}
	return v, ok
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.setup.Init(), m.waitForTheme()}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.autoStart != nil {
		start := *m.autoStart
		cmds = append(cmds, func() tea.Msg { return start })
	}
	return tea.Batch(cmds...)
}

func (m Model) waitForTheme() tea.Cmd {
	ch := m.themeCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		mode, ok := <-ch
		if !ok {
			return nil
		}
		return themeChangedMsg{mode: mode}
	}
}

// Screen returns the active screen.
func (m Model) Screen() Screen {
	return m.screen
}

// Mode returns the current theme mode.
func (m Model) Mode() theme.Mode {
	return m.mode
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.setup = m.setup.SetSize(msg.Width, msg.Height)
		m.logs = m.logs.SetSize(msg.Width, msg.Height)
		if m.screen == ScreenPlayer {
			m.player = m.player.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case setup.StartMsg:
		return m.startPlayback(msg)

	case setup.ThemeSelectedMsg:
		return m.setMode(msg.Mode, true)

	case player.CycleThemeMsg:
		return m.setMode(m.mode.Next(), true)

	case player.BackMsg:
		log.Info(log.CatUI, "returning to setup")
		m.screen = ScreenSetup
		return m, nil

	case themeChangedMsg:
		if msg.mode == m.mode {
			return m, m.waitForTheme()
		}
		log.Info(log.CatTheme, "theme changed by another process", "mode", msg.mode)
		next, cmd := m.setMode(msg.mode, false)
		return next, tea.Batch(cmd, m.waitForTheme())

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case log.LogEvent:
		m.logs = m.logs.Refresh()
		if m.logListener == nil {
			return m, nil
		}
		return m, m.logListener.Listen()

	case tea.KeyMsg:
		if m.debug && key.Matches(msg, keys.App.ToggleLog) {
			m.logs = m.logs.Toggle()
			return m, nil
		}
		if m.logs.Visible() {
			var cmd tea.Cmd
			m.logs, cmd = m.logs.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	switch m.screen {
	case ScreenPlayer:
		m.player, cmd = m.player.Update(msg)
	default:
		m.setup, cmd = m.setup.Update(msg)
	}
	return m, cmd
}

func (m Model) startPlayback(msg setup.StartMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	var cmds []tea.Cmd
	if m.prefs != nil && m.flags.Enabled(flags.FlagPreferences) {
		if err := m.prefs.Set(ctx, store.KeyLanguage, msg.Language); err != nil {
			log.ErrorErr(log.CatStore, "saving language", err)
			cmds = append(cmds, m.toast("Could not save language", toaster.StyleError))
		}
		if err := m.prefs.Set(ctx, store.KeySpeed, strconv.FormatFloat(msg.Speed, 'f', 2, 64)); err != nil {
			log.ErrorErr(log.CatStore, "saving speed", err)
			cmds = append(cmds, m.toast("Could not save speed", toaster.StyleError))
		}
	}

	if m.screen == ScreenPlayer {
		m.player.Close()
	}
	m.player = player.New(player.Config{
		Code:            msg.Code,
		Language:        msg.Language,
		FileName:        msg.FileName,
		Speed:           msg.Speed,
		ShowLineNumbers: m.cfg.UI.ShowLineNumbers,
	}, m.scheduler, m.registry, m.highlighter()).
		SetTheme(m.mode, m.highlighter()).
		SetSize(m.width, m.height)
	m.screen = ScreenPlayer

	log.Info(log.CatUI, "starting playback", "language", msg.Language, "speed", msg.Speed, "bytes", len(msg.Code))
	var cmd tea.Cmd
	m.player, cmd = m.player.Start()
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// setMode switches the theme, persisting it when save is set.
func (m Model) setMode(mode theme.Mode, save bool) (tea.Model, tea.Cmd) {
	m.mode = mode
	appearance := theme.Resolve(mode, m.systemDark)
	theme.Apply(appearance)
	log.Debug(log.CatTheme, "theme applied", "mode", mode, "appearance", appearance)

	m.setup = m.setup.SetMode(mode)
	if m.screen == ScreenPlayer {
		m.player = m.player.SetTheme(mode, m.highlighter())
	}

	if save && m.themes != nil {
		if err := m.themes.Save(context.Background(), mode); err != nil {
			log.ErrorErr(log.CatTheme, "saving theme", err)
			cmd := m.toast("Could not save theme", toaster.StyleError)
			return m, cmd
		}
	}
	cmd := m.toast(fmt.Sprintf("Theme: %s (%s)", mode, appearance), toaster.StyleInfo)
	return m, cmd
}

func (m *Model) toast(message string, style toaster.Style) tea.Cmd {
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show(message, style, toaster.DefaultDuration)
	return cmd
}

func (m Model) highlighter() *highlight.Highlighter {
	dark := theme.Resolve(m.mode, m.systemDark) == theme.Dark
	return highlight.NewHighlighter(m.cfg.ChromaStyle.For(dark))
}

// View implements tea.Model.
func (m Model) View() string {
	var view string
	switch m.screen {
	case ScreenPlayer:
		view = m.player.View()
	default:
		view = m.setup.View()
	}
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}
	view = m.logs.Overlay(view)
	return zone.Scan(view)
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	if m.screen == ScreenPlayer {
		m.player.Close()
	}
	m.scheduler.Cancel()
	if m.watchCancel != nil {
		m.watchCancel()
	}
	if m.logCancel != nil {
		m.logCancel()
	}
	return nil
}
