// Package setup implements the screen where the user pastes code and picks
// the language, file name, speed and theme before playback.
package setup

import (
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/livecode/internal/config"
	"github.com/zjrosen/livecode/internal/highlight"
	"github.com/zjrosen/livecode/internal/keys"
	"github.com/zjrosen/livecode/internal/theme"
	"github.com/zjrosen/livecode/internal/ui/styles"
)

// Field identifies a focusable control.
type Field int

const (
	FieldCode Field = iota
	FieldLanguage
	FieldFileName
	FieldSpeed
	FieldTheme
	FieldStart
	fieldCount
)

// Zone IDs for mouse hit testing.
const (
	zoneCode      = "setup-code"
	zoneLanguage  = "setup-language"
	zoneFileName  = "setup-filename"
	zoneSpeed     = "setup-speed"
	zoneStart     = "setup-start"
	zoneThemePref = "setup-theme-"
)

// StartMsg is emitted when the user starts playback.
type StartMsg struct {
	Code     string
	Language string
	FileName string
	Speed    float64
}

// ThemeSelectedMsg is emitted when the user picks a theme button.
type ThemeSelectedMsg struct {
	Mode theme.Mode
}

// Options pre-fills the form.
type Options struct {
	Code     string
	Language string
	FileName string
	Speed    float64
	Mode     theme.Mode
}

// Model is the setup screen.
type Model struct {
	code      textarea.Model
	fileName  textinput.Model
	languages []highlight.Language
	langIndex int
	speed     float64
	mode      theme.Mode
	themeIdx  int
	focus     Field
	width     int
	height    int
}

// New creates the setup screen with the code editor focused.
func New(opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Paste or type the code to present..."
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetValue(opts.Code)
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "e.g. main.go"
	ti.Prompt = ""
	ti.CharLimit = 128
	ti.SetValue(opts.FileName)

	langs := highlight.Languages()
	idx := 0
	if lang, ok := highlight.Lookup(opts.Language); ok {
		for i, l := range langs {
			if l.Tag == lang.Tag {
				idx = i
				break
			}
		}
	}

	speed := opts.Speed
	if speed <= 0 {
		speed = 1
	}
	mode := opts.Mode
	if mode == "" {
		mode = theme.ModeSystem
	}

	m := Model{
		code:      ta,
		fileName:  ti,
		languages: langs,
		langIndex: idx,
		speed:     snapSpeed(speed),
		mode:      mode,
		focus:     FieldCode,
	}
	m.themeIdx = m.modeIndex(mode)
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// SetSize sets the screen dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	inner := max(width-4, 10)
	m.code.SetWidth(inner)
	// Fixed rows below the editor: three sections of three lines, a
	// two-line button row and the help line.
	m.code.SetHeight(max(height-2-3*3-2-2, 3))
	m.fileName.Width = max(width/3-6, 8)
	return m
}

// SetMode reflects an externally changed theme.
func (m Model) SetMode(mode theme.Mode) Model {
	m.mode = mode
	m.themeIdx = m.modeIndex(mode)
	return m
}

// Language returns the selected language tag.
func (m Model) Language() string {
	return m.languages[m.langIndex].Tag
}

// Speed returns the selected speed.
func (m Model) Speed() float64 {
	return m.speed
}

// Focused returns the focused field.
func (m Model) Focused() Field {
	return m.focus
}

// CanStart reports whether there is any code to play.
func (m Model) CanStart() bool {
	return strings.TrimSpace(m.code.Value()) != ""
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	switch m.focus {
	case FieldCode:
		m.code, cmd = m.code.Update(msg)
	case FieldFileName:
		m.fileName, cmd = m.fileName.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Setup.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Setup.Start):
		return m, m.start()
	case key.Matches(msg, keys.Setup.NextField):
		return m.setFocus((m.focus + 1) % fieldCount), nil
	case key.Matches(msg, keys.Setup.PrevField):
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount), nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case FieldCode:
		m.code, cmd = m.code.Update(msg)
	case FieldFileName:
		if msg.Type == tea.KeyEnter {
			return m.setFocus(FieldSpeed), nil
		}
		m.fileName, cmd = m.fileName.Update(msg)
	case FieldLanguage:
		switch {
		case key.Matches(msg, keys.Setup.NextLanguage):
			m.langIndex = (m.langIndex + 1) % len(m.languages)
		case key.Matches(msg, keys.Setup.PrevLanguage):
			m.langIndex = (m.langIndex + len(m.languages) - 1) % len(m.languages)
		}
	case FieldSpeed:
		switch {
		case key.Matches(msg, keys.Setup.Faster):
			m.speed = snapSpeed(m.speed + config.SpeedStep)
		case key.Matches(msg, keys.Setup.Slower):
			m.speed = snapSpeed(m.speed - config.SpeedStep)
		}
	case FieldTheme:
		modes := theme.Modes()
		switch {
		case key.Matches(msg, keys.Setup.NextLanguage):
			m.themeIdx = (m.themeIdx + 1) % len(modes)
		case key.Matches(msg, keys.Setup.PrevLanguage):
			m.themeIdx = (m.themeIdx + len(modes) - 1) % len(modes)
		case key.Matches(msg, keys.Setup.Press):
			return m.selectTheme(modes[m.themeIdx])
		}
	case FieldStart:
		if key.Matches(msg, keys.Setup.Press) {
			return m, m.start()
		}
	}
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	for i, mode := range theme.Modes() {
		if z := zone.Get(zoneThemePref + string(mode)); z != nil && z.InBounds(msg) {
			m.themeIdx = i
			m = m.setFocus(FieldTheme)
			return m.selectTheme(mode)
		}
	}
	if z := zone.Get(zoneStart); z != nil && z.InBounds(msg) {
		m = m.setFocus(FieldStart)
		return m, m.start()
	}

	fields := map[string]Field{
		zoneCode:     FieldCode,
		zoneLanguage: FieldLanguage,
		zoneFileName: FieldFileName,
		zoneSpeed:    FieldSpeed,
	}
	for id, field := range fields {
		if z := zone.Get(id); z != nil && z.InBounds(msg) {
			return m.setFocus(field), nil
		}
	}
	return m, nil
}

func (m Model) selectTheme(mode theme.Mode) (Model, tea.Cmd) {
	m.mode = mode
	return m, func() tea.Msg { return ThemeSelectedMsg{Mode: mode} }
}

func (m Model) start() tea.Cmd {
	if !m.CanStart() {
		return nil
	}
	msg := StartMsg{
		Code:     m.code.Value(),
		Language: m.Language(),
		FileName: strings.TrimSpace(m.fileName.Value()),
		Speed:    m.speed,
	}
	return func() tea.Msg { return msg }
}

func (m Model) setFocus(f Field) Model {
	m.focus = f
	m.code.Blur()
	m.fileName.Blur()
	switch f {
	case FieldCode:
		m.code.Focus()
	case FieldFileName:
		m.fileName.Focus()
	}
	return m
}

func (m Model) modeIndex(mode theme.Mode) int {
	for i, candidate := range theme.Modes() {
		if candidate == mode {
			return i
		}
	}
	return 0
}

// snapSpeed rounds to the nearest step and clamps to the offered range.
func snapSpeed(speed float64) float64 {
	return config.ClampSpeed(math.Round(speed/config.SpeedStep) * config.SpeedStep)
}

// View renders the form. Zone markers are resolved by the app's zone.Scan.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	width := m.width

	codeSection := styles.RenderFormSection(strings.Split(m.code.View(), "\n"), "Code", "tab for next field", width, m.focus == FieldCode)

	third := width / 3
	lang := m.languages[m.langIndex]
	langSection := styles.RenderFormSection([]string{" ‹ " + lang.Label + " › "}, "Language", "", third, m.focus == FieldLanguage)
	fileSection := styles.RenderFormSection([]string{" " + m.fileName.View()}, "File name", "optional", third, m.focus == FieldFileName)
	speedSection := styles.RenderFormSection([]string{" " + speedBar(m.speed)}, "Speed", styles.FormatSpeed(m.speed), width-2*third, m.focus == FieldSpeed)
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		zone.Mark(zoneLanguage, langSection),
		zone.Mark(zoneFileName, fileSection),
		zone.Mark(zoneSpeed, speedSection),
	)

	var buttons []string
	for i, mode := range theme.Modes() {
		style := styles.SecondaryButtonStyle
		if mode == m.mode {
			style = styles.PrimaryButtonStyle
		}
		if m.focus == FieldTheme && i == m.themeIdx {
			style = styles.SecondaryButtonFocusedStyle
			if mode == m.mode {
				style = styles.PrimaryButtonFocusedStyle
			}
		}
		label := strings.ToUpper(string(mode[:1])) + string(mode[1:])
		buttons = append(buttons, zone.Mark(zoneThemePref+string(mode), style.Render(label)), " ")
	}

	startStyle := styles.DisabledButtonStyle
	if m.CanStart() {
		startStyle = styles.PrimaryButtonStyle
		if m.focus == FieldStart {
			startStyle = styles.PrimaryButtonFocusedStyle
		}
	}
	buttons = append(buttons, "   ", zone.Mark(zoneStart, startStyle.Render("Start ▶")))
	buttonRow := lipgloss.NewStyle().Padding(1, 1, 0, 1).Render(lipgloss.JoinHorizontal(lipgloss.Top, buttons...))

	help := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(
		wordwrap.String("tab/shift+tab move between fields  ←/→ change language, speed or theme  enter select  ctrl+s start  ctrl+c quit", max(width-2, 10)))

	return lipgloss.JoinVertical(lipgloss.Left,
		zone.Mark(zoneCode, codeSection),
		row,
		buttonRow,
		" "+help,
	)
}

// speedBar draws one cell per step, filled up to speed.
func speedBar(speed float64) string {
	steps := int(math.Round((config.MaxSpeed - config.MinSpeed) / config.SpeedStep))
	filled := int(math.Round((speed - config.MinSpeed) / config.SpeedStep))
	return lipgloss.NewStyle().Foreground(styles.BorderFocusColor).Render(strings.Repeat("■", filled+1)) +
		lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(strings.Repeat("·", steps-filled))
}
