// Package playground is an interactive terminal editor for trying highlight
// patterns against sample text.
//
// The text area is the overlay's surface: every edit is pushed through an
// attached overlay.Handle and the resulting frames arrive back over the
// handle's broker. Highlights from the config file are always applied; the
// pattern typed in the playground is layered on top of them.
package playground

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/hwt/internal/config"
	"github.com/zjrosen/hwt/internal/highlight"
	"github.com/zjrosen/hwt/internal/log"
	"github.com/zjrosen/hwt/internal/overlay"
	"github.com/zjrosen/hwt/internal/pubsub"
)

// playgroundClass marks ranges produced by the playground pattern.
const playgroundClass = "playground"

// FocusPane represents which input has focus.
type FocusPane int

const (
	FocusText FocusPane = iota
	FocusPattern
)

// Options configures a playground session.
type Options struct {
	Text       string
	Pattern    string
	Config     config.Config
	ConfigPath string // where ctrl+s saves rules; saving is disabled when empty
	Patterns   *config.PatternCache
	Overlay    overlay.Options
}

// Model holds the playground state.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	text    textarea.Model
	pattern textinput.Model
	help    help.Model
	keys    KeyMap
	focus   FocusPane

	engine string
	flags  string

	base       highlight.Spec
	rules      []config.RuleConfig
	configPath string
	patterns   *config.PatternCache

	surface  *overlay.StaticSurface
	handle   *overlay.Handle
	frames   *pubsub.ContinuousListener[overlay.Frame]
	logs     *log.LogListener
	frame    overlay.Frame
	err      error
	status   string
	lastLog  string
	width    int
	height   int
	quitting bool
}

// New attaches an overlay to the playground text and returns the model.
func New(opts Options) (Model, error) {
	ctx, cancel := context.WithCancel(context.Background())

	patterns := opts.Patterns
	if patterns == nil {
		patterns = config.NewPatternCache()
	}
	base, err := config.BuildSpec(ctx, opts.Config.Highlights, patterns)
	if err != nil {
		cancel()
		return Model{}, fmt.Errorf("building configured highlights: %w", err)
	}

	ta := textarea.New()
	ta.Placeholder = "Type some text..."
	ta.ShowLineNumbers = false
	ta.SetValue(opts.Text)
	ta.Focus()

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "pattern"
	ti.SetValue(opts.Pattern)

	m := Model{
		ctx:        ctx,
		cancel:     cancel,
		text:       ta,
		pattern:    ti,
		help:       help.New(),
		keys:       DefaultKeyMap(),
		focus:      FocusText,
		engine:     config.EngineECMAScript,
		flags:      "g",
		base:       base,
		rules:      opts.Config.Highlights,
		configPath: opts.ConfigPath,
		patterns:   patterns,
		surface:    overlay.NewStaticSurface(opts.Text),
	}

	spec, err := m.spec()
	if err != nil {
		// A bad starting pattern still opens the playground.
		m.err = err
		spec = base
	}

	sink := &overlay.MemorySink{}
	m.handle, err = overlay.Attach(ctx, m.surface, sink, spec, opts.Overlay)
	if err != nil {
		cancel()
		return Model{}, err
	}
	m.frame = sink.Frame()
	m.frames = pubsub.NewContinuousListener[overlay.Frame](ctx, m.handle.Broker())
	m.logs = log.NewListener(ctx)

	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, m.frames.Listen()}
	if m.logs != nil {
		cmds = append(cmds, m.logs.Listen())
	}
	return tea.Batch(cmds...)
}

// Close detaches the overlay and stops listeners.
func (m Model) Close() error {
	defer m.cancel()
	if err := m.handle.Detach(); err != nil && !errors.Is(err, overlay.ErrDetached) {
		return err
	}
	return nil
}

// Frame returns the last frame received from the overlay.
func (m Model) Frame() overlay.Frame {
	return m.frame
}

// Err returns the error from the last failed update, if any.
func (m Model) Err() error {
	return m.err
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.text.SetWidth(max(msg.Width-4, 20))
		m.text.SetHeight(max(msg.Height/3, 3))
		m.pattern.Width = max(msg.Width-24, 10)
		m.help.Width = msg.Width
		return m, nil

	case pubsub.Event[overlay.Frame]:
		return m.handleFrameEvent(msg)

	case pubsub.Event[string]:
		m.lastLog = strings.TrimSpace(msg.Payload)
		return m, m.logs.Listen()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleFrameEvent(ev pubsub.Event[overlay.Frame]) (tea.Model, tea.Cmd) {
	switch ev.Type {
	case pubsub.RenderedEvent:
		m.frame = ev.Payload
		m.err = nil
	case pubsub.FailedEvent:
		m.err = ev.Payload.Err
	case pubsub.DetachedEvent:
		return m, nil
	}
	return m, m.frames.Listen()
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if err := m.Close(); err != nil {
			log.ErrorErr(log.CatUI, "detach failed", err)
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.SwitchFocus):
		if m.focus == FocusText {
			m.focus = FocusPattern
			m.text.Blur()
			return m, m.pattern.Focus()
		}
		m.focus = FocusText
		m.pattern.Blur()
		return m, m.text.Focus()

	case key.Matches(msg, m.keys.ToggleEngine):
		if m.engine == config.EngineECMAScript {
			m.engine = config.EngineRE2
		} else {
			m.engine = config.EngineECMAScript
		}
		m.applySpec()
		return m, nil

	case key.Matches(msg, m.keys.ToggleGlobal):
		m.flags = toggleFlag(m.flags, 'g')
		m.applySpec()
		return m, nil

	case key.Matches(msg, m.keys.ToggleCase):
		m.flags = toggleFlag(m.flags, 'i')
		m.applySpec()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		m.saveRule()
		return m, nil
	}

	return m.updateFocused(msg)
}

// updateFocused forwards msg to the focused input and pushes any change
// through the overlay.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == FocusPattern {
		before := m.pattern.Value()
		m.pattern, cmd = m.pattern.Update(msg)
		if m.pattern.Value() != before {
			m.applySpec()
		}
		return m, cmd
	}

	before := m.text.Value()
	m.text, cmd = m.text.Update(msg)
	if m.text.Value() != before {
		m.surface.SetText(m.text.Value())
		if err := m.handle.Update(m.ctx); err != nil {
			m.err = err
		}
	}
	return m, cmd
}

// applySpec recompiles the playground pattern and hands the combined spec to
// the overlay. A compile error leaves the current highlights in place.
func (m *Model) applySpec() {
	spec, err := m.spec()
	if err != nil {
		m.err = err
		return
	}
	if err := m.handle.SetSpec(m.ctx, spec); err != nil {
		m.err = err
	}
}

func (m *Model) spec() (highlight.Spec, error) {
	expr := m.pattern.Value()
	if expr == "" {
		return m.base, nil
	}
	p, err := m.patterns.Compile(m.ctx, m.patternSource())
	if err != nil {
		return nil, err
	}
	return highlight.Composite{m.base, highlight.Styled{Inner: p, ClassName: playgroundClass}}, nil
}

func (m *Model) patternSource() config.PatternSource {
	return config.PatternSource{Engine: m.engine, Expr: m.pattern.Value(), Flags: m.flags}
}

func (m *Model) saveRule() {
	if m.configPath == "" {
		m.status = "no config file to save to"
		return
	}
	if m.pattern.Value() == "" {
		m.status = "nothing to save"
		return
	}

	src := m.patternSource()
	rule := config.RuleConfig{Type: config.RulePattern, Pattern: src.Expr, Flags: src.Flags}
	if src.Engine != config.EngineECMAScript {
		rule.Engine = src.Engine
	}
	if err := config.AddHighlight(m.configPath, rule, m.rules); err != nil {
		log.ErrorErr(log.CatUI, "saving rule failed", err, "path", m.configPath)
		m.err = err
		return
	}
	m.rules = append(m.rules, rule)
	m.status = "saved to " + m.configPath
	log.Info(log.CatUI, "saved rule", "pattern", src.Expr, "path", m.configPath)
}

func toggleFlag(flags string, f rune) string {
	if strings.ContainsRune(flags, f) {
		return strings.ReplaceAll(flags, string(f), "")
	}
	return flags + string(f)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := max(m.width-4, 20)

	textPane, patternPane := paneStyle, paneStyle
	if m.focus == FocusText {
		textPane = focusedPaneStyle
	} else {
		patternPane = focusedPaneStyle
	}

	engine := badgeStyle.Render(m.engine)
	flags := badgeStyle.Render("/" + m.flags)
	patternLine := lipgloss.JoinHorizontal(lipgloss.Center, m.pattern.View(), " ", engine, " ", flags)

	preview := wordwrap.String(Preview(m.frame.Text, m.frame.Ranges), width)
	markup := markupStyle.Render(wordwrap.String(m.frame.Markup, width))

	sections := []string{
		titleStyle.Render("hwt playground"),
		textPane.Render(m.text.View()),
		patternPane.Render(patternLine),
		labelStyle.Render("preview"),
		preview,
		labelStyle.Render("markup"),
		markup,
		m.statusLine(width),
		m.help.View(m.keys),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) statusLine(width int) string {
	var line string
	switch {
	case m.err != nil:
		line = errorStyle.Render("error: " + m.err.Error())
	case m.status != "":
		line = successStyle.Render(m.status)
	default:
		line = labelStyle.Render(fmt.Sprintf("%d ranges · update #%d · %s", len(m.frame.Ranges), m.frame.Seq, m.frame.Duration))
	}
	if m.lastLog != "" {
		line += "  " + labelStyle.Render(m.lastLog)
	}
	return ansi.Truncate(line, width, "…")
}
