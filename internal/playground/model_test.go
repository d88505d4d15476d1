package playground

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hwt/internal/config"
	"github.com/zjrosen/hwt/internal/highlight"
	"github.com/zjrosen/hwt/internal/overlay"
)

func newModel(t *testing.T, opts Options) Model {
	t.Helper()
	m, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func typeRunes(m Model, s string) Model {
	return send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// drain feeds the next overlay event back into the model, like the running
// program would.
func drain(m Model) Model {
	return send(m, m.frames.Listen()())
}

func playgroundRange(start, stop int) highlight.Range {
	return highlight.Range{Start: start, Stop: stop, ClassName: playgroundClass}
}

func TestNew_RendersInitialFrame(t *testing.T) {
	m := newModel(t, Options{Text: "the cat sat", Pattern: "at"})

	require.NoError(t, m.Err())
	require.Equal(t, []highlight.Range{playgroundRange(5, 7), playgroundRange(9, 11)}, m.Frame().Ranges)
	require.Equal(t, `the c<mark class="playground">at</mark> s<mark class="playground">at</mark>`, m.Frame().Markup)
}

func TestNew_AppliesConfiguredHighlights(t *testing.T) {
	cfg := config.Defaults()
	cfg.Highlights = []config.RuleConfig{{Text: "the", Class: "word"}}

	m := newModel(t, Options{Text: "the cat", Config: cfg})
	require.Equal(t, []highlight.Range{{Start: 0, Stop: 3, ClassName: "word"}}, m.Frame().Ranges)
}

func TestNew_InvalidConfiguredHighlights(t *testing.T) {
	cfg := config.Defaults()
	cfg.Highlights = []config.RuleConfig{{Pattern: "("}}

	_, err := New(Options{Config: cfg})
	require.Error(t, err)
}

func TestNew_InvalidStartingPattern(t *testing.T) {
	m := newModel(t, Options{Text: "abc", Pattern: "("})
	require.Error(t, m.Err())
	require.Empty(t, m.Frame().Ranges)
}

func TestTyping_UpdatesOverlay(t *testing.T) {
	m := newModel(t, Options{Text: "the cat", Pattern: "at"})

	m = typeRunes(m, " sat")
	m = drain(m)

	require.Equal(t, "the cat sat", m.Frame().Text)
	require.Equal(t, []highlight.Range{playgroundRange(5, 7), playgroundRange(9, 11)}, m.Frame().Ranges)
	require.Equal(t, uint64(2), m.Frame().Seq)
}

func TestPatternEdit_ChangesSpec(t *testing.T) {
	m := newModel(t, Options{Text: "banana", Pattern: "an"})
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, FocusPattern, m.focus)

	m = send(m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = drain(m)
	require.Len(t, m.Frame().Ranges, 3, "pattern is now just 'a'")
}

func TestPatternEdit_InvalidKeepsFrame(t *testing.T) {
	m := newModel(t, Options{Text: "banana", Pattern: "an"})
	before := m.Frame()

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeRunes(m, "(")

	require.Error(t, m.Err())
	require.Equal(t, before, m.Frame())

	m = send(m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = drain(m)
	require.NoError(t, m.Err())
}

func TestToggleFlags(t *testing.T) {
	m := newModel(t, Options{Text: "AT at at", Pattern: "at"})
	require.Len(t, m.Frame().Ranges, 2)

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	m = drain(m)
	require.Equal(t, "gi", m.flags)
	require.Len(t, m.Frame().Ranges, 3)

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlG})
	m = drain(m)
	require.Equal(t, "i", m.flags)
	require.Equal(t, []highlight.Range{playgroundRange(0, 2)}, m.Frame().Ranges)
}

func TestToggleEngine(t *testing.T) {
	m := newModel(t, Options{Text: "ab", Pattern: `a(?=b)`})
	require.Len(t, m.Frame().Ranges, 1)

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlE})
	require.Equal(t, config.EngineRE2, m.engine)
	require.Error(t, m.Err(), "RE2 has no lookahead")

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlE})
	m = drain(m)
	require.Equal(t, config.EngineECMAScript, m.engine)
	require.NoError(t, m.Err())
}

func TestSaveRule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))

	m := newModel(t, Options{Text: "x", Pattern: `\d+`, ConfigPath: path})
	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NoError(t, m.Err())
	require.Contains(t, m.status, "saved")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `\d+`)
	require.Contains(t, string(data), "render:", "other sections are kept")
	require.Len(t, m.rules, 1)
}

func TestSaveRule_NoConfigPath(t *testing.T) {
	m := newModel(t, Options{Text: "x", Pattern: "x"})
	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Equal(t, "no config file to save to", m.status)
}

func TestQuit_DetachesOverlay(t *testing.T) {
	m := newModel(t, Options{Text: "x"})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	require.Empty(t, next.View())
	require.ErrorIs(t, m.handle.Update(m.ctx), overlay.ErrDetached)
}

func TestView(t *testing.T) {
	m := newModel(t, Options{Text: "a <cat>", Pattern: "cat"})
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	view := ansi.Strip(m.View())
	require.Contains(t, view, "hwt playground")
	require.Contains(t, view, `a &lt;<mark class="playground">cat</mark>&gt;`)
	require.Contains(t, view, "1 ranges")
	require.Contains(t, view, "ecmascript")
	require.Contains(t, view, "save rule")
}
