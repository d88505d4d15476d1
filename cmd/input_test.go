package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hwt/internal/config"
	"github.com/zjrosen/hwt/internal/highlight"
	"github.com/zjrosen/hwt/internal/overlay"
)

func TestSpecFlags_Rules(t *testing.T) {
	f := specFlags{literals: []string{"a", "b"}, pattern: `\d+`, flags: "gi", engine: config.EngineRE2, class: "x"}
	require.Equal(t, []config.RuleConfig{
		{Type: config.RuleLiteral, Text: "a", Class: "x"},
		{Type: config.RuleLiteral, Text: "b", Class: "x"},
		{Type: config.RulePattern, Pattern: `\d+`, Flags: "gi", Engine: config.EngineRE2, Class: "x"},
	}, f.rules())

	require.Nil(t, specFlags{flags: "g", engine: config.EngineECMAScript}.rules())
}

func TestSpecFlags_SpecFallsBackToConfig(t *testing.T) {
	configured := []config.RuleConfig{{Text: "cat"}}

	spec, err := specFlags{}.spec(context.Background(), configured)
	require.NoError(t, err)
	ranges, err := highlight.Resolve("the cat", spec)
	require.NoError(t, err)
	require.Equal(t, []highlight.Range{{Start: 4, Stop: 7}}, ranges)

	spec, err = specFlags{literals: []string{"the"}}.spec(context.Background(), configured)
	require.NoError(t, err)
	ranges, err = highlight.Resolve("the cat", spec)
	require.NoError(t, err)
	require.Equal(t, []highlight.Range{{Start: 0, Stop: 3}}, ranges)
}

func TestSpecFlags_InvalidRule(t *testing.T) {
	_, err := specFlags{pattern: "a", flags: "gx", engine: config.EngineECMAScript}.spec(context.Background(), nil)
	require.ErrorContains(t, err, "invalid flag")

	_, err = specFlags{pattern: "(", flags: "g", engine: config.EngineECMAScript}.spec(context.Background(), nil)
	require.Error(t, err)
}

func TestInputFlags_Surface(t *testing.T) {
	s, err := inputFlags{text: "hello"}.surface(strings.NewReader("ignored"))
	require.NoError(t, err)
	text, err := s.Text()
	require.NoError(t, err)
	require.Equal(t, "hello", text)

	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o600))
	s, err = inputFlags{file: path}.surface(strings.NewReader("ignored"))
	require.NoError(t, err)
	text, err = s.Text()
	require.NoError(t, err)
	require.Equal(t, "from file", text)

	s, err = inputFlags{}.surface(strings.NewReader("from stdin\n"))
	require.NoError(t, err)
	text, err = s.Text()
	require.NoError(t, err)
	require.Equal(t, "from stdin\n", text)
}

func TestRenderFlags_Options(t *testing.T) {
	render := config.Defaults().Render

	opts, err := renderFlags{}.options(render)
	require.NoError(t, err)
	require.Equal(t, "mark", opts.Tag)
	require.False(t, opts.WrapFix)

	opts, err = renderFlags{wrapFix: true, tag: "em"}.options(render)
	require.NoError(t, err)
	require.Equal(t, "em", opts.Tag)
	require.True(t, opts.WrapFix)

	_, err = renderFlags{tag: "<b>"}.options(render)
	require.ErrorContains(t, err, "invalid tag")
}

func TestRenderFlags_Sink(t *testing.T) {
	var sb strings.Builder
	require.IsType(t, overlay.WriterSink{}, renderFlags{}.sink(&sb, "", "\n"))
	require.Equal(t, overlay.FileSink{Path: "out.html", Title: "in.txt"}, renderFlags{out: "out.html"}.sink(&sb, "in.txt", "\n"))

	both := renderFlags{out: "out.html", print: true}.sink(&sb, "in.txt", "\n")
	require.IsType(t, overlay.MultiSink{}, both)
	require.Len(t, both, 2)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := readFile(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
