package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hwt/internal/highlight"
)

func TestWriteRanges(t *testing.T) {
	var sb strings.Builder
	err := writeRanges(&sb, []highlight.Range{{Start: 1, Stop: 2}, {Start: 4, Stop: 7, ClassName: "todo"}})
	require.NoError(t, err)
	require.Equal(t, "- start: 1\n  stop: 2\n- start: 4\n  stop: 7\n  class: todo\n", sb.String())
}

func TestWriteRanges_Empty(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, writeRanges(&sb, nil))
	require.Equal(t, "[]\n", sb.String())
}

func TestCheckMarked(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, checkMarked(&sb, "the cat sat", "the c<mark>at</mark> s<mark>at</mark>", false))
	require.Equal(t, "ok: 2 highlights\n", sb.String())

	sb.Reset()
	require.NoError(t, checkMarked(&sb, "abc", "a<mark>b</mark>c", true))
	require.Equal(t, "- start: 1\n  stop: 2\n", sb.String())
}

func TestCheckMarked_Errors(t *testing.T) {
	var sb strings.Builder
	err := checkMarked(&sb, "abc", "a<mark>B</mark>c", false)
	require.ErrorIs(t, err, highlight.ErrMarkedTextChanged)

	err = checkMarked(&sb, "abc", "a<mark>bc", false)
	require.ErrorIs(t, err, highlight.ErrUnbalancedMarks)
	require.Empty(t, sb.String())
}

func TestRootCmd_Render(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("render:\n  tag: em\n"), 0o600))

	var out strings.Builder
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"render", "--config", cfgPath, "--text", "the cat sat", "--literal", "at"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	require.Equal(t, "the c<em>at</em> s<em>at</em>\n", out.String())
}
