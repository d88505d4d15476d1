package overlay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileSink_WritesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "overlay.html")
	sink := FileSink{Path: path, Title: "notes <draft>"}

	frame := Frame{
		HandleID: "abc",
		Seq:      7,
		Markup:   `a <mark class="x">b</mark>`,
		Layout:   BoxModelMirroredPadding.Apply(BoxModel{Padding: Edges{Top: 1, Right: 1, Bottom: 1, Left: 1}}),
	}
	require.NoError(t, sink.SetMarkup(frame))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(data)

	require.Contains(t, doc, `<title>notes &lt;draft&gt;</title>`)
	require.Contains(t, doc, `data-hwt-id="abc"`)
	require.Contains(t, doc, `data-hwt-seq="7"`)
	require.Contains(t, doc, `a <mark class="x">b</mark>`)
	require.Contains(t, doc, "margin: 1px 1px 1px 1px;")
	require.Contains(t, doc, "mark { border-radius")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file should be renamed away")
}

func TestFileSink_CustomTag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.html")
	require.NoError(t, FileSink{Path: path}.SetMarkup(Frame{Tag: "em", Markup: "<em>x</em>"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "em { border-radius")
}

func TestFileSink_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.html")
	sink := FileSink{Path: path}

	require.NoError(t, sink.Clear(), "clearing a missing document is fine")
	require.NoError(t, sink.SetMarkup(Frame{}))
	require.NoError(t, sink.Clear())

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
