package overlay

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"

	"github.com/zjrosen/hwt/internal/highlight"
	"github.com/zjrosen/hwt/internal/templates"
)

var documentTmpl = template.Must(template.ParseFS(templates.OverlayFS(), templates.OverlayDocument))

type documentData struct {
	Title          string
	ID             string
	Seq            string
	Tag            string
	BackdropMargin string
	Padding        string
	Border         string
	Markup         template.HTML
}

// FileSink writes each frame as a standalone HTML overlay document. Writes
// replace the file atomically so a browser reloading it never sees a partial
// page.
type FileSink struct {
	Path  string
	Title string
}

func (f FileSink) SetMarkup(frame Frame) error {
	tag := frame.Tag
	if tag == "" {
		tag = highlight.DefaultTag
	}
	data := documentData{
		Title:          f.Title,
		ID:             frame.HandleID,
		Seq:            strconv.FormatUint(frame.Seq, 10),
		Tag:            tag,
		BackdropMargin: frame.Layout.BackdropMargin.CSS(),
		Padding:        frame.Layout.Content.Padding.CSS(),
		Border:         frame.Layout.Content.Border.CSS(),
		Markup:         template.HTML(frame.Markup), //nolint:gosec // markup is escaped by highlight.Render
	}

	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering overlay document: %w", err)
	}
	return writeFileAtomic(f.Path, buf.Bytes())
}

// Clear removes the overlay document.
func (f FileSink) Clear() error {
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing overlay %s: %w", f.Path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating overlay directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".hwt-overlay.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
