package overlay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// Surface is the editable text the overlay follows.
type Surface interface {
	Text() (string, error)
}

// Sink displays rendered frames behind the editable surface.
type Sink interface {
	SetMarkup(frame Frame) error
	Clear() error
}

// StaticSurface is an in-memory surface. The zero value is empty.
type StaticSurface struct {
	mu   sync.RWMutex
	text string
}

// NewStaticSurface returns a surface holding text.
func NewStaticSurface(text string) *StaticSurface {
	return &StaticSurface{text: text}
}

func (s *StaticSurface) Text() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text, nil
}

// SetText replaces the surface value. Callers still have to Update the handle.
func (s *StaticSurface) SetText(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
}

// FileSurface reads its text from a file on every update.
type FileSurface struct {
	Path string
}

func (f FileSurface) Text() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("reading surface %s: %w", f.Path, err)
	}
	return string(data), nil
}

// WriterSink writes each frame's markup to W followed by Separator.
type WriterSink struct {
	W         io.Writer
	Separator string
}

func (w WriterSink) SetMarkup(frame Frame) error {
	_, err := io.WriteString(w.W, frame.Markup+w.Separator)
	return err
}

func (w WriterSink) Clear() error {
	return nil
}

// MemorySink keeps the last frame. Used by the playground and tests.
type MemorySink struct {
	mu      sync.Mutex
	frame   Frame
	cleared bool
	updates int
}

func (m *MemorySink) SetMarkup(frame Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frame = frame
	m.cleared = false
	m.updates++
	return nil
}

func (m *MemorySink) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frame = Frame{}
	m.cleared = true
	return nil
}

// Frame returns the last frame set.
func (m *MemorySink) Frame() Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frame
}

// Markup returns the last markup set.
func (m *MemorySink) Markup() string {
	return m.Frame().Markup
}

// Cleared reports whether Clear ran after the last SetMarkup.
func (m *MemorySink) Cleared() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cleared
}

// Updates returns how many frames were set.
func (m *MemorySink) Updates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updates
}

// MultiSink fans frames out to several sinks, stopping at the first error.
type MultiSink []Sink

func (ms MultiSink) SetMarkup(frame Frame) error {
	for _, s := range ms {
		if err := s.SetMarkup(frame); err != nil {
			return err
		}
	}
	return nil
}

func (ms MultiSink) Clear() error {
	var errs []error
	for _, s := range ms {
		errs = append(errs, s.Clear())
	}
	return errors.Join(errs...)
}
