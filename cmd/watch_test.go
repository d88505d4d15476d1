package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hwt/internal/highlight"
	"github.com/zjrosen/hwt/internal/overlay"
	"github.com/zjrosen/hwt/internal/pubsub"
)

func TestFrameStatus(t *testing.T) {
	rendered := pubsub.Event[overlay.Frame]{
		Type:    pubsub.RenderedEvent,
		Payload: overlay.Frame{Seq: 3, Ranges: []highlight.Range{{Stop: 1}, {Start: 2, Stop: 3}}, Duration: 2 * time.Millisecond},
	}
	require.Equal(t, "update #3: 2 ranges in 2ms", frameStatus(rendered))

	failed := pubsub.Event[overlay.Frame]{
		Type:    pubsub.FailedEvent,
		Payload: overlay.Frame{Seq: 4, Err: errors.New("boom")},
	}
	require.Equal(t, "update #4 failed: boom", frameStatus(failed))

	require.Equal(t, "detached", frameStatus(pubsub.Event[overlay.Frame]{Type: pubsub.DetachedEvent}))
}

func TestWriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, writeConfig(path, false))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "highlights:")

	require.NoError(t, os.WriteFile(path, []byte("custom"), 0o600))
	err = writeConfig(path, false)
	require.ErrorContains(t, err, "already exists")

	require.NoError(t, writeConfig(path, true))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.NotEqual(t, "custom", string(data))
}
