package tracing

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func readRecords(t *testing.T, path string) []SpanRecord {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []SpanRecord
	dec := json.NewDecoder(f)
	for {
		var rec SpanRecord
		if err := dec.Decode(&rec); err != nil {
			break
		}
		records = append(records, rec)
	}
	return records
}

func TestFileExporter_WritesRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "traces.jsonl")
	exp, err := NewFileExporter(path)
	require.NoError(t, err)

	start := time.Now()
	stub := tracetest.SpanStub{
		Name:      "overlay.update",
		StartTime: start,
		EndTime:   start.Add(1500 * time.Microsecond),
		Status:    sdktrace.Status{Code: codes.Error, Description: "sink unavailable"},
		Attributes: []attribute.KeyValue{
			attribute.String("overlay.id", "abc"),
			attribute.Int("overlay.ranges", 2),
		},
		Events: []sdktrace.Event{{Name: "exception", Time: start}},
	}
	require.NoError(t, exp.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
	require.NoError(t, exp.Shutdown(context.Background()))

	records := readRecords(t, path)
	require.Len(t, records, 1)
	rec := records[0]
	require.Equal(t, "overlay.update", rec.Name)
	require.Equal(t, "ERROR", rec.Status)
	require.Equal(t, "sink unavailable", rec.StatusMsg)
	require.InDelta(t, 1.5, rec.DurationMs, 0.001)
	require.Equal(t, "abc", rec.Attributes["overlay.id"])
	require.EqualValues(t, 2, rec.Attributes["overlay.ranges"])
	require.Len(t, rec.Events, 1)
	require.Empty(t, rec.ParentSpanID)
}

func TestFileExporter_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	for i := 0; i < 2; i++ {
		exp, err := NewFileExporter(path)
		require.NoError(t, err)
		stub := tracetest.SpanStub{Name: "span"}
		require.NoError(t, exp.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
		require.NoError(t, exp.Shutdown(context.Background()))
	}
	require.Len(t, readRecords(t, path), 2)
}

func TestFileExporter_Concurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	exp, err := NewFileExporter(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8*50)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				stub := tracetest.SpanStub{Name: "span"}
				errs <- exp.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()})
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.NoError(t, exp.Shutdown(context.Background()))
	require.Len(t, readRecords(t, path), 400)
}

func TestFileExporter_Shutdown(t *testing.T) {
	exp, err := NewFileExporter(filepath.Join(t.TempDir(), "traces.jsonl"))
	require.NoError(t, err)

	require.NoError(t, exp.Shutdown(context.Background()))
	require.NoError(t, exp.Shutdown(context.Background()))

	stub := tracetest.SpanStub{Name: "late"}
	err = exp.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()})
	require.Error(t, err)
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "OK", statusString(codes.Ok))
	require.Equal(t, "ERROR", statusString(codes.Error))
	require.Equal(t, "UNSET", statusString(codes.Unset))
	require.Nil(t, attrMap(nil))
}
