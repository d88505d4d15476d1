// Package overlay keeps highlight markup in step with an editable surface.
//
// Attach binds a Surface (where text comes from), a Sink (where markup goes)
// and a highlight.Spec. Every Update re-reads the text, resolves and renders it
// from scratch and hands the frame to the sink. The returned Handle is the only
// state; there is no registry of attached overlays.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/hwt/internal/highlight"
	"github.com/zjrosen/hwt/internal/log"
	"github.com/zjrosen/hwt/internal/pubsub"
)

// ErrDetached is returned by operations on a detached handle.
var ErrDetached = errors.New("overlay detached")

// Options configures an attached overlay.
type Options struct {
	// WrapFix inserts zero-width breaks after spaces.
	WrapFix bool
	// Tag is the highlight element name (default "mark").
	Tag string
	// BoxModelFix and BoxModel produce the Layout carried by every frame.
	BoxModelFix BoxModelFix
	BoxModel    BoxModel
	// Tracer records one span per update. Defaults to a no-op tracer.
	Tracer trace.Tracer
}

// Frame is the result of one update cycle.
type Frame struct {
	HandleID string
	Seq      uint64
	Text     string
	Ranges   []highlight.Range
	Markup   string
	Tag      string
	Layout   Layout
	Duration time.Duration
	Err      error // set only on FailedEvent
}

// Handle is an attached overlay.
type Handle struct {
	mu       sync.Mutex
	id       string
	surface  Surface
	sink     Sink
	spec     highlight.Spec
	render   highlight.Options
	tag      string
	layout   Layout
	tracer   trace.Tracer
	broker   *pubsub.Broker[Frame]
	seq      uint64
	detached bool
}

// Attach creates an overlay and renders the surface's current text once.
// If the first update fails the overlay is torn down and the error returned.
func Attach(ctx context.Context, surface Surface, sink Sink, spec highlight.Spec, opts Options) (*Handle, error) {
	if surface == nil || sink == nil {
		return nil, fmt.Errorf("attach: surface and sink are required")
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("hwt")
	}

	h := &Handle{
		id:      uuid.NewString(),
		surface: surface,
		sink:    sink,
		spec:    spec,
		render: highlight.Options{
			Markup:  highlight.HTML{Tag: opts.Tag},
			WrapFix: opts.WrapFix,
		},
		tag:    opts.Tag,
		layout: opts.BoxModelFix.Apply(opts.BoxModel),
		tracer: tracer,
		broker: pubsub.NewBroker[Frame](),
	}
	log.Info(log.CatOverlay, "attached", "id", h.id, "box_model_fix", opts.BoxModelFix, "wrap_fix", opts.WrapFix)

	if err := h.Update(ctx); err != nil {
		_ = h.Detach()
		return nil, err
	}
	return h, nil
}

// ID returns the overlay's unique identifier.
func (h *Handle) ID() string {
	return h.id
}

// Subscribe returns a channel of RenderedEvent, FailedEvent and DetachedEvent
// frames for the lifetime of ctx or the handle.
func (h *Handle) Subscribe(ctx context.Context) <-chan pubsub.Event[Frame] {
	return h.broker.Subscribe(ctx)
}

// Broker exposes the frame broker, e.g. for pubsub.NewContinuousListener.
func (h *Handle) Broker() pubsub.Subscriber[Frame] {
	return h.broker
}

// SetSpec replaces the highlight spec and re-renders.
func (h *Handle) SetSpec(ctx context.Context, spec highlight.Spec) error {
	h.mu.Lock()
	if h.detached {
		h.mu.Unlock()
		return ErrDetached
	}
	h.spec = spec
	h.mu.Unlock()
	return h.Update(ctx)
}

// Update re-reads the surface and pushes a fresh frame to the sink. On error
// the sink keeps its previous frame.
func (h *Handle) Update(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.detached {
		return ErrDetached
	}

	h.seq++
	_, span := h.tracer.Start(ctx, "overlay.update", trace.WithAttributes(
		attribute.String("overlay.id", h.id),
		attribute.Int64("overlay.seq", int64(h.seq)), //nolint:gosec // sequence numbers stay far below MaxInt64
	))
	defer span.End()

	start := time.Now()
	frame, err := h.cycle()
	frame.Duration = time.Since(start)
	if err == nil {
		err = h.sink.SetMarkup(frame)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatOverlay, "update failed", err, "id", h.id, "seq", h.seq)
		frame.Err = err
		h.broker.Publish(pubsub.FailedEvent, frame)
		return err
	}

	span.SetAttributes(
		attribute.Int("overlay.text_bytes", len(frame.Text)),
		attribute.Int("overlay.ranges", len(frame.Ranges)),
	)
	log.Debug(log.CatOverlay, "updated", "id", h.id, "seq", h.seq, "ranges", len(frame.Ranges), "took", frame.Duration)
	h.broker.Publish(pubsub.RenderedEvent, frame)
	return nil
}

// cycle runs resolve and render for the current surface text.
func (h *Handle) cycle() (Frame, error) {
	frame := Frame{HandleID: h.id, Seq: h.seq, Tag: h.tag, Layout: h.layout}

	text, err := h.surface.Text()
	if err != nil {
		return frame, err
	}
	frame.Text = text

	ranges, err := highlight.Resolve(text, h.spec)
	if err != nil {
		return frame, fmt.Errorf("resolving highlights: %w", err)
	}
	kept := highlight.RemoveStaggered(ranges)
	if dropped := len(ranges) - len(kept); dropped > 0 {
		log.Debug(log.CatResolve, "dropped staggered ranges", "id", h.id, "dropped", dropped)
	}
	frame.Ranges = kept

	markup, err := highlight.Render(text, kept, h.render)
	if err != nil {
		return frame, fmt.Errorf("rendering highlights: %w", err)
	}
	frame.Markup = markup
	return frame, nil
}

// Detach clears the sink and closes the handle. Later calls return ErrDetached.
func (h *Handle) Detach() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.detached {
		return ErrDetached
	}
	h.detached = true

	err := h.sink.Clear()
	h.broker.Publish(pubsub.DetachedEvent, Frame{HandleID: h.id, Seq: h.seq})
	h.broker.Close()
	log.Info(log.CatOverlay, "detached", "id", h.id)
	return err
}
