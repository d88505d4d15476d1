// Package pubsub provides a generic publish/subscribe event system used to
// fan out overlay frames and log entries.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// RenderedEvent carries a freshly rendered overlay frame.
	RenderedEvent EventType = "rendered"
	// FailedEvent reports an update cycle that did not reach the overlay.
	FailedEvent EventType = "failed"
	// DetachedEvent is the last event published for an overlay.
	DetachedEvent EventType = "detached"
	// LoggedEvent carries a formatted log line.
	LoggedEvent EventType = "logged"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
