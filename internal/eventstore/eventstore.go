// Package eventstore provides the append/replay event log backing the
// event-sourced aggregates. Each aggregate instance owns one stream,
// identified by its id; state is reconstructed solely by folding the
// stream's events in emission order.
package eventstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Event is a domain event that can be appended to a stream.
type Event interface {
	EventType() string
}

// Envelope wraps a stored event with its stream position.
type Envelope struct {
	StreamID   string
	Version    int64 // 1-based position within the stream
	GlobalSeq  int64
	Type       string
	Event      Event
	RecordedAt time.Time
}

// Store is the append/replay contract shared by the memory and postgres
// implementations.
//
// Append enforces optimistic concurrency: expectedVersion must equal the
// stream's current version or sentinel.ErrStaleVersion is returned and the
// caller must replay and retry. Events within one call are appended
// atomically in order, so multi-event command batches (e.g. subscriber
// delete followed by subscription deactivation) replay exactly as emitted.
type Store interface {
	Append(ctx context.Context, streamID string, expectedVersion int64, events []Event) error
	Load(ctx context.Context, streamID string) ([]Envelope, int64, error)
}

// Registry maps event type tags to payload factories so stores that persist
// JSON can decode streams back into typed events.
type Registry struct {
	factories map[string]func() Event
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]func() Event)}
}

// Register binds an event type tag to a factory producing a pointer to the
// zero payload. Registering the same tag twice panics: duplicate tags are a
// programming error that would corrupt replay.
func (r *Registry) Register(eventType string, factory func() Event) {
	if _, exists := r.factories[eventType]; exists {
		panic(fmt.Sprintf("eventstore: duplicate event type %q", eventType))
	}
	r.factories[eventType] = factory
}

// Decode unmarshals a stored payload into its typed event.
func (r *Registry) Decode(eventType string, payload []byte) (Event, error) {
	factory, ok := r.factories[eventType]
	if !ok {
		return nil, fmt.Errorf("eventstore: unknown event type %q", eventType)
	}
	ev := factory()
	if err := json.Unmarshal(payload, ev); err != nil {
		return nil, fmt.Errorf("eventstore: decode %q: %w", eventType, err)
	}
	return ev, nil
}
