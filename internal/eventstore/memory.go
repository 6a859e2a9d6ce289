package eventstore

import (
	"context"
	"sync"
	"time"

	"casewatch/pkg/platform/sentinel"
)

// InMemory is the in-process event log. Streams are keyed by aggregate id;
// a global sequence preserves cross-stream emission order for projections.
type InMemory struct {
	mu          sync.RWMutex
	streams     map[string][]Envelope
	global      []Envelope
	seq         int64
	subscribers []func(Envelope)
}

func NewInMemory() *InMemory {
	return &InMemory{streams: make(map[string][]Envelope)}
}

// Append stores events at the end of the stream if expectedVersion matches
// the stream's current version, then notifies subscribers in order.
func (s *InMemory) Append(ctx context.Context, streamID string, expectedVersion int64, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	stream := s.streams[streamID]
	if int64(len(stream)) != expectedVersion {
		s.mu.Unlock()
		return sentinel.ErrStaleVersion
	}

	appended := make([]Envelope, 0, len(events))
	now := time.Now().UTC()
	for i, ev := range events {
		s.seq++
		env := Envelope{
			StreamID:   streamID,
			Version:    expectedVersion + int64(i) + 1,
			GlobalSeq:  s.seq,
			Type:       ev.EventType(),
			Event:      ev,
			RecordedAt: now,
		}
		s.streams[streamID] = append(s.streams[streamID], env)
		s.global = append(s.global, env)
		appended = append(appended, env)
	}
	subs := make([]func(Envelope), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	// Notify outside the lock so a projection may read back from the store.
	for _, env := range appended {
		for _, sub := range subs {
			sub(env)
		}
	}
	return nil
}

// Load returns a copy of the stream and its current version.
func (s *InMemory) Load(ctx context.Context, streamID string) ([]Envelope, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stream := s.streams[streamID]
	out := make([]Envelope, len(stream))
	copy(out, stream)
	return out, int64(len(stream)), nil
}

// Subscribe registers a callback invoked for every appended envelope.
// Used to keep read-model projections current.
func (s *InMemory) Subscribe(fn func(Envelope)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// ReplayAll feeds the full global log to fn in emission order. Used to
// rebuild projections at startup.
func (s *InMemory) ReplayAll(fn func(Envelope)) {
	s.mu.RLock()
	log := make([]Envelope, len(s.global))
	copy(log, s.global)
	s.mu.RUnlock()
	for _, env := range log {
		fn(env)
	}
}
