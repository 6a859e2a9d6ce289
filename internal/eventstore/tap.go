package eventstore

import (
	"context"
	"sync"
	"time"
)

// Tap decorates a Store with an append feed for stores that have no feed of
// their own. Subscribers see every event this process appends; events written
// by other processes only surface on the next replay.
type Tap struct {
	inner Store

	mu          sync.RWMutex
	subscribers []func(Envelope)
}

func NewTap(inner Store) *Tap {
	return &Tap{inner: inner}
}

func (t *Tap) Append(ctx context.Context, streamID string, expectedVersion int64, events []Event) error {
	if err := t.inner.Append(ctx, streamID, expectedVersion, events); err != nil {
		return err
	}

	t.mu.RLock()
	subs := make([]func(Envelope), len(t.subscribers))
	copy(subs, t.subscribers)
	t.mu.RUnlock()

	now := time.Now().UTC()
	for i, ev := range events {
		env := Envelope{
			StreamID:   streamID,
			Version:    expectedVersion + int64(i) + 1,
			Type:       ev.EventType(),
			Event:      ev,
			RecordedAt: now,
		}
		for _, sub := range subs {
			sub(env)
		}
	}
	return nil
}

func (t *Tap) Load(ctx context.Context, streamID string) ([]Envelope, int64, error) {
	return t.inner.Load(ctx, streamID)
}

// Subscribe registers a callback invoked for every append through this tap.
func (t *Tap) Subscribe(fn func(Envelope)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = append(t.subscribers, fn)
}
