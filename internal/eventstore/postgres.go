package eventstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"casewatch/pkg/platform/sentinel"
)

// Postgres persists streams in a single events table:
//
//	CREATE TABLE events (
//	    global_seq  BIGSERIAL,
//	    stream_id   TEXT        NOT NULL,
//	    version     BIGINT      NOT NULL,
//	    event_type  TEXT        NOT NULL,
//	    payload     JSONB       NOT NULL,
//	    recorded_at TIMESTAMPTZ NOT NULL,
//	    PRIMARY KEY (stream_id, version)
//	);
//
// The (stream_id, version) primary key is the optimistic concurrency check:
// two writers appending from the same expected version collide on the key
// and the loser gets ErrStaleVersion.
type Postgres struct {
	db       *sql.DB
	registry *Registry
}

func NewPostgres(db *sql.DB, registry *Registry) *Postgres {
	return &Postgres{db: db, registry: registry}
}

func (s *Postgres) Append(ctx context.Context, streamID string, expectedVersion int64, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("eventstore: begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for i, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("eventstore: encode %q: %w", ev.EventType(), err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO events (stream_id, version, event_type, payload, recorded_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			streamID, expectedVersion+int64(i)+1, ev.EventType(), payload, now,
		)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
				return sentinel.ErrStaleVersion
			}
			return fmt.Errorf("eventstore: insert event: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("eventstore: commit: %w", err)
	}
	return nil
}

// ReplayAll feeds every stored event to fn in global append order. Used to
// rebuild read-model projections at startup.
func (s *Postgres) ReplayAll(ctx context.Context, fn func(Envelope)) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT global_seq, stream_id, version, event_type, payload, recorded_at
		 FROM events ORDER BY global_seq`,
	)
	if err != nil {
		return fmt.Errorf("eventstore: replay: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var env Envelope
		var payload []byte
		if err := rows.Scan(&env.GlobalSeq, &env.StreamID, &env.Version, &env.Type, &payload, &env.RecordedAt); err != nil {
			return fmt.Errorf("eventstore: scan event: %w", err)
		}
		ev, err := s.registry.Decode(env.Type, payload)
		if err != nil {
			return err
		}
		env.Event = ev
		fn(env)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("eventstore: iterate replay: %w", err)
	}
	return nil
}

func (s *Postgres) Load(ctx context.Context, streamID string) ([]Envelope, int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT global_seq, version, event_type, payload, recorded_at
		 FROM events WHERE stream_id = $1 ORDER BY version`,
		streamID,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("eventstore: load stream: %w", err)
	}
	defer rows.Close()

	var out []Envelope
	var version int64
	for rows.Next() {
		var env Envelope
		var payload []byte
		env.StreamID = streamID
		if err := rows.Scan(&env.GlobalSeq, &env.Version, &env.Type, &payload, &env.RecordedAt); err != nil {
			return nil, 0, fmt.Errorf("eventstore: scan event: %w", err)
		}
		ev, err := s.registry.Decode(env.Type, payload)
		if err != nil {
			return nil, 0, err
		}
		env.Event = ev
		out = append(out, env)
		version = env.Version
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("eventstore: iterate stream: %w", err)
	}
	return out, version, nil
}
