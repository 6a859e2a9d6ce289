package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	dErrors "casewatch/pkg/domain-errors"
)

// DefaultQueueKey is the Redis list holding pending send commands.
const DefaultQueueKey = "casewatch:send-email"

// Queue moves send commands between the router and the worker. Dequeue
// blocks up to timeout and reports ok=false when nothing arrived.
type Queue interface {
	Enqueue(ctx context.Context, cmd SendEmailCommand) error
	Dequeue(ctx context.Context, timeout time.Duration) (SendEmailCommand, bool, error)
}

// RedisQueue is a Redis list used as a FIFO work queue. Commands are JSON
// encoded; LPUSH pairs with BRPOP so routing order is delivery order.
type RedisQueue struct {
	client *goredis.Client
	key    string
}

func NewRedisQueue(client *goredis.Client, key string) *RedisQueue {
	if key == "" {
		key = DefaultQueueKey
	}
	return &RedisQueue{client: client, key: key}
}

func (q *RedisQueue) Enqueue(ctx context.Context, cmd SendEmailCommand) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode send command")
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "enqueue send command")
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (SendEmailCommand, bool, error) {
	values, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, goredis.Nil) {
		return SendEmailCommand{}, false, nil
	}
	if err != nil {
		return SendEmailCommand{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "dequeue send command")
	}

	// BRPOP returns [key, value].
	var cmd SendEmailCommand
	if err := json.Unmarshal([]byte(values[1]), &cmd); err != nil {
		return SendEmailCommand{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "decode send command")
	}
	return cmd, true, nil
}

// MemoryQueue is a channel-backed queue for tests and single-process runs.
type MemoryQueue struct {
	ch chan SendEmailCommand
}

func NewMemoryQueue(capacity int) *MemoryQueue {
	return &MemoryQueue{ch: make(chan SendEmailCommand, capacity)}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, cmd SendEmailCommand) error {
	select {
	case q.ch <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context, timeout time.Duration) (SendEmailCommand, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case cmd := <-q.ch:
		return cmd, true, nil
	case <-timer.C:
		return SendEmailCommand{}, false, nil
	case <-ctx.Done():
		return SendEmailCommand{}, false, ctx.Err()
	}
}
