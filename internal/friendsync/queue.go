package friendsync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"gofriends/internal/relationship"
	"gofriends/pkg/logger"
)

var (
	ErrQueueClosed    = errors.New("sync queue closed")
	ErrEnqueueTimeout = errors.New("sync queue enqueue timed out")
)

// Handler consumes one intent. A non-nil error means the intent was not
// applied.
type Handler func(ctx context.Context, intent relationship.SyncIntent) error

// ShardFor maps an actor onto one of n shards. All intents of one actor land
// on the same shard, which is what keeps them in order.
func ShardFor(actor relationship.AccountID, n int) int {
	if n <= 1 {
		return 0
	}
	return int(uint64(actor) % uint64(n))
}

// MemoryQueue is an in-process sync queue: one buffered channel and one
// worker goroutine per shard. It is not durable; intents still buffered when
// the process dies, or that exhaust their retries, are lost and must be
// recovered by a resync.
type MemoryQueue struct {
	shards  []chan relationship.SyncIntent
	timeout time.Duration
	done    chan struct{}
	dropped atomic.Int64

	mu      sync.RWMutex
	closed  bool
	started bool
	senders sync.WaitGroup
	wg      sync.WaitGroup
}

func NewMemoryQueue(shards, capacity int, enqueueTimeout time.Duration) *MemoryQueue {
	if shards < 1 {
		shards = 1
	}
	if capacity < 0 {
		capacity = 0
	}
	q := &MemoryQueue{
		shards:  make([]chan relationship.SyncIntent, shards),
		timeout: enqueueTimeout,
		done:    make(chan struct{}),
	}
	for i := range q.shards {
		q.shards[i] = make(chan relationship.SyncIntent, capacity)
	}
	return q
}

// Queue blocks until the intent is buffered, the context ends or the enqueue
// timeout passes. A zero timeout waits on the context alone.
func (q *MemoryQueue) Queue(ctx context.Context, intent relationship.SyncIntent) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	q.senders.Add(1)
	q.mu.RUnlock()
	defer q.senders.Done()

	var expired <-chan time.Time
	if q.timeout > 0 {
		timer := time.NewTimer(q.timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case q.shards[ShardFor(intent.Actor, len(q.shards))] <- intent:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-expired:
		return ErrEnqueueTimeout
	case <-q.done:
		return ErrQueueClosed
	}
}

// Start launches one worker per shard. Workers stop once Close has drained
// their shard.
func (q *MemoryQueue) Start(ctx context.Context, handle Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true

	for i, ch := range q.shards {
		q.wg.Add(1)
		go q.work(ctx, i, ch, handle)
	}
	logger.Info("Sync queue started", "backend", "memory", "shards", len(q.shards))
}

func (q *MemoryQueue) work(ctx context.Context, shard int, ch <-chan relationship.SyncIntent, handle Handler) {
	defer q.wg.Done()
	for intent := range ch {
		if err := handle(ctx, intent); err != nil {
			q.dropped.Add(1)
			logger.Error("Sync intent dropped, store diverges until both accounts are resynced",
				"shard", shard, "intent_id", intent.ID, "task", intent.Task,
				"actor", intent.Actor, "target", intent.Target, "error", err)
		}
	}
}

// Close stops accepting intents, releases blocked senders and waits for the
// workers to drain what is already buffered.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.done)
	q.mu.Unlock()

	q.senders.Wait()
	for _, ch := range q.shards {
		close(ch)
	}
	q.wg.Wait()
	logger.Info("Sync queue shutdown complete", "backend", "memory")
	return nil
}

// Depth reports the number of buffered intents across all shards.
func (q *MemoryQueue) Depth() int {
	n := 0
	for _, ch := range q.shards {
		n += len(ch)
	}
	return n
}

// Dropped reports how many intents the consumer gave up on.
func (q *MemoryQueue) Dropped() int64 {
	return q.dropped.Load()
}

// Queue is a sync queue backend: engines enqueue into it and the consumer
// drains it.
type Queue interface {
	relationship.IntentQueue
	Start(ctx context.Context, handle Handler)
	Close() error
}

var _ Queue = (*MemoryQueue)(nil)
