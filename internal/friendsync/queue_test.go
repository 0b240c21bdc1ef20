package friendsync_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofriends/internal/friendsync"
	"gofriends/internal/relationship"
)

func TestShardFor(t *testing.T) {
	assert.Equal(t, 0, friendsync.ShardFor(7, 1))
	assert.Equal(t, 0, friendsync.ShardFor(7, 0))
	assert.Equal(t, 3, friendsync.ShardFor(7, 4))
	assert.Equal(t, friendsync.ShardFor(11, 4), friendsync.ShardFor(15, 4))
}

func TestMemoryQueue_PreservesPerActorOrder(t *testing.T) {
	q := friendsync.NewMemoryQueue(4, 64, time.Second)

	var mu sync.Mutex
	seen := make(map[relationship.AccountID][]relationship.AccountID)

	q.Start(context.Background(), func(_ context.Context, in relationship.SyncIntent) error {
		mu.Lock()
		defer mu.Unlock()
		seen[in.Actor] = append(seen[in.Actor], in.Target)
		return nil
	})

	ctx := context.Background()
	for target := relationship.AccountID(100); target < 120; target++ {
		for actor := relationship.AccountID(1); actor <= 6; actor++ {
			require.NoError(t, q.Queue(ctx, relationship.NewSyncIntent(relationship.TaskAdd, actor, target)))
		}
	}
	require.NoError(t, q.Close())

	for actor := relationship.AccountID(1); actor <= 6; actor++ {
		got := seen[actor]
		require.Len(t, got, 20)
		for i := 1; i < len(got); i++ {
			assert.Less(t, got[i-1], got[i], "actor %s out of order", actor)
		}
	}
}

func TestMemoryQueue_EnqueueTimeout(t *testing.T) {
	q := friendsync.NewMemoryQueue(1, 1, 10*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, q.Queue(ctx, relationship.NewSyncIntent(relationship.TaskAdd, 1, 2)))
	assert.Equal(t, 1, q.Depth())

	err := q.Queue(ctx, relationship.NewSyncIntent(relationship.TaskAdd, 1, 3))
	assert.ErrorIs(t, err, friendsync.ErrEnqueueTimeout)
}

func TestMemoryQueue_ContextCancelled(t *testing.T) {
	q := friendsync.NewMemoryQueue(1, 0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := q.Queue(ctx, relationship.NewSyncIntent(relationship.TaskAdd, 1, 2))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryQueue_RejectsAfterClose(t *testing.T) {
	q := friendsync.NewMemoryQueue(2, 8, time.Second)
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())

	err := q.Queue(context.Background(), relationship.NewSyncIntent(relationship.TaskAdd, 1, 2))
	assert.ErrorIs(t, err, friendsync.ErrQueueClosed)
}

func TestMemoryQueue_EngineTransportFailure(t *testing.T) {
	q := friendsync.NewMemoryQueue(1, 8, time.Second)
	require.NoError(t, q.Close())

	e := relationship.NewEngine(relationship.NewMemoryCache(), q, nil, nil)
	err := e.SendRequest(context.Background(), 1, 2)
	assert.ErrorIs(t, err, relationship.ErrTransportFailure)
}

func TestMemoryQueue_CloseReleasesBlockedSenders(t *testing.T) {
	q := friendsync.NewMemoryQueue(1, 1, 10*time.Second)
	ctx := context.Background()
	require.NoError(t, q.Queue(ctx, relationship.NewSyncIntent(relationship.TaskAdd, 1, 2)))

	blocked := make(chan error, 1)
	go func() {
		blocked <- q.Queue(ctx, relationship.NewSyncIntent(relationship.TaskAdd, 1, 3))
	}()
	time.Sleep(20 * time.Millisecond)

	closed := make(chan error, 1)
	go func() { closed <- q.Close() }()

	select {
	case err := <-blocked:
		assert.ErrorIs(t, err, friendsync.ErrQueueClosed)
	case <-time.After(time.Second):
		t.Fatal("blocked sender not released by Close")
	}
	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}

	start := time.Now()
	err := q.Queue(ctx, relationship.NewSyncIntent(relationship.TaskAdd, 1, 4))
	assert.ErrorIs(t, err, friendsync.ErrQueueClosed)
	assert.Less(t, time.Since(start), time.Second)
}

func TestMemoryQueue_CountsDroppedIntents(t *testing.T) {
	q := friendsync.NewMemoryQueue(1, 4, time.Second)
	q.Start(context.Background(), func(_ context.Context, in relationship.SyncIntent) error {
		if in.Target == 3 {
			return errors.New("store down")
		}
		return nil
	})

	ctx := context.Background()
	require.NoError(t, q.Queue(ctx, relationship.NewSyncIntent(relationship.TaskAdd, 1, 2)))
	require.NoError(t, q.Queue(ctx, relationship.NewSyncIntent(relationship.TaskAdd, 1, 3)))
	require.NoError(t, q.Close())

	assert.Equal(t, int64(1), q.Dropped())
}
