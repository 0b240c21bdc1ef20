package wire

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofriends/internal/config"
	"gofriends/internal/friendsync"
	"gofriends/internal/relationship"
)

func testConfig(backend string) *config.Config {
	return &config.Config{
		Sync: config.SyncConfig{
			Backend:        backend,
			Shards:         2,
			BufferSize:     8,
			EnqueueTimeout: 50 * time.Millisecond,
			MaxRetries:     1,
			RetryDelay:     time.Millisecond,
		},
		Auth:      config.AuthConfig{JWTSecret: "0123456789abcdef0123456789abcdef", TokenTTL: time.Hour},
		RateLimit: config.RateLimitConfig{Requests: 1, Window: time.Minute, Burst: 1},
	}
}

func TestProvideQueue_Memory(t *testing.T) {
	queue, cleanup, err := ProvideQueue(testConfig("memory"))
	require.NoError(t, err)
	require.IsType(t, &friendsync.MemoryQueue{}, queue)

	depth := ProvideQueueDepth(queue)
	require.NotNil(t, depth)

	ctx := context.Background()
	require.NoError(t, queue.Queue(ctx, relationship.NewSyncIntent(relationship.TaskAdd, 1, 2)))
	n, err := depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	cleanup()
	err = queue.Queue(ctx, relationship.NewSyncIntent(relationship.TaskAdd, 1, 3))
	assert.ErrorIs(t, err, friendsync.ErrQueueClosed)
}

func TestProvideQueue_UnsupportedBackend(t *testing.T) {
	_, _, err := ProvideQueue(testConfig("kafka"))
	assert.Error(t, err)
}

func TestProvideQueueDepth_UnknownQueue(t *testing.T) {
	assert.Nil(t, ProvideQueueDepth(otherQueue{}))
}

func TestProvideRateLimiter(t *testing.T) {
	limiter := ProvideRateLimiter(testConfig("memory"))
	assert.True(t, limiter.Allow("user:1"))
	assert.False(t, limiter.Allow("user:1"))
	assert.True(t, limiter.Allow("user:2"))
}

func TestProvideTokenIssuer(t *testing.T) {
	issuer := ProvideTokenIssuer(testConfig("memory"))
	token, err := issuer.GenerateToken(7, "alice", false)
	require.NoError(t, err)

	claims, err := issuer.ValidToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
}

func TestProvideHooks_ActivityListenerNeverFails(t *testing.T) {
	registry := ProvideHooks()
	err := registry.RunHook(context.Background(), relationship.HookAddFriend, relationship.AccountID(1), relationship.AccountID(2))
	assert.NoError(t, err)
}

func TestStartConsumers_SkippedOffMaster(t *testing.T) {
	cfg := testConfig("memory")
	cfg.Sync.Master = false
	queue := &recordingStartQueue{}

	app := &Application{Config: cfg, Queue: queue}
	app.StartConsumers(context.Background())
	assert.False(t, queue.started)

	cfg.Sync.Master = true
	app.Consumer = ProvideConsumer(nil, cfg)
	app.StartConsumers(context.Background())
	assert.True(t, queue.started)
}

type otherQueue struct{}

func (otherQueue) Queue(context.Context, relationship.SyncIntent) error { return nil }
func (otherQueue) Start(context.Context, friendsync.Handler)            {}
func (otherQueue) Close() error                                         { return nil }

type recordingStartQueue struct {
	otherQueue
	started bool
}

func (q *recordingStartQueue) Start(context.Context, friendsync.Handler) { q.started = true }
