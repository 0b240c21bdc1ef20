package relationship_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofriends/internal/common"
	"gofriends/internal/relationship"
	"gofriends/internal/relationship/mocks"
)

// recordingQueue accepts every intent and keeps them in order.
type recordingQueue struct {
	mu      sync.Mutex
	intents []relationship.SyncIntent
}

func (q *recordingQueue) Queue(_ context.Context, intent relationship.SyncIntent) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.intents = append(q.intents, intent)
	return nil
}

func (q *recordingQueue) tasks() []relationship.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]relationship.Task, 0, len(q.intents))
	for _, in := range q.intents {
		out = append(out, in.Task)
	}
	return out
}

func newTestEngine() (*relationship.Engine, *recordingQueue) {
	q := &recordingQueue{}
	return relationship.NewEngine(relationship.NewMemoryCache(), q, nil, nil), q
}

func status(t *testing.T, e *relationship.Engine, self, other relationship.AccountID) relationship.Status {
	t.Helper()
	s, err := e.GetRelationship(context.Background(), self, other)
	require.NoError(t, err)
	return s
}

func TestEngine_RejectsInvalidPairsWithoutQueueing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := mocks.NewMockIntentQueue(ctrl)
	queue.EXPECT().Queue(gomock.Any(), gomock.Any()).Times(0)

	e := relationship.NewEngine(relationship.NewMemoryCache(), queue, nil, nil)
	ctx := context.Background()

	pairs := []struct {
		name        string
		self, other relationship.AccountID
	}{
		{"self", 7, 7},
		{"zero self", 0, 7},
		{"zero other", 7, 0},
		{"negative", -3, 7},
	}

	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			assert.ErrorIs(t, e.SendRequest(ctx, p.self, p.other), relationship.ErrInvalidArgument)
			assert.ErrorIs(t, e.AcceptRequest(ctx, p.self, p.other), relationship.ErrInvalidArgument)
			assert.ErrorIs(t, e.IgnoreRequest(ctx, p.self, p.other), relationship.ErrInvalidArgument)
			assert.ErrorIs(t, e.RemoveFriend(ctx, p.self, p.other), relationship.ErrInvalidArgument)

			_, err := e.GetRelationship(ctx, p.self, p.other)
			assert.ErrorIs(t, err, relationship.ErrInvalidArgument)
		})
	}
}

func TestEngine_SendThenAccept(t *testing.T) {
	e, q := newTestEngine()
	ctx := context.Background()

	require.NoError(t, e.SendRequest(ctx, 1, 2))
	assert.Equal(t, relationship.RequestSent, status(t, e, 1, 2))
	assert.Equal(t, relationship.RequestReceived, status(t, e, 2, 1))
	assert.Equal(t, []relationship.AccountID{2}, e.GetSentRequests(ctx, 1))

	received := e.GetReceivedRequests(ctx, 2)
	require.Contains(t, received, relationship.AccountID(1))
	assert.NotEmpty(t, received[1][relationship.MetaRequestedAt])

	require.NoError(t, e.AcceptRequest(ctx, 2, 1))
	assert.Equal(t, relationship.Friends, status(t, e, 1, 2))
	assert.Equal(t, relationship.Friends, status(t, e, 2, 1))
	assert.Equal(t, []relationship.AccountID{2}, e.GetFriends(ctx, 1))
	assert.Equal(t, []relationship.AccountID{1}, e.GetFriends(ctx, 2))
	assert.Equal(t, 1, e.GetFriendCount(ctx, 1))
	assert.Empty(t, e.GetReceivedRequests(ctx, 2))
	assert.Empty(t, e.GetSentRequests(ctx, 1))

	assert.Equal(t, []relationship.Task{relationship.TaskAdd, relationship.TaskConfirm}, q.tasks())
	assert.Equal(t, relationship.AccountID(2), q.intents[1].Actor)
	assert.Equal(t, relationship.AccountID(1), q.intents[1].Target)
}

func TestEngine_SendThenIgnore(t *testing.T) {
	e, q := newTestEngine()
	ctx := context.Background()

	require.NoError(t, e.SendRequest(ctx, 1, 2))
	require.NoError(t, e.IgnoreRequest(ctx, 2, 1))

	assert.Equal(t, relationship.Strangers, status(t, e, 1, 2))
	assert.Equal(t, relationship.Strangers, status(t, e, 2, 1))
	assert.Empty(t, e.GetFriends(ctx, 2))
	assert.Equal(t, []relationship.Task{relationship.TaskAdd, relationship.TaskIgnore}, q.tasks())
}

func TestEngine_PreconditionFailuresStillQueue(t *testing.T) {
	e, q := newTestEngine()
	ctx := context.Background()

	// nothing pending
	err := e.AcceptRequest(ctx, 2, 1)
	assert.ErrorIs(t, err, relationship.ErrPreconditionFailed)
	assert.Equal(t, common.ErrCodePreconditionFailed, common.CodeOf(err))

	assert.ErrorIs(t, e.IgnoreRequest(ctx, 2, 1), relationship.ErrPreconditionFailed)

	require.NoError(t, e.SendRequest(ctx, 1, 2))
	// duplicate send and sender trying to accept their own request
	assert.ErrorIs(t, e.SendRequest(ctx, 1, 2), relationship.ErrPreconditionFailed)
	assert.ErrorIs(t, e.AcceptRequest(ctx, 1, 2), relationship.ErrPreconditionFailed)
	// reverse send while a request is pending
	assert.ErrorIs(t, e.SendRequest(ctx, 2, 1), relationship.ErrPreconditionFailed)

	assert.Equal(t, []relationship.Task{
		relationship.TaskConfirm,
		relationship.TaskIgnore,
		relationship.TaskAdd,
		relationship.TaskAdd,
		relationship.TaskConfirm,
		relationship.TaskAdd,
	}, q.tasks())

	assert.Equal(t, relationship.RequestSent, status(t, e, 1, 2))
}

func TestEngine_SendToFriendFails(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	require.NoError(t, e.SendRequest(ctx, 1, 2))
	require.NoError(t, e.AcceptRequest(ctx, 2, 1))

	assert.ErrorIs(t, e.SendRequest(ctx, 1, 2), relationship.ErrPreconditionFailed)
	assert.ErrorIs(t, e.SendRequest(ctx, 2, 1), relationship.ErrPreconditionFailed)
}

func TestEngine_RemoveIsUnilateral(t *testing.T) {
	e, q := newTestEngine()
	ctx := context.Background()

	require.NoError(t, e.SendRequest(ctx, 1, 2))
	require.NoError(t, e.AcceptRequest(ctx, 2, 1))

	require.NoError(t, e.RemoveFriend(ctx, 2, 1))
	assert.Equal(t, relationship.Strangers, status(t, e, 1, 2))
	assert.Equal(t, relationship.Strangers, status(t, e, 2, 1))
	assert.Equal(t, 0, e.GetFriendCount(ctx, 1))

	// removing strangers succeeds and still queues
	require.NoError(t, e.RemoveFriend(ctx, 1, 2))
	assert.Equal(t, relationship.TaskRemove, q.tasks()[len(q.tasks())-1])
}

func TestEngine_RemoveCancelsPendingRequest(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	require.NoError(t, e.SendRequest(ctx, 1, 2))
	require.NoError(t, e.RemoveFriend(ctx, 1, 2))

	assert.Equal(t, relationship.Strangers, status(t, e, 2, 1))
	assert.Empty(t, e.GetReceivedRequests(ctx, 2))
	assert.Empty(t, e.GetSentRequests(ctx, 1))

	// the pair can start over
	require.NoError(t, e.SendRequest(ctx, 2, 1))
	assert.Equal(t, relationship.RequestReceived, status(t, e, 1, 2))
}

func TestEngine_FriendsWinOverLeftoverRequests(t *testing.T) {
	cache := relationship.NewMemoryCache()
	e := relationship.NewEngine(cache, &recordingQueue{}, nil, nil)
	ctx := context.Background()

	require.NoError(t, cache.LinkFriends(ctx, 1, 2))
	require.NoError(t, cache.PutRequest(ctx, 2, 1, nil))
	require.NoError(t, cache.PutRequest(ctx, 1, 2, nil))

	assert.Equal(t, relationship.Friends, status(t, e, 1, 2))
	assert.Equal(t, relationship.Friends, status(t, e, 2, 1))

	require.NoError(t, e.RemoveFriend(ctx, 1, 2))
	assert.Empty(t, e.GetReceivedRequests(ctx, 1))
	assert.Empty(t, e.GetReceivedRequests(ctx, 2))
	assert.Equal(t, relationship.Strangers, status(t, e, 1, 2))
}

func TestEngine_TransportFailureLeavesCacheUntouched(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := mocks.NewMockIntentQueue(ctrl)
	queue.EXPECT().Queue(gomock.Any(), gomock.Any()).Return(errors.New("queue full")).Times(2)

	cache := relationship.NewMemoryCache()
	e := relationship.NewEngine(cache, queue, nil, nil)
	ctx := context.Background()

	err := e.SendRequest(ctx, 1, 2)
	assert.ErrorIs(t, err, relationship.ErrTransportFailure)
	assert.Equal(t, common.ErrCodeTransportFailure, common.CodeOf(err))
	assert.Equal(t, relationship.Strangers, status(t, e, 1, 2))

	require.NoError(t, cache.LinkFriends(ctx, 1, 2))
	assert.ErrorIs(t, e.RemoveFriend(ctx, 1, 2), relationship.ErrTransportFailure)
	assert.Equal(t, relationship.Friends, status(t, e, 1, 2))
}

func TestEngine_QueuedIntentCarriesActorAndTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := mocks.NewMockIntentQueue(ctrl)
	queue.EXPECT().Queue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, intent relationship.SyncIntent) error {
			assert.Equal(t, relationship.TaskAdd, intent.Task)
			assert.Equal(t, relationship.AccountID(4), intent.Actor)
			assert.Equal(t, relationship.AccountID(9), intent.Target)
			assert.NotEmpty(t, intent.ID)
			assert.False(t, intent.QueuedAt.IsZero())
			return nil
		}).
		Times(1)

	e := relationship.NewEngine(relationship.NewMemoryCache(), queue, nil, nil)
	require.NoError(t, e.SendRequest(context.Background(), 4, 9))
}

func TestEngine_NotifiesAndRunsHooks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	notifier := mocks.NewMockNotifier(ctrl)
	hooks := mocks.NewMockHookRunner(ctrl)

	gomock.InOrder(
		notifier.EXPECT().Notify(gomock.Any(), relationship.EventFriendshipRequest,
			relationship.AccountID(1), relationship.AccountID(2), gomock.Any()),
		hooks.EXPECT().RunHook(gomock.Any(), relationship.HookAddFriend,
			relationship.AccountID(1), relationship.AccountID(2)).Return(nil),
		notifier.EXPECT().Notify(gomock.Any(), relationship.EventFriendshipAccepted,
			relationship.AccountID(2), relationship.AccountID(1), gomock.Any()),
		hooks.EXPECT().RunHook(gomock.Any(), relationship.HookAcceptFriend,
			relationship.AccountID(2), relationship.AccountID(1)).Return(nil),
		hooks.EXPECT().RunHook(gomock.Any(), relationship.HookRemoveFriend,
			relationship.AccountID(1), relationship.AccountID(2)).Return(nil),
	)

	e := relationship.NewEngine(relationship.NewMemoryCache(), &recordingQueue{}, notifier, hooks)
	ctx := context.Background()

	require.NoError(t, e.SendRequest(ctx, 1, 2))
	require.NoError(t, e.AcceptRequest(ctx, 2, 1))
	require.NoError(t, e.RemoveFriend(ctx, 1, 2))
}

func TestEngine_IgnoreDoesNotNotify(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	notifier := mocks.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(gomock.Any(), relationship.EventFriendshipRequest,
		gomock.Any(), gomock.Any(), gomock.Any()).Times(1)

	e := relationship.NewEngine(relationship.NewMemoryCache(), &recordingQueue{}, notifier, nil)
	ctx := context.Background()

	require.NoError(t, e.SendRequest(ctx, 1, 2))
	require.NoError(t, e.IgnoreRequest(ctx, 2, 1))
}

func TestEngine_HookFailureDoesNotFailOperation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hooks := mocks.NewMockHookRunner(ctrl)
	hooks.EXPECT().RunHook(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("listener exploded")).AnyTimes()

	e := relationship.NewEngine(relationship.NewMemoryCache(), &recordingQueue{}, nil, hooks)
	ctx := context.Background()

	require.NoError(t, e.SendRequest(ctx, 1, 2))
	require.NoError(t, e.AcceptRequest(ctx, 2, 1))
	assert.Equal(t, relationship.Friends, status(t, e, 1, 2))
}

func TestEngine_ReadsOnInvalidAccount(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	assert.Empty(t, e.GetFriends(ctx, 0))
	assert.Equal(t, 0, e.GetFriendCount(ctx, -1))
	assert.Empty(t, e.GetReceivedRequests(ctx, 0))
	assert.Empty(t, e.GetSentRequests(ctx, 0))
}

func TestEngine_StatusIsSymmetric(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	ops := []func() error{
		func() error { return e.SendRequest(ctx, 3, 5) },
		func() error { return e.IgnoreRequest(ctx, 5, 3) },
		func() error { return e.SendRequest(ctx, 5, 3) },
		func() error { return e.AcceptRequest(ctx, 3, 5) },
		func() error { return e.RemoveFriend(ctx, 5, 3) },
	}

	mirror := map[relationship.Status]relationship.Status{
		relationship.Strangers:       relationship.Strangers,
		relationship.Friends:         relationship.Friends,
		relationship.RequestSent:     relationship.RequestReceived,
		relationship.RequestReceived: relationship.RequestSent,
	}

	for _, op := range ops {
		require.NoError(t, op())
		assert.Equal(t, mirror[status(t, e, 3, 5)], status(t, e, 5, 3))
	}
}

func TestEngine_ConcurrentAcceptAndReadNeverSeesStrangers(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()
	require.NoError(t, e.SendRequest(ctx, 1, 2))

	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			s, err := e.GetRelationship(ctx, 2, 1)
			assert.NoError(t, err)
			assert.NotEqual(t, relationship.Strangers, s)
		}
	}()

	require.NoError(t, e.AcceptRequest(ctx, 2, 1))
	close(done)
	wg.Wait()
}
