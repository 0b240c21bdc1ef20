package relationship

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"gofriends/internal/common"
	"gofriends/pkg/logger"
)

// Engine computes and mutates relationship state. Every write enqueues its
// sync intent before touching the cache; the cache mutation completes before
// the call returns so later reads observe it.
type Engine struct {
	cache    Cache
	queue    IntentQueue
	notifier Notifier
	hooks    HookRunner
	now      func() time.Time
}

func NewEngine(cache Cache, queue IntentQueue, notifier Notifier, hooks HookRunner) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &Engine{
		cache:    cache,
		queue:    queue,
		notifier: notifier,
		hooks:    hooks,
		now:      time.Now,
	}
}

func validPair(self, other AccountID) bool {
	return self.Valid() && other.Valid() && self != other
}

// GetRelationship returns other's status as seen by self. A confirmed
// friendship wins over any leftover pending entries. Pending entries are read
// before the friend set: accept links before it drops, so a concurrent reader
// never observes Strangers mid-accept.
func (e *Engine) GetRelationship(ctx context.Context, self, other AccountID) (Status, error) {
	if !validPair(self, other) {
		return 0, ErrInvalidArgument
	}

	received, err := e.cache.HasRequest(ctx, self, other)
	if err != nil {
		return 0, common.Wrap(err, common.ErrCodeInternalError, "read received requests")
	}
	sent, err := e.cache.HasRequest(ctx, other, self)
	if err != nil {
		return 0, common.Wrap(err, common.ErrCodeInternalError, "read sent requests")
	}
	friends, err := e.cache.IsFriend(ctx, self, other)
	if err != nil {
		return 0, common.Wrap(err, common.ErrCodeInternalError, "read friend set")
	}

	switch {
	case friends:
		return Friends, nil
	case received:
		return RequestReceived, nil
	case sent:
		return RequestSent, nil
	default:
		return Strangers, nil
	}
}

func (e *Engine) GetFriends(ctx context.Context, account AccountID) []AccountID {
	if !account.Valid() {
		return []AccountID{}
	}
	friends, err := e.cache.Friends(ctx, account)
	if err != nil {
		logger.Warn("Failed to read friend set", "account", account, "error", err)
		return []AccountID{}
	}
	return friends
}

func (e *Engine) GetFriendCount(ctx context.Context, account AccountID) int {
	if !account.Valid() {
		return 0
	}
	count, err := e.cache.FriendCount(ctx, account)
	if err != nil {
		logger.Warn("Failed to count friends", "account", account, "error", err)
		return 0
	}
	return count
}

func (e *Engine) GetReceivedRequests(ctx context.Context, account AccountID) map[AccountID]Metadata {
	if !account.Valid() {
		return map[AccountID]Metadata{}
	}
	requests, err := e.cache.ReceivedRequests(ctx, account)
	if err != nil {
		logger.Warn("Failed to read received requests", "account", account, "error", err)
		return map[AccountID]Metadata{}
	}
	return requests
}

func (e *Engine) GetSentRequests(ctx context.Context, account AccountID) []AccountID {
	if !account.Valid() {
		return []AccountID{}
	}
	sent, err := e.cache.SentRequests(ctx, account)
	if err != nil {
		logger.Warn("Failed to read sent requests", "account", account, "error", err)
		return []AccountID{}
	}
	return sent
}

// SendRequest invites other. The add intent is queued before the status
// check, so a rejected request may still reach the store consumer.
func (e *Engine) SendRequest(ctx context.Context, self, other AccountID) error {
	if !validPair(self, other) {
		return ErrInvalidArgument
	}

	if err := e.enqueue(ctx, TaskAdd, self, other); err != nil {
		return err
	}

	if err := e.require(ctx, self, other, Strangers); err != nil {
		return err
	}

	meta := NewRequestMetadata(e.now())
	if err := e.cache.PutRequest(ctx, self, other, meta); err != nil {
		return common.Wrap(err, common.ErrCodeInternalError, "record friend request")
	}

	e.notifier.Notify(ctx, EventFriendshipRequest, self, other, meta)
	e.runHook(ctx, HookAddFriend, self, other)

	logger.Debug("Friend request sent", "actor", self, "target", other)
	return nil
}

func (e *Engine) AcceptRequest(ctx context.Context, self, other AccountID) error {
	return e.respond(ctx, self, other, TaskConfirm)
}

func (e *Engine) IgnoreRequest(ctx context.Context, self, other AccountID) error {
	return e.respond(ctx, self, other, TaskIgnore)
}

func (e *Engine) respond(ctx context.Context, self, other AccountID, task Task) error {
	if !validPair(self, other) {
		return ErrInvalidArgument
	}

	if err := e.enqueue(ctx, task, self, other); err != nil {
		return err
	}

	if err := e.require(ctx, self, other, RequestReceived); err != nil {
		return err
	}

	if task == TaskConfirm {
		// link before dropping the request so a concurrent reader sees
		// Friends or RequestReceived, never Strangers
		if err := e.cache.LinkFriends(ctx, self, other); err != nil {
			return common.Wrap(err, common.ErrCodeInternalError, "link friends")
		}
	}
	if err := e.cache.DropRequest(ctx, other, self); err != nil {
		return common.Wrap(err, common.ErrCodeInternalError, "drop friend request")
	}

	if task == TaskConfirm {
		e.notifier.Notify(ctx, EventFriendshipAccepted, self, other, Metadata{})
		e.runHook(ctx, HookAcceptFriend, self, other)
	}

	logger.Debug("Friend request answered", "actor", self, "target", other, "task", task)
	return nil
}

// RemoveFriend strips every trace of a relationship between the two accounts
// regardless of the current status. It doubles as "cancel my request" and as
// the repair primitive for inconsistent leftovers.
func (e *Engine) RemoveFriend(ctx context.Context, self, other AccountID) error {
	if !validPair(self, other) {
		return ErrInvalidArgument
	}

	if err := e.enqueue(ctx, TaskRemove, self, other); err != nil {
		return err
	}

	var errs error
	errs = multierr.Append(errs, e.cache.DropRequest(ctx, self, other))
	errs = multierr.Append(errs, e.cache.DropRequest(ctx, other, self))
	errs = multierr.Append(errs, e.cache.UnlinkFriends(ctx, self, other))
	if errs != nil {
		return common.Wrap(errs, common.ErrCodeInternalError, "remove relationship")
	}

	e.runHook(ctx, HookRemoveFriend, self, other)

	logger.Debug("Relationship removed", "actor", self, "target", other)
	return nil
}

func (e *Engine) enqueue(ctx context.Context, task Task, actor, target AccountID) error {
	intent := NewSyncIntent(task, actor, target)
	if err := e.queue.Queue(ctx, intent); err != nil {
		logger.Error("Failed to queue sync intent",
			"intent_id", intent.ID, "task", task, "actor", actor, "target", target, "error", err)
		return common.Wrap(err, common.ErrCodeTransportFailure, "queue sync intent")
	}
	return nil
}

func (e *Engine) require(ctx context.Context, self, other AccountID, want Status) error {
	status, err := e.GetRelationship(ctx, self, other)
	if err != nil {
		return err
	}
	if status != want {
		return fmt.Errorf("%w: status is %s, want %s", ErrPreconditionFailed, status, want)
	}
	return nil
}

func (e *Engine) runHook(ctx context.Context, name string, self, other AccountID) {
	if err := e.hooks.RunHook(ctx, name, self, other); err != nil {
		logger.Warn("Relationship hook failed", "hook", name, "actor", self, "target", other, "error", err)
	}
}
