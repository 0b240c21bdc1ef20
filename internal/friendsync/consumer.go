package friendsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gofriends/internal/common"
	"gofriends/internal/relationship"
	"gofriends/pkg/logger"
)

var ErrRejectedIntent = common.New(common.ErrCodeInvalidArgument, "sync intent rejected")

type ConsumerConfig struct {
	MaxRetries int
	RetryDelay time.Duration
}

// Consumer applies sync intents to the durable store.
type Consumer struct {
	store      Store
	maxRetries int
	retryDelay time.Duration
}

func NewConsumer(store Store, cfg ConsumerConfig) *Consumer {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Consumer{
		store:      store,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
}

// Apply performs one attempt at writing the intent to the store.
func (c *Consumer) Apply(ctx context.Context, intent relationship.SyncIntent) error {
	if !intent.Actor.Valid() || !intent.Target.Valid() || intent.Actor == intent.Target {
		return fmt.Errorf("%w: actor %s target %s", ErrRejectedIntent, intent.Actor, intent.Target)
	}

	var err error
	switch intent.Task {
	case relationship.TaskAdd:
		err = c.store.AddRequest(ctx, intent.Actor, intent.Target, intent.QueuedAt)
	case relationship.TaskConfirm:
		err = c.store.ConfirmRequest(ctx, intent.Actor, intent.Target, intent.QueuedAt)
	case relationship.TaskIgnore:
		err = c.store.IgnoreRequest(ctx, intent.Actor, intent.Target)
	case relationship.TaskRemove:
		err = c.store.RemoveRelationship(ctx, intent.Actor, intent.Target)
	default:
		return fmt.Errorf("%w: unknown task %q", ErrRejectedIntent, intent.Task)
	}

	if err != nil {
		return common.Wrap(err, common.ErrCodeStoreFailure, "apply "+string(intent.Task))
	}
	return nil
}

// Handle applies the intent, retrying store failures. Rejected intents are
// logged and dropped since replaying them cannot succeed. The returned error
// is non-nil only when retries are exhausted or the context ends.
func (c *Consumer) Handle(ctx context.Context, intent relationship.SyncIntent) error {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if werr := c.wait(ctx, attempt); werr != nil {
				return werr
			}
		}

		err = c.Apply(ctx, intent)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrRejectedIntent) {
			logger.Warn("Dropping invalid sync intent",
				"intent_id", intent.ID, "task", intent.Task, "actor", intent.Actor,
				"target", intent.Target, "error", err)
			return nil
		}

		logger.Warn("Sync intent apply failed",
			"intent_id", intent.ID, "task", intent.Task, "attempt", attempt+1, "error", err)
	}

	logger.Error("Sync intent retries exhausted",
		"intent_id", intent.ID, "task", intent.Task, "actor", intent.Actor,
		"target", intent.Target, "attempts", c.maxRetries+1, "error", err)
	return err
}

func (c *Consumer) wait(ctx context.Context, attempt int) error {
	if c.retryDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.retryDelay * time.Duration(attempt))
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
