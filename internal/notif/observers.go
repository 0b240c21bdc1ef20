package notif

import (
	"context"
	"fmt"

	"gofriends/internal/dbsql"
	"gofriends/internal/relationship"
	"gofriends/pkg/logger"
)

type LogObserver struct{}

func (LogObserver) Name() string {
	return "log_observer"
}

func (LogObserver) Update(_ context.Context, event Event) error {
	logger.Info("Relationship event",
		"event", event.Type, "actor", event.Actor, "target", event.Target, "metadata", event.Metadata)
	return nil
}

// DatabaseObserver stores a notification row for the local user behind the
// event's target account.
type DatabaseObserver struct {
	store    NotificationStore
	resolver relationship.AccountResolver
}

func NewDatabaseObserver(store NotificationStore, resolver relationship.AccountResolver) *DatabaseObserver {
	return &DatabaseObserver{
		store:    store,
		resolver: resolver,
	}
}

func (d *DatabaseObserver) Name() string {
	return "database_observer"
}

func (d *DatabaseObserver) Update(ctx context.Context, event Event) error {
	userID, err := d.resolver.LocalUserIDForAccount(ctx, event.Target)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient %s: %w", event.Target, err)
	}

	notification := &dbsql.Notification{
		UserID:        userID,
		Type:          event.Type,
		ActorAccount:  int64(event.Actor),
		TargetAccount: int64(event.Target),
		Content:       contentFor(event),
		Status:        "sent",
	}

	if err := d.store.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	return nil
}

func contentFor(event Event) string {
	switch event.Type {
	case relationship.EventFriendshipRequest:
		return fmt.Sprintf("Account %s sent you a friend request", event.Actor)
	case relationship.EventFriendshipAccepted:
		return fmt.Sprintf("Account %s accepted your friend request", event.Actor)
	default:
		return event.Type
	}
}
