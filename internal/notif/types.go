// Package notif fans relationship events out to observers on a worker pool.
package notif

import (
	"context"
	"time"

	"gofriends/internal/dbsql"
	"gofriends/internal/relationship"
)

type Event struct {
	Type       string
	Actor      relationship.AccountID
	Target     relationship.AccountID
	Metadata   relationship.Metadata
	OccurredAt time.Time
}

type Observer interface {
	Name() string
	Update(ctx context.Context, event Event) error
}

type NotificationStore interface {
	Create(ctx context.Context, notification *dbsql.Notification) error
}
