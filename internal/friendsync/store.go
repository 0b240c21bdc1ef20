// Package friendsync moves relationship writes from the cache into the
// durable store and repairs the cache from the store.
package friendsync

import (
	"context"
	"time"

	"gofriends/internal/relationship"
)

// Store is the durable relationship store. Every write must be idempotent:
// replaying an intent any number of times leaves the same rows behind.
type Store interface {
	// AddRequest records a pending request from -> to.
	AddRequest(ctx context.Context, from, to relationship.AccountID, at time.Time) error
	// ConfirmRequest writes both friend edges and drops the request target -> actor.
	ConfirmRequest(ctx context.Context, actor, target relationship.AccountID, at time.Time) error
	// IgnoreRequest drops the request target -> actor.
	IgnoreRequest(ctx context.Context, actor, target relationship.AccountID) error
	// RemoveRelationship drops both friend edges and pending requests in both directions.
	RemoveRelationship(ctx context.Context, actor, target relationship.AccountID) error

	ScanFriendEdges(ctx context.Context, scope relationship.Scope, fn func(relationship.FriendEdge) error) error
	ScanPendingRequests(ctx context.Context, scope relationship.Scope, fn func(relationship.PendingRequest) error) error
}
