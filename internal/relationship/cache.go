package relationship

import "context"

// Cache is the low-latency relationship read path. It is derived state: every
// entry can be rebuilt from the durable store. Pair mutations are atomic so
// readers never observe a half-linked friendship.
type Cache interface {
	IsFriend(ctx context.Context, account, other AccountID) (bool, error)
	// HasRequest reports whether to holds an unanswered request from from.
	HasRequest(ctx context.Context, to, from AccountID) (bool, error)

	Friends(ctx context.Context, account AccountID) ([]AccountID, error)
	FriendCount(ctx context.Context, account AccountID) (int, error)
	ReceivedRequests(ctx context.Context, account AccountID) (map[AccountID]Metadata, error)
	SentRequests(ctx context.Context, account AccountID) ([]AccountID, error)

	// PutRequest records from->to in to's received map and from's sent set.
	PutRequest(ctx context.Context, from, to AccountID, meta Metadata) error
	// DropRequest removes from->to from both structures.
	DropRequest(ctx context.Context, from, to AccountID) error
	LinkFriends(ctx context.Context, a, b AccountID) error
	UnlinkFriends(ctx context.Context, a, b AccountID) error

	// Clear drops the keys owned by account and every mirror entry that
	// mentions it in other accounts' keys.
	Clear(ctx context.Context, account AccountID) error
	Flush(ctx context.Context) error
}
