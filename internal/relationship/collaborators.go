package relationship

//go:generate mockgen -source=collaborators.go -destination=mocks/mock_collaborators.go -package=mocks

import "context"

// IntentQueue delivers sync intents to the store consumer. Queue blocks until
// the intent is accepted or returns an error; it never drops silently.
type IntentQueue interface {
	Queue(ctx context.Context, intent SyncIntent) error
}

// Notifier dispatches user-facing events. Fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, eventType string, actor, target AccountID, metadata Metadata)
}

// HookRunner invokes extensibility listeners synchronously.
type HookRunner interface {
	RunHook(ctx context.Context, name string, args ...interface{}) error
}

// AccountResolver maps per-site local users to global accounts.
type AccountResolver interface {
	AccountIDForLocalUser(ctx context.Context, localUserID uint64) (AccountID, error)
	LocalUserIDForAccount(ctx context.Context, accountID AccountID) (uint64, error)
}

const (
	EventFriendshipRequest  = "friendship-request"
	EventFriendshipAccepted = "friendship-accepted"
)

const (
	HookAddFriend    = "relationship.add_friend"
	HookAcceptFriend = "relationship.accept_friend"
	HookRemoveFriend = "relationship.remove_friend"
)

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, AccountID, AccountID, Metadata) {}

type NopHooks struct{}

func (NopHooks) RunHook(context.Context, string, ...interface{}) error { return nil }
