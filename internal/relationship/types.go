// Package relationship holds the friendship state machine and its cache
// representation. All statuses are evaluated from the point of view of the
// first account passed to an operation.
package relationship

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"gofriends/internal/common"
)

// AccountID identifies a global account. Zero and negative values are invalid.
type AccountID int64

func (a AccountID) Valid() bool {
	return a > 0
}

func (a AccountID) String() string {
	return strconv.FormatInt(int64(a), 10)
}

// ParseAccountID parses a decimal account id and rejects invalid values.
func ParseAccountID(s string) (AccountID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidArgument
	}
	return AccountID(n), nil
}

type Status int

const (
	Strangers Status = iota + 1
	Friends
	RequestSent
	RequestReceived
)

func (s Status) String() string {
	switch s {
	case Strangers:
		return "strangers"
	case Friends:
		return "friends"
	case RequestSent:
		return "request_sent"
	case RequestReceived:
		return "request_received"
	default:
		return "unknown"
	}
}

// Metadata is attached to a received request.
type Metadata map[string]string

const MetaRequestedAt = "requested_at"

// NewRequestMetadata stamps the time a request was made.
func NewRequestMetadata(at time.Time) Metadata {
	return Metadata{MetaRequestedAt: at.UTC().Format(time.RFC3339)}
}

type Task string

const (
	TaskAdd     Task = "add"
	TaskConfirm Task = "confirm"
	TaskIgnore  Task = "ignore"
	TaskRemove  Task = "remove"
)

func (t Task) Valid() bool {
	switch t {
	case TaskAdd, TaskConfirm, TaskIgnore, TaskRemove:
		return true
	}
	return false
}

// SyncIntent is an immutable record of a requested store mutation.
type SyncIntent struct {
	ID       string
	Task     Task
	Actor    AccountID
	Target   AccountID
	QueuedAt time.Time
}

func NewSyncIntent(task Task, actor, target AccountID) SyncIntent {
	return SyncIntent{
		ID:       uuid.NewString(),
		Task:     task,
		Actor:    actor,
		Target:   target,
		QueuedAt: time.Now().UTC(),
	}
}

// FriendEdge is one direction of a confirmed friendship.
type FriendEdge struct {
	Account   AccountID
	Friend    AccountID
	CreatedAt time.Time
}

type PendingRequest struct {
	From      AccountID
	To        AccountID
	CreatedAt time.Time
}

// Scope selects the accounts a resync covers. The zero value means all accounts.
type Scope struct {
	Account AccountID
}

var AllAccounts = Scope{}

func ForAccount(id AccountID) Scope {
	return Scope{Account: id}
}

func (s Scope) All() bool {
	return s.Account == 0
}

func (s Scope) String() string {
	if s.All() {
		return "all"
	}
	return "account:" + s.Account.String()
}

var (
	ErrInvalidArgument    = common.New(common.ErrCodeInvalidArgument, "invalid or identical account ids")
	ErrPreconditionFailed = common.New(common.ErrCodePreconditionFailed, "relationship status does not allow this operation")
	ErrTransportFailure   = common.New(common.ErrCodeTransportFailure, "sync queue unavailable")
)
