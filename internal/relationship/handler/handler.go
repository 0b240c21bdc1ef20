// Package handler exposes the relationship engine over gRPC.
package handler

import (
	"context"
	"errors"
	"sort"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gofriends/internal/common"
	"gofriends/internal/friendsync"
	"gofriends/internal/relationship"
	"gofriends/pkg/logger"
)

type Resyncer interface {
	Resync(ctx context.Context, scope relationship.Scope, progress friendsync.ProgressFunc) (friendsync.ResyncStats, error)
	Rebuild(ctx context.Context, scope relationship.Scope, progress friendsync.ProgressFunc) (friendsync.ResyncStats, error)
}

type RelationshipHandler struct {
	engine   *relationship.Engine
	resyncer Resyncer
	accounts relationship.AccountResolver
}

var _ RelationshipServiceServer = (*RelationshipHandler)(nil)

func NewRelationshipHandler(engine *relationship.Engine, resyncer Resyncer, accounts relationship.AccountResolver) *RelationshipHandler {
	return &RelationshipHandler{
		engine:   engine,
		resyncer: resyncer,
		accounts: accounts,
	}
}

// caller resolves the token's local user id to the account it acts as.
func (h *RelationshipHandler) caller(ctx context.Context) (relationship.AccountID, error) {
	claims, ok := common.ClaimsFromContext(ctx)
	if !ok {
		return 0, status.Error(codes.Unauthenticated, "authentication required")
	}
	id, err := h.accounts.AccountIDForLocalUser(ctx, claims.UserID)
	if err != nil {
		return 0, toStatus(err)
	}
	return id, nil
}

func (h *RelationshipHandler) target(ctx context.Context, requested int64) (relationship.AccountID, error) {
	if requested != 0 {
		return relationship.AccountID(requested), nil
	}
	return h.caller(ctx)
}

// own resolves the account for calls that expose pending requests. Only the
// account itself, or an admin, may read them.
func (h *RelationshipHandler) own(ctx context.Context, requested int64) (relationship.AccountID, error) {
	self, err := h.caller(ctx)
	if err != nil {
		return 0, err
	}
	if requested == 0 || relationship.AccountID(requested) == self {
		return self, nil
	}
	if claims, ok := common.ClaimsFromContext(ctx); ok && claims.Admin {
		return relationship.AccountID(requested), nil
	}
	return 0, status.Error(codes.PermissionDenied, "pending requests are only visible to their account")
}

func (h *RelationshipHandler) GetRelationship(ctx context.Context, req *PairRequest) (*RelationshipReply, error) {
	self, err := h.caller(ctx)
	if err != nil {
		return nil, err
	}
	st, err := h.engine.GetRelationship(ctx, self, relationship.AccountID(req.OtherAccountID))
	if err != nil {
		return nil, toStatus(err)
	}
	return &RelationshipReply{Status: st.String()}, nil
}

func (h *RelationshipHandler) GetFriends(ctx context.Context, req *AccountRequest) (*AccountsReply, error) {
	account, err := h.target(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	return &AccountsReply{AccountIDs: toInt64s(h.engine.GetFriends(ctx, account))}, nil
}

func (h *RelationshipHandler) GetFriendCount(ctx context.Context, req *AccountRequest) (*CountReply, error) {
	account, err := h.target(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	return &CountReply{Count: h.engine.GetFriendCount(ctx, account)}, nil
}

func (h *RelationshipHandler) GetReceivedRequests(ctx context.Context, req *AccountRequest) (*ReceivedRequestsReply, error) {
	account, err := h.own(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	received := h.engine.GetReceivedRequests(ctx, account)
	out := make([]ReceivedRequest, 0, len(received))
	for from, meta := range received {
		out = append(out, ReceivedRequest{FromAccountID: int64(from), Metadata: meta})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FromAccountID < out[j].FromAccountID })
	return &ReceivedRequestsReply{Requests: out}, nil
}

func (h *RelationshipHandler) GetSentRequests(ctx context.Context, req *AccountRequest) (*AccountsReply, error) {
	account, err := h.own(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	return &AccountsReply{AccountIDs: toInt64s(h.engine.GetSentRequests(ctx, account))}, nil
}

func (h *RelationshipHandler) SendRequest(ctx context.Context, req *PairRequest) (*AckReply, error) {
	return h.write(ctx, req, h.engine.SendRequest)
}

func (h *RelationshipHandler) AcceptRequest(ctx context.Context, req *PairRequest) (*AckReply, error) {
	return h.write(ctx, req, h.engine.AcceptRequest)
}

func (h *RelationshipHandler) IgnoreRequest(ctx context.Context, req *PairRequest) (*AckReply, error) {
	return h.write(ctx, req, h.engine.IgnoreRequest)
}

func (h *RelationshipHandler) RemoveFriend(ctx context.Context, req *PairRequest) (*AckReply, error) {
	return h.write(ctx, req, h.engine.RemoveFriend)
}

func (h *RelationshipHandler) write(ctx context.Context, req *PairRequest, op func(context.Context, relationship.AccountID, relationship.AccountID) error) (*AckReply, error) {
	self, err := h.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := op(ctx, self, relationship.AccountID(req.OtherAccountID)); err != nil {
		return nil, toStatus(err)
	}
	return &AckReply{OK: true}, nil
}

func (h *RelationshipHandler) Resync(ctx context.Context, req *ResyncRequest) (*ResyncReply, error) {
	claims, ok := common.ClaimsFromContext(ctx)
	if !ok || !claims.Admin {
		return nil, status.Error(codes.PermissionDenied, "resync requires an admin token")
	}
	if req.AccountID < 0 {
		return nil, status.Error(codes.InvalidArgument, "account id must be positive")
	}

	scope := relationship.ForAccount(relationship.AccountID(req.AccountID))
	run := h.resyncer.Resync
	if req.Rebuild {
		run = h.resyncer.Rebuild
	}

	progress := func(line string) {
		logger.Debug("Resync progress", "scope", scope, "row", line)
	}
	stats, err := run(ctx, scope, progress)
	if err != nil {
		return nil, toStatus(err)
	}

	logger.Info("Resync requested over gRPC", "by_user", claims.UserID, "scope", scope, "rebuild", req.Rebuild)
	return &ResyncReply{
		Scope:       stats.Scope.String(),
		Friendships: stats.Friendships,
		Requests:    stats.Requests,
		DurationMS:  stats.Duration.Milliseconds(),
	}, nil
}

func toInt64s(ids []relationship.AccountID) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

// toStatus maps application error codes onto gRPC status codes.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch common.CodeOf(err) {
	case common.ErrCodeInvalidArgument:
		return status.Error(codes.InvalidArgument, err.Error())
	case common.ErrCodePreconditionFailed:
		return status.Error(codes.FailedPrecondition, err.Error())
	case common.ErrCodeTransportFailure:
		return status.Error(codes.Unavailable, err.Error())
	case common.ErrCodeNotFound:
		return status.Error(codes.NotFound, err.Error())
	case common.ErrCodeUnauthorized:
		return status.Error(codes.Unauthenticated, err.Error())
	case common.ErrCodeRateLimited:
		return status.Error(codes.ResourceExhausted, err.Error())
	}

	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	logger.Error("Relationship call failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}
