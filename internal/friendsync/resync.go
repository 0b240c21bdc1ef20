package friendsync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"gofriends/internal/common"
	"gofriends/internal/relationship"
	"gofriends/pkg/logger"
)

var ErrResyncInProgress = common.New(common.ErrCodePreconditionFailed, "a resync is already running")

// ProgressFunc receives one human readable line per row replayed.
type ProgressFunc func(line string)

type ResyncStats struct {
	Scope       relationship.Scope
	Friendships int
	Requests    int
	Duration    time.Duration
}

// Resyncer replays store rows into the cache. Every node owns its cache and
// runs its own resyncs; only one runs at a time per node.
type Resyncer struct {
	store   Store
	cache   relationship.Cache
	running atomic.Bool
}

func NewResyncer(store Store, cache relationship.Cache) *Resyncer {
	return &Resyncer{store: store, cache: cache}
}

// Resync upserts every friend edge and pending request in scope into the
// cache. It never removes entries, so it is safe alongside live traffic but
// cannot repair entries the store no longer has. progress may be nil.
func (r *Resyncer) Resync(ctx context.Context, scope relationship.Scope, progress ProgressFunc) (ResyncStats, error) {
	if !r.running.CompareAndSwap(false, true) {
		return ResyncStats{Scope: scope}, ErrResyncInProgress
	}
	defer r.running.Store(false)
	return r.resync(ctx, scope, progress)
}

func (r *Resyncer) resync(ctx context.Context, scope relationship.Scope, progress ProgressFunc) (ResyncStats, error) {
	stats := ResyncStats{Scope: scope}
	if progress == nil {
		progress = func(string) {}
	}

	start := time.Now()
	logger.Info("Resync started", "scope", scope)

	err := r.store.ScanFriendEdges(ctx, scope, func(edge relationship.FriendEdge) error {
		if err := r.cache.LinkFriends(ctx, edge.Account, edge.Friend); err != nil {
			return err
		}
		stats.Friendships++
		progress(fmt.Sprintf("friends %s <-> %s", edge.Account, edge.Friend))
		return nil
	})
	if err != nil {
		return stats, common.Wrap(err, common.ErrCodeStoreFailure, "resync friend edges")
	}

	err = r.store.ScanPendingRequests(ctx, scope, func(req relationship.PendingRequest) error {
		meta := relationship.NewRequestMetadata(req.CreatedAt)
		if err := r.cache.PutRequest(ctx, req.From, req.To, meta); err != nil {
			return err
		}
		stats.Requests++
		progress(fmt.Sprintf("request %s -> %s", req.From, req.To))
		return nil
	})
	if err != nil {
		return stats, common.Wrap(err, common.ErrCodeStoreFailure, "resync pending requests")
	}

	stats.Duration = time.Since(start)
	logger.Info("Resync finished",
		"scope", scope, "friendships", stats.Friendships, "requests", stats.Requests,
		"duration", stats.Duration)
	return stats, nil
}

// Rebuild clears the cache keys covered by scope and then resyncs them.
func (r *Resyncer) Rebuild(ctx context.Context, scope relationship.Scope, progress ProgressFunc) (ResyncStats, error) {
	if !r.running.CompareAndSwap(false, true) {
		return ResyncStats{Scope: scope}, ErrResyncInProgress
	}
	defer r.running.Store(false)

	var err error
	if scope.All() {
		err = r.cache.Flush(ctx)
	} else {
		err = r.cache.Clear(ctx, scope.Account)
	}
	if err != nil {
		return ResyncStats{Scope: scope}, common.Wrap(err, common.ErrCodeInternalError, "clear cache")
	}

	return r.resync(ctx, scope, progress)
}

// Run resyncs the whole cache every interval until ctx ends. It picks up
// writes accepted by other nodes; removals still need a Rebuild.
func (r *Resyncer) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, err := r.Resync(ctx, relationship.AllAccounts, nil)
			switch {
			case err == nil:
			case errors.Is(err, ErrResyncInProgress):
				logger.Debug("Periodic resync skipped, another resync is running")
			case ctx.Err() != nil:
				return
			default:
				logger.Warn("Periodic resync failed", "error", err)
			}
		}
	}
}
