package friendsync_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gofriends/internal/relationship"
)

type pair struct{ a, b relationship.AccountID }

// fakeStore keeps rows in maps keyed by their natural keys, which gives it the
// same conflict-ignore semantics as the SQL store.
type fakeStore struct {
	mu       sync.Mutex
	edges    map[pair]time.Time
	requests map[pair]time.Time
	failures int
	calls    int

	// scanStarted fires and scans wait on scanGate when blockScans was called.
	scanStarted chan struct{}
	scanGate    chan struct{}
}

func (s *fakeStore) blockScans() {
	s.scanStarted = make(chan struct{}, 1)
	s.scanGate = make(chan struct{})
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		edges:    make(map[pair]time.Time),
		requests: make(map[pair]time.Time),
	}
}

var errStoreDown = errors.New("store down")

func (s *fakeStore) fail() error {
	s.calls++
	if s.failures > 0 {
		s.failures--
		return errStoreDown
	}
	return nil
}

func (s *fakeStore) AddRequest(_ context.Context, from, to relationship.AccountID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return err
	}
	if _, ok := s.requests[pair{from, to}]; !ok {
		s.requests[pair{from, to}] = at
	}
	return nil
}

func (s *fakeStore) ConfirmRequest(_ context.Context, actor, target relationship.AccountID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return err
	}
	for _, p := range []pair{{actor, target}, {target, actor}} {
		if _, ok := s.edges[p]; !ok {
			s.edges[p] = at
		}
	}
	delete(s.requests, pair{target, actor})
	return nil
}

func (s *fakeStore) IgnoreRequest(_ context.Context, actor, target relationship.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return err
	}
	delete(s.requests, pair{target, actor})
	return nil
}

func (s *fakeStore) RemoveRelationship(_ context.Context, actor, target relationship.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return err
	}
	for _, p := range []pair{{actor, target}, {target, actor}} {
		delete(s.edges, p)
		delete(s.requests, p)
	}
	return nil
}

func inScope(scope relationship.Scope, p pair) bool {
	return scope.All() || p.a == scope.Account || p.b == scope.Account
}

func sortedPairs(m map[pair]time.Time) []pair {
	out := make([]pair, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].a != out[j].a {
			return out[i].a < out[j].a
		}
		return out[i].b < out[j].b
	})
	return out
}

func (s *fakeStore) ScanFriendEdges(_ context.Context, scope relationship.Scope, fn func(relationship.FriendEdge) error) error {
	if s.scanGate != nil {
		s.scanStarted <- struct{}{}
		<-s.scanGate
	}
	s.mu.Lock()
	rows := sortedPairs(s.edges)
	s.mu.Unlock()
	for _, p := range rows {
		if !inScope(scope, p) {
			continue
		}
		if err := fn(relationship.FriendEdge{Account: p.a, Friend: p.b}); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeStore) ScanPendingRequests(_ context.Context, scope relationship.Scope, fn func(relationship.PendingRequest) error) error {
	s.mu.Lock()
	rows := sortedPairs(s.requests)
	s.mu.Unlock()
	for _, p := range rows {
		if !inScope(scope, p) {
			continue
		}
		if err := fn(relationship.PendingRequest{From: p.a, To: p.b, CreatedAt: time.Unix(0, 0)}); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeStore) snapshot() (edges, requests []pair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedPairs(s.edges), sortedPairs(s.requests)
}
