package relationship

import (
	"context"
	"sort"
	"sync"
)

type accountSet map[AccountID]struct{}

// MemoryCache keeps the three per-account structures in process memory.
type MemoryCache struct {
	mu       sync.RWMutex
	friends  map[AccountID]accountSet
	received map[AccountID]map[AccountID]Metadata
	sent     map[AccountID]accountSet
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		friends:  make(map[AccountID]accountSet),
		received: make(map[AccountID]map[AccountID]Metadata),
		sent:     make(map[AccountID]accountSet),
	}
}

func (c *MemoryCache) IsFriend(_ context.Context, account, other AccountID) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.friends[account][other]
	return ok, nil
}

func (c *MemoryCache) HasRequest(_ context.Context, to, from AccountID) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.received[to][from]
	return ok, nil
}

func (c *MemoryCache) Friends(_ context.Context, account AccountID) ([]AccountID, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedMembers(c.friends[account]), nil
}

func (c *MemoryCache) FriendCount(_ context.Context, account AccountID) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.friends[account]), nil
}

func (c *MemoryCache) ReceivedRequests(_ context.Context, account AccountID) (map[AccountID]Metadata, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[AccountID]Metadata, len(c.received[account]))
	for from, meta := range c.received[account] {
		out[from] = copyMetadata(meta)
	}
	return out, nil
}

func (c *MemoryCache) SentRequests(_ context.Context, account AccountID) ([]AccountID, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedMembers(c.sent[account]), nil
}

func (c *MemoryCache) PutRequest(_ context.Context, from, to AccountID, meta Metadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	inbox, ok := c.received[to]
	if !ok {
		inbox = make(map[AccountID]Metadata)
		c.received[to] = inbox
	}
	inbox[from] = copyMetadata(meta)
	addMember(c.sent, from, to)
	return nil
}

func (c *MemoryCache) DropRequest(_ context.Context, from, to AccountID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if inbox, ok := c.received[to]; ok {
		delete(inbox, from)
		if len(inbox) == 0 {
			delete(c.received, to)
		}
	}
	removeMember(c.sent, from, to)
	return nil
}

func (c *MemoryCache) LinkFriends(_ context.Context, a, b AccountID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	addMember(c.friends, a, b)
	addMember(c.friends, b, a)
	return nil
}

func (c *MemoryCache) UnlinkFriends(_ context.Context, a, b AccountID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	removeMember(c.friends, a, b)
	removeMember(c.friends, b, a)
	return nil
}

func (c *MemoryCache) Clear(_ context.Context, account AccountID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for friend := range c.friends[account] {
		removeMember(c.friends, friend, account)
	}
	for from := range c.received[account] {
		removeMember(c.sent, from, account)
	}
	for to := range c.sent[account] {
		if inbox, ok := c.received[to]; ok {
			delete(inbox, account)
			if len(inbox) == 0 {
				delete(c.received, to)
			}
		}
	}

	delete(c.friends, account)
	delete(c.received, account)
	delete(c.sent, account)
	return nil
}

func (c *MemoryCache) Flush(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.friends = make(map[AccountID]accountSet)
	c.received = make(map[AccountID]map[AccountID]Metadata)
	c.sent = make(map[AccountID]accountSet)
	return nil
}

func addMember(sets map[AccountID]accountSet, key, member AccountID) {
	set, ok := sets[key]
	if !ok {
		set = make(accountSet)
		sets[key] = set
	}
	set[member] = struct{}{}
}

func removeMember(sets map[AccountID]accountSet, key, member AccountID) {
	set, ok := sets[key]
	if !ok {
		return
	}
	delete(set, member)
	if len(set) == 0 {
		delete(sets, key)
	}
}

func sortedMembers(set accountSet) []AccountID {
	out := make([]AccountID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func copyMetadata(meta Metadata) Metadata {
	out := make(Metadata, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
