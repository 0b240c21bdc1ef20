// Package hooks runs named listeners after relationship changes.
package hooks

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"gofriends/internal/relationship"
	"gofriends/pkg/logger"
)

type Listener func(ctx context.Context, args ...interface{}) error

// Registry keeps listeners per hook name and runs them in registration order.
type Registry struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

var _ relationship.HookRunner = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{listeners: make(map[string][]Listener)}
}

func (r *Registry) Register(name string, fn Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[name] = append(r.listeners[name], fn)
}

// RunHook calls every listener for name. A failing or panicking listener does
// not stop the rest; all failures are returned together.
func (r *Registry) RunHook(ctx context.Context, name string, args ...interface{}) error {
	r.mu.RLock()
	listeners := append([]Listener(nil), r.listeners[name]...)
	r.mu.RUnlock()

	var errs error
	for i, fn := range listeners {
		if err := safeCall(ctx, fn, args); err != nil {
			logger.Debug("Hook listener failed", "hook", name, "listener", i, "error", err)
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func safeCall(ctx context.Context, fn Listener, args []interface{}) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("hook listener panicked: %v", rec)
		}
	}()
	return fn(ctx, args...)
}

// RegisterActivityLog installs listeners that log every relationship hook.
func RegisterActivityLog(r *Registry) {
	for _, name := range []string{
		relationship.HookAddFriend,
		relationship.HookAcceptFriend,
		relationship.HookRemoveFriend,
	} {
		hook := name
		r.Register(hook, func(_ context.Context, args ...interface{}) error {
			logger.Info("Relationship activity", "hook", hook, "args", args)
			return nil
		})
	}
}
