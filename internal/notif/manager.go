package notif

import (
	"context"
	"sync"
	"time"

	"gofriends/internal/relationship"
	"gofriends/pkg/logger"
)

// Manager delivers events to every subscribed observer. Notify is
// fire-and-forget: events are handed to a worker pool and dropped when the
// buffer is full.
type Manager struct {
	observers    map[string]Observer
	eventChannel chan Event
	workerPool   int
	ctx          context.Context
	cancel       context.CancelFunc
	mu           sync.RWMutex
	wg           sync.WaitGroup
	closeOnce    sync.Once
}

var _ relationship.Notifier = (*Manager)(nil)

func NewManager(workerPoolSize, bufferSize int) *Manager {
	if workerPoolSize < 1 {
		workerPoolSize = 1
	}
	if bufferSize < 1 {
		bufferSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		observers:    make(map[string]Observer),
		eventChannel: make(chan Event, bufferSize),
		workerPool:   workerPoolSize,
		ctx:          ctx,
		cancel:       cancel,
	}

	for i := 0; i < workerPoolSize; i++ {
		m.wg.Add(1)
		go m.processEvents()
	}

	return m
}

func (m *Manager) Subscribe(observer Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers[observer.Name()] = observer
	logger.Info("Observer subscribed", "observer", observer.Name())
}

func (m *Manager) Unsubscribe(observer Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.observers, observer.Name())
	logger.Info("Observer unsubscribed", "observer", observer.Name())
}

// Publish delivers the event to every observer on the calling goroutine.
func (m *Manager) Publish(ctx context.Context, event Event) {
	m.mu.RLock()
	observers := make([]Observer, 0, len(m.observers))
	for _, obs := range m.observers {
		observers = append(observers, obs)
	}
	m.mu.RUnlock()

	for _, observer := range observers {
		if err := observer.Update(ctx, event); err != nil {
			logger.Warn("Observer update failed", "observer", observer.Name(), "event", event.Type, "error", err)
		}
	}
}

// Notify implements relationship.Notifier.
func (m *Manager) Notify(_ context.Context, eventType string, actor, target relationship.AccountID, metadata relationship.Metadata) {
	m.NotifyAsync(Event{
		Type:       eventType,
		Actor:      actor,
		Target:     target,
		Metadata:   metadata,
		OccurredAt: time.Now().UTC(),
	})
}

func (m *Manager) NotifyAsync(event Event) {
	select {
	case <-m.ctx.Done():
		return
	default:
	}

	select {
	case m.eventChannel <- event:
	case <-m.ctx.Done():
	default:
		logger.Warn("Notification channel full, dropping event", "event", event.Type, "target", event.Target)
	}
}

func (m *Manager) processEvents() {
	defer m.wg.Done()

	for {
		select {
		case event := <-m.eventChannel:
			m.Publish(m.ctx, event)
		case <-m.ctx.Done():
			return
		}
	}
}

// Shutdown stops the workers. Events still buffered are discarded.
func (m *Manager) Shutdown() {
	m.closeOnce.Do(func() {
		m.cancel()
		m.wg.Wait()
		logger.Info("Notification manager shutdown complete")
	})
}
