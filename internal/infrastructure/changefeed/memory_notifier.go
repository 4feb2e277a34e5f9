package changefeed

import (
	"context"
	"sync"
)

// MemoryNotifier is an in-process change feed used in tests and
// single-node deployments without Redis.
type MemoryNotifier struct {
	mu     sync.RWMutex
	subs   map[string]map[int]chan string
	nextID int
	closed bool
}

// NewMemoryNotifier creates an in-process notifier
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{
		subs: make(map[string]map[int]chan string),
	}
}

// Notify delivers the table name to every active subscriber
func (n *MemoryNotifier) Notify(_ context.Context, table string) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return nil
	}
	for _, ch := range n.subs[table] {
		select {
		case ch <- table:
		default:
			// drop for slow consumers
		}
	}
	return nil
}

// Subscribe registers a listener for changes on the table
func (n *MemoryNotifier) Subscribe(_ context.Context, table string) (<-chan string, func(), error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs[table] == nil {
		n.subs[table] = make(map[int]chan string)
	}
	id := n.nextID
	n.nextID++

	ch := make(chan string, 16)
	n.subs[table][id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if existing, ok := n.subs[table][id]; ok {
			delete(n.subs[table], id)
			close(existing)
		}
	}
	return ch, cancel, nil
}

// Close tears down all subscriptions
func (n *MemoryNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true
	for _, listeners := range n.subs {
		for id, ch := range listeners {
			delete(listeners, id)
			close(ch)
		}
	}
	return nil
}
