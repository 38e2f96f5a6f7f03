package config

import (
	"slices"
	"sync"

	"github.com/dshills/modal/internal/platform"
)

// Observer is called when an option changes.
type Observer func(change platform.ConfigChange)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *notifier
}

// Unsubscribe removes this subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
		s.notifier = nil
	}
}

// notifier delivers option changes synchronously, in subscription order.
type notifier struct {
	mu        sync.RWMutex
	observers map[uint64]Observer
	nextID    uint64
}

func newNotifier() *notifier {
	return &notifier{observers: make(map[uint64]Observer)}
}

func (n *notifier) subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.observers[id] = observer
	return &Subscription{id: id, notifier: n}
}

func (n *notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.observers, id)
}

// notify calls observers outside the lock so they may read options or
// unsubscribe.
func (n *notifier) notify(change platform.ConfigChange) {
	n.mu.RLock()
	ids := make([]uint64, 0, len(n.observers))
	for id := range n.observers {
		ids = append(ids, id)
	}
	n.mu.RUnlock()

	slices.Sort(ids)
	for _, id := range ids {
		n.mu.RLock()
		obs, ok := n.observers[id]
		n.mu.RUnlock()
		if ok {
			obs(change)
		}
	}
}
