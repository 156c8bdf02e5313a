package usecase

import (
	"sync"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const subscriberBuffer = 8

// Hub - fan-out of snapshots to every front end watching a session.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
}

type subscriber struct {
	updates chan entity.Snapshot
	once    sync.Once
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe - the channel is closed by the returned cancel func, which may be called more than once.
func (that *Hub) Subscribe(sessionID string) (<-chan entity.Snapshot, func()) {
	sub := &subscriber{
		updates: make(chan entity.Snapshot, subscriberBuffer),
	}

	that.mu.Lock()
	if that.subscribers[sessionID] == nil {
		that.subscribers[sessionID] = make(map[*subscriber]struct{})
	}
	that.subscribers[sessionID][sub] = struct{}{}
	that.mu.Unlock()

	cancel := func() {
		sub.once.Do(func() {
			that.mu.Lock()
			delete(that.subscribers[sessionID], sub)
			if len(that.subscribers[sessionID]) == 0 {
				delete(that.subscribers, sessionID)
			}
			that.mu.Unlock()

			close(sub.updates)
		})
	}

	return sub.updates, cancel
}

// Publish - never blocks. A subscriber that fell behind loses its oldest pending snapshot.
func (that *Hub) Publish(sessionID string, snapshot entity.Snapshot) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for sub := range that.subscribers[sessionID] {
		select {
		case sub.updates <- snapshot:
			continue
		default:
		}

		select {
		case <-sub.updates:
		default:
		}

		select {
		case sub.updates <- snapshot:
		default:
		}
	}
}

func (that *Hub) Subscribers(sessionID string) int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.subscribers[sessionID])
}
