package loop

import (
	"sync"
	"time"
)

// HubEventType identifies a broadcast sent to connected sessions.
type HubEventType int

const (
	EventServerShutdown HubEventType = iota // Server is going down
	EventHighScore                          // Another pilot set a leaderboard score
)

// HubEvent is a message from the hub to one session.
type HubEvent struct {
	Type  HubEventType
	From  int    // Session that caused the event
	Name  string // Pilot tag for EventHighScore
	Score int
}

// ClientHandle is a session's registration with the hub.
type ClientHandle struct {
	ID       int
	Username string
	EventsCh chan HubEvent
}

// Hub tracks the sessions of a multi-user server. Each session owns its own
// game; the hub only relays broadcasts and coordinates shutdown.
type Hub struct {
	mu           sync.RWMutex
	clients      map[int]*ClientHandle
	nextClientID int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
	}
}

// RegisterClient adds a session.
func (h *Hub) RegisterClient(username string) *ClientHandle {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle := &ClientHandle{
		ID:       h.nextClientID,
		Username: username,
		EventsCh: make(chan HubEvent, 16),
	}
	h.nextClientID++
	h.clients[handle.ID] = handle
	return handle
}

// UnregisterClient removes a session. Unknown IDs are ignored.
func (h *Hub) UnregisterClient(clientID int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, clientID)
}

// Players returns the number of connected sessions.
func (h *Hub) Players() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast delivers an event to every session except the sender. Sessions
// with a full queue miss the event.
func (h *Hub) Broadcast(ev HubEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, handle := range h.clients {
		if id == ev.From {
			continue
		}
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}

// Shutdown notifies all sessions and waits until they disconnect or the
// timeout passes.
func (h *Hub) Shutdown(timeout time.Duration) {
	h.Broadcast(HubEvent{Type: EventServerShutdown})

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if h.Players() == 0 {
			return
		}
		select {
		case <-deadline:
			return
		case <-ticker.C:
		}
	}
}
