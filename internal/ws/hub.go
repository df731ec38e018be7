package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is the JSON frame pushed to a connected user.
type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

type envelope struct {
	userID  uuid.UUID
	message []byte
}

// Hub tracks connections per user and delivers events to every connection of
// the addressed user.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]struct{}
	direct     chan envelope
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *log.Logger
	now        func() time.Time
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		direct:     make(chan envelope, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
		now:        time.Now,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			n := len(set)
			h.mutex.Unlock()
			h.logger.Printf("ws=connected user_id=%s connections=%d", client.userID, n)

		case client := <-h.unregister:
			h.remove(client)

		case env := <-h.direct:
			h.mutex.RLock()
			targets := make([]*Client, 0, len(h.clients[env.userID]))
			for c := range h.clients[env.userID] {
				targets = append(targets, c)
			}
			h.mutex.RUnlock()

			for _, c := range targets {
				select {
				case c.send <- env.message:
				default:
					h.remove(c)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	if client == nil {
		return
	}
	h.mutex.Lock()
	set := h.clients[client.userID]
	if _, ok := set[client]; ok {
		delete(set, client)
		close(client.send)
		if len(set) == 0 {
			delete(h.clients, client.userID)
		}
		h.logger.Printf("ws=disconnected user_id=%s connections=%d", client.userID, len(set))
	}
	h.mutex.Unlock()
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for uid, set := range h.clients {
		for c := range set {
			close(c.send)
		}
		delete(h.clients, uid)
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

// Unregister never blocks so pumps can exit after the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	default:
	}
}

// Notify queues an event for userID. Events for users without a connection,
// or that arrive while the buffer is full, are dropped.
func (h *Hub) Notify(userID uuid.UUID, event string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(Event{Type: event, Data: payload, Timestamp: h.now().UTC().Format(time.RFC3339)})
	if err != nil {
		h.logger.Printf("ws=notify event=%s status=error err=%v", event, err)
		return
	}
	select {
	case h.direct <- envelope{userID: userID, message: b}:
	default:
		h.logger.Printf("ws=notify event=%s user_id=%s status=dropped reason=buffer_full", event, userID)
	}
}

func (h *Hub) ConnectionCount(userID uuid.UUID) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[userID])
}
