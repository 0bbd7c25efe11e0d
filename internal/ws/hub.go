package ws

import (
	"context"
	"sync"

	"seminar-api/internal/pkg/logger"
)

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex
	logger     *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     log.With("component", "ws_hub"),
	}
}

// Run serves register, unregister and broadcast requests until ctx is done,
// then closes every client's send channel. Register and Unregister stop
// blocking once Run has returned.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.stop()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Debug("ws connected", "total_clients", total)

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.drop(client)

		case message := <-h.broadcast:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- message:
				default:
					// Slow consumer.
					h.drop(client)
				}
			}
			h.logger.Debug("ws broadcast", "clients", len(snapshot))
		}
	}
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() {
		h.mutex.Lock()
		defer h.mutex.Unlock()
		close(h.done)
		for c := range h.clients {
			delete(h.clients, c)
			close(c.send)
		}
		// Registrations queued but never served.
		for {
			select {
			case c := <-h.register:
				if c != nil {
					close(c.send)
				}
			default:
				return
			}
		}
	})
}

func (h *Hub) drop(client *Client) {
	h.mutex.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mutex.Unlock()
	h.logger.Debug("ws disconnected", "total_clients", total)
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	select {
	case <-h.done:
		close(client.send)
		return
	default:
	}
	select {
	case <-h.done:
		close(client.send)
	case h.register <- client:
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case <-h.done:
	case h.unregister <- client:
	}
}

// Broadcast never blocks; messages are dropped when the queue is full.
func (h *Hub) Broadcast(message []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("ws broadcast dropped", "reason", "buffer_full")
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
