package notify

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client is one websocket subscriber on a single topic.
type Client struct {
	Conn  *websocket.Conn
	Send  chan []byte
	Topic string
}

type broadcastMsg struct {
	Topic string
	Data  []byte
}

// Hub fans order events out to subscribers grouped by topic ("order:<id>" or
// "user:<id>"). Delivery is fire-and-forget, at most once; messages sent
// while a subscriber is disconnected are not redelivered — clients are
// expected to re-fetch order state on reconnect.
type Hub struct {
	topics     map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	done       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		topics:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for topic, clients := range h.topics {
				for c := range clients {
					close(c.Send)
				}
				delete(h.topics, topic)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.topics[c.Topic] == nil {
				h.topics[c.Topic] = make(map[*Client]bool)
			}
			h.topics[c.Topic][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if clients := h.topics[c.Topic]; clients != nil && clients[c] {
				delete(clients, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.topics[m.Topic] {
				select {
				case c.Send <- m.Data:
				default:
					// slow client: drop it rather than block the hub
					close(c.Send)
					delete(h.topics[m.Topic], c)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

// Broadcast pushes data to every subscriber of topic.
func (h *Hub) Broadcast(topic string, data []byte) {
	select {
	case h.broadcast <- broadcastMsg{Topic: topic, Data: data}:
	case <-h.done:
	}
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
