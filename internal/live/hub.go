package live

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Client is one connected dashboard. Buses it subscribed to are tracked per
// client; a client with no subscriptions receives every update.
type Client struct {
	ID    string
	Send  chan []byte
	mu    sync.RWMutex
	buses map[string]struct{}
}

// NewClient creates a Client with the given send buffer size.
func NewClient(id string, bufferSize int) *Client {
	return &Client{
		ID:    id,
		Send:  make(chan []byte, bufferSize),
		buses: make(map[string]struct{}),
	}
}

func (c *Client) addBuses(busNumbers []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range busNumbers {
		c.buses[n] = struct{}{}
	}
}

func (c *Client) removeBuses(busNumbers []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range busNumbers {
		delete(c.buses, n)
	}
}

func (c *Client) wants(busNumber string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.buses) == 0 {
		return true
	}
	_, ok := c.buses[busNumber]
	return ok
}

// PositionMessage is the frame sent to websocket clients.
type PositionMessage struct {
	Type    string   `json:"type"`
	Payload Position `json:"payload"`
}

// Hub fans live positions out to websocket clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan Position

	logger *zap.Logger
}

// NewHub creates a Hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		broadcast:  make(chan Position, 256),
		logger:     logger,
	}
}

// Run processes registrations and broadcasts until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("client registered",
				zap.String("client_id", client.ID),
				zap.Int("total", total),
			)

		case client := <-h.unregister:
			h.removeClient(client)

		case pos := <-h.broadcast:
			h.fanout(pos)
		}
	}
}

// Register queues a client for registration.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister queues a client for removal.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Subscribe narrows a client's feed to the given bus numbers.
func (h *Hub) Subscribe(client *Client, busNumbers []string) {
	client.addBuses(busNumbers)
}

// Unsubscribe removes bus numbers from a client's filter.
func (h *Hub) Unsubscribe(client *Client, busNumbers []string) {
	client.removeBuses(busNumbers)
}

// Broadcast queues a position for fanout. Drops when the hub is backed up;
// the next update supersedes it anyway.
func (h *Hub) Broadcast(pos Position) {
	select {
	case h.broadcast <- pos:
	default:
		h.logger.Warn("broadcast channel full, dropping position",
			zap.String("bus_number", pos.BusNumber),
		)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) fanout(pos Position) {
	data, err := json.Marshal(PositionMessage{Type: "position", Payload: pos})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if !client.wants(pos.BusNumber) {
			continue
		}
		select {
		case client.Send <- data:
		default:
			h.logger.Debug("client send buffer full",
				zap.String("client_id", client.ID),
			)
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	h.logger.Debug("client unregistered",
		zap.String("client_id", client.ID),
		zap.Int("total", len(h.clients)),
	)
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.Send)
		delete(h.clients, client)
	}
}
