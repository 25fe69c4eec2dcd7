package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"pdq-assistant-be/internal/pkg/logger"
	"pdq-assistant-be/pkg/events"

	"github.com/redis/go-redis/v9"
)

const redisAlertChannel = "operator_alerts"

// Hub fans completion pipeline alerts out to connected operator dashboards.
// With Redis configured, alerts published by one instance reach clients of
// every instance.
type Hub struct {
	clients map[*Client]struct{}

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fanout (optional)
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]struct{}),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			h.logger.Info("Hub", "Operator client registered", nil)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEvent pushes the event to all local clients and, if Redis is
// available, to the other instances.
func (h *Hub) BroadcastEvent(event events.Event) {
	payload, err := json.Marshal(map[string]interface{}{
		"type":        event.EventType(),
		"data":        event.Payload(),
		"occurred_at": event.Timestamp(),
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal alert", map[string]interface{}{"error": err.Error()})
		return
	}

	h.broadcastLocal(payload)

	if h.rdb != nil {
		if err := h.rdb.Publish(context.Background(), redisAlertChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Redis alert publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) broadcastLocal(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- payload:
		default:
			// Slow consumer, drop the alert rather than block the pipeline
		}
	}
}

func (h *Hub) subscribeToRedis() {
	sub := h.rdb.Subscribe(context.Background(), redisAlertChannel)
	for msg := range sub.Channel() {
		h.broadcastLocal([]byte(msg.Payload))
	}
}
