package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ai-frontdesk-be/internal/model"
	"ai-frontdesk-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub tracks connected supervisor dashboards and fans alerts out to them.
// A supervisor may be connected from several devices at once.
type Hub struct {
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out. Optional; nil means
	// single-instance mode.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
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
			h.clients[client.SupervisorID] = append(h.clients[client.SupervisorID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Supervisor connected", map[string]interface{}{"supervisor_id": client.SupervisorID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SupervisorID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SupervisorID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SupervisorID]) == 0 {
					delete(h.clients, client.SupervisorID)
					h.logger.Info("Hub", "Supervisor disconnected", map[string]interface{}{"supervisor_id": client.SupervisorID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast pushes a notification to every connected supervisor. Help
// request alerts are not addressed to anyone in particular, so every
// dashboard sees them.
func (h *Hub) Broadcast(notification model.Notification) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})

	h.deliverLocal(data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{TargetID: "*", Message: data})
		h.rdb.Publish(context.Background(), "cluster_events", payload)
	}
}

// Send delivers a notification to a single supervisor, across all their
// devices and instances.
func (h *Hub) Send(supervisorID uuid.UUID, notification model.Notification) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})

	h.mu.RLock()
	clients := h.clients[supervisorID]
	h.mu.RUnlock()

	var stalled []*Client
	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			stalled = append(stalled, client)
		}
	}
	h.evict(stalled)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{TargetID: supervisorID.String(), Message: data})
		h.rdb.Publish(context.Background(), "cluster_events", payload)
	}
}

type clusterMessage struct {
	TargetID string          `json:"target_id"`
	Message  json.RawMessage `json:"message"`
}

func (h *Hub) deliverLocal(data []byte) {
	var stalled []*Client
	h.mu.RLock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				stalled = append(stalled, client)
			}
		}
	}
	h.mu.RUnlock()
	h.evict(stalled)
}

// evict hands slow clients to the hub goroutine, which is the only
// place that closes a Send channel. Must not be called with h.mu held,
// or a second eviction in the same pass deadlocks against Run.
func (h *Hub) evict(stalled []*Client) {
	for _, client := range stalled {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"supervisor_id": client.SupervisorID})
		h.unregister <- client
	}
}

// subscribeToRedis relays cluster_events from other instances to locally
// connected supervisors. A "*" target means broadcast.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if payload.TargetID == "*" {
			h.deliverLocal(payload.Message)
			continue
		}

		uid, err := uuid.Parse(payload.TargetID)
		if err != nil {
			continue
		}

		h.mu.RLock()
		clients := h.clients[uid]
		h.mu.RUnlock()

		var stalled []*Client
		for _, client := range clients {
			select {
			case client.Send <- payload.Message:
			default:
				stalled = append(stalled, client)
			}
		}
		h.evict(stalled)
	}
}
