package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"inzite-research-be/internal/dto"
	"inzite-research-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// ProgressChannel is the redis channel every instance listens on.
const ProgressChannel = "research_progress"

// Hub fans session progress out to the websocket clients watching that session. With
// redis configured, progress goes through the ProgressChannel so a client connected to
// any instance sees it.
type Hub struct {
	// Registered clients: SessionID -> clients watching it
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb   *redis.Client
	ready chan struct{}

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		ready:      make(chan struct{}),
		logger:     log,
	}
}

// Ready is closed once the hub can deliver published progress.
func (h *Hub) Ready() <-chan struct{} {
	return h.ready
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	} else {
		close(h.ready)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			clients := h.clients[client.SessionID]
			for i, c := range clients {
				if c == client {
					h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
					close(client.Send)
					break
				}
			}
			if len(h.clients[client.SessionID]) == 0 {
				delete(h.clients, client.SessionID)
			}
			h.mu.Unlock()
		}
	}
}

// Watchers returns how many local clients follow sessionID.
func (h *Hub) Watchers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Publish implements the workflow's progress notifier.
func (h *Hub) Publish(ctx context.Context, msg dto.ProgressMessage) {
	data, err := json.Marshal(map[string]interface{}{
		"type": "progress",
		"data": msg,
	})
	if err != nil {
		return
	}

	if h.rdb == nil {
		h.deliver(msg.SessionId, data)
		return
	}

	payload, _ := json.Marshal(redisEnvelope{SessionID: msg.SessionId, Message: data})
	if err := h.rdb.Publish(ctx, ProgressChannel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Redis publish failed, delivering locally", map[string]interface{}{"error": err.Error()})
		h.deliver(msg.SessionId, data)
	}
}

type redisEnvelope struct {
	SessionID string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

func (h *Hub) deliver(sessionID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[sessionID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping progress", map[string]interface{}{"session_id": sessionID})
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ProgressChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		h.logger.Error("Hub", "Redis subscribe failed", map[string]interface{}{"error": err.Error()})
		close(h.ready)
		return
	}
	close(h.ready)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env redisEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			h.deliver(env.SessionID, env.Message)
		}
	}
}
