package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub fans newly added comments out to websocket subscribers of a
// post. A redis pub/sub channel per post carries broadcasts across
// processes; a nil redis client keeps the hub process-local.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	PostID string
	Send   chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(postID string) *Client {
	client := &Client{
		PostID: postID,
		Send:   make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[postID] == nil {
		h.clients[postID] = map[*Client]struct{}{}
	}
	h.clients[postID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if postClients, ok := h.clients[client.PostID]; ok {
		delete(postClients, client)
		if len(postClients) == 0 {
			delete(h.clients, client.PostID)
		}
	}
	close(client.Send)
}

// Broadcast delivers the payload to subscribers of the post exactly
// once. With redis wired the message goes through pub/sub and the
// subscription loop delivers it, locally and in every other process;
// direct delivery happens only without redis, or when the publish
// fails.
func (h *Hub) Broadcast(postID string, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(postID), payload).Err()
		if err == nil {
			return
		}
		log.Printf("redis publish error: %v", err)
	}
	h.deliver(postID, payload)
}

func (h *Hub) deliver(postID string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[postID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "comments:*:live")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliver(postIDFromChannel(msg.Channel), []byte(msg.Payload))
	}
}

func redisChannel(postID string) string {
	return "comments:" + postID + ":live"
}

func postIDFromChannel(ch string) string {
	// comments:{post}:live
	const prefix = "comments:"
	const suffix = ":live"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
