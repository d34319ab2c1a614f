// Package hub fans incoming log records out to connected WebSocket
// subscribers. A single run loop owns the subscriber set; handlers talk to
// it through channels, so the set needs no locking.
package hub

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/blackicesecure-space/Valtheron/internal/models"
)

// Envelope is the push-channel message wrapper sent to subscribers.
type Envelope struct {
	Type      string            `json:"type"` // "connection", "log" or "pong"
	Data      *models.LogRecord `json:"data,omitempty"`
	Message   string            `json:"message,omitempty"`
	Timestamp int64             `json:"timestamp"` // epoch milliseconds
}

// inbound is the shape of client-to-server messages. Only pings are defined.
type inbound struct {
	Type string `json:"type"`
}

// Hub maintains the set of live subscribers and broadcasts records to them.
// Delivery is at-most-once and best-effort: a subscriber that cannot keep up
// is dropped, and records published while the broadcast queue is full are
// discarded.
type Hub struct {
	logger *slog.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan models.LogRecord
	pong       chan *Client

	// done is closed when Run returns; pumps select on it so they never
	// block on (or write into) a hub that has already stopped.
	done chan struct{}

	clients     map[*Client]struct{}
	subscribers atomic.Int64

	history  *History
	upgrader websocket.Upgrader
}

// New creates a Hub keeping at most historyLimit recent records in memory.
func New(historyLimit int, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:     logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan models.LogRecord, 256),
		pong:       make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		history:    NewHistory(historyLimit),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run owns the subscriber set until ctx is cancelled. All registration,
// removal, broadcasting and pong replies happen here, serialized; send
// channels are only ever closed from this loop, after the client has left
// the set.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.subscribers.Store(int64(len(h.clients)))
			h.logger.Info("subscriber connected", "subscriber_id", client.id, "total", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Info("subscriber disconnected", "subscriber_id", client.id, "total", len(h.clients))
			}

		case client := <-h.pong:
			// The ping may have raced a drop; only live subscribers get
			// a reply.
			if _, ok := h.clients[client]; !ok {
				continue
			}
			select {
			case client.send <- Envelope{Type: "pong", Timestamp: time.Now().UnixMilli()}:
			default:
			}

		case record := <-h.broadcast:
			h.history.Add(record)
			envelope := Envelope{
				Type:      "log",
				Data:      &record,
				Timestamp: time.Now().UnixMilli(),
			}
			for client := range h.clients {
				select {
				case client.send <- envelope:
				default:
					// Subscriber cannot keep up; cut it loose rather than
					// stalling everyone else.
					h.drop(client)
					h.logger.Warn("dropping slow subscriber", "subscriber_id", client.id)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	h.subscribers.Store(int64(len(h.clients)))
	close(client.send)
}

// Publish enqueues a record for broadcast. It never blocks: when the queue
// is full the record is dropped.
func (h *Hub) Publish(record models.LogRecord) {
	select {
	case h.broadcast <- record:
	default:
		h.logger.Warn("broadcast queue full, dropping record", "source", record.Source)
	}
}

// SubscriberCount returns the number of currently connected subscribers.
func (h *Hub) SubscriberCount() int {
	return int(h.subscribers.Load())
}

// History returns the bounded in-memory record history.
func (h *Hub) History() *History {
	return h.history
}

// ServeHTTP implements http.Handler so the hub can be mounted on a route.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.ServeWS(w, r)
}

// ServeWS upgrades an HTTP request to a WebSocket subscription.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		id:   uuid.New().String(),
		hub:  h,
		conn: conn,
		send: make(chan Envelope, sendBufferSize),
	}

	// Connection acknowledgement goes out first, before any log envelope
	// can be enqueued for this subscriber.
	client.send <- Envelope{
		Type:      "connection",
		Message:   "connected to log stream",
		Timestamp: time.Now().UnixMilli(),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
