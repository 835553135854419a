package overlay

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"textlens/internal/pipeline"
)

const (
	sendBuffer = 32
	writeWait  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	// The page script runs inside whatever site the user is reading.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Controller is the part of the pipeline the overlay can drive.
type Controller interface {
	Attach(join func(replay []pipeline.Update))
	Close(id uuid.UUID) error
	Choose(chooserID uuid.UUID, templateID string) (pipeline.Session, error)
	DismissChooser(id uuid.UUID) error
}

// clientMessage is sent by the page script.
type clientMessage struct {
	Type          string `json:"type"`
	InteractionID string `json:"interaction_id,omitempty"`
	ChooserID     string `json:"chooser_id,omitempty"`
	Template      string `json:"template,omitempty"`
}

type client struct {
	send chan []byte
}

// Hub fans pipeline updates out to every connected overlay.
type Hub struct {
	log *slog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{log: log, clients: make(map[*client]struct{})}
}

// Publish implements pipeline.Surface. Slow clients lose updates rather than
// stalling the pipeline.
func (h *Hub) Publish(u pipeline.Update) {
	data, err := json.Marshal(u)
	if err != nil {
		h.log.Error("failed to encode overlay update", "err", err, "type", u.Kind)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.log.Warn("overlay client too slow, dropping update", "type", u.Kind)
		}
	}
}

// Clients returns the number of connected overlays.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register() *client {
	c := &client{send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Handler upgrades to a WebSocket, replays what is currently shown, then
// forwards updates and applies close/choose/dismiss messages from the page.
func (h *Hub) Handler(ctrl Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn("overlay upgrade failed", "err", err)
			return
		}
		defer conn.Close()

		var c *client
		ctrl.Attach(func(replay []pipeline.Update) {
			c = h.register()
			h.enqueue(c, replay)
		})
		defer h.unregister(c)

		go func() {
			for data := range c.send {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}
			}
		}()

		for {
			var msg clientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if err := h.apply(ctrl, msg); err != nil {
				h.log.Debug("overlay message ignored", "type", msg.Type, "err", err)
			}
		}
	}
}

// enqueue queues the replay for a client that has not started writing yet.
func (h *Hub) enqueue(c *client, replay []pipeline.Update) {
	for _, u := range replay {
		data, err := json.Marshal(u)
		if err != nil {
			continue
		}
		select {
		case c.send <- data:
		default:
		}
	}
}

var errUnknownMessage = errors.New("unknown message type")

func (h *Hub) apply(ctrl Controller, msg clientMessage) error {
	switch msg.Type {
	case "close":
		id := uuid.Nil
		if msg.InteractionID != "" {
			parsed, err := uuid.Parse(msg.InteractionID)
			if err != nil {
				return err
			}
			id = parsed
		}
		return ctrl.Close(id)
	case "choose":
		id, err := uuid.Parse(msg.ChooserID)
		if err != nil {
			return err
		}
		_, err = ctrl.Choose(id, msg.Template)
		return err
	case "dismiss_chooser":
		id, err := uuid.Parse(msg.ChooserID)
		if err != nil {
			return err
		}
		return ctrl.DismissChooser(id)
	default:
		return errUnknownMessage
	}
}
