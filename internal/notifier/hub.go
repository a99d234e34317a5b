package notifier

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"PriceBoard/internal/model"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// Message is the envelope pushed to websocket clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	Time time.Time   `json:"time"`
}

// SelectionPayload is what a dashboard needs to redraw the header and chart.
type SelectionPayload struct {
	EventID string           `json:"event_id"`
	Version uint64           `json:"version"`
	Range   model.RangeSpec  `json:"range"`
	Stats   model.PriceStats `json:"stats"`
	Header  Header           `json:"header"`
	Series  model.Series     `json:"series"`
}

// NewSelectionPayload builds the push payload for sel.
func NewSelectionPayload(sel model.Selection) SelectionPayload {
	return SelectionPayload{
		EventID: sel.EventID,
		Version: sel.Version,
		Range:   sel.Range,
		Stats:   sel.Stats,
		Header:  FormatHeader(sel.Stats),
		Series:  sel.Series,
	}
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// Hub pushes every published selection to connected websocket clients.
type Hub struct {
	upgrader websocket.Upgrader
	snapshot func() model.Selection

	mu      sync.RWMutex
	clients map[string]*client
}

// NewHub creates a Hub. snapshot supplies the selection sent to a client
// right after it connects.
func NewHub(snapshot func() model.Selection) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		snapshot: snapshot,
		clients:  make(map[string]*client),
	}
}

func (h *Hub) Name() string { return "websocket" }

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish broadcasts sel to every client. Clients whose buffer is full are disconnected.
func (h *Hub) Publish(sel model.Selection) error {
	msg, err := encode("selection", NewSelectionPayload(sel))
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			log.WithField("client", id).Warn("websocket client too slow, disconnecting")
			delete(h.clients, id)
			close(c.send)
		}
	}
	return nil
}

// ServeHTTP upgrades the request and streams selections until the client leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		hub:  h,
	}
	if h.snapshot != nil {
		if msg, err := encode("selection", NewSelectionPayload(h.snapshot())); err == nil {
			c.send <- msg
		}
	}
	h.register(c)

	go c.writePump()
	go c.readPump()
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
	log.WithField("client", c.id).Debug("websocket client connected")
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
		log.WithField("client", c.id).Debug("websocket client disconnected")
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only services control frames; clients select ranges over HTTP.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).WithField("client", c.id).Warn("websocket read")
			}
			return
		}
	}
}

func encode(typ string, data interface{}) ([]byte, error) {
	b, err := json.Marshal(Message{Type: typ, Data: data, Time: time.Now()})
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", typ, err)
	}
	return b, nil
}
