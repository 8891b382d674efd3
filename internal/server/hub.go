package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// CommandFunc runs one console line sent by a viewer.
type CommandFunc func(line string) error

type outbound struct {
	kind int
	data []byte
}

type viewer struct {
	id   int64
	conn *websocket.Conn
	send chan outbound
}

// Hub fans frames out to every connected viewer and feeds their text
// messages to the console.
type Hub struct {
	mu      sync.RWMutex
	viewers map[*viewer]struct{}
	nextID  int64
	exec    CommandFunc
	log     zerolog.Logger
	dropped int64
}

func NewHub(exec CommandFunc, logger zerolog.Logger) *Hub {
	return &Hub{
		viewers: make(map[*viewer]struct{}),
		exec:    exec,
		log:     logger.With().Str("component", "hub").Logger(),
	}
}

// Broadcast queues a binary frame for every viewer. Viewers whose queue is
// full miss this frame.
func (h *Hub) Broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for v := range h.viewers {
		select {
		case v.send <- outbound{kind: websocket.BinaryMessage, data: data}:
		default:
			h.dropped++
		}
	}
}

func (h *Hub) Viewers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

// Dropped counts frames skipped for slow viewers.
func (h *Hub) Dropped() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

func (h *Hub) register(conn *websocket.Conn) *viewer {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	v := &viewer{id: h.nextID, conn: conn, send: make(chan outbound, sendBuffer)}
	h.viewers[v] = struct{}{}
	return v
}

func (h *Hub) unregister(v *viewer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.viewers[v]; ok {
		delete(h.viewers, v)
		close(v.send)
	}
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for v := range h.viewers {
		delete(h.viewers, v)
		close(v.send)
	}
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("upgrade failed")
		return
	}
	v := h.register(conn)
	h.log.Info().Int64("viewer", v.id).Str("remote", r.RemoteAddr).Msg("viewer connected")

	go h.writePump(v)
	h.readPump(v)
}

func (h *Hub) readPump(v *viewer) {
	defer func() {
		h.unregister(v)
		v.conn.Close()
		h.log.Info().Int64("viewer", v.id).Msg("viewer disconnected")
	}()
	v.conn.SetReadLimit(maxMessageSize)
	_ = v.conn.SetReadDeadline(time.Now().Add(pongWait))
	v.conn.SetPongHandler(func(string) error {
		return v.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, data, err := v.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Int64("viewer", v.id).Msg("read failed")
			}
			return
		}
		if kind != websocket.TextMessage || h.exec == nil {
			continue
		}
		if err := h.exec(string(data)); err != nil {
			h.reply(v, err.Error())
		}
	}
}

// reply sends a text message to one viewer, dropping it if the queue is full.
func (h *Hub) reply(v *viewer, text string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.viewers[v]; !ok {
		return
	}
	select {
	case v.send <- outbound{kind: websocket.TextMessage, data: []byte(text)}:
	default:
	}
}

func (h *Hub) writePump(v *viewer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		v.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-v.send:
			_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = v.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := v.conn.WriteMessage(msg.kind, msg.data); err != nil {
				return
			}
		case <-ticker.C:
			_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := v.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
