package notify

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tutoring_back_end_go/models"
)

const (
	EventLessonBooked = "lesson_booked"

	sendBuffer = 16
)

type Event struct {
	Type   string         `json:"type"`
	Lesson *models.Lesson `json:"lesson,omitempty"`
}

type client struct {
	tutorID int64
	conn    *websocket.Conn
	send    chan []byte
}

// Hub fans booking events out to the websocket connections of each tutor.
// A tutor may hold several connections.
type Hub struct {
	mu       sync.RWMutex
	clients  map[int64]map[*client]struct{}
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHub accepts upgrades from requests without an Origin header or from
// one of origins.
func NewHub(origins []string, logger *zap.Logger) *Hub {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}

	return &Hub{
		clients: make(map[int64]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
		logger: logger,
	}
}

// Serve upgrades the request and registers the connection for tutorID.
func (h *Hub) Serve(c *gin.Context, tutorID int64) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{tutorID: tutorID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(cl)

	go h.writePump(cl)
	go h.readPump(cl)
}

func (h *Hub) LessonBooked(tutorID int64, lesson *models.Lesson) {
	h.publish(tutorID, Event{Type: EventLessonBooked, Lesson: lesson})
}

// Connections returns how many sockets tutorID currently holds.
func (h *Hub) Connections(tutorID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[tutorID])
}

func (h *Hub) publish(tutorID int64, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to encode event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for cl := range h.clients[tutorID] {
		select {
		case cl.send <- payload:
		default:
			h.logger.Warn("Dropping event for slow client",
				zap.Int64("tutor_id", tutorID),
				zap.String("type", event.Type))
		}
	}
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[cl.tutorID] == nil {
		h.clients[cl.tutorID] = make(map[*client]struct{})
	}
	h.clients[cl.tutorID][cl] = struct{}{}

	h.logger.Debug("Tutor connected",
		zap.Int64("tutor_id", cl.tutorID),
		zap.Int("connections", len(h.clients[cl.tutorID])))
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[cl.tutorID]
	if !ok {
		return
	}
	if _, ok := conns[cl]; !ok {
		return
	}

	delete(conns, cl)
	if len(conns) == 0 {
		delete(h.clients, cl.tutorID)
	}
	close(cl.send)

	h.logger.Debug("Tutor disconnected", zap.Int64("tutor_id", cl.tutorID))
}

// readPump discards inbound frames and unregisters on the first error.
func (h *Hub) readPump(cl *client) {
	defer func() {
		h.unregister(cl)
		cl.conn.Close()
	}()

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(cl *client) {
	defer cl.conn.Close()

	for message := range cl.send {
		if err := cl.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.logger.Debug("WebSocket write failed",
				zap.Int64("tutor_id", cl.tutorID),
				zap.Error(err))
			return
		}
	}
	cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
