// Package ws upgrades HTTP requests to websocket sessions and bridges them
// into the hub. Clients subscribe to a topic on connect and may stream
// location registrations over the socket.
package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"log/slog"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/wobin1/citizen-safety-backend/internal/domain"
	"github.com/wobin1/citizen-safety-backend/internal/middleware"
	hub "github.com/wobin1/citizen-safety-backend/internal/ws"
)

const (
	frameRegisterLocation = "register_location"
	frameSubscribe        = "subscribe"
	frameUnsubscribe      = "unsubscribe"
)

type clientFrame struct {
	Type  string  `json:"type"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Topic string  `json:"topic"`
}

type Handler struct {
	logger       *slog.Logger
	hub          *hub.Hub
	jwtSecret    string
	writeTimeout time.Duration
	maxMsgSize   int64
	upgrader     websocket.Upgrader
}

func NewHandler(logger *slog.Logger, h *hub.Hub, jwtSecret string, writeTimeout time.Duration, maxMsgSize int64) *Handler {
	return &Handler{
		logger:       logger,
		hub:          h,
		jwtSecret:    jwtSecret,
		writeTimeout: writeTimeout,
		maxMsgSize:   maxMsgSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Token auth is the trust boundary, not the Origin header.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// wsConn adapts a gorilla connection to the hub's Conn interface. Writes are
// serialized under the mutex because the hub fans out from multiple
// goroutines while the read loop sends pongs.
type wsConn struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	writeTimeout time.Duration
}

func (c *wsConn) Send(msg hub.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

// Stream handles GET /ws/alerts. The bearer token rides in the "token"
// query parameter because browser websocket clients cannot set headers.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("request_id", chimw.GetReqID(r.Context())))

	actor, err := h.authenticate(r)
	if err != nil {
		l.Warn("websocket auth failed", slog.String("error", err.Error()))
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	topic := r.URL.Query().Get("topic")
	if topic == "" {
		topic = hub.TopicBroadcastAll
	}
	if topic == hub.TopicStaff && !actor.IsStaff() {
		l.Warn("staff topic denied", slog.String("user_id", actor.ID.String()))
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}

	conn := &wsConn{conn: raw, writeTimeout: h.writeTimeout}
	h.hub.Subscribe(conn, topic)
	h.hub.Subscribe(conn, hub.TopicForUser(actor.ID.String()))

	l.Info("websocket connected",
		slog.String("user_id", actor.ID.String()),
		slog.String("topic", topic),
	)

	h.readLoop(l, conn, raw, actor)
}

// readLoop owns the connection until the client goes away. Every exit path
// drops the session from the hub and closes the underlying socket.
func (h *Handler) readLoop(l *slog.Logger, conn *wsConn, raw *websocket.Conn, actor domain.Actor) {
	defer func() {
		h.hub.Drop(conn)
		_ = raw.Close()
	}()

	raw.SetReadLimit(h.maxMsgSize)

	for {
		_, data, err := raw.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				l.Warn("websocket read failed", slog.String("error", err.Error()))
			}
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			// Malformed frames are dropped, not fatal.
			l.Debug("malformed frame", slog.String("error", err.Error()))
			continue
		}

		switch frame.Type {
		case frameRegisterLocation:
			h.hub.UpdateLocation(conn, frame.Lat, frame.Lon, actor.ID.String())
		case frameSubscribe:
			if frame.Topic == "" || (frame.Topic == hub.TopicStaff && !actor.IsStaff()) {
				continue
			}
			h.hub.Subscribe(conn, frame.Topic)
		case frameUnsubscribe:
			if frame.Topic == "" {
				continue
			}
			h.hub.Unsubscribe(conn, frame.Topic)
		default:
			l.Debug("unknown frame type", slog.String("type", frame.Type))
		}
	}
}

func (h *Handler) authenticate(r *http.Request) (domain.Actor, error) {
	token := r.URL.Query().Get("token")
	if token == "" {
		header := r.Header.Get("Authorization")
		token = strings.TrimPrefix(header, "Bearer ")
		if token == header {
			token = ""
		}
	}
	if token == "" {
		return domain.Actor{}, errors.New("missing token")
	}
	return middleware.ParseToken(h.jwtSecret, token)
}
