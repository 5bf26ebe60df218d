// Package ws is the in-memory registry of live client connections used for
// near-real-time alert fan-out. State is process-local: nothing survives a
// restart, clients reconnect and re-register.
package ws

import (
	"fmt"
	"log/slog"
	"sync"
)

const (
	TopicBroadcastAll = "broadcast:all"
	TopicStaff        = "staff:emergency_service"
)

func TopicForUser(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

// Event is the frame pushed to subscribed clients.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Conn is the write side of one live client connection. Implementations must
// tolerate Send being called after the peer is gone and report it as an error.
type Conn interface {
	Send(event Event) error
	Close() error
}

type Location struct {
	Lat float64
	Lon float64
}

// Member is a read-only view of one tracked connection, handed to broadcast
// filters. Location is nil until the client registers one.
type Member struct {
	UserID   string
	Location *Location
}

type session struct {
	conn   Conn
	userID string
	loc    *Location
	topics map[string]struct{}
}

// Hub tracks sessions grouped by topic. All mutations and broadcast snapshots
// go through mu; send I/O happens outside the lock so a stalled peer never
// blocks subscribes.
type Hub struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	topics   map[string]map[*session]struct{}
	sessions map[Conn]*session
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:   logger,
		topics:   make(map[string]map[*session]struct{}),
		sessions: make(map[Conn]*session),
	}
}

// Subscribe registers conn under topic. Idempotent.
func (h *Hub) Subscribe(conn Conn, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.sessions[conn]
	if s == nil {
		s = &session{conn: conn, topics: make(map[string]struct{})}
		h.sessions[conn] = s
	}
	s.topics[topic] = struct{}{}
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*session]struct{})
	}
	h.topics[topic][s] = struct{}{}
}

// Unsubscribe removes conn from topic. Removing a non-member is a no-op.
// Empty topic sets are dropped.
func (h *Hub) Unsubscribe(conn Conn, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unsubscribeLocked(conn, topic)
}

func (h *Hub) unsubscribeLocked(conn Conn, topic string) {
	s := h.sessions[conn]
	if s == nil {
		return
	}
	delete(s.topics, topic)
	if set := h.topics[topic]; set != nil {
		delete(set, s)
		if len(set) == 0 {
			delete(h.topics, topic)
		}
	}
	if len(s.topics) == 0 {
		delete(h.sessions, conn)
	}
}

// Drop removes conn from every topic and forgets its tracked state. Runs on
// every connection exit path: normal close, read error, forced close.
func (h *Hub) Drop(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(conn)
}

func (h *Hub) dropLocked(conn Conn) {
	s := h.sessions[conn]
	if s == nil {
		return
	}
	for topic := range s.topics {
		if set := h.topics[topic]; set != nil {
			delete(set, s)
			if len(set) == 0 {
				delete(h.topics, topic)
			}
		}
	}
	delete(h.sessions, conn)
}

// UpdateLocation merges last-known location and owning user into the entry
// for conn. An unknown conn is registered without topic membership so a
// register_location frame racing the subscribe is not lost.
func (h *Hub) UpdateLocation(conn Conn, lat, lon float64, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.sessions[conn]
	if s == nil {
		s = &session{conn: conn, topics: make(map[string]struct{})}
		h.sessions[conn] = s
	}
	s.loc = &Location{Lat: lat, Lon: lon}
	if userID != "" {
		s.userID = userID
	}
}

// Broadcast sends msg to every connection subscribed to topic at call time.
// Best effort: a failing recipient is dropped from tracking and delivery
// continues to the rest.
func (h *Hub) Broadcast(topic string, msg Event) int {
	h.mu.RLock()
	snapshot := make([]*session, 0, len(h.topics[topic]))
	for s := range h.topics[topic] {
		snapshot = append(snapshot, s)
	}
	h.mu.RUnlock()

	return h.send(snapshot, msg)
}

// BroadcastWhere sends msg to every tracked connection for which keep returns
// true, regardless of topic membership. Used for radius-bound dispatch.
func (h *Hub) BroadcastWhere(msg Event, keep func(Member) bool) int {
	h.mu.RLock()
	snapshot := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		var loc *Location
		if s.loc != nil {
			cp := *s.loc
			loc = &cp
		}
		if keep(Member{UserID: s.userID, Location: loc}) {
			snapshot = append(snapshot, s)
		}
	}
	h.mu.RUnlock()

	return h.send(snapshot, msg)
}

func (h *Hub) send(recipients []*session, msg Event) int {
	var failed []Conn
	sent := 0
	for _, s := range recipients {
		if err := s.conn.Send(msg); err != nil {
			h.logger.Warn("ws send failed, dropping connection",
				slog.String("user_id", s.userID),
				slog.String("error", err.Error()),
			)
			failed = append(failed, s.conn)
			continue
		}
		sent++
	}

	if len(failed) > 0 {
		h.mu.Lock()
		for _, conn := range failed {
			h.dropLocked(conn)
		}
		h.mu.Unlock()
		for _, conn := range failed {
			_ = conn.Close()
		}
	}

	return sent
}

// Subscribers reports the current size of a topic's member set.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Tracked reports the number of connections known to the hub.
func (h *Hub) Tracked() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
