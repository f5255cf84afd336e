package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Message is the WebSocket envelope format, both directions
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub is the connection registry: it maps each room code to the active
// session per participant identity and fans broadcasts out to them. It
// implements the coordinator's Broadcaster interface. Broadcasts flow
// through a single run loop, so events enqueued in command order are
// delivered to every session in that same order.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*Connection // roomCode -> participantID -> conn

	broadcast chan *broadcastMsg
	closeRoom chan string
}

// Connection is one registered transport session
type Connection struct {
	RoomCode      string
	ParticipantID string
	Send          chan []byte
}

type broadcastMsg struct {
	roomCode string
	toID     string // empty = whole room
	data     []byte
}

// NewHub creates and starts the hub
func NewHub() *Hub {
	h := &Hub{
		rooms:     make(map[string]map[string]*Connection),
		broadcast: make(chan *broadcastMsg, 256),
		closeRoom: make(chan string, 16),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case msg := <-h.broadcast:
			h.deliver(msg)
		case code := <-h.closeRoom:
			h.dropRoom(code)
		}
	}
}

// Register installs conn as the active session for its identity, replacing
// and closing any previous session for the same identity
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	room := h.rooms[conn.RoomCode]
	if room == nil {
		room = make(map[string]*Connection)
		h.rooms[conn.RoomCode] = room
	}
	if old, ok := room[conn.ParticipantID]; ok {
		close(old.Send)
	}
	room[conn.ParticipantID] = conn
	h.mu.Unlock()
}

// Unregister removes conn if it is still the active session for its
// identity, and reports whether it was. A replaced session returns false
// so its teardown does not count as a participant disconnect.
func (h *Hub) Unregister(conn *Connection) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[conn.RoomCode]
	if !ok {
		return false
	}
	current, ok := room[conn.ParticipantID]
	if !ok || current != conn {
		return false
	}
	delete(room, conn.ParticipantID)
	close(conn.Send)
	if len(room) == 0 {
		delete(h.rooms, conn.RoomCode)
	}
	return true
}

// BroadcastToRoom sends an event to every session in a room
func (h *Hub) BroadcastToRoom(code string, event string, payload interface{}) {
	h.enqueue(code, "", event, payload)
}

// BroadcastToParticipant sends an event to one identity's session
func (h *Hub) BroadcastToParticipant(code, participantID string, event string, payload interface{}) {
	h.enqueue(code, participantID, event, payload)
}

// DisconnectRoom closes every session of an evicted room
func (h *Hub) DisconnectRoom(code string) {
	h.closeRoom <- code
}

func (h *Hub) enqueue(code, toID, event string, payload interface{}) {
	data, err := Encode(event, payload)
	if err != nil {
		log.Printf("ws: failed to encode %s event for room %s: %v", event, code, err)
		return
	}
	h.broadcast <- &broadcastMsg{roomCode: code, toID: toID, data: data}
}

func (h *Hub) deliver(msg *broadcastMsg) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[msg.roomCode]
	if !ok {
		return
	}
	if msg.toID != "" {
		if conn, ok := room[msg.toID]; ok {
			conn.trySend(msg.data)
		}
		return
	}
	for _, conn := range room {
		conn.trySend(msg.data)
	}
}

func (h *Hub) dropRoom(code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conn := range h.rooms[code] {
		close(conn.Send)
	}
	delete(h.rooms, code)
}

// trySend drops the message when the session buffer is full; a client that
// slow will be cut loose by its write pump eventually
func (c *Connection) trySend(data []byte) {
	select {
	case c.Send <- data:
	default:
	}
}

// Encode wraps an event payload in the wire envelope
func Encode(event string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Message{Type: event, Payload: body})
}
