package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/HACKWAVE2025/B48-sub000/internal/coordinator"
	"github.com/HACKWAVE2025/B48-sub000/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	startTimeout   = 15 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is enforced at the REST layer
	},
}

// Inbound command types
const (
	cmdStartQuiz    = "start_quiz"
	cmdSubmitResult = "submit_result"
)

type submitPayload struct {
	Score     int   `json:"score"`
	ElapsedMs int64 `json:"elapsedMs"`
}

type errorPayload struct {
	Code string `json:"code"`
}

// Handler upgrades authenticated sessions and bridges them to the
// coordinator: inbound messages become commands, socket close becomes a
// Disconnect command.
type Handler struct {
	hub     *Hub
	authSvc *service.AuthService
	coord   *coordinator.Coordinator
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authSvc *service.AuthService, coord *coordinator.Coordinator) *Handler {
	return &Handler{hub: hub, authSvc: authSvc, coord: coord}
}

// RoomWS handles GET /v1/ws/rooms/{code}?token=...
func (h *Handler) RoomWS(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateParticipantToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if claims.RoomCode != code {
		http.Error(w, "token not valid for this room", http.StatusForbidden)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade error: %v", err)
		return
	}

	conn := &Connection{
		RoomCode:      code,
		ParticipantID: claims.ParticipantID,
		Send:          make(chan []byte, 256),
	}
	h.hub.Register(conn)

	if err := h.coord.Connect(code, claims.ParticipantID); err != nil {
		h.hub.Unregister(conn)
		wsConn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, coordinator.CodeOf(err)),
			time.Now().Add(writeWait))
		wsConn.Close()
		return
	}

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		if h.hub.Unregister(conn) {
			h.coord.Disconnect(conn.RoomCode, conn.ParticipantID)
		}
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	limiter := rate.NewLimiter(5, 10)

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws: read error for %s in room %s: %v", conn.ParticipantID, conn.RoomCode, err)
			}
			return
		}

		if !limiter.Allow() {
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(conn, coordinator.ErrBadRequest)
			continue
		}
		h.dispatch(conn, &msg)
	}
}

func (h *Handler) dispatch(conn *Connection, msg *Message) {
	switch msg.Type {
	case cmdStartQuiz:
		ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
		err := h.coord.StartQuiz(ctx, conn.RoomCode, conn.ParticipantID)
		cancel()
		if err != nil {
			h.sendError(conn, err)
		}
	case cmdSubmitResult:
		var p submitPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(conn, coordinator.ErrBadRequest)
			return
		}
		if err := h.coord.SubmitResult(conn.RoomCode, conn.ParticipantID, p.Score, p.ElapsedMs); err != nil {
			h.sendError(conn, err)
		}
	default:
		h.sendError(conn, coordinator.ErrBadRequest)
	}
}

// sendError delivers a typed rejection to this session only. It goes
// through the hub so it cannot race with session teardown.
func (h *Handler) sendError(conn *Connection, err error) {
	h.hub.BroadcastToParticipant(conn.RoomCode, conn.ParticipantID, "error",
		errorPayload{Code: coordinator.CodeOf(err)})
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := wsConn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
