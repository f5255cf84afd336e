package handler

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/HACKWAVE2025/B48-sub000/internal/coordinator"
	"github.com/HACKWAVE2025/B48-sub000/internal/model"
	"github.com/HACKWAVE2025/B48-sub000/internal/service"
	"github.com/HACKWAVE2025/B48-sub000/internal/transport/rest/middleware"
)

// RoomHandler handles room creation and joining. Both issue the
// room-scoped participant token the websocket session attaches with.
type RoomHandler struct {
	coord   *coordinator.Coordinator
	authSvc *service.AuthService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(coord *coordinator.Coordinator, authSvc *service.AuthService) *RoomHandler {
	return &RoomHandler{coord: coord, authSvc: authSvc}
}

// Create handles POST /v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "displayName is required")
		return
	}

	identity := service.NewParticipantID()

	var snap model.RoomSnapshot
	var err error
	if req.Code != "" {
		snap, err = h.coord.CreateRoom(strings.ToUpper(req.Code), identity, req.DisplayName)
	} else {
		snap, err = h.createWithGeneratedCode(identity, req.DisplayName)
	}
	if err != nil {
		writeRejection(w, err)
		return
	}

	token, err := h.authSvc.IssueParticipantToken(snap.Code, identity, req.DisplayName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to issue token")
		return
	}

	writeJSON(w, http.StatusCreated, model.JoinResponse{
		ParticipantID: identity,
		Token:         token,
		Room:          &snap,
	})
}

// Join handles POST /v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(mux.Vars(r)["code"])

	var req model.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "displayName is required")
		return
	}

	identity := service.NewParticipantID()
	snap, err := h.coord.JoinRoom(code, identity, req.DisplayName)
	if err != nil {
		writeRejection(w, err)
		return
	}

	token, err := h.authSvc.IssueParticipantToken(code, identity, req.DisplayName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, model.JoinResponse{
		ParticipantID: identity,
		Token:         token,
		Room:          &snap,
	})
}

// Get handles GET /v1/rooms/{code}, participant token required
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(mux.Vars(r)["code"])
	claims := middleware.GetClaims(r.Context())
	if claims == nil || claims.RoomCode != code {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "token not valid for this room")
		return
	}

	snap, err := h.coord.Snapshot(code)
	if err != nil {
		writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// createWithGeneratedCode retries code generation on the rare collision
func (h *RoomHandler) createWithGeneratedCode(identity, displayName string) (model.RoomSnapshot, error) {
	for attempts := 0; attempts < 10; attempts++ {
		code, err := generateRoomCode()
		if err != nil {
			return model.RoomSnapshot{}, err
		}
		snap, err := h.coord.CreateRoom(code, identity, displayName)
		if errors.Is(err, coordinator.ErrAlreadyExists) {
			continue
		}
		return snap, err
	}
	return model.RoomSnapshot{}, fmt.Errorf("failed to generate unique room code")
}

// generateRoomCode creates a 6-char code over an unambiguous charset
func generateRoomCode() (string, error) {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const codeLen = 6

	b := make([]byte, codeLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	code := make([]byte, codeLen)
	for i := range code {
		code[i] = chars[int(b[i])%len(chars)]
	}
	return string(code), nil
}
