package model

import "github.com/golang-jwt/jwt/v5"

// ParticipantClaims are JWT claims for room-scoped participant tokens.
// The coordinator trusts the (ParticipantID, DisplayName) pair carried here;
// no further authentication happens past token validation.
type ParticipantClaims struct {
	RoomCode      string `json:"roomCode"`
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName"`
	jwt.RegisteredClaims
}

// JoinRequest is the request body for creating or joining a room
type JoinRequest struct {
	DisplayName string `json:"displayName"`
	Code        string `json:"code,omitempty"` // create only; generated when empty
}

// JoinResponse is returned after a successful create or join
type JoinResponse struct {
	ParticipantID string        `json:"participantId"`
	Token         string        `json:"token"`
	Room          *RoomSnapshot `json:"room"`
}
