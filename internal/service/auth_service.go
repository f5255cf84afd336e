package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/HACKWAVE2025/B48-sub000/internal/model"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const tokenTTL = 24 * time.Hour

// AuthService is the identity provider boundary: it mints and validates
// room-scoped participant tokens. The coordinator trusts the verified
// (identity, displayName) pair carried by a valid token and performs no
// further authentication.
type AuthService struct {
	jwtSecret []byte
}

// NewAuthService creates an auth service signing with the given secret
func NewAuthService(secret string) *AuthService {
	return &AuthService{jwtSecret: []byte(secret)}
}

// NewParticipantID mints a fresh participant identity
func NewParticipantID() string {
	return "p_" + uuid.New().String()[:8]
}

// IssueParticipantToken creates a room-scoped session token
func (s *AuthService) IssueParticipantToken(roomCode, participantID, displayName string) (string, error) {
	claims := &model.ParticipantClaims{
		RoomCode:      roomCode,
		ParticipantID: participantID,
		DisplayName:   displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateParticipantToken validates a session token and returns its claims
func (s *AuthService) ValidateParticipantToken(tokenString string) (*model.ParticipantClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.ParticipantClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.ParticipantClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
