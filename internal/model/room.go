package model

import "time"

// RoomStatus is the lifecycle state of a room
type RoomStatus string

const (
	StatusWaiting  RoomStatus = "WAITING"
	StatusActive   RoomStatus = "ACTIVE"
	StatusFinished RoomStatus = "FINISHED"
	StatusClosed   RoomStatus = "CLOSED"
)

// transitions is the closed set of legal status moves. Finished and Closed
// are terminal.
var transitions = map[RoomStatus][]RoomStatus{
	StatusWaiting: {StatusActive, StatusClosed},
	StatusActive:  {StatusFinished, StatusClosed},
}

// CanTransition reports whether moving from one status to another is legal
func CanTransition(from, to RoomStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether a status admits no further transitions
func (s RoomStatus) Terminal() bool {
	return s == StatusFinished || s == StatusClosed
}

// Participant is one identity that has joined a room. A participant record
// survives disconnection so an already-recorded result is never lost.
type Participant struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Connected   bool      `json:"connected"`
	IsHost      bool      `json:"isHost"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// Result is a participant's terminal submission. Write-once: Finished is
// never cleared and the score/time are never overwritten.
type Result struct {
	Score       int       `json:"score"`
	ElapsedMs   int64     `json:"elapsedMs"`
	Finished    bool      `json:"finished"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Room is the authoritative in-memory aggregate for one active game.
// It is owned by exactly one room actor; nothing outside that actor's
// goroutine may mutate it.
type Room struct {
	Code         string             `json:"code"`
	Status       RoomStatus         `json:"status"`
	HostID       string             `json:"hostId"`
	Participants []*Participant     `json:"participants"` // join order
	Quiz         []Question         `json:"quiz,omitempty"`
	Results      map[string]*Result `json:"results"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// Participant returns the participant record for an identity, or nil
func (r *Room) Participant(id string) *Participant {
	for _, p := range r.Participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ConnectedCount returns the number of participants currently connected
func (r *Room) ConnectedCount() int {
	n := 0
	for _, p := range r.Participants {
		if p.Connected {
			n++
		}
	}
	return n
}
