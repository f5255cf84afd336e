package model

// RoomSnapshot is the externally visible view of a room, sent in command
// replies and roster broadcasts. It never exposes quiz answers or internal
// bookkeeping.
type RoomSnapshot struct {
	Code         string        `json:"code"`
	Status       RoomStatus    `json:"status"`
	HostID       string        `json:"hostId"`
	Participants []RosterEntry `json:"participants"`
}

// RosterEntry is one participant row in a snapshot
type RosterEntry struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Connected   bool   `json:"connected"`
	IsHost      bool   `json:"isHost"`
}

// LeaderboardEntry is one row of the final ranking
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
	ElapsedMs   int64  `json:"elapsedMs"`
	Finished    bool   `json:"finished"`
}

// Broadcast payloads. Type strings follow the ws envelope convention.
type RosterChangedPayload struct {
	Room RoomSnapshot `json:"room"`
}

type HostChangedPayload struct {
	NewHostID string `json:"newHostId"`
}

type QuizStartedPayload struct {
	Questions []Question `json:"questions"`
}

type ProgressPayload struct {
	ParticipantID string `json:"participantId"`
	Finished      bool   `json:"finished"`
}

type FinalPayload struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type ClosedPayload struct {
	Reason string `json:"reason"`
}

// Snapshot builds the external view of a room
func (r *Room) Snapshot() RoomSnapshot {
	snap := RoomSnapshot{
		Code:         r.Code,
		Status:       r.Status,
		HostID:       r.HostID,
		Participants: make([]RosterEntry, 0, len(r.Participants)),
	}
	for _, p := range r.Participants {
		snap.Participants = append(snap.Participants, RosterEntry{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Connected:   p.Connected,
			IsHost:      p.IsHost,
		})
	}
	return snap
}
