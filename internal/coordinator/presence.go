package coordinator

import (
	"log"
	"time"

	"github.com/HACKWAVE2025/B48-sub000/internal/model"
)

// handleJoin appends a member participant to a waiting room and broadcasts
// the updated roster to everyone already attached
func (a *roomActor) handleJoin(identity, displayName string) (model.RoomSnapshot, error) {
	room := a.room
	if room.Status != model.StatusWaiting {
		return model.RoomSnapshot{}, ErrNotJoinable
	}
	if room.Participant(identity) != nil {
		return model.RoomSnapshot{}, ErrAlreadyMember
	}

	room.Participants = append(room.Participants, &model.Participant{
		ID:          identity,
		DisplayName: displayName,
		JoinedAt:    time.Now(),
	})

	snap := room.Snapshot()
	a.broadcast(EventRosterChanged, model.RosterChangedPayload{Room: snap})
	return snap, nil
}

// handleConnect marks a participant's session attached. Reconnection after
// a disconnect goes through here as well.
func (a *roomActor) handleConnect(identity string) error {
	room := a.room
	if room.Status.Terminal() {
		return ErrNotFound
	}
	p := room.Participant(identity)
	if p == nil {
		return ErrNotMember
	}
	if !p.Connected {
		p.Connected = true
		a.broadcast(EventRosterChanged, model.RosterChangedPayload{Room: room.Snapshot()})
	}

	// A session attaching mid-game missed the quiz_started broadcast, so
	// the running quiz is re-delivered to that session alone. This also
	// covers a same-identity session replacing an attached one.
	if room.Status == model.StatusActive && len(room.Quiz) > 0 {
		a.co.broadcaster.BroadcastToParticipant(a.code, identity, EventQuizStarted,
			model.QuizStartedPayload{Questions: room.Quiz})
	}
	return nil
}

// handleDisconnect marks the participant disconnected, keeping the record
// (and any recorded result), then applies host-migration policy: authority
// moves to the earliest-joined connected participant, and a room with no
// one left connected closes.
func (a *roomActor) handleDisconnect(identity string) {
	room := a.room
	p := room.Participant(identity)
	if p == nil || !p.Connected {
		return
	}
	p.Connected = false
	a.touchIdle()

	if room.Status.Terminal() {
		return
	}

	a.broadcast(EventRosterChanged, model.RosterChangedPayload{Room: room.Snapshot()})

	if room.HostID == identity {
		next := earliestConnected(room)
		if next == nil {
			a.close(ReasonHostLeft)
			return
		}
		p.IsHost = false
		next.IsHost = true
		room.HostID = next.ID
		a.broadcast(EventHostChanged, model.HostChangedPayload{NewHostID: next.ID})
		log.Printf("room %s: host migrated %s -> %s", room.Code, identity, next.ID)
	}

	// a departing non-finisher may have been the last thing holding an
	// active room open
	if room.Status == model.StatusActive && roomComplete(room) {
		a.finish()
	}
}

// earliestConnected returns the earliest-joined connected participant, or
// nil. Participants holds join order, so the first match wins.
func earliestConnected(room *model.Room) *model.Participant {
	for _, p := range room.Participants {
		if p.Connected {
			return p
		}
	}
	return nil
}
