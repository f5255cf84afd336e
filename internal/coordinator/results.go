package coordinator

import (
	"log"
	"sort"
	"time"

	"github.com/HACKWAVE2025/B48-sub000/internal/model"
)

// handleSubmit records one terminal result per participant and checks
// whether the room is complete. Resubmission is rejected, never overwritten.
func (a *roomActor) handleSubmit(identity string, score int, elapsedMs int64) error {
	room := a.room
	if room.Status != model.StatusActive {
		return ErrInvalidState
	}
	if room.Participant(identity) == nil {
		return ErrNotMember
	}
	if existing, ok := room.Results[identity]; ok && existing.Finished {
		return ErrDuplicateSubmission
	}
	if score < 0 || elapsedMs < 0 {
		return ErrBadRequest
	}

	room.Results[identity] = &model.Result{
		Score:       score,
		ElapsedMs:   elapsedMs,
		Finished:    true,
		SubmittedAt: time.Now(),
	}
	a.broadcast(EventProgress, model.ProgressPayload{ParticipantID: identity, Finished: true})

	if roomComplete(room) {
		a.finish()
	}
	return nil
}

// roomComplete reports whether the room can finish: every tracked
// participant has either submitted or disconnected, and at least one
// finished result exists. Disconnected records stay in the pool and appear
// in the final ranking, but a participant who left without submitting
// cannot hold the room open.
func roomComplete(room *model.Room) bool {
	finishedAny := false
	for _, p := range room.Participants {
		r, ok := room.Results[p.ID]
		if ok && r.Finished {
			finishedAny = true
			continue
		}
		if p.Connected {
			return false
		}
	}
	return finishedAny
}

// finish flips the room to Finished and broadcasts the final ranking once
func (a *roomActor) finish() {
	if !a.transition(model.StatusFinished) {
		return
	}
	board := Rank(a.room)
	a.broadcast(EventFinal, model.FinalPayload{Leaderboard: board})
	if a.co.history != nil {
		a.co.history.RoomFinished(a.code, board)
	}
	if a.co.mirror != nil {
		a.co.mirror.Publish(a.code, board)
	}
	log.Printf("room %s finished, %d ranked", a.code, len(board))
}

// Rank computes the deterministic final leaderboard: finishers by score
// descending, ties by elapsed time ascending, remaining ties by join order;
// participants without a result rank last in join order with score 0.
func Rank(room *model.Room) []model.LeaderboardEntry {
	joinOrder := make(map[string]int, len(room.Participants))
	for i, p := range room.Participants {
		joinOrder[p.ID] = i
	}

	entries := make([]model.LeaderboardEntry, 0, len(room.Participants))
	for _, p := range room.Participants {
		e := model.LeaderboardEntry{ID: p.ID, DisplayName: p.DisplayName}
		if r, ok := room.Results[p.ID]; ok && r.Finished {
			e.Score = r.Score
			e.ElapsedMs = r.ElapsedMs
			e.Finished = true
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Finished != b.Finished {
			return a.Finished
		}
		if !a.Finished {
			return joinOrder[a.ID] < joinOrder[b.ID]
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.ElapsedMs != b.ElapsedMs {
			return a.ElapsedMs < b.ElapsedMs
		}
		return joinOrder[a.ID] < joinOrder[b.ID]
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
