package coordinator

import (
	"log"
	"time"

	"github.com/HACKWAVE2025/B48-sub000/internal/content"
	"github.com/HACKWAVE2025/B48-sub000/internal/model"
)

// handleStartQuiz validates the request, flips the transient starting
// sub-state and launches the content fetch outside the serialized path.
// The actor keeps serving other commands while the fetch runs; only the
// commit re-enters the inbox. The reply to the original caller is deferred
// until the commit so the host learns whether content was produced.
func (a *roomActor) handleStartQuiz(cmd startQuizCmd) {
	room := a.room
	if room.Status != model.StatusWaiting || a.starting {
		cmd.reply <- ErrInvalidState
		return
	}
	if cmd.identity != room.HostID {
		cmd.reply <- ErrForbidden
		return
	}

	a.starting = true
	profile := content.Profile{
		Count: a.co.questions,
		Seed:  time.Now().UnixNano(),
	}

	go func() {
		questions, err := a.co.provider.Fetch(cmd.ctx, profile)
		commit := commitQuizCmd{
			requester: cmd.identity,
			questions: questions,
			fetchErr:  err,
			reply:     cmd.reply,
		}
		if sendErr := a.send(commit); sendErr != nil {
			// room evicted while fetching
			cmd.reply <- sendErr
		}
	}()
}

// handleCommitQuiz stores the fetched sequence exactly once, flips the room
// to Active and broadcasts the full payload to every connected participant.
// A failed fetch leaves the room in Waiting so the host may retry.
func (a *roomActor) handleCommitQuiz(cmd commitQuizCmd) error {
	a.starting = false
	room := a.room

	if room.Status != model.StatusWaiting {
		// the room closed while the fetch was in flight
		return ErrInvalidState
	}
	if cmd.fetchErr != nil || len(cmd.questions) == 0 {
		log.Printf("room %s: content fetch failed: %v", room.Code, cmd.fetchErr)
		return ErrNoContent
	}

	room.Quiz = cmd.questions
	a.transition(model.StatusActive)
	a.broadcast(EventQuizStarted, model.QuizStartedPayload{Questions: room.Quiz})
	log.Printf("room %s: quiz started with %d questions", room.Code, len(room.Quiz))
	return nil
}
