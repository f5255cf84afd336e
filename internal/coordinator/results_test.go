package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HACKWAVE2025/B48-sub000/internal/model"
)

func roomWithResults(ids []string, results map[string]*model.Result) *model.Room {
	room := &model.Room{
		Code:    "TEST",
		Status:  model.StatusActive,
		Results: results,
	}
	base := time.Now()
	for i, id := range ids {
		room.Participants = append(room.Participants, &model.Participant{
			ID:          id,
			DisplayName: id,
			JoinedAt:    base.Add(time.Duration(i) * time.Second),
		})
	}
	return room
}

func TestRank_ScoreDescending(t *testing.T) {
	room := roomWithResults([]string{"a", "b", "c"}, map[string]*model.Result{
		"a": {Score: 10, ElapsedMs: 100, Finished: true},
		"b": {Score: 30, ElapsedMs: 100, Finished: true},
		"c": {Score: 20, ElapsedMs: 100, Finished: true},
	})

	board := Rank(room)
	require.Len(t, board, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{board[0].ID, board[1].ID, board[2].ID})
	assert.Equal(t, []int{1, 2, 3}, []int{board[0].Rank, board[1].Rank, board[2].Rank})
}

func TestRank_TieBrokenByElapsedThenJoinOrder(t *testing.T) {
	room := roomWithResults([]string{"late", "slow", "fast"}, map[string]*model.Result{
		"slow": {Score: 50, ElapsedMs: 900, Finished: true},
		"fast": {Score: 50, ElapsedMs: 500, Finished: true},
		"late": {Score: 50, ElapsedMs: 500, Finished: true},
	})

	board := Rank(room)
	// fast and late tie on both keys; late joined first and wins
	assert.Equal(t, []string{"late", "fast", "slow"}, []string{board[0].ID, board[1].ID, board[2].ID})
}

func TestRank_NonFinishersLastInJoinOrder(t *testing.T) {
	room := roomWithResults([]string{"dnf2", "winner", "dnf1"}, map[string]*model.Result{
		"winner": {Score: 5, ElapsedMs: 100, Finished: true},
	})

	board := Rank(room)
	require.Len(t, board, 3)
	assert.Equal(t, "winner", board[0].ID)
	// non-finishers keep join order: dnf2 joined before dnf1
	assert.Equal(t, "dnf2", board[1].ID)
	assert.Equal(t, "dnf1", board[2].ID)
	assert.Equal(t, 0, board[1].Score)
	assert.False(t, board[1].Finished)
}

// The ordering must be a strict total order: any permutation of the same
// room ranks identically.
func TestRank_Deterministic(t *testing.T) {
	room := roomWithResults([]string{"a", "b", "c", "d", "e"}, map[string]*model.Result{
		"a": {Score: 80, ElapsedMs: 120_000, Finished: true},
		"b": {Score: 80, ElapsedMs: 90_000, Finished: true},
		"c": {Score: 80, ElapsedMs: 90_000, Finished: true},
	})

	first := Rank(room)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Rank(room))
	}
	assert.Equal(t, []string{"b", "c", "a", "d", "e"},
		[]string{first[0].ID, first[1].ID, first[2].ID, first[3].ID, first[4].ID})
}

func TestSubmit_Rejections(t *testing.T) {
	c, _ := newTestCoordinator(&staticProvider{questions: makeQuestions(3)})
	hostedRoom(t, c, "AB12")
	_, err := c.JoinRoom("AB12", "m1", "One")
	require.NoError(t, err)
	require.NoError(t, c.Connect("AB12", "m1"))

	// not active yet
	err = c.SubmitResult("AB12", "m1", 10, 100)
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, c.StartQuiz(context.Background(), "AB12", "h"))

	err = c.SubmitResult("AB12", "stranger", 10, 100)
	assert.ErrorIs(t, err, ErrNotMember)

	err = c.SubmitResult("AB12", "m1", -1, 100)
	assert.ErrorIs(t, err, ErrBadRequest)

	err = c.SubmitResult("AB12", "m1", 10, -100)
	assert.ErrorIs(t, err, ErrBadRequest)

	require.NoError(t, c.SubmitResult("AB12", "m1", 10, 100))
	err = c.SubmitResult("AB12", "m1", 99, 1)
	assert.ErrorIs(t, err, ErrDuplicateSubmission)

	err = c.SubmitResult("NOPE", "m1", 10, 100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmit_BroadcastsProgress(t *testing.T) {
	c, rec := newTestCoordinator(&staticProvider{questions: makeQuestions(3)})
	hostedRoom(t, c, "AB12")
	_, err := c.JoinRoom("AB12", "m1", "One")
	require.NoError(t, err)
	require.NoError(t, c.Connect("AB12", "m1"))
	require.NoError(t, c.StartQuiz(context.Background(), "AB12", "h"))

	require.NoError(t, c.SubmitResult("AB12", "m1", 42, 1000))

	ev, ok := rec.lastOf("AB12", EventProgress)
	require.True(t, ok)
	p := ev.Payload.(model.ProgressPayload)
	assert.Equal(t, "m1", p.ParticipantID)
	assert.True(t, p.Finished)

	// one submission outstanding, no final yet
	assert.Equal(t, 0, rec.countOf("AB12", EventFinal))
}

// An active room can also finish when its last connected non-finisher
// leaves: disconnected records stop holding the room open.
func TestDisconnect_LastNonFinisherLeaving_FinishesRoom(t *testing.T) {
	c, rec := newTestCoordinator(&staticProvider{questions: makeQuestions(3)})
	hostedRoom(t, c, "AB12")
	for _, id := range []string{"m1", "m2"} {
		_, err := c.JoinRoom("AB12", id, id)
		require.NoError(t, err)
		require.NoError(t, c.Connect("AB12", id))
	}
	require.NoError(t, c.StartQuiz(context.Background(), "AB12", "h"))

	require.NoError(t, c.SubmitResult("AB12", "h", 90, 80_000))
	require.NoError(t, c.SubmitResult("AB12", "m1", 70, 100_000))
	assert.Equal(t, 0, rec.countOf("AB12", EventFinal))

	c.Disconnect("AB12", "m2")

	snap, err := c.Snapshot("AB12")
	require.NoError(t, err)
	assert.Equal(t, model.StatusFinished, snap.Status)
	assert.Equal(t, 1, rec.countOf("AB12", EventFinal))

	ev, ok := rec.lastOf("AB12", EventFinal)
	require.True(t, ok)
	board := ev.Payload.(model.FinalPayload).Leaderboard
	require.Len(t, board, 3)
	assert.Equal(t, []string{"h", "m1", "m2"}, []string{board[0].ID, board[1].ID, board[2].ID})
	assert.False(t, board[2].Finished)
	assert.Equal(t, 0, board[2].Score)
}
