package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from RoomStatus
		to   RoomStatus
		want bool
	}{
		{"waiting to active", StatusWaiting, StatusActive, true},
		{"waiting to closed", StatusWaiting, StatusClosed, true},
		{"active to finished", StatusActive, StatusFinished, true},
		{"active to closed", StatusActive, StatusClosed, true},
		{"waiting to finished", StatusWaiting, StatusFinished, false},
		{"active to waiting", StatusActive, StatusWaiting, false},
		{"finished to active", StatusFinished, StatusActive, false},
		{"finished to closed", StatusFinished, StatusClosed, false},
		{"closed to waiting", StatusClosed, StatusWaiting, false},
		{"closed to active", StatusClosed, StatusActive, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, StatusWaiting.Terminal())
	assert.False(t, StatusActive.Terminal())
	assert.True(t, StatusFinished.Terminal())
	assert.True(t, StatusClosed.Terminal())
}

func TestRoomParticipantLookup(t *testing.T) {
	room := &Room{
		Participants: []*Participant{
			{ID: "a", Connected: true},
			{ID: "b"},
			{ID: "c", Connected: true},
		},
	}

	assert.Equal(t, "b", room.Participant("b").ID)
	assert.Nil(t, room.Participant("nope"))
	assert.Equal(t, 2, room.ConnectedCount())
}

func TestSnapshotPreservesJoinOrder(t *testing.T) {
	now := time.Now()
	room := &Room{
		Code:   "AB12",
		Status: StatusWaiting,
		HostID: "h",
		Participants: []*Participant{
			{ID: "h", DisplayName: "Host", IsHost: true, Connected: true, JoinedAt: now},
			{ID: "m1", DisplayName: "One", JoinedAt: now.Add(time.Second)},
			{ID: "m2", DisplayName: "Two", JoinedAt: now.Add(2 * time.Second)},
		},
	}

	snap := room.Snapshot()
	assert.Equal(t, "AB12", snap.Code)
	assert.Equal(t, "h", snap.HostID)
	ids := []string{}
	for _, e := range snap.Participants {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"h", "m1", "m2"}, ids)
	assert.True(t, snap.Participants[0].IsHost)
	assert.False(t, snap.Participants[1].IsHost)
}
