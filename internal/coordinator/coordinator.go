package coordinator

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/HACKWAVE2025/B48-sub000/internal/content"
	"github.com/HACKWAVE2025/B48-sub000/internal/model"
)

const (
	defaultIdleWindow  = 2 * time.Minute
	defaultGracePeriod = 5 * time.Minute
	defaultSweepEvery  = 15 * time.Second
)

// HistorySink receives fire-and-forget room lifecycle events for durable
// history. Implementations must never block the caller; the coordinator
// does not depend on their success.
type HistorySink interface {
	RoomCreated(snap model.RoomSnapshot)
	RoomFinished(code string, leaderboard []model.LeaderboardEntry)
	RoomClosed(code, reason string)
}

// LeaderboardMirror publishes a finished room's ranking to an external
// read-side cache. Fire-and-forget, same contract as HistorySink.
type LeaderboardMirror interface {
	Publish(code string, entries []model.LeaderboardEntry)
}

// Coordinator is the single in-process authority over live rooms. Each room
// is owned by its own actor goroutine; the code→actor map here is the only
// shared mutable structure and is touched only for create, lookup and evict.
type Coordinator struct {
	mu    sync.RWMutex
	rooms map[string]*roomActor

	provider    content.Provider
	broadcaster Broadcaster
	history     HistorySink
	mirror      LeaderboardMirror

	idleWindow  time.Duration
	gracePeriod time.Duration
	sweepEvery  time.Duration
	questions   int
}

// New creates a coordinator backed by the given content provider
func New(provider content.Provider) *Coordinator {
	return &Coordinator{
		rooms:       make(map[string]*roomActor),
		provider:    provider,
		broadcaster: noopBroadcaster{},
		idleWindow:  defaultIdleWindow,
		gracePeriod: defaultGracePeriod,
		sweepEvery:  defaultSweepEvery,
		questions:   10,
	}
}

// SetBroadcaster wires the transport hub in
func (c *Coordinator) SetBroadcaster(b Broadcaster) {
	c.broadcaster = b
}

// SetHistorySink wires the optional durable history sink in
func (c *Coordinator) SetHistorySink(s HistorySink) {
	c.history = s
}

// SetLeaderboardMirror wires the optional leaderboard read-side cache in
func (c *Coordinator) SetLeaderboardMirror(m LeaderboardMirror) {
	c.mirror = m
}

// SetIdleWindow overrides how long a room may sit with zero connected
// participants before it is closed and evicted
func (c *Coordinator) SetIdleWindow(d time.Duration) {
	c.idleWindow = d
}

// SetQuestionCount overrides how many questions are requested per quiz
func (c *Coordinator) SetQuestionCount(n int) {
	c.questions = n
}

// CreateRoom creates a room with the caller as host. The host participant
// starts disconnected until its websocket session attaches.
func (c *Coordinator) CreateRoom(code, identity, displayName string) (model.RoomSnapshot, error) {
	now := time.Now()
	room := &model.Room{
		Code:   code,
		Status: model.StatusWaiting,
		HostID: identity,
		Participants: []*model.Participant{{
			ID:          identity,
			DisplayName: displayName,
			IsHost:      true,
			JoinedAt:    now,
		}},
		Results:   make(map[string]*model.Result),
		CreatedAt: now,
	}

	// Snapshot before the actor is published: once the map holds the code,
	// other commands may reach the room and only its goroutine may touch it.
	snap := room.Snapshot()

	c.mu.Lock()
	if _, exists := c.rooms[code]; exists {
		c.mu.Unlock()
		return model.RoomSnapshot{}, ErrAlreadyExists
	}
	actor := newRoomActor(c, room)
	c.rooms[code] = actor
	c.mu.Unlock()

	go actor.run()

	if c.history != nil {
		c.history.RoomCreated(snap)
	}
	log.Printf("room %s created by %s", code, identity)
	return snap, nil
}

// JoinRoom appends a member participant to a waiting room
func (c *Coordinator) JoinRoom(code, identity, displayName string) (model.RoomSnapshot, error) {
	actor, ok := c.lookup(code)
	if !ok {
		return model.RoomSnapshot{}, ErrNotFound
	}
	return actor.join(identity, displayName)
}

// Connect marks a participant's session as attached. Transport-driven, the
// counterpart of Disconnect.
func (c *Coordinator) Connect(code, identity string) error {
	actor, ok := c.lookup(code)
	if !ok {
		return ErrNotFound
	}
	return actor.connect(identity)
}

// Disconnect marks a participant as disconnected and applies host-migration
// policy. It is a command like any other and always completes.
func (c *Coordinator) Disconnect(code, identity string) {
	if actor, ok := c.lookup(code); ok {
		actor.disconnect(identity)
	}
}

// StartQuiz fetches quiz content once and distributes an identical copy to
// every connected participant. Only the host may start; only from Waiting.
func (c *Coordinator) StartQuiz(ctx context.Context, code, identity string) error {
	actor, ok := c.lookup(code)
	if !ok {
		return ErrNotFound
	}
	return actor.startQuiz(ctx, identity)
}

// SubmitResult records a participant's terminal result
func (c *Coordinator) SubmitResult(code, identity string, score int, elapsedMs int64) error {
	actor, ok := c.lookup(code)
	if !ok {
		return ErrNotFound
	}
	return actor.submit(identity, score, elapsedMs)
}

// Snapshot returns the current external view of a room
func (c *Coordinator) Snapshot(code string) (model.RoomSnapshot, error) {
	actor, ok := c.lookup(code)
	if !ok {
		return model.RoomSnapshot{}, ErrNotFound
	}
	return actor.snapshot()
}

// RoomCount returns the number of live rooms
func (c *Coordinator) RoomCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rooms)
}

func (c *Coordinator) lookup(code string) (*roomActor, bool) {
	c.mu.RLock()
	actor, ok := c.rooms[code]
	c.mu.RUnlock()
	return actor, ok
}

// Run drives the idle reaper until ctx is cancelled, then stops every actor
func (c *Coordinator) Run(ctx context.Context) {
	ticker := time.NewTicker(c.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return
		case now := <-ticker.C:
			c.sweep(now)
		}
	}
}

// sweep closes rooms idle past the window and evicts terminal rooms past
// the grace period. The decision is made inside each actor's serialized
// path; eviction is the only mutation of the shared map.
func (c *Coordinator) sweep(now time.Time) {
	c.mu.RLock()
	actors := make([]*roomActor, 0, len(c.rooms))
	for _, a := range c.rooms {
		actors = append(actors, a)
	}
	c.mu.RUnlock()

	for _, a := range actors {
		if a.sweep(now) {
			c.evict(a)
		}
	}
}

func (c *Coordinator) evict(a *roomActor) {
	c.mu.Lock()
	delete(c.rooms, a.code)
	c.mu.Unlock()

	a.stop()
	c.broadcaster.DisconnectRoom(a.code)
	log.Printf("room %s evicted", a.code)
}

func (c *Coordinator) shutdown() {
	c.mu.Lock()
	actors := make([]*roomActor, 0, len(c.rooms))
	for code, a := range c.rooms {
		actors = append(actors, a)
		delete(c.rooms, code)
	}
	c.mu.Unlock()

	for _, a := range actors {
		a.shutdown(ReasonShutdown)
		a.stop()
		c.broadcaster.DisconnectRoom(a.code)
	}
}

// noopBroadcaster lets the coordinator run without a transport (tests)
type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToRoom(string, string, interface{})               {}
func (noopBroadcaster) BroadcastToParticipant(string, string, string, interface{}) {}
func (noopBroadcaster) DisconnectRoom(string)                                    {}
