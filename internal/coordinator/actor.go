package coordinator

import (
	"context"
	"time"

	"github.com/HACKWAVE2025/B48-sub000/internal/model"
)

// Commands accepted by a room actor. Every command for one room is applied
// to completion, broadcasts included, before the next one begins.
type command interface{ isCommand() }

type joinCmd struct {
	identity    string
	displayName string
	reply       chan joinReply
}

type joinReply struct {
	snap model.RoomSnapshot
	err  error
}

type connectCmd struct {
	identity string
	reply    chan error
}

type disconnectCmd struct {
	identity string
	done     chan struct{}
}

type startQuizCmd struct {
	identity string
	ctx      context.Context
	reply    chan error
}

// commitQuizCmd re-enters the serialized path once the content fetch,
// which runs outside it, has finished
type commitQuizCmd struct {
	requester string
	questions []model.Question
	fetchErr  error
	reply     chan error
}

type submitCmd struct {
	identity  string
	score     int
	elapsedMs int64
	reply     chan error
}

type snapshotCmd struct {
	reply chan model.RoomSnapshot
}

type sweepCmd struct {
	now   time.Time
	reply chan bool // evict?
}

type shutdownCmd struct {
	reason string
	done   chan struct{}
}

type stopCmd struct{}

func (joinCmd) isCommand()       {}
func (connectCmd) isCommand()    {}
func (disconnectCmd) isCommand() {}
func (startQuizCmd) isCommand()  {}
func (commitQuizCmd) isCommand() {}
func (submitCmd) isCommand()     {}
func (snapshotCmd) isCommand()   {}
func (sweepCmd) isCommand()      {}
func (shutdownCmd) isCommand()   {}
func (stopCmd) isCommand()       {}

// roomActor serializes all commands for one room through a single
// goroutine. The Room aggregate is never touched outside that goroutine.
type roomActor struct {
	co   *Coordinator
	code string
	room *model.Room

	inbox   chan command
	stopped chan struct{}

	starting   bool      // content fetch in flight
	idleSince  time.Time // last instant the room had zero connected participants
	terminalAt time.Time // when the room entered Finished/Closed
}

func newRoomActor(co *Coordinator, room *model.Room) *roomActor {
	return &roomActor{
		co:        co,
		code:      room.Code,
		room:      room,
		inbox:     make(chan command, 64),
		stopped:   make(chan struct{}),
		idleSince: room.CreatedAt,
	}
}

func (a *roomActor) run() {
	for cmd := range a.inbox {
		switch m := cmd.(type) {
		case joinCmd:
			snap, err := a.handleJoin(m.identity, m.displayName)
			m.reply <- joinReply{snap: snap, err: err}
		case connectCmd:
			m.reply <- a.handleConnect(m.identity)
		case disconnectCmd:
			a.handleDisconnect(m.identity)
			close(m.done)
		case startQuizCmd:
			a.handleStartQuiz(m)
		case commitQuizCmd:
			m.reply <- a.handleCommitQuiz(m)
		case submitCmd:
			m.reply <- a.handleSubmit(m.identity, m.score, m.elapsedMs)
		case snapshotCmd:
			m.reply <- a.room.Snapshot()
		case sweepCmd:
			m.reply <- a.handleSweep(m.now)
		case shutdownCmd:
			if !a.room.Status.Terminal() {
				a.close(m.reason)
			}
			close(m.done)
		case stopCmd:
			close(a.stopped)
			return
		}
	}
}

// send enqueues a command unless the actor has already stopped
func (a *roomActor) send(cmd command) error {
	select {
	case a.inbox <- cmd:
		return nil
	case <-a.stopped:
		return ErrNotFound
	}
}

func (a *roomActor) join(identity, displayName string) (model.RoomSnapshot, error) {
	cmd := joinCmd{identity: identity, displayName: displayName, reply: make(chan joinReply, 1)}
	if err := a.send(cmd); err != nil {
		return model.RoomSnapshot{}, err
	}
	select {
	case r := <-cmd.reply:
		return r.snap, r.err
	case <-a.stopped:
		return a.lateJoinReply(cmd.reply)
	}
}

// lateJoinReply drains a reply the actor may have produced just before it
// stopped; otherwise the room is simply gone
func (a *roomActor) lateJoinReply(ch chan joinReply) (model.RoomSnapshot, error) {
	select {
	case r := <-ch:
		return r.snap, r.err
	default:
		return model.RoomSnapshot{}, ErrNotFound
	}
}

func (a *roomActor) connect(identity string) error {
	cmd := connectCmd{identity: identity, reply: make(chan error, 1)}
	return a.askErr(cmd, cmd.reply)
}

func (a *roomActor) disconnect(identity string) {
	cmd := disconnectCmd{identity: identity, done: make(chan struct{})}
	if err := a.send(cmd); err != nil {
		return
	}
	select {
	case <-cmd.done:
	case <-a.stopped:
	}
}

func (a *roomActor) startQuiz(ctx context.Context, identity string) error {
	cmd := startQuizCmd{identity: identity, ctx: ctx, reply: make(chan error, 1)}
	return a.askErr(cmd, cmd.reply)
}

func (a *roomActor) submit(identity string, score int, elapsedMs int64) error {
	cmd := submitCmd{identity: identity, score: score, elapsedMs: elapsedMs, reply: make(chan error, 1)}
	return a.askErr(cmd, cmd.reply)
}

func (a *roomActor) snapshot() (model.RoomSnapshot, error) {
	cmd := snapshotCmd{reply: make(chan model.RoomSnapshot, 1)}
	if err := a.send(cmd); err != nil {
		return model.RoomSnapshot{}, err
	}
	select {
	case snap := <-cmd.reply:
		return snap, nil
	case <-a.stopped:
		select {
		case snap := <-cmd.reply:
			return snap, nil
		default:
			return model.RoomSnapshot{}, ErrNotFound
		}
	}
}

func (a *roomActor) sweep(now time.Time) bool {
	cmd := sweepCmd{now: now, reply: make(chan bool, 1)}
	if err := a.send(cmd); err != nil {
		return false
	}
	select {
	case evict := <-cmd.reply:
		return evict
	case <-a.stopped:
		return false
	}
}

func (a *roomActor) shutdown(reason string) {
	cmd := shutdownCmd{reason: reason, done: make(chan struct{})}
	if err := a.send(cmd); err != nil {
		return
	}
	select {
	case <-cmd.done:
	case <-a.stopped:
	}
}

func (a *roomActor) stop() {
	select {
	case a.inbox <- stopCmd{}:
	case <-a.stopped:
	}
}

func (a *roomActor) askErr(cmd command, reply chan error) error {
	if err := a.send(cmd); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-a.stopped:
		select {
		case err := <-reply:
			return err
		default:
			return ErrNotFound
		}
	}
}

// transition moves the room status through the enforced table. A refused
// transition is a programming error; callers validate first.
func (a *roomActor) transition(to model.RoomStatus) bool {
	if !model.CanTransition(a.room.Status, to) {
		return false
	}
	a.room.Status = to
	if to.Terminal() {
		a.terminalAt = time.Now()
	}
	return true
}

func (a *roomActor) broadcast(event string, payload interface{}) {
	a.co.broadcaster.BroadcastToRoom(a.code, event, payload)
}

// touchIdle refreshes the idle clock after any connectivity change
func (a *roomActor) touchIdle() {
	if a.room.ConnectedCount() == 0 {
		a.idleSince = time.Now()
	}
}

// handleSweep applies the sole time-based cleanup: idle rooms are closed
// and evicted, terminal rooms are evicted after a grace period
func (a *roomActor) handleSweep(now time.Time) bool {
	if a.room.Status.Terminal() {
		return now.Sub(a.terminalAt) > a.co.gracePeriod
	}
	if a.room.ConnectedCount() == 0 && now.Sub(a.idleSince) > a.co.idleWindow {
		a.close(ReasonIdle)
		return true
	}
	return false
}

// close transitions an open room to Closed and announces it. Must only be
// called while status is Waiting or Active.
func (a *roomActor) close(reason string) {
	if !a.transition(model.StatusClosed) {
		return
	}
	a.room.HostID = ""
	for _, p := range a.room.Participants {
		p.IsHost = false
	}
	a.broadcast(EventRoomClosed, model.ClosedPayload{Reason: reason})
	if a.co.history != nil {
		a.co.history.RoomClosed(a.code, reason)
	}
}
