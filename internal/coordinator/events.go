package coordinator

// Outbound broadcast event types. The transport wraps these in its message
// envelope verbatim.
const (
	EventRosterChanged = "roster_changed"
	EventHostChanged   = "host_changed"
	EventQuizStarted   = "quiz_started"
	EventProgress      = "progress"
	EventFinal         = "final"
	EventRoomClosed    = "room_closed"
)

// Close reasons carried by room_closed broadcasts
const (
	ReasonHostLeft = "host_left"
	ReasonIdle     = "idle"
	ReasonShutdown = "shutdown"
)

// Broadcaster delivers events to the connected sessions of a room. The ws
// hub implements it; the indirection avoids an import cycle with transport.
type Broadcaster interface {
	BroadcastToRoom(code string, event string, payload interface{})
	BroadcastToParticipant(code, participantID string, event string, payload interface{})
	DisconnectRoom(code string)
}
