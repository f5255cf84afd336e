package history

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HACKWAVE2025/B48-sub000/internal/model"
)

const writeTimeout = 5 * time.Second

// Event is one durable room lifecycle record
type Event struct {
	RoomCode    string                   `bson:"roomCode"`
	Kind        string                   `bson:"kind"` // created | finished | closed
	Reason      string                   `bson:"reason,omitempty"`
	Snapshot    *model.RoomSnapshot      `bson:"snapshot,omitempty"`
	Leaderboard []model.LeaderboardEntry `bson:"leaderboard,omitempty"`
	At          time.Time                `bson:"at"`
}

// Store writes room lifecycle events to MongoDB. Every write is
// fire-and-forget: it runs on its own goroutine with a bounded timeout and
// a failure is logged, never surfaced to the command path.
type Store struct {
	collection *mongo.Collection
}

// NewStore creates a history store over the given client
func NewStore(client *mongo.Client, database string) *Store {
	return &Store{
		collection: client.Database(database).Collection("room_events"),
	}
}

func (s *Store) RoomCreated(snap model.RoomSnapshot) {
	s.record(Event{RoomCode: snap.Code, Kind: "created", Snapshot: &snap, At: time.Now()})
}

func (s *Store) RoomFinished(code string, leaderboard []model.LeaderboardEntry) {
	s.record(Event{RoomCode: code, Kind: "finished", Leaderboard: leaderboard, At: time.Now()})
}

func (s *Store) RoomClosed(code, reason string) {
	s.record(Event{RoomCode: code, Kind: "closed", Reason: reason, At: time.Now()})
}

func (s *Store) record(ev Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if _, err := s.collection.InsertOne(ctx, ev); err != nil {
			log.Printf("history: failed to record %s event for room %s: %v", ev.Kind, ev.RoomCode, err)
		}
	}()
}
