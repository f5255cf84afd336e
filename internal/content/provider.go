package content

import (
	"context"
	"errors"

	"github.com/HACKWAVE2025/B48-sub000/internal/model"
)

// ErrNoContent is returned when a provider cannot produce a quiz for the
// requested profile
var ErrNoContent = errors.New("content provider produced no questions")

// Profile describes what the requesting host wants. The coordinator treats
// it as opaque preferences; providers interpret it as they see fit.
type Profile struct {
	Topic string
	Count int
	Seed  int64
}

// Provider produces an ordered question sequence for a room. Invoked at
// most once per room per StartQuiz call; failure is reported, not retried.
type Provider interface {
	Fetch(ctx context.Context, profile Profile) ([]model.Question, error)
}
