package content

import (
	"context"
	"math/rand"

	"github.com/HACKWAVE2025/B48-sub000/internal/model"
)

// BankItem is one question in the static bank with its topic tag
type BankItem struct {
	Topic    string
	Question model.Question
}

// Bank is an in-memory content provider drawing from a fixed question
// pool. Selection order is derived from the profile seed, so one room's
// draw is reproducible while distinct rooms differ.
type Bank struct {
	items []BankItem
}

// NewBank creates a provider over the given pool
func NewBank(items []BankItem) *Bank {
	return &Bank{items: items}
}

// Fetch selects up to Count questions matching the profile topic
func (b *Bank) Fetch(ctx context.Context, profile Profile) ([]model.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pool := make([]model.Question, 0, len(b.items))
	for _, item := range b.items {
		if profile.Topic == "" || item.Topic == profile.Topic {
			pool = append(pool, item.Question)
		}
	}
	if len(pool) == 0 {
		return nil, ErrNoContent
	}

	rng := rand.New(rand.NewSource(profile.Seed))
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	count := profile.Count
	if count <= 0 || count > len(pool) {
		count = len(pool)
	}
	picked := pool[:count]

	questions := make([]model.Question, len(picked))
	for i, q := range picked {
		q.Index = i
		questions[i] = q
	}
	return questions, nil
}

// DefaultBank is the built-in general-knowledge pool used when no external
// content source is configured
func DefaultBank() *Bank {
	return NewBank([]BankItem{
		{Topic: "general", Question: model.Question{Prompt: "Which planet is known as the Red Planet?", Options: []string{"Venus", "Mars", "Jupiter", "Mercury"}, Answer: 1, PointsMax: 100}},
		{Topic: "general", Question: model.Question{Prompt: "What is the largest ocean on Earth?", Options: []string{"Atlantic", "Indian", "Pacific", "Arctic"}, Answer: 2, PointsMax: 100}},
		{Topic: "general", Question: model.Question{Prompt: "How many continents are there?", Options: []string{"5", "6", "7", "8"}, Answer: 2, PointsMax: 100}},
		{Topic: "general", Question: model.Question{Prompt: "Which element has the chemical symbol O?", Options: []string{"Gold", "Oxygen", "Osmium", "Silver"}, Answer: 1, PointsMax: 100}},
		{Topic: "general", Question: model.Question{Prompt: "What year did the first moon landing happen?", Options: []string{"1965", "1969", "1972", "1959"}, Answer: 1, PointsMax: 100}},
		{Topic: "general", Question: model.Question{Prompt: "Which country has the largest population?", Options: []string{"India", "USA", "Indonesia", "Brazil"}, Answer: 0, PointsMax: 100}},
		{Topic: "general", Question: model.Question{Prompt: "What is the capital of Australia?", Options: []string{"Sydney", "Melbourne", "Canberra", "Perth"}, Answer: 2, PointsMax: 100}},
		{Topic: "general", Question: model.Question{Prompt: "How many sides does a hexagon have?", Options: []string{"5", "6", "7", "8"}, Answer: 1, PointsMax: 100}},
		{Topic: "general", Question: model.Question{Prompt: "Which gas do plants absorb from the atmosphere?", Options: []string{"Oxygen", "Nitrogen", "Carbon dioxide", "Helium"}, Answer: 2, PointsMax: 100}},
		{Topic: "general", Question: model.Question{Prompt: "What is the smallest prime number?", Options: []string{"0", "1", "2", "3"}, Answer: 2, PointsMax: 100}},
		{Topic: "tech", Question: model.Question{Prompt: "What does CPU stand for?", Options: []string{"Central Processing Unit", "Computer Personal Unit", "Central Program Utility", "Core Processing Unit"}, Answer: 0, PointsMax: 100}},
		{Topic: "tech", Question: model.Question{Prompt: "Which company created the Go programming language?", Options: []string{"Microsoft", "Google", "Apple", "Amazon"}, Answer: 1, PointsMax: 100}},
		{Topic: "tech", Question: model.Question{Prompt: "What does HTTP stand for?", Options: []string{"HyperText Transfer Protocol", "High Transfer Text Protocol", "HyperText Transmission Process", "Host Transfer Text Protocol"}, Answer: 0, PointsMax: 100}},
		{Topic: "tech", Question: model.Question{Prompt: "Which data structure uses FIFO ordering?", Options: []string{"Stack", "Queue", "Tree", "Graph"}, Answer: 1, PointsMax: 100}},
	})
}
