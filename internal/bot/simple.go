package bot

import (
	rand "math/rand/v2"

	"github.com/lox/holdemsim/internal/game"
)

// FoldBot folds whenever it faces a bet and checks otherwise.
type FoldBot struct{}

// Decide implements game.Agent.
func (FoldBot) Decide(s game.Snapshot) (game.Action, error) {
	return checkOrFold(s), nil
}

// CallBot checks or calls every street.
type CallBot struct{}

// Decide implements game.Agent.
func (CallBot) Decide(game.Snapshot) (game.Action, error) {
	return game.CallAction(), nil
}

// RandBot calls or folds at random when facing a bet, and otherwise checks
// most of the time with an occasional one big blind bet.
type RandBot struct {
	rng *rand.Rand
}

// NewRandBot creates a RandBot drawing from rng.
func NewRandBot(rng *rand.Rand) *RandBot {
	return &RandBot{rng: rng}
}

// Decide implements game.Agent.
func (r *RandBot) Decide(s game.Snapshot) (game.Action, error) {
	if s.ToCall > 0 {
		if r.rng.IntN(2) == 0 {
			return game.CallAction(), nil
		}
		return game.FoldAction(), nil
	}
	if r.rng.Float64() < 0.7 {
		return game.CheckAction(), nil
	}
	return aggress(s, s.BigBlind), nil
}
