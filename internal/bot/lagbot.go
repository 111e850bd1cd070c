package bot

import (
	rand "math/rand/v2"

	"github.com/lox/holdemsim/internal/game"
	"github.com/lox/holdemsim/poker"
)

// LagBot is loose-aggressive: it calls 85% of bets and bets 2.5 big blinds
// 40% of the time when checked to.
type LagBot struct {
	rng *rand.Rand
}

// NewLagBot creates a LagBot drawing from rng.
func NewLagBot(rng *rand.Rand) *LagBot {
	return &LagBot{rng: rng}
}

// Decide implements game.Agent.
func (l *LagBot) Decide(s game.Snapshot) (game.Action, error) {
	if s.ToCall > 0 {
		if l.rng.Float64() < 0.85 {
			return game.CallAction(), nil
		}
		return game.FoldAction(), nil
	}
	if l.rng.Float64() < 0.4 {
		return aggress(s, bb(s, 25)), nil
	}
	return game.CheckAction(), nil
}

// DeterministicLagBot applies pressure without randomness: it raises any bet
// and bets whenever checked to, sizing from the pot, the board and the street.
type DeterministicLagBot struct{}

// Decide implements game.Agent.
func (DeterministicLagBot) Decide(s game.Snapshot) (game.Action, error) {
	boardPressure := len(s.Board)
	// Postflop sizes are scaled by 5/4.
	scale := func(x int) int {
		if s.Street == game.Preflop {
			return x
		}
		return x * 5 / 4
	}

	if s.ToCall > 0 {
		if s.Stack <= s.ToCall {
			return game.CallAction(), nil
		}
		aggression := max(bb(s, 8), s.Pot/3+boardPressure*2)
		return aggress(s, max(scale(s.ToCall*2), aggression)), nil
	}

	baseline := bb(s, 12)
	if s.Pot > 0 {
		baseline = s.Pot / 2
	}
	size := max(scale(baseline), bb(s, 6)+boardPressure)
	if highCard(s) >= poker.King {
		size = max(size, baseline+bb(s, 4))
	}
	return aggress(s, size), nil
}

func highCard(s game.Snapshot) poker.Rank {
	var high poker.Rank
	for _, c := range s.Hole {
		high = max(high, c.Rank)
	}
	return high
}
