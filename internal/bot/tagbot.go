package bot

import (
	"github.com/lox/holdemsim/internal/game"
	"github.com/lox/holdemsim/poker"
)

var (
	tagHands = handSet("AA", "KK", "QQ", "JJ", "TT", "AKs", "AQs", "AJs", "KQs", "AKo", "AQo")
	// conservative-tag drops AJs, KQs and AQo.
	premiumHands = handSet("AA", "KK", "QQ", "JJ", "TT", "AKs", "AQs", "AKo")
)

func handSet(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

func holeKey(s game.Snapshot) string {
	if len(s.Hole) != 2 {
		return ""
	}
	return poker.HandKey(s.Hole[0], s.Hole[1])
}

// hitBoard reports whether either hole card pairs the board.
func hitBoard(s game.Snapshot) bool {
	for _, b := range s.Board {
		for _, h := range s.Hole {
			if b.Rank == h.Rank {
				return true
			}
		}
	}
	return false
}

// TagBot is tight-aggressive: it only continues with a short list of strong
// starting hands, opens them for 1.5 big blinds and bets 2 big blinds after
// the flop. Everything else checks or folds.
type TagBot struct{}

// Decide implements game.Agent.
func (TagBot) Decide(s game.Snapshot) (game.Action, error) {
	if !tagHands[holeKey(s)] {
		return checkOrFold(s), nil
	}
	if s.ToCall > 0 {
		return game.CallAction(), nil
	}
	if s.Street == game.Preflop {
		return aggress(s, bb(s, 15)), nil
	}
	return aggress(s, bb(s, 20)), nil
}

// ConservativeTagBot continues preflop with premium hands only. After the
// flop it also plays pocket pairs and hands that paired the board, betting
// half the pot.
type ConservativeTagBot struct{}

// Decide implements game.Agent.
func (ConservativeTagBot) Decide(s game.Snapshot) (game.Action, error) {
	premium := premiumHands[holeKey(s)]

	if s.Street == game.Preflop {
		switch {
		case !premium:
			return checkOrFold(s), nil
		case s.ToCall > 0:
			return game.CallAction(), nil
		}
		return aggress(s, bb(s, 12)), nil
	}

	pocketPair := len(s.Hole) == 2 && s.Hole[0].Rank == s.Hole[1].Rank
	if premium || pocketPair || hitBoard(s) {
		if s.ToCall > 0 {
			return game.CallAction(), nil
		}
		return aggress(s, max(s.Pot/2, s.BigBlind)), nil
	}
	return checkOrFold(s), nil
}
