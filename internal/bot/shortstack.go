package bot

import "github.com/lox/holdemsim/internal/game"

var compactStarts = handSet("AA", "KK", "QQ", "JJ", "AKs", "AQs", "AJs", "KQs", "AKo")

// ShortStackBot plays push/fold when short: it shoves strong starts and
// pocket pairs preflop, calls small bets, and otherwise folds. Deeper, it only
// continues with strong starts or a pair with the board.
type ShortStackBot struct{}

// Decide implements game.Agent.
func (ShortStackBot) Decide(s game.Snapshot) (game.Action, error) {
	premium := compactStarts[holeKey(s)]
	pocketPair := len(s.Hole) == 2 && s.Hole[0].Rank == s.Hole[1].Rank
	short := s.Stack <= max(2*s.BigBlind, s.Pot/2)

	if s.Street == game.Preflop && short {
		switch {
		case premium || pocketPair:
			return shove(s), nil
		case s.ToCall > s.Stack/3:
			return game.FoldAction(), nil
		}
		return game.CallAction(), nil
	}

	if premium || hitBoard(s) {
		if s.ToCall > 0 {
			return game.CallAction(), nil
		}
		return aggress(s, max(s.Pot/2, bb(s, 6))), nil
	}
	return checkOrFold(s), nil
}
