package bot

import "github.com/lox/holdemsim/internal/game"

// aggress turns an intended wager into a legal action. With no bet on the
// street, size is the bet; facing a bet, size is the raise increment. Sizes
// are floored at the legal minimum and capped at the stack, and a stack that
// cannot cover the call just calls.
func aggress(s game.Snapshot, size int) game.Action {
	if s.CurrentBet == 0 {
		return game.BetAction(min(max(size, s.BigBlind), s.Stack))
	}
	if s.Stack <= s.ToCall {
		return game.CallAction()
	}
	return game.RaiseAction(min(max(size, s.MinRaise), s.Stack-s.ToCall))
}

// shove commits the whole stack.
func shove(s game.Snapshot) game.Action {
	if s.CurrentBet == 0 {
		return game.BetAction(s.Stack)
	}
	if s.Stack <= s.ToCall {
		return game.CallAction()
	}
	return game.RaiseAction(s.Stack - s.ToCall)
}

// checkOrFold checks when free and folds otherwise.
func checkOrFold(s game.Snapshot) game.Action {
	if s.ToCall > 0 {
		return game.FoldAction()
	}
	return game.CheckAction()
}

// bb scales a number of big blinds, in tenths, to chips.
func bb(s game.Snapshot, tenths int) int {
	return s.BigBlind * tenths / 10
}
