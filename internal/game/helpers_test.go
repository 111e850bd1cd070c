package game

import (
	"fmt"
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/holdemsim/internal/evaluator"
	"github.com/lox/holdemsim/internal/randutil"
)

// newPlayers builds active players for seats 0..n-1 with the given stacks.
func newPlayers(stacks ...int) []*PlayerState {
	players := make([]*PlayerState, len(stacks))
	for i, s := range stacks {
		players[i] = &PlayerState{Seat: i, Agent: fmt.Sprintf("s%d", i), Stack: s}
	}
	return players
}

// scripted returns an AgentFactory keyed by agent name. Each agent plays its
// script in order and then checks or calls.
func scripted(scripts map[string][]Action) AgentFactory {
	return func(name string, _ int64) (Agent, error) {
		queue := append([]Action(nil), scripts[name]...)
		return AgentFunc(func(s Snapshot) (Action, error) {
			if len(queue) > 0 {
				a := queue[0]
				queue = queue[1:]
				return a, nil
			}
			return CallAction(), nil
		}), nil
	}
}

// randomLegal picks a random legal action from the snapshot, including
// undersized all-ins, to exercise every branch of the betting rules.
func randomLegal(_ string, seed int64) (Agent, error) {
	rng := randutil.New(seed)
	return AgentFunc(func(s Snapshot) (Action, error) {
		return pickLegal(rng, s), nil
	}), nil
}

func pickLegal(rng *rand.Rand, s Snapshot) Action {
	switch r := rng.IntN(10); {
	case r < 2 && s.ToCall > 0:
		return FoldAction()
	case r < 6:
		return CallAction()
	case r < 8:
		if s.CurrentBet == 0 {
			return BetAction(min(s.Stack, s.BigBlind*(1+rng.IntN(4))))
		}
		if s.Stack <= s.ToCall {
			return CallAction()
		}
		return RaiseAction(min(s.Stack-s.ToCall, s.MinRaise*(1+rng.IntN(3))))
	default:
		// shove
		if s.CurrentBet == 0 {
			return BetAction(s.Stack)
		}
		if s.Stack <= s.ToCall {
			return CallAction()
		}
		return RaiseAction(s.Stack - s.ToCall)
	}
}

func headsUpTask(stacks ...int) HandTask {
	task := HandTask{
		TableIndex: 0,
		HandNumber: 0,
		Seed:       42,
		SmallBlind: 5,
		BigBlind:   10,
	}
	for i, s := range stacks {
		task.Seats = append(task.Seats, SeatSpec{Seat: i, Agent: fmt.Sprintf("s%d", i), Stack: s})
	}
	switch len(stacks) {
	case 2:
		task.Button, task.SmallBlindSeat, task.BigBlindSeat = 0, 0, 1
	default:
		task.Button, task.SmallBlindSeat, task.BigBlindSeat = len(stacks)-1, 0, 1
	}
	return task
}

func native(t *testing.T) evaluator.Oracle {
	t.Helper()
	o, err := evaluator.Lookup("native")
	require.NoError(t, err)
	return o
}
