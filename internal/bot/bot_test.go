package bot

import (
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemsim/internal/evaluator"
	"github.com/lox/holdemsim/internal/game"
	"github.com/lox/holdemsim/internal/randutil"
	"github.com/lox/holdemsim/poker"
)

func snapshot(hole, board string, mutate func(*game.Snapshot)) game.Snapshot {
	s := game.Snapshot{
		Hole:       poker.MustParseCards(hole),
		Stack:      1000,
		BigBlind:   10,
		MinRaise:   10,
		CurrentBet: 10,
		ToCall:     10,
		Pot:        15,
		Street:     game.Preflop,
	}
	if board != "" {
		s.Board = poker.MustParseCards(board)
	}
	if mutate != nil {
		mutate(&s)
	}
	return s
}

func unopened(s *game.Snapshot) {
	s.CurrentBet, s.ToCall, s.Street = 0, 0, game.Flop
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	assert.Equal(t, []string{
		"call", "conservative-tag", "deterministic-lag", "fold", "lag", "random", "short-stack", "tag",
	}, r.Names())

	require.NoError(t, r.Validate("call", "tag"))
	require.ErrorIs(t, r.Validate("call", "agents.tag_agent.TAGAgent"), ErrUnknownAgent)

	_, err := r.New("nope", 1)
	require.ErrorIs(t, err, ErrUnknownAgent)

	require.NoError(t, r.Register("always-raise", func(*rand.Rand) game.Agent { return CallBot{} }))
	assert.Error(t, r.Register("call", func(*rand.Rand) game.Agent { return CallBot{} }))
}

func TestTagBot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		snap game.Snapshot
		want game.Action
	}{
		{"folds trash to a bet", snapshot("7c 2d", "", nil), game.FoldAction()},
		{"checks trash when free", snapshot("7c 2d", "", func(s *game.Snapshot) { s.ToCall = 0 }), game.CheckAction()},
		{"calls strong hand", snapshot("As Kd", "", nil), game.CallAction()},
		{"raises strong hand in the big blind", snapshot("Qs Qd", "", func(s *game.Snapshot) { s.ToCall = 0 }), game.RaiseAction(15)},
		{"bets strong hand postflop", snapshot("Ah Qh", "2c 7d 9s", unopened), game.BetAction(20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := TagBot{}.Decide(tt.snap)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConservativeTagBot(t *testing.T) {
	t.Parallel()

	got, err := ConservativeTagBot{}.Decide(snapshot("Ks Qs", "", nil))
	require.NoError(t, err)
	assert.Equal(t, game.FoldAction(), got, "KQs is not premium")

	got, err = ConservativeTagBot{}.Decide(snapshot("9s 4h", "9c 2d 3h", func(s *game.Snapshot) {
		unopened(s)
		s.Pot = 60
	}))
	require.NoError(t, err)
	assert.Equal(t, game.BetAction(30), got, "paired the board: half pot")
}

func TestDeterministicLagBot(t *testing.T) {
	t.Parallel()

	got, err := DeterministicLagBot{}.Decide(snapshot("7c 2d", "", nil))
	require.NoError(t, err)
	assert.Equal(t, game.Raise, got.Type)
	assert.GreaterOrEqual(t, got.Amount, 10)

	got, err = DeterministicLagBot{}.Decide(snapshot("7c 2d", "", func(s *game.Snapshot) { s.Stack = 8 }))
	require.NoError(t, err)
	assert.Equal(t, game.CallAction(), got, "cannot cover the call")

	a, _ := DeterministicLagBot{}.Decide(snapshot("Ac 2d", "2c 7d 9s", unopened))
	b, _ := DeterministicLagBot{}.Decide(snapshot("Ac 2d", "2c 7d 9s", unopened))
	assert.Equal(t, a, b)
	assert.Equal(t, game.Bet, a.Type)
}

func TestShortStackBot(t *testing.T) {
	t.Parallel()

	got, err := ShortStackBot{}.Decide(snapshot("5c 5d", "", func(s *game.Snapshot) { s.Stack = 18 }))
	require.NoError(t, err)
	assert.Equal(t, game.RaiseAction(8), got, "short with a pair: all-in")

	got, err = ShortStackBot{}.Decide(snapshot("9c 4d", "", func(s *game.Snapshot) { s.Stack = 18 }))
	require.NoError(t, err)
	assert.Equal(t, game.FoldAction(), got)

	got, err = ShortStackBot{}.Decide(snapshot("9c 4d", "", func(s *game.Snapshot) { s.Stack = 500 }))
	require.NoError(t, err)
	assert.Equal(t, game.FoldAction(), got, "deep with a weak hand")
}

func TestRandomAgentsAreSeeded(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	for _, name := range []string{"random", "lag"} {
		a, err := r.New(name, 5)
		require.NoError(t, err)
		b, err := r.New(name, 5)
		require.NoError(t, err)
		for i := range 50 {
			snap := snapshot("7c 2d", "", func(s *game.Snapshot) { s.ToCall = 10 * (i % 2) })
			x, _ := a.Decide(snap)
			y, _ := b.Decide(snap)
			require.Equal(t, x, y, "%s decision %d", name, i)
		}
	}
}

// Every built-in agent must only produce legal actions, whatever the stacks.
func TestAgentsPlayLegalHands(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	names := r.Names()
	runner := game.NewHandRunner(evaluator.Native{}, r.New)

	for seed := int64(0); seed < 300; seed++ {
		rng := randutil.New(seed)
		n := 2 + rng.IntN(5)
		task := game.HandTask{Seed: seed, SmallBlind: 5, BigBlind: 10, Button: 0}
		for i := range n {
			task.Seats = append(task.Seats, game.SeatSpec{
				Seat:  i,
				Agent: names[rng.IntN(len(names))],
				Stack: 1 + rng.IntN(300),
			})
		}
		if n == 2 {
			task.SmallBlindSeat, task.BigBlindSeat = 0, 1
		} else {
			task.SmallBlindSeat, task.BigBlindSeat = 1, 2
		}
		_, err := runner.Play(task)
		require.NoError(t, err, "seed %d", seed)
	}
}
