package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemsim/internal/evaluator"
	"github.com/lox/holdemsim/poker"
)

// fixedOracle scores seats by the rank of their first hole card.
func fixedOracle(calls *int) evaluator.Oracle {
	return evaluator.OracleFunc(func(hole, _ []poker.Card) (evaluator.Score, error) {
		if calls != nil {
			*calls++
		}
		return evaluator.Score(hole[0].Rank), nil
	})
}

func holesFor(ranks map[int]poker.Rank) map[int][]poker.Card {
	out := make(map[int][]poker.Card, len(ranks))
	for seat, r := range ranks {
		out[seat] = []poker.Card{poker.NewCard(r, poker.Spades), poker.NewCard(poker.Two, poker.Hearts)}
	}
	return out
}

func TestSettleSidePots(t *testing.T) {
	t.Parallel()

	pots := []Pot{
		{Amount: 90, Eligible: []int{0, 1, 2}},
		{Amount: 40, Eligible: []int{0, 2}},
	}
	holes := holesFor(map[int]poker.Rank{0: poker.King, 1: poker.Ace, 2: poker.Queen})

	got, err := Settle(pots, nil, holes, fixedOracle(nil), []int{0, 1, 2})
	require.NoError(t, err)

	require.Len(t, got.Pots, 2)
	assert.Equal(t, []int{1}, got.Pots[0].Winners)
	assert.Equal(t, []int{0}, got.Pots[1].Winners)
	assert.Equal(t, map[int]int{1: 90, 0: 40}, got.Payouts)
}

func TestSettleOddChipGoesLeftOfButton(t *testing.T) {
	t.Parallel()

	pots := []Pot{{Amount: 25, Eligible: []int{0, 1, 2}}}
	holes := holesFor(map[int]poker.Rank{0: poker.Ace, 1: poker.Two, 2: poker.Ace})

	// Button is seat 1, so clockwise order starts at seat 2.
	got, err := Settle(pots, nil, holes, fixedOracle(nil), []int{2, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, got.Pots[0].Winners)
	assert.Equal(t, []SeatAmount{{Seat: 2, Amount: 13}, {Seat: 0, Amount: 12}}, got.Pots[0].Payouts)

	// Button is seat 2, so seat 0 is first.
	got, err = Settle(pots, nil, holes, fixedOracle(nil), []int{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, 13, got.Payouts[0])
	assert.Equal(t, 12, got.Payouts[2])
}

func TestSettleSpreadsLeftoverChipsOneEach(t *testing.T) {
	t.Parallel()

	pots := []Pot{{Amount: 26, Eligible: []int{0, 1, 2}}}
	holes := holesFor(map[int]poker.Rank{0: poker.King, 1: poker.King, 2: poker.King})

	got, err := Settle(pots, nil, holes, fixedOracle(nil), []int{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []SeatAmount{{Seat: 0, Amount: 9}, {Seat: 1, Amount: 9}, {Seat: 2, Amount: 8}}, got.Pots[0].Payouts)

	// Button is seat 0, so seats 1 and 2 take the two leftover chips.
	got, err = Settle(pots, nil, holes, fixedOracle(nil), []int{1, 2, 0})
	require.NoError(t, err)
	assert.Equal(t, map[int]int{0: 8, 1: 9, 2: 9}, got.Payouts)

	// Four-way tie on 7 chips: three leftovers.
	pots = []Pot{{Amount: 7, Eligible: []int{0, 1, 2, 3}}}
	holes[3] = holes[0]
	got, err = Settle(pots, nil, holes, fixedOracle(nil), []int{3, 0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, map[int]int{3: 2, 0: 2, 1: 2, 2: 1}, got.Payouts)
}

func TestSettleUncontestedSkipsOracle(t *testing.T) {
	t.Parallel()

	calls := 0
	pots := []Pot{{Amount: 15, Eligible: []int{1}}}
	got, err := Settle(pots, nil, nil, fixedOracle(&calls), []int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, calls)
	assert.Equal(t, map[int]int{1: 15}, got.Payouts)
}

func TestSettleRanksEachSeatOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	pots := []Pot{
		{Amount: 30, Eligible: []int{0, 1, 2}},
		{Amount: 20, Eligible: []int{1, 2}},
	}
	holes := holesFor(map[int]poker.Rank{0: poker.Two, 1: poker.Three, 2: poker.Four})
	_, err := Settle(pots, nil, holes, fixedOracle(&calls), []int{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestSettleOracleError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	oracle := evaluator.OracleFunc(func(_, _ []poker.Card) (evaluator.Score, error) { return 0, boom })
	pots := []Pot{{Amount: 20, Eligible: []int{0, 1}}}
	_, err := Settle(pots, nil, holesFor(map[int]poker.Rank{0: poker.Ace, 1: poker.King}), oracle, []int{0, 1})
	require.ErrorIs(t, err, boom)
}
