package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemsim/internal/game"
)

// splitHand is a heads-up hand where each seat put in 5 and the pot of 10
// went to winners.
func splitHand(table int, winners ...int) game.HandSummary {
	s := game.HandSummary{TableIndex: table, TotalPot: 10, BigBlind: 2, Winners: winners}
	for seat := range 2 {
		won := 0
		for _, w := range winners {
			if w == seat {
				won = 10 / len(winners)
			}
		}
		s.Players = append(s.Players, game.PlayerResult{
			Seat:          seat,
			Agent:         "call",
			StartingStack: 100,
			FinalStack:    100 - 5 + won,
			Contribution:  5,
			Won:           won,
		})
	}
	return s
}

func TestWinCountsSumToHands(t *testing.T) {
	t.Parallel()

	var s SimulationStats
	s.Add(splitHand(0, 0))
	s.Add(splitHand(0, 0, 1))

	assert.Equal(t, 2, s.HandsPlayed)
	assert.Equal(t, 20, s.AggregatePot)
	wins := s.WinCounts()
	assert.InDelta(t, 1.5, wins[0], 1e-9)
	assert.InDelta(t, 0.5, wins[1], 1e-9)
	require.NoError(t, s.Validate())
}

func TestDuplicateWinnersCountOnce(t *testing.T) {
	t.Parallel()

	var s SimulationStats
	s.Add(splitHand(0, 1, 1))
	assert.InDelta(t, 1.0, s.WinCounts()[1], 1e-9)
}

func TestSeatTotalsOrderedByTableAndSeat(t *testing.T) {
	t.Parallel()

	var s SimulationStats
	s.Add(splitHand(2, 0))
	s.Add(splitHand(0, 1))
	s.Add(splitHand(1, 0))

	var keys [][2]int
	for _, st := range s.Seats {
		keys = append(keys, [2]int{st.Table, st.Seat})
	}
	assert.Equal(t, [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}, {2, 1}}, keys)

	st, ok := s.Seat(2, 0)
	require.True(t, ok)
	assert.Equal(t, 5, st.Net)
	assert.Equal(t, 1, st.Hands)
	_, ok = s.Seat(3, 0)
	assert.False(t, ok)
}

func TestFailuresAndClone(t *testing.T) {
	t.Parallel()

	var s SimulationStats
	s.Add(splitHand(0, 0))
	s.RecordFailure(Anomaly{Sequence: 1, Hand: 1, Error: "boom"})
	assert.Equal(t, 2, s.Attempted())
	require.NoError(t, s.Validate())

	c := s.Clone()
	s.Add(splitHand(0, 1))
	s.RecordFailure(Anomaly{Sequence: 3})
	assert.Equal(t, 1, c.HandsPlayed)
	assert.Len(t, c.Anomalies, 1)
	assert.Equal(t, 5, c.Seats[0].Net)
}

func TestValidateDetectsImbalance(t *testing.T) {
	t.Parallel()

	var s SimulationStats
	s.Add(splitHand(0, 0))
	s.Seats[0].Net++
	assert.ErrorIs(t, s.Validate(), ErrLedger)
}
