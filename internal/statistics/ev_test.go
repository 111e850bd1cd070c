package statistics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemsim/internal/game"
)

func TestEVChipDeltasConserveOnSplitPot(t *testing.T) {
	t.Parallel()

	// Seat 0 put in 2, seat 1 put in 3, and they chop the 5 chip pot with
	// the odd chip to seat 1.
	summary := game.HandSummary{
		BigBlind: 10,
		Players: []game.PlayerResult{
			{Seat: 0, Contribution: 2, Won: 2},
			{Seat: 1, Contribution: 3, Won: 3},
		},
	}
	tr := NewEVTracker(0)
	tr.ObserveHand(summary)

	report := tr.Report()
	require.Len(t, report, 2)
	assert.Equal(t, 0, report[0].ChipDelta+report[1].ChipDelta)
	assert.Equal(t, 1, tr.Hands())
}

func TestEVMetrics(t *testing.T) {
	t.Parallel()

	tr := NewEVTracker(2)
	for _, delta := range []int{10, -20, 40} {
		tr.ObserveHand(game.HandSummary{
			TableIndex: 1,
			BigBlind:   10,
			Players: []game.PlayerResult{
				{Seat: 3, Agent: "tag", Contribution: 20, Won: 20 + delta},
			},
		})
	}

	report := tr.Report()
	require.Len(t, report, 1)
	r := report[0]
	assert.Equal(t, "tag", r.Agent)
	assert.Equal(t, 3, r.Hands)
	assert.Equal(t, 30, r.ChipDelta)
	assert.InDelta(t, 10.0, r.EVPerHand, 1e-9)
	assert.InDelta(t, 100.0, r.BBPer100, 1e-9)
	assert.Equal(t, 2, r.RollingWindow)
	assert.InDelta(t, 10.0, r.RollingEVPerHand, 1e-9, "last two hands: -20, 40")
	assert.InDelta(t, 100.0, r.RollingBBPer100, 1e-9)
	assert.Less(t, r.CI95Low, r.CI95High)
}

func TestEVTrackerConcurrentReads(t *testing.T) {
	t.Parallel()

	tr := NewEVTracker(10)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 100 {
			_ = tr.Report()
		}
	}()
	for range 100 {
		tr.ObserveHand(game.HandSummary{BigBlind: 2, Players: []game.PlayerResult{{Seat: 0}}})
	}
	wg.Wait()
	assert.Equal(t, 100, tr.Hands())
}
