package statistics

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/lox/holdemsim/internal/game"
)

// ErrLedger is returned by Validate when the totals do not balance.
var ErrLedger = errors.New("statistics ledger mismatch")

// SeatTotals are the running totals for one seat of one table.
type SeatTotals struct {
	Table       int     `json:"table"`
	Seat        int     `json:"seat"`
	Agent       string  `json:"agent"`
	Hands       int     `json:"hands"`
	Net         int     `json:"net"`
	Contributed int     `json:"contributed"`
	Won         int     `json:"won"`
	Wins        float64 `json:"wins"` // main pot wins, split pots shared
}

// Anomaly records a hand that failed to produce a result.
type Anomaly struct {
	Sequence int    `json:"sequence"`
	Table    int    `json:"table"`
	Hand     int    `json:"hand"`
	Seed     int64  `json:"seed"`
	Error    string `json:"error"`
}

// SimulationStats are the aggregate results of a run. Only the runner's
// coordinator mutates them; use Clone to hand a copy to anyone else.
type SimulationStats struct {
	HandsPlayed  int          `json:"hands_played"`
	HandsFailed  int          `json:"hands_failed"`
	AggregatePot int          `json:"aggregate_pot"`
	Showdowns    int          `json:"showdowns"`
	Seats        []SeatTotals `json:"seats"` // ordered by table, then seat
	Anomalies    []Anomaly    `json:"anomalies,omitempty"`
}

// Attempted returns the number of hands that were played or failed.
func (s *SimulationStats) Attempted() int {
	return s.HandsPlayed + s.HandsFailed
}

// Add folds one completed hand into the totals. Main pot winners share a
// single win so that win counts sum to the number of hands played.
func (s *SimulationStats) Add(summary game.HandSummary) {
	s.HandsPlayed++
	s.AggregatePot += summary.TotalPot
	if summary.Showdown {
		s.Showdowns++
	}
	for _, p := range summary.Players {
		t := s.seat(summary.TableIndex, p.Seat)
		t.Agent = p.Agent
		t.Hands++
		t.Net += p.Net()
		t.Contributed += p.Contribution
		t.Won += p.Won
	}
	winners := slices.Compact(slices.Sorted(slices.Values(summary.Winners)))
	for _, seat := range winners {
		s.seat(summary.TableIndex, seat).Wins += 1 / float64(len(winners))
	}
}

// RecordFailure counts a hand that produced no result.
func (s *SimulationStats) RecordFailure(a Anomaly) {
	s.HandsFailed++
	s.Anomalies = append(s.Anomalies, a)
}

// Seat returns the totals for a seat, if it has been dealt in.
func (s *SimulationStats) Seat(table, seat int) (SeatTotals, bool) {
	i, ok := s.find(table, seat)
	if !ok {
		return SeatTotals{}, false
	}
	return s.Seats[i], true
}

// WinCounts sums fractional wins by seat number across all tables.
func (s *SimulationStats) WinCounts() map[int]float64 {
	out := make(map[int]float64)
	for _, t := range s.Seats {
		if t.Wins > 0 {
			out[t.Seat] += t.Wins
		}
	}
	return out
}

// Validate checks that chips balance and wins add up.
func (s *SimulationStats) Validate() error {
	var net, contributed, won int
	var wins float64
	for _, t := range s.Seats {
		net += t.Net
		contributed += t.Contributed
		won += t.Won
		wins += t.Wins
	}
	switch {
	case net != 0:
		return fmt.Errorf("%w: net chips sum to %d", ErrLedger, net)
	case contributed != won:
		return fmt.Errorf("%w: contributed %d, won %d", ErrLedger, contributed, won)
	case contributed != s.AggregatePot:
		return fmt.Errorf("%w: contributed %d, aggregate pot %d", ErrLedger, contributed, s.AggregatePot)
	case s.HandsPlayed > 0 && (wins < float64(s.HandsPlayed)-1e-6 || wins > float64(s.HandsPlayed)+1e-6):
		return fmt.Errorf("%w: %.3f wins over %d hands", ErrLedger, wins, s.HandsPlayed)
	case len(s.Anomalies) != s.HandsFailed:
		return fmt.Errorf("%w: %d anomalies for %d failed hands", ErrLedger, len(s.Anomalies), s.HandsFailed)
	}
	return nil
}

// Clone returns a deep copy.
func (s *SimulationStats) Clone() SimulationStats {
	c := *s
	c.Seats = slices.Clone(s.Seats)
	c.Anomalies = slices.Clone(s.Anomalies)
	return c
}

func (s *SimulationStats) seat(table, seat int) *SeatTotals {
	i, ok := s.find(table, seat)
	if !ok {
		s.Seats = slices.Insert(s.Seats, i, SeatTotals{Table: table, Seat: seat})
	}
	return &s.Seats[i]
}

func (s *SimulationStats) find(table, seat int) (int, bool) {
	i := sort.Search(len(s.Seats), func(i int) bool {
		t := s.Seats[i]
		return t.Table > table || (t.Table == table && t.Seat >= seat)
	})
	return i, i < len(s.Seats) && s.Seats[i].Table == table && s.Seats[i].Seat == seat
}
