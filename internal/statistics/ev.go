package statistics

import (
	"sort"
	"sync"

	"github.com/lox/holdemsim/internal/game"
)

// DefaultRollingWindow is the number of recent hands in rolling metrics.
const DefaultRollingWindow = 200

// SeatEV is a point-in-time EV report for one seat.
type SeatEV struct {
	Table            int     `json:"table"`
	Seat             int     `json:"seat"`
	Agent            string  `json:"agent"`
	Hands            int     `json:"hands"`
	ChipDelta        int     `json:"chip_delta"`
	EVPerHand        float64 `json:"ev_per_hand"`
	BBPer100         float64 `json:"bb_per_100"`
	CI95Low          float64 `json:"ci95_low"` // bb/hand
	CI95High         float64 `json:"ci95_high"`
	RollingWindow    int     `json:"rolling_window"`
	RollingEVPerHand float64 `json:"rolling_ev_per_hand"`
	RollingBBPer100  float64 `json:"rolling_bb_per_100"`
}

type seatKey struct{ table, seat int }

type seatEV struct {
	agent  string
	chips  int
	bb     Series
	recent []int // ring of chip deltas
	recBB  []float64
	next   int
}

// EVTracker observes hand summaries and keeps per-seat EV and bb/100. It is
// safe for concurrent use so the monitor can read while the runner writes.
type EVTracker struct {
	mu     sync.Mutex
	window int
	hands  int
	seats  map[seatKey]*seatEV
}

// NewEVTracker returns a tracker with the given rolling window; window <= 0
// uses DefaultRollingWindow.
func NewEVTracker(window int) *EVTracker {
	if window <= 0 {
		window = DefaultRollingWindow
	}
	return &EVTracker{window: window, seats: make(map[seatKey]*seatEV)}
}

// ObserveHand records each player's chip delta for the hand.
func (t *EVTracker) ObserveHand(summary game.HandSummary) {
	t.mu.Lock()
	defer t.mu.Unlock()

	bb := summary.BigBlind
	if bb <= 0 {
		bb = 1
	}
	for _, p := range summary.Players {
		k := seatKey{summary.TableIndex, p.Seat}
		s, ok := t.seats[k]
		if !ok {
			s = &seatEV{}
			t.seats[k] = s
		}
		s.agent = p.Agent
		delta := p.Won - p.Contribution
		inBB := float64(delta) / float64(bb)
		s.chips += delta
		s.bb.Add(inBB)
		if len(s.recent) < t.window {
			s.recent = append(s.recent, delta)
			s.recBB = append(s.recBB, inBB)
		} else {
			s.recent[s.next] = delta
			s.recBB[s.next] = inBB
			s.next = (s.next + 1) % t.window
		}
	}
	t.hands++
}

// Hands returns the number of hands observed.
func (t *EVTracker) Hands() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hands
}

// Report returns one entry per seat, ordered by table then seat.
func (t *EVTracker) Report() []SeatEV {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]SeatEV, 0, len(t.seats))
	for k, s := range t.seats {
		low, high := s.bb.ConfidenceInterval95()
		r := SeatEV{
			Table:         k.table,
			Seat:          k.seat,
			Agent:         s.agent,
			Hands:         s.bb.Hands,
			ChipDelta:     s.chips,
			BBPer100:      s.bb.BBPer100(),
			CI95Low:       low,
			CI95High:      high,
			RollingWindow: len(s.recent),
		}
		if s.bb.Hands > 0 {
			r.EVPerHand = float64(s.chips) / float64(s.bb.Hands)
		}
		if n := len(s.recent); n > 0 {
			var chips int
			var bbs float64
			for i := range s.recent {
				chips += s.recent[i]
				bbs += s.recBB[i]
			}
			r.RollingEVPerHand = float64(chips) / float64(n)
			r.RollingBBPer100 = 100 * bbs / float64(n)
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Table != out[j].Table {
			return out[i].Table < out[j].Table
		}
		return out[i].Seat < out[j].Seat
	})
	return out
}
