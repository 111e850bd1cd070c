package game

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lox/holdemsim/internal/evaluator"
	"github.com/lox/holdemsim/poker"
)

// ErrChipConservation is returned when payouts do not match what was put in.
var ErrChipConservation = errors.New("chip conservation violated")

// SeatAmount pairs a seat with a chip amount.
type SeatAmount struct {
	Seat   int `json:"seat"`
	Amount int `json:"amount"`
}

// PotResult is a settled pot.
type PotResult struct {
	Pot
	Winners []int        `json:"winners"`
	Payouts []SeatAmount `json:"payouts"`
}

// Settlement is the outcome of distributing every pot.
type Settlement struct {
	Pots    []PotResult
	Payouts map[int]int // total chips won per seat
}

// Settle awards each pot to the best eligible hand. Pots with a single
// eligible seat are awarded without consulting the oracle. Tied winners split
// evenly; leftover chips go one each to the first tied seats in order, which
// the caller gives clockwise starting left of the button.
func Settle(pots []Pot, board []poker.Card, holes map[int][]poker.Card, oracle evaluator.Oracle, order []int) (Settlement, error) {
	out := Settlement{
		Pots:    make([]PotResult, 0, len(pots)),
		Payouts: make(map[int]int),
	}
	scores := make(map[int]evaluator.Score)

	for i, pot := range pots {
		if len(pot.Eligible) == 0 {
			return Settlement{}, fmt.Errorf("pot %d has no eligible seats", i)
		}

		winners := pot.Eligible
		if len(pot.Eligible) > 1 {
			var best evaluator.Score
			winners = nil
			for _, seat := range pot.Eligible {
				s, ok := scores[seat]
				if !ok {
					var err error
					s, err = oracle.Rank(holes[seat], board)
					if err != nil {
						return Settlement{}, fmt.Errorf("rank seat %d: %w", seat, err)
					}
					scores[seat] = s
				}
				switch {
				case len(winners) == 0 || s > best:
					best = s
					winners = []int{seat}
				case s == best:
					winners = append(winners, seat)
				}
			}
		}

		winners = orderSeats(winners, order)
		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		result := PotResult{Pot: pot, Winners: winners}
		// Leftover chips go one each to the earliest winners clockwise.
		for j, seat := range winners {
			amount := share
			if j < remainder {
				amount++
			}
			result.Payouts = append(result.Payouts, SeatAmount{Seat: seat, Amount: amount})
			out.Payouts[seat] += amount
		}
		out.Pots = append(out.Pots, result)
	}

	paid := 0
	for _, amount := range out.Payouts {
		paid += amount
	}
	if total := TotalPot(pots); paid != total {
		return Settlement{}, fmt.Errorf("%w: paid %d from pots of %d", ErrChipConservation, paid, total)
	}
	return out, nil
}

// orderSeats sorts seats by their position in order. Seats missing from order
// keep ascending seat order after the rest.
func orderSeats(seats, order []int) []int {
	pos := func(seat int) int {
		if i := slices.Index(order, seat); i >= 0 {
			return i
		}
		return len(order) + seat
	}
	out := slices.Clone(seats)
	slices.SortStableFunc(out, func(a, b int) int { return pos(a) - pos(b) })
	return out
}
