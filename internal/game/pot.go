package game

import (
	"slices"
	"sort"
)

// Contribution is one seat's total commitment to a hand.
type Contribution struct {
	Seat   int
	Amount int
	Folded bool
}

// Pot represents a pot (main or side)
type Pot struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"` // seats that can win it, ascending
}

// BuildPots partitions contributions into a main pot and side pots.
//
// Each distinct contribution level funds one pot from every seat that reached
// it; the seats able to win are the non-folded ones among them. Chips at a
// level nobody can win roll into the previous pot, or into the next one when
// there is no previous pot. Adjacent pots with the same eligible seats are
// merged, so eligibility strictly shrinks as the pot index grows.
func BuildPots(contribs []Contribution) []Pot {
	levels := make([]int, 0, len(contribs))
	for _, c := range contribs {
		if c.Amount > 0 {
			levels = append(levels, c.Amount)
		}
	}
	sort.Ints(levels)
	levels = slices.Compact(levels)

	var pots []Pot
	carry, prev := 0, 0
	for _, level := range levels {
		amount := carry
		var eligible []int
		for _, c := range contribs {
			if c.Amount < level {
				continue
			}
			amount += level - prev
			if !c.Folded {
				eligible = append(eligible, c.Seat)
			}
		}
		prev = level
		sort.Ints(eligible)

		switch {
		case len(eligible) == 0 && len(pots) > 0:
			pots[len(pots)-1].Amount += amount
			carry = 0
		case len(eligible) == 0:
			carry = amount
		case len(pots) > 0 && slices.Equal(pots[len(pots)-1].Eligible, eligible):
			pots[len(pots)-1].Amount += amount
			carry = 0
		default:
			pots = append(pots, Pot{Amount: amount, Eligible: eligible})
			carry = 0
		}
	}
	return pots
}

// TotalPot sums pot amounts.
func TotalPot(pots []Pot) int {
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	return total
}
