package evaluator

import (
	"fmt"

	ph "github.com/paulhankin/poker"

	"github.com/lox/holdemsim/poker"
)

// PaulHankin ranks hands with github.com/paulhankin/poker's table-driven
// evaluator. Its scores are larger for stronger hands.
type PaulHankin struct{}

// Rank implements Oracle.
func (PaulHankin) Rank(hole, board []poker.Card) (Score, error) {
	cards, err := combine(hole, board)
	if err != nil {
		return 0, err
	}
	converted := make([]ph.Card, len(cards))
	for i, c := range cards {
		pc, err := toPH(c)
		if err != nil {
			return 0, err
		}
		converted[i] = pc
	}

	switch len(converted) {
	case 7:
		var a7 [7]ph.Card
		copy(a7[:], converted)
		return Score(ph.Eval7(&a7)), nil
	case 5:
		var a5 [5]ph.Card
		copy(a5[:], converted)
		return Score(ph.Eval5(&a5)), nil
	default:
		return Score(bestOfFiveSubsets(converted)), nil
	}
}

func toPH(c poker.Card) (ph.Card, error) {
	var s ph.Suit
	switch c.Suit {
	case poker.Clubs:
		s = ph.Club
	case poker.Diamonds:
		s = ph.Diamond
	case poker.Hearts:
		s = ph.Heart
	case poker.Spades:
		s = ph.Spade
	}
	// The library numbers ranks 1..13 with the ace as 1.
	r := ph.Rank(c.Rank)
	if c.Rank == poker.Ace {
		r = ph.Rank(1)
	}
	card, err := ph.MakeCard(s, r)
	if err != nil {
		return card, fmt.Errorf("convert %s: %w", c, err)
	}
	return card, nil
}

// bestOfFiveSubsets evaluates every five-card subset of a six-card hand.
func bestOfFiveSubsets(cards []ph.Card) int16 {
	var five [5]ph.Card
	best := int16(-1 << 15)
	for skip := range cards {
		k := 0
		for i, c := range cards {
			if i == skip {
				continue
			}
			five[k] = c
			k++
		}
		if s := ph.Eval5(&five); s > best {
			best = s
		}
	}
	return best
}
