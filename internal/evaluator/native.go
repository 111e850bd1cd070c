package evaluator

import (
	"math/bits"

	"github.com/lox/holdemsim/poker"
)

// HandType enumerates hand categories from weakest to strongest.
type HandType uint8

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable hand category.
func (t HandType) String() string {
	switch t {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Native scores are laid out as category<<20 followed by up to five 4-bit
// rank values, most significant first.
const categoryShift = 20

// Type returns the category of a Native score.
func (s Score) Type() HandType {
	return HandType(s >> categoryShift)
}

// Native is a bitmask evaluator over rank and suit masks.
type Native struct{}

// Rank implements Oracle.
func (Native) Rank(hole, board []poker.Card) (Score, error) {
	cards, err := combine(hole, board)
	if err != nil {
		return 0, err
	}
	return Evaluate(cards), nil
}

// Evaluate scores 5 to 7 distinct valid cards. Callers that have not
// validated their input should go through Native.Rank.
func Evaluate(cards []poker.Card) Score {
	var suitMasks [4]uint16
	var rankMask uint16
	var counts [15]uint8
	for _, c := range cards {
		bit := uint16(1) << c.Rank
		suitMasks[c.Suit] |= bit
		rankMask |= bit
		counts[c.Rank]++
	}

	for _, mask := range suitMasks {
		if bits.OnesCount16(mask) < 5 {
			continue
		}
		if high := straightHigh(mask); high > 0 {
			return score(StraightFlush, high)
		}
		// Quads and full houses cannot coexist with a flush in 7 cards.
		return score(Flush, topRanks(mask, 5)...)
	}

	var quads, trips, pairs []poker.Rank
	for r := poker.Ace; r >= poker.Two; r-- {
		switch counts[r] {
		case 4:
			quads = append(quads, r)
		case 3:
			trips = append(trips, r)
		case 2:
			pairs = append(pairs, r)
		}
	}

	switch {
	case len(quads) > 0:
		return score(FourOfAKind, quads[0], topRanks(rankMask&^bitOf(quads[0]), 1)[0])
	case len(trips) > 0 && (len(trips) > 1 || len(pairs) > 0):
		pair := poker.Rank(0)
		if len(trips) > 1 {
			pair = trips[1]
		}
		if len(pairs) > 0 && pairs[0] > pair {
			pair = pairs[0]
		}
		return score(FullHouse, trips[0], pair)
	}

	if high := straightHigh(rankMask); high > 0 {
		return score(Straight, high)
	}

	switch {
	case len(trips) > 0:
		rest := rankMask &^ bitOf(trips[0])
		return score(ThreeOfAKind, append([]poker.Rank{trips[0]}, topRanks(rest, 2)...)...)
	case len(pairs) >= 2:
		rest := rankMask &^ bitOf(pairs[0]) &^ bitOf(pairs[1])
		return score(TwoPair, pairs[0], pairs[1], topRanks(rest, 1)[0])
	case len(pairs) == 1:
		rest := rankMask &^ bitOf(pairs[0])
		return score(Pair, append([]poker.Rank{pairs[0]}, topRanks(rest, 3)...)...)
	}
	return score(HighCard, topRanks(rankMask, 5)...)
}

func score(t HandType, ranks ...poker.Rank) Score {
	s := Score(t) << categoryShift
	shift := categoryShift
	for _, r := range ranks {
		shift -= 4
		s |= Score(r) << shift
	}
	return s
}

func bitOf(r poker.Rank) uint16 {
	return uint16(1) << r
}

// straightHigh returns the top rank of the best straight in mask, or 0.
// The ace also plays low in the wheel (A-2-3-4-5).
func straightHigh(mask uint16) poker.Rank {
	if mask&bitOf(poker.Ace) != 0 {
		mask |= 1 << 1
	}
	for high := poker.Ace; high >= poker.Five; high-- {
		run := uint16(0x1f) << (high - 4)
		if mask&run == run {
			return high
		}
	}
	return 0
}

// topRanks returns the n highest ranks set in mask, descending.
func topRanks(mask uint16, n int) []poker.Rank {
	out := make([]poker.Rank, 0, n)
	for r := poker.Ace; r >= poker.Two && len(out) < n; r-- {
		if mask&bitOf(r) != 0 {
			out = append(out, r)
		}
	}
	return out
}
