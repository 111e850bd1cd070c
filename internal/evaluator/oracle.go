// Package evaluator ranks poker hands for showdown. Oracles are pure: the
// same hole and board cards always produce the same Score, and a higher Score
// is a stronger hand.
package evaluator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lox/holdemsim/poker"
)

var (
	// ErrCardCount is returned when hole plus board is not 5 to 7 cards.
	ErrCardCount = errors.New("hand must contain 5 to 7 cards")
	// ErrDuplicateCard is returned when the same card appears twice.
	ErrDuplicateCard = errors.New("duplicate card")
	// ErrUnknownOracle is returned by Lookup for an unregistered name.
	ErrUnknownOracle = errors.New("unknown evaluator")
)

// Score orders hands; higher is stronger. Scores are only comparable when
// produced by the same Oracle.
type Score int32

// Oracle ranks a player's best five-card hand from hole and board cards.
type Oracle interface {
	Rank(hole, board []poker.Card) (Score, error)
}

// OracleFunc adapts a plain function into an Oracle.
type OracleFunc func(hole, board []poker.Card) (Score, error)

// Rank implements Oracle.
func (f OracleFunc) Rank(hole, board []poker.Card) (Score, error) {
	return f(hole, board)
}

// DefaultOracle is used when no evaluator is configured.
const DefaultOracle = "native"

var registry = map[string]func() Oracle{
	"native":     func() Oracle { return Native{} },
	"paulhankin": func() Oracle { return PaulHankin{} },
}

// Lookup returns the oracle registered under name.
func Lookup(name string) (Oracle, error) {
	if name == "" {
		name = DefaultOracle
	}
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownOracle, name, Names())
	}
	return ctor(), nil
}

// Names lists registered oracle names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// combine validates and concatenates hole and board cards.
func combine(hole, board []poker.Card) ([]poker.Card, error) {
	n := len(hole) + len(board)
	if n < 5 || n > 7 {
		return nil, fmt.Errorf("%w: got %d", ErrCardCount, n)
	}
	cards := make([]poker.Card, 0, n)
	seen := make(map[poker.Card]struct{}, n)
	for _, set := range [2][]poker.Card{hole, board} {
		for _, c := range set {
			if !c.Valid() {
				return nil, fmt.Errorf("%w: %v", poker.ErrInvalidCard, c)
			}
			if _, dup := seen[c]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateCard, c)
			}
			seen[c] = struct{}{}
			cards = append(cards, c)
		}
	}
	return cards, nil
}
