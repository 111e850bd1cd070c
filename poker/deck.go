package poker

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

// ErrDeckExhausted is returned when a deal or burn asks for more cards than remain.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is an ordered 52-card deck consumed from the top. A deck belongs to a
// single hand and is never shared.
type Deck struct {
	cards [52]Card
	next  int
}

// NewDeck creates an unshuffled deck in canonical order (suits, then ranks).
func NewDeck() *Deck {
	d := &Deck{}
	i := 0
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}
	return d
}

// NewStackedDeck returns a deck whose top cards are top, in order, followed by
// the remaining cards in canonical order. It is meant for replaying known
// deals and for tests.
func NewStackedDeck(top []Card) (*Deck, error) {
	d := &Deck{}
	used := make(map[Card]bool, len(top))
	for i, c := range top {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCard, c)
		}
		if used[c] {
			return nil, fmt.Errorf("stacked deck: duplicate card %s", c)
		}
		used[c] = true
		d.cards[i] = c
	}
	i := len(top)
	for _, c := range NewDeck().cards {
		if !used[c] {
			d.cards[i] = c
			i++
		}
	}
	return d, nil
}

// Shuffle restores all 52 cards and permutes them with Fisher-Yates using the
// caller's seeded source.
func (d *Deck) Shuffle(rng *rand.Rand) {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns n cards from the top of the deck.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("deal %d cards: negative count", n)
	}
	if d.Remaining() < n {
		return nil, fmt.Errorf("deal %d cards: %w (%d remaining)", n, ErrDeckExhausted, d.Remaining())
	}
	out := make([]Card, n)
	copy(out, d.cards[d.next:d.next+n])
	d.next += n
	return out, nil
}

// Burn discards the top card.
func (d *Deck) Burn() error {
	if d.Remaining() < 1 {
		return fmt.Errorf("burn: %w", ErrDeckExhausted)
	}
	d.next++
	return nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
