package poker

import (
	"errors"
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists every suit in canonical deck order.
var Suits = [...]Suit{Spades, Hearts, Diamonds, Clubs}

// String returns the single-letter suit code.
func (s Suit) String() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// Symbol returns the unicode suit glyph used in terminal output.
func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Rank represents a card rank, Two=2 through Ace=14.
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankChars = "23456789TJQKA"

// String returns the rank character (2-9, T, J, Q, K, A).
func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankChars[r-Two])
}

// Valid reports whether the rank is in range.
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

// Card is an immutable playing card.
type Card struct {
	Rank Rank
	Suit Suit
}

// ErrInvalidCard is returned when parsing a malformed card string.
var ErrInvalidCard = errors.New("invalid card")

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the two-character form, e.g. "As" or "Td".
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Valid reports whether the card has a real rank and suit.
func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit <= Clubs
}

// MarshalText encodes the card in its two-character form.
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: rank=%d suit=%d", ErrInvalidCard, c.Rank, c.Suit)
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes the two-character form.
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses a card like "As", "Td" or "2c". Rank is case-insensitive.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	idx := strings.IndexByte(rankChars, upper(s[0]))
	if idx < 0 {
		return Card{}, fmt.Errorf("%w: bad rank in %q", ErrInvalidCard, s)
	}
	var suit Suit
	switch s[1] {
	case 's', 'S':
		suit = Spades
	case 'h', 'H':
		suit = Hearts
	case 'd', 'D':
		suit = Diamonds
	case 'c', 'C':
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("%w: bad suit in %q", ErrInvalidCard, s)
	}
	return Card{Rank: Two + Rank(idx), Suit: suit}, nil
}

// ParseCards parses a whitespace-separated or concatenated list of cards,
// e.g. "As Kd" or "AsKd".
func ParseCards(s string) ([]Card, error) {
	compact := strings.Join(strings.Fields(s), "")
	if len(compact)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length list %q", ErrInvalidCard, s)
	}
	cards := make([]Card, 0, len(compact)/2)
	for i := 0; i < len(compact); i += 2 {
		c, err := ParseCard(compact[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for fixed test and config inputs.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards joins cards with spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
