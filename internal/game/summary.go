package game

import "github.com/lox/holdemsim/poker"

// PlayerResult is one seat's outcome.
type PlayerResult struct {
	Seat          int          `json:"seat"`
	Agent         string       `json:"agent"`
	StartingStack int          `json:"starting_stack"`
	FinalStack    int          `json:"final_stack"`
	Contribution  int          `json:"contribution"`
	Won           int          `json:"won"`
	Folded        bool         `json:"folded"`
	AllIn         bool         `json:"all_in"`
	Hole          []poker.Card `json:"hole"`
}

// Net returns the seat's chip change over the hand.
func (p PlayerResult) Net() int {
	return p.FinalStack - p.StartingStack
}

// HandSummary is the immutable result of a hand. It is built once by the
// orchestrator and must not be modified by consumers.
type HandSummary struct {
	Sequence       int            `json:"sequence"`
	TableIndex     int            `json:"table"`
	HandNumber     int            `json:"hand"`
	Seed           int64          `json:"seed"`
	Button         int            `json:"button"`
	SmallBlindSeat int            `json:"sb_seat"`
	BigBlindSeat   int            `json:"bb_seat"`
	SmallBlind     int            `json:"small_blind"`
	BigBlind       int            `json:"big_blind"`
	Board          []poker.Card   `json:"board"`
	Players        []PlayerResult `json:"players"`
	Pots           []PotResult    `json:"pots"`
	TotalPot       int            `json:"total_pot"`
	Winners        []int          `json:"winners"` // main pot winners
	FinalStreet    Street         `json:"final_street"`
	Showdown       bool           `json:"showdown"`
}

// Player returns the result for seat.
func (s HandSummary) Player(seat int) (PlayerResult, bool) {
	for _, p := range s.Players {
		if p.Seat == seat {
			return p, true
		}
	}
	return PlayerResult{}, false
}

// FinalStacks maps each seat to its stack after the hand.
func (s HandSummary) FinalStacks() map[int]int {
	out := make(map[int]int, len(s.Players))
	for _, p := range s.Players {
		out[p.Seat] = p.FinalStack
	}
	return out
}
