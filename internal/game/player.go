package game

import (
	"fmt"

	"github.com/lox/holdemsim/poker"
)

// PlayerStatus is a seat's participation state within a hand.
type PlayerStatus int

const (
	StatusActive PlayerStatus = iota
	StatusFolded
	StatusAllIn
	StatusSittingOut
)

var statusNames = [...]string{"active", "folded", "allin", "sitting_out"}

func (s PlayerStatus) String() string {
	if s < StatusActive || s > StatusSittingOut {
		return "unknown"
	}
	return statusNames[s]
}

// MarshalText encodes the status name.
func (s PlayerStatus) MarshalText() ([]byte, error) {
	if s < StatusActive || s > StatusSittingOut {
		return nil, fmt.Errorf("unknown status %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *PlayerStatus) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = PlayerStatus(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// PlayerState represents a seat during one hand
type PlayerState struct {
	Seat         int
	Agent        string
	Stack        int // chips behind
	Bet          int // committed on the current street
	Contribution int // committed over the whole hand
	Status       PlayerStatus
	Hole         []poker.Card
}

// CanAct returns true if the player still makes betting decisions.
func (p *PlayerState) CanAct() bool {
	return p.Status == StatusActive
}

// InHand returns true if the player can still win a pot.
func (p *PlayerState) InHand() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}

// commit moves up to amount chips from the stack into the current bet and
// returns the chips actually moved. Emptying the stack makes the player all-in.
func (p *PlayerState) commit(amount int) int {
	if amount > p.Stack {
		amount = p.Stack
	}
	p.Stack -= amount
	p.Bet += amount
	p.Contribution += amount
	if p.Stack == 0 && p.Status == StatusActive {
		p.Status = StatusAllIn
	}
	return amount
}
