package game

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfTurn is returned when a seat acts while another seat is to act.
	ErrOutOfTurn = errors.New("acting out of turn")
	// ErrIllegalAction is returned for an action that is not allowed in the
	// current betting state, such as checking while facing a bet.
	ErrIllegalAction = errors.New("illegal action")
	// ErrInvalidAmount is returned for negative, undersized or overshooting amounts.
	ErrInvalidAmount = errors.New("invalid amount")
)

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

var streetNames = [...]string{"preflop", "flop", "turn", "river", "showdown"}

func (s Street) String() string {
	if s < Preflop || s > Showdown {
		return "unknown"
	}
	return streetNames[s]
}

// MarshalText encodes the street name.
func (s Street) MarshalText() ([]byte, error) {
	if s < Preflop || s > Showdown {
		return nil, fmt.Errorf("unknown street %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a street name.
func (s *Street) UnmarshalText(text []byte) error {
	for i, name := range streetNames {
		if name == string(text) {
			*s = Street(i)
			return nil
		}
	}
	return fmt.Errorf("unknown street %q", text)
}

// ActionType is the kind of action a seat takes.
type ActionType int

const (
	Fold ActionType = iota
	Check
	Call
	Bet
	Raise
	// PostSmallBlind and PostBigBlind only appear in the action log.
	PostSmallBlind
	PostBigBlind
)

var actionNames = [...]string{"fold", "check", "call", "bet", "raise", "post_sb", "post_bb"}

func (a ActionType) String() string {
	if a < Fold || a > PostBigBlind {
		return "unknown"
	}
	return actionNames[a]
}

// MarshalText encodes the action name.
func (a ActionType) MarshalText() ([]byte, error) {
	if a < Fold || a > PostBigBlind {
		return nil, fmt.Errorf("unknown action %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText decodes an action name.
func (a *ActionType) UnmarshalText(text []byte) error {
	for i, name := range actionNames {
		if name == string(text) {
			*a = ActionType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown action %q", text)
}

// Action is a decision returned by an agent.
//
// For Bet, Amount is the total size of the bet. For Raise, Amount is the
// increment above the current high bet. Fold and Check carry no amount; a
// Call may leave Amount zero or set it to exactly the chips it commits.
type Action struct {
	Type   ActionType `json:"type"`
	Amount int        `json:"amount,omitempty"`
}

func (a Action) String() string {
	if a.Amount == 0 {
		return a.Type.String()
	}
	return fmt.Sprintf("%s %d", a.Type, a.Amount)
}

// Convenience constructors used by agents and tests.
func FoldAction() Action            { return Action{Type: Fold} }
func CheckAction() Action           { return Action{Type: Check} }
func CallAction() Action            { return Action{Type: Call} }
func BetAction(amount int) Action   { return Action{Type: Bet, Amount: amount} }
func RaiseAction(amount int) Action { return Action{Type: Raise, Amount: amount} }
