package game

import "fmt"

// RoundState is the state of a single street's action loop.
type RoundState int

const (
	// AwaitingAction means Current() names the seat that must act next.
	AwaitingAction RoundState = iota
	// StreetComplete means all bets are matched and no seat owes an action.
	StreetComplete
	// HandOverByFolds means at most one seat is left in the hand.
	HandOverByFolds
)

func (s RoundState) String() string {
	switch s {
	case AwaitingAction:
		return "awaiting_action"
	case StreetComplete:
		return "street_complete"
	case HandOverByFolds:
		return "hand_over_by_folds"
	default:
		return "unknown"
	}
}

// ActionResult describes an accepted action.
type ActionResult struct {
	Action    Action // normalised: a call with nothing owed becomes a check
	Committed int    // chips moved from stack to the pot
	AllIn     bool   // the action emptied the seat's stack
}

// BettingRound runs the action loop for one street. Players must be every
// dealt-in seat in clockwise order; the round mutates their bets, stacks and
// statuses and never reorders them.
type BettingRound struct {
	street   Street
	players  []*PlayerState
	bigBlind int
	highBet  int
	minRaise int // smallest legal raise increment
	acted    []bool
	current  int // index into players, -1 when no one is to act
	state    RoundState
}

// NewBettingRound starts a street. Bets already on the table (posted blinds)
// are honoured. firstToAct is the seat that acts first if it can; otherwise
// action passes clockwise to the next seat that can.
func NewBettingRound(street Street, players []*PlayerState, firstToAct int, bigBlind int) *BettingRound {
	br := &BettingRound{
		street:   street,
		players:  players,
		bigBlind: bigBlind,
		minRaise: bigBlind,
		acted:    make([]bool, len(players)),
		current:  -1,
	}
	for _, p := range players {
		br.highBet = max(br.highBet, p.Bet)
	}

	start := 0
	for i, p := range players {
		if p.Seat == firstToAct {
			start = i
			break
		}
	}
	br.advance(start)
	return br
}

// Street returns the street this round is betting on.
func (br *BettingRound) Street() Street { return br.street }

// State returns the current round state.
func (br *BettingRound) State() RoundState { return br.state }

// HighBet returns the largest bet on this street.
func (br *BettingRound) HighBet() int { return br.highBet }

// MinRaise returns the smallest legal raise increment.
func (br *BettingRound) MinRaise() int { return br.minRaise }

// Current returns the seat that must act, if any.
func (br *BettingRound) Current() (int, bool) {
	if br.state != AwaitingAction || br.current < 0 {
		return 0, false
	}
	return br.players[br.current].Seat, true
}

// ToCall returns the chips the seat needs to match the high bet.
func (br *BettingRound) ToCall(seat int) int {
	p := br.player(seat)
	if p == nil {
		return 0
	}
	return max(br.highBet-p.Bet, 0)
}

// Apply validates and applies an action for seat. Rejected actions leave the
// round unchanged.
func (br *BettingRound) Apply(seat int, a Action) (ActionResult, error) {
	if br.state != AwaitingAction {
		return ActionResult{}, fmt.Errorf("%w: %s betting is %s", ErrIllegalAction, br.street, br.state)
	}
	p := br.players[br.current]
	if p.Seat != seat {
		return ActionResult{}, fmt.Errorf("%w: seat %d acted, seat %d is to act", ErrOutOfTurn, seat, p.Seat)
	}
	if a.Amount < 0 {
		return ActionResult{}, fmt.Errorf("%w: negative amount %d", ErrInvalidAmount, a.Amount)
	}

	toCall := max(br.highBet-p.Bet, 0)
	result := ActionResult{Action: a}

	switch a.Type {
	case Fold:
		if a.Amount != 0 {
			return ActionResult{}, fmt.Errorf("%w: fold carries no amount", ErrInvalidAmount)
		}
		p.Status = StatusFolded

	case Check:
		if a.Amount != 0 {
			return ActionResult{}, fmt.Errorf("%w: check carries no amount", ErrInvalidAmount)
		}
		if toCall > 0 {
			return ActionResult{}, fmt.Errorf("%w: cannot check facing %d", ErrIllegalAction, toCall)
		}

	case Call:
		owed := min(toCall, p.Stack)
		if a.Amount != 0 && a.Amount != owed {
			return ActionResult{}, fmt.Errorf("%w: call of %d, owed %d", ErrInvalidAmount, a.Amount, owed)
		}
		if owed == 0 {
			result.Action = CheckAction()
			break
		}
		result.Action = Action{Type: Call, Amount: owed}
		result.Committed = p.commit(owed)

	case Bet:
		if br.highBet > 0 {
			return ActionResult{}, fmt.Errorf("%w: bet facing %d, use raise", ErrIllegalAction, br.highBet)
		}
		if err := br.checkSize(a.Amount, a.Amount, p.Stack, br.bigBlind); err != nil {
			return ActionResult{}, err
		}
		result.Committed = p.commit(a.Amount)
		br.raiseTo(p, a.Amount)

	case Raise:
		if br.highBet == 0 {
			return ActionResult{}, fmt.Errorf("%w: nothing to raise, use bet", ErrIllegalAction)
		}
		if err := br.checkSize(a.Amount, toCall+a.Amount, p.Stack, br.minRaise); err != nil {
			return ActionResult{}, err
		}
		result.Committed = p.commit(toCall + a.Amount)
		br.raiseTo(p, a.Amount)

	default:
		return ActionResult{}, fmt.Errorf("%w: %s", ErrIllegalAction, a.Type)
	}

	result.AllIn = p.Status == StatusAllIn
	br.acted[br.current] = true
	br.advance(br.current + 1)
	return result, nil
}

// checkSize validates a bet or raise. increment is the amount added to the
// high bet, need the chips it costs, and floor the minimum increment unless
// the action puts the seat all-in.
func (br *BettingRound) checkSize(increment, need, stack, floor int) error {
	switch {
	case increment <= 0:
		return fmt.Errorf("%w: %d must be positive", ErrInvalidAmount, increment)
	case need > stack:
		return fmt.Errorf("%w: needs %d, stack is %d", ErrInvalidAmount, need, stack)
	case increment < floor && need < stack:
		return fmt.Errorf("%w: %d below minimum %d", ErrInvalidAmount, increment, floor)
	}
	return nil
}

// raiseTo records a new high bet from p. Every other seat must act again; only
// a full-sized increment changes the minimum raise.
func (br *BettingRound) raiseTo(p *PlayerState, increment int) {
	if increment >= br.minRaise {
		br.minRaise = increment
	}
	br.highBet = p.Bet
	for i, other := range br.players {
		if other != p {
			br.acted[i] = false
		}
	}
}

// advance re-evaluates termination and, if the street continues, moves action
// to the first seat clockwise from index from that still owes an action.
func (br *BettingRound) advance(from int) {
	br.current = -1

	inHand, canAct := 0, 0
	var lone *PlayerState
	for _, p := range br.players {
		if p.InHand() {
			inHand++
		}
		if p.CanAct() {
			canAct++
			lone = p
		}
	}
	switch {
	case inHand <= 1:
		br.state = HandOverByFolds
		return
	case canAct == 0, canAct == 1 && lone.Bet >= br.highBet:
		// No one left to bet against.
		br.state = StreetComplete
		return
	}

	n := len(br.players)
	for off := range n {
		i := (from + off) % n
		p := br.players[i]
		if p.CanAct() && (!br.acted[i] || p.Bet < br.highBet) {
			br.current = i
			br.state = AwaitingAction
			return
		}
	}
	br.state = StreetComplete
}

func (br *BettingRound) player(seat int) *PlayerState {
	for _, p := range br.players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}
