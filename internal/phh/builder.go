package phh

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/lox/holdemsim/internal/game"
	"github.com/lox/holdemsim/poker"
)

// BuildOptions control how a hand is rendered.
type BuildOptions struct {
	Variant     string
	Table       string
	RevealHoles bool // deal hole cards face up instead of ????
	MinBet      int  // defaults to the big blind posted
	Time        time.Time
}

// Build reconstructs a hand history from one hand's recorded events.
func Build(actions []game.ActionEvent, sd game.ShowdownEvent, opts BuildOptions) (*HandHistory, error) {
	if len(actions) == 0 {
		return nil, errors.New("phh: hand has no actions")
	}
	first := actions[0]

	// Stacks before the first post.
	starting := make(map[int]int, len(first.Stacks))
	for seat, stack := range first.Stacks {
		starting[seat] = stack
	}
	starting[first.Seat] += first.Amount

	seats := make([]int, 0, len(starting))
	for seat := range starting {
		seats = append(seats, seat)
	}
	slices.Sort(seats)

	sb := first.Seat
	for _, a := range actions {
		if a.Action == game.PostSmallBlind {
			sb = a.Seat
			break
		}
	}
	if i := slices.Index(seats, sb); i > 0 {
		seats = append(slices.Clone(seats[i:]), seats[:i]...)
	}
	player := make(map[int]int, len(seats))
	for i, seat := range seats {
		player[seat] = i
	}

	n := len(seats)
	h := &HandHistory{
		Variant:           opts.Variant,
		Table:             opts.Table,
		SeatCount:         n,
		Seats:             make([]int, n),
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
		StartingStacks:    make([]int, n),
		FinishingStacks:   make([]int, n),
		Winnings:          make([]int, n),
		Players:           make([]string, n),
		HandID:            sd.HandID,
		MinBet:            opts.MinBet,
	}
	if h.Variant == "" {
		h.Variant = DefaultVariant
	}
	h.SetTime(opts.Time)

	holes := make(map[int][]poker.Card, n)
	for _, a := range actions {
		if len(a.Hole) == 2 {
			holes[a.Seat] = a.Hole
		}
		if p, ok := player[a.Seat]; ok && h.Players[p] == "" {
			h.Players[p] = a.Agent
		}
	}
	for seat, hole := range sd.Holes {
		holes[seat] = hole
	}

	for i, seat := range seats {
		h.Seats[i] = seat + 1
		h.StartingStacks[i] = starting[seat]
		if h.Players[i] == "" {
			h.Players[i] = fmt.Sprintf("seat%d", seat)
		}
	}

	dealt := false
	deal := func() {
		if dealt {
			return
		}
		for i, seat := range seats {
			h.Actions = append(h.Actions, DealHole(i, holes[seat], opts.RevealHoles))
		}
		dealt = true
	}
	board := 0
	dealBoard := func(cards []poker.Card) {
		if len(cards) > board {
			h.Actions = append(h.Actions, DealBoard(cards[board:]))
			board = len(cards)
		}
	}

	street := first.Street
	bets := make(map[int]int, n)
	for _, a := range actions {
		p, ok := player[a.Seat]
		if !ok {
			return nil, fmt.Errorf("phh: seat %d acted but was not dealt in", a.Seat)
		}
		if a.Street != street {
			street = a.Street
			clear(bets)
		}
		bets[a.Seat] += a.Amount
		switch a.Action {
		case game.PostSmallBlind, game.PostBigBlind:
			h.BlindsOrStraddles[p] += a.Amount
			if a.Action == game.PostBigBlind && h.MinBet == 0 {
				h.MinBet = a.Amount
			}
			continue
		}
		deal()
		dealBoard(a.Board)
		if s, ok := FormatAction(p, a.Action, bets[a.Seat]); ok {
			h.Actions = append(h.Actions, s)
		}
	}
	deal()
	dealBoard(sd.Board)

	if sd.Showdown {
		for i, seat := range seats {
			if hole, ok := sd.Holes[seat]; ok {
				h.Actions = append(h.Actions, ShowCards(i, hole))
			}
		}
	}

	for _, pot := range sd.Pots {
		for _, pay := range pot.Payouts {
			if p, ok := player[pay.Seat]; ok {
				h.Winnings[p] += pay.Amount
			}
		}
	}
	for i, seat := range seats {
		h.FinishingStacks[i] = h.StartingStacks[i] - sd.Contributions[seat] + h.Winnings[i]
	}
	return h, nil
}
