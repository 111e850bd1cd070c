package game

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/holdemsim/internal/evaluator"
	"github.com/lox/holdemsim/internal/randutil"
	"github.com/lox/holdemsim/poker"
)

// Phase is a step of the hand state machine.
type Phase int

const (
	PhasePostBlinds Phase = iota
	PhasePreflopBetting
	PhaseFlop
	PhaseFlopBetting
	PhaseTurn
	PhaseTurnBetting
	PhaseRiver
	PhaseRiverBetting
	PhaseShowdown
	PhaseDone
)

func (p Phase) String() string {
	return [...]string{
		"post_blinds", "preflop_betting", "flop", "flop_betting", "turn",
		"turn_betting", "river", "river_betting", "showdown", "done",
	}[p]
}

// HandResult is a completed hand and the events it produced.
type HandResult struct {
	Summary HandSummary
	Events  []Event
}

// HandRunner plays hands. It holds no per-hand state and may be shared by
// goroutines as long as the oracle and agent factory are safe to share.
type HandRunner struct {
	oracle   evaluator.Oracle
	agents   AgentFactory
	logger   *log.Logger
	openSink SinkOpener
	stacked  []poker.Card
}

// NewHandRunner creates a HandRunner that ranks showdowns with oracle and
// seats agents built by agents.
func NewHandRunner(oracle evaluator.Oracle, agents AgentFactory, opts ...HandOption) *HandRunner {
	r := defaultHandRunner()
	r.oracle = oracle
	r.agents = agents
	for _, opt := range opts {
		opt(&r)
	}
	return &r
}

// Play runs task to completion. On error no summary is produced; the event
// sink is closed on every path.
func (r *HandRunner) Play(task HandTask) (res HandResult, err error) {
	if err := task.Validate(); err != nil {
		return HandResult{}, err
	}

	sink, err := r.openSink(task)
	if err != nil {
		return HandResult{}, fmt.Errorf("%s: open event sink: %w", task.HandID(), err)
	}
	rec := NewRecorder()
	tee := teeSink{rec: rec, next: sink}
	defer func() {
		if cerr := tee.Close(); cerr != nil && err == nil {
			res, err = HandResult{}, fmt.Errorf("%s: close event sink: %w", task.HandID(), cerr)
		}
	}()

	h, err := r.newHand(task, tee)
	if err != nil {
		return HandResult{}, fmt.Errorf("%s: %w", task.HandID(), err)
	}
	for phase := PhasePostBlinds; phase != PhaseDone; {
		next, err := h.step(phase)
		if err != nil {
			return HandResult{}, fmt.Errorf("%s %s: %w", task.HandID(), phase, err)
		}
		phase = next
	}

	r.logger.Debug("hand complete",
		"hand", task.HandID(),
		"pot", h.summary.TotalPot,
		"winners", h.summary.Winners,
		"street", h.summary.FinalStreet)
	return HandResult{Summary: h.summary, Events: rec.Events()}, nil
}

// hand is the mutable state of one hand in progress.
type hand struct {
	task    HandTask
	oracle  evaluator.Oracle
	sink    EventSink
	deck    *poker.Deck
	players []*PlayerState // ascending seat order, which is clockwise
	agents  map[int]Agent
	board   []poker.Card
	street  Street
	events  int
	summary HandSummary
}

func (r *HandRunner) newHand(task HandTask, sink EventSink) (*hand, error) {
	h := &hand{
		task:   task,
		oracle: r.oracle,
		sink:   sink,
		agents: make(map[int]Agent, len(task.Seats)),
	}

	if r.stacked != nil {
		d, err := poker.NewStackedDeck(r.stacked)
		if err != nil {
			return nil, err
		}
		h.deck = d
	} else {
		h.deck = poker.NewDeck()
		h.deck.Shuffle(randutil.New(task.Seed))
	}

	for _, s := range task.Seats {
		agent, err := r.agents(s.Agent, randutil.Derive(task.Seed, int64(s.Seat)))
		if err != nil {
			return nil, fmt.Errorf("seat %d agent %q: %w", s.Seat, s.Agent, err)
		}
		h.agents[s.Seat] = agent
		h.players = append(h.players, &PlayerState{
			Seat:  s.Seat,
			Agent: s.Agent,
			Stack: s.Stack,
		})
	}
	return h, nil
}

func (h *hand) step(phase Phase) (Phase, error) {
	switch phase {
	case PhasePostBlinds:
		if err := h.postBlinds(); err != nil {
			return phase, err
		}
		return PhasePreflopBetting, h.dealHoles()
	case PhasePreflopBetting:
		return h.afterBetting(Preflop, PhaseFlop)
	case PhaseFlop:
		return PhaseFlopBetting, h.dealStreet(3)
	case PhaseFlopBetting:
		return h.afterBetting(Flop, PhaseTurn)
	case PhaseTurn:
		return PhaseTurnBetting, h.dealStreet(1)
	case PhaseTurnBetting:
		return h.afterBetting(Turn, PhaseRiver)
	case PhaseRiver:
		return PhaseRiverBetting, h.dealStreet(1)
	case PhaseRiverBetting:
		return h.afterBetting(River, PhaseShowdown)
	case PhaseShowdown:
		return PhaseDone, h.showdown()
	}
	return phase, fmt.Errorf("unknown phase %d", phase)
}

// afterBetting runs a street and picks the next phase. Once one seat is left
// the hand goes straight to settlement without dealing more cards.
func (h *hand) afterBetting(street Street, next Phase) (Phase, error) {
	if err := h.bet(street); err != nil {
		return PhaseDone, err
	}
	if h.inHand() <= 1 {
		return PhaseShowdown, nil
	}
	return next, nil
}

func (h *hand) postBlinds() error {
	for _, blind := range []struct {
		seat   int
		amount int
		action ActionType
	}{
		{h.task.SmallBlindSeat, h.task.SmallBlind, PostSmallBlind},
		{h.task.BigBlindSeat, h.task.BigBlind, PostBigBlind},
	} {
		p := h.player(blind.seat)
		committed := p.commit(blind.amount)
		if err := h.emitAction(p, blind.action, committed, 0); err != nil {
			return err
		}
	}
	return nil
}

// dealHoles deals two rounds of one card, starting left of the button.
func (h *hand) dealHoles() error {
	start := h.index(h.task.Button) + 1
	n := len(h.players)
	for range 2 {
		for off := range n {
			p := h.players[(start+off)%n]
			card, err := h.deck.Deal(1)
			if err != nil {
				return err
			}
			p.Hole = append(p.Hole, card[0])
		}
	}
	return nil
}

func (h *hand) dealStreet(n int) error {
	if err := h.deck.Burn(); err != nil {
		return err
	}
	cards, err := h.deck.Deal(n)
	if err != nil {
		return err
	}
	h.board = append(h.board, cards...)
	return nil
}

func (h *hand) bet(street Street) error {
	h.street = street
	first := h.nextSeat(h.task.Button)
	if street == Preflop {
		first = h.nextSeat(h.task.BigBlindSeat)
	} else {
		for _, p := range h.players {
			p.Bet = 0
		}
	}

	br := NewBettingRound(street, h.players, first, h.task.BigBlind)
	for br.State() == AwaitingAction {
		seat, _ := br.Current()
		p := h.player(seat)
		snap := h.snapshot(p, br)

		action, err := h.agents[seat].Decide(snap)
		if err != nil {
			return fmt.Errorf("seat %d agent %s: %w", seat, p.Agent, err)
		}
		res, err := br.Apply(seat, action)
		if err != nil {
			return fmt.Errorf("seat %d agent %s %s: %w", seat, p.Agent, action, err)
		}
		if err := h.emitAction(p, res.Action.Type, res.Committed, snap.ToCall); err != nil {
			return err
		}
	}
	return nil
}

func (h *hand) snapshot(p *PlayerState, br *BettingRound) Snapshot {
	return Snapshot{
		Seat:       p.Seat,
		Street:     br.Street(),
		Hole:       append([]poker.Card(nil), p.Hole...),
		Board:      append([]poker.Card(nil), h.board...),
		Pot:        h.pot(),
		ToCall:     br.ToCall(p.Seat),
		Stack:      p.Stack,
		Bet:        p.Bet,
		CurrentBet: br.HighBet(),
		MinRaise:   br.MinRaise(),
		BigBlind:   h.task.BigBlind,
		InHand:     h.inHand(),
	}
}

func (h *hand) emitAction(p *PlayerState, action ActionType, committed, toCall int) error {
	stacks := make(map[int]int, len(h.players))
	for _, other := range h.players {
		stacks[other.Seat] = other.Stack
	}
	e := ActionEvent{
		HandID:     h.task.HandID(),
		TableIndex: h.task.TableIndex,
		HandNumber: h.task.HandNumber,
		Index:      h.events,
		Street:     h.street,
		Seat:       p.Seat,
		Agent:      p.Agent,
		Action:     action,
		Amount:     committed,
		ToCall:     toCall,
		Pot:        h.pot(),
		Stack:      p.Stack,
		Board:      append([]poker.Card(nil), h.board...),
		Hole:       append([]poker.Card(nil), p.Hole...),
		Stacks:     stacks,
	}
	h.events++
	if err := h.sink.RecordAction(e); err != nil {
		return fmt.Errorf("record action: %w", err)
	}
	return nil
}

func (h *hand) showdown() error {
	contribs := make([]Contribution, len(h.players))
	holes := make(map[int][]poker.Card)
	for i, p := range h.players {
		contribs[i] = Contribution{Seat: p.Seat, Amount: p.Contribution, Folded: !p.InHand()}
		if p.InHand() {
			holes[p.Seat] = p.Hole
		}
	}

	// Odd chips go to the first winners clockwise from the button.
	order := make([]int, 0, len(h.players))
	for seat, off := h.task.Button, 0; off < len(h.players); off++ {
		seat = h.nextSeat(seat)
		order = append(order, seat)
	}

	pots := BuildPots(contribs)
	settled, err := Settle(pots, h.board, holes, h.oracle, order)
	if err != nil {
		return err
	}

	s := HandSummary{
		Sequence:       h.task.Sequence,
		TableIndex:     h.task.TableIndex,
		HandNumber:     h.task.HandNumber,
		Seed:           h.task.Seed,
		Button:         h.task.Button,
		SmallBlindSeat: h.task.SmallBlindSeat,
		BigBlindSeat:   h.task.BigBlindSeat,
		SmallBlind:     h.task.SmallBlind,
		BigBlind:       h.task.BigBlind,
		Board:          append([]poker.Card(nil), h.board...),
		Pots:           settled.Pots,
		TotalPot:       TotalPot(pots),
		FinalStreet:    h.street,
		Showdown:       len(holes) > 1,
	}
	if len(settled.Pots) > 0 {
		s.Winners = settled.Pots[0].Winners
	}

	final := 0
	for i, p := range h.players {
		won := settled.Payouts[p.Seat]
		s.Players = append(s.Players, PlayerResult{
			Seat:          p.Seat,
			Agent:         p.Agent,
			StartingStack: h.task.Seats[i].Stack,
			FinalStack:    p.Stack + won,
			Contribution:  p.Contribution,
			Won:           won,
			Folded:        p.Status == StatusFolded,
			AllIn:         p.Status == StatusAllIn,
			Hole:          p.Hole,
		})
		final += p.Stack + won
	}
	if start := h.task.TotalChips(); final != start {
		return fmt.Errorf("%w: %d chips in, %d out", ErrChipConservation, start, final)
	}

	contributions := make(map[int]int, len(contribs))
	for _, c := range contribs {
		contributions[c.Seat] = c.Amount
	}
	if err := h.sink.RecordShowdown(ShowdownEvent{
		HandID:        h.task.HandID(),
		TableIndex:    h.task.TableIndex,
		HandNumber:    h.task.HandNumber,
		Index:         h.events,
		Board:         s.Board,
		Contributions: contributions,
		Holes:         holes,
		Pots:          s.Pots,
		Winners:       s.Winners,
		Showdown:      s.Showdown,
	}); err != nil {
		return fmt.Errorf("record showdown: %w", err)
	}
	h.events++
	h.summary = s
	return nil
}

func (h *hand) pot() int {
	total := 0
	for _, p := range h.players {
		total += p.Contribution
	}
	return total
}

func (h *hand) inHand() int {
	n := 0
	for _, p := range h.players {
		if p.InHand() {
			n++
		}
	}
	return n
}

func (h *hand) index(seat int) int {
	for i, p := range h.players {
		if p.Seat == seat {
			return i
		}
	}
	return -1
}

func (h *hand) player(seat int) *PlayerState {
	return h.players[h.index(seat)]
}

// nextSeat returns the dealt-in seat clockwise after seat.
func (h *hand) nextSeat(seat int) int {
	return h.players[(h.index(seat)+1)%len(h.players)].Seat
}
