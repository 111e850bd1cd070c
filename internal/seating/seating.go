// Package seating owns one table's seats, stacks and button across a run.
package seating

import (
	"errors"
	"fmt"

	"github.com/lox/holdemsim/internal/game"
)

const (
	MinSeats = 2
	MaxSeats = 9
)

var (
	// ErrInvalidConfig is returned for a table that cannot be started.
	ErrInvalidConfig = errors.New("invalid table config")
	// ErrTableFinished is returned once fewer than two seats have chips.
	ErrTableFinished = errors.New("table finished")
	// ErrOutOfOrder is returned when a result arrives for the wrong table or hand.
	ErrOutOfOrder = errors.New("hand result out of order")
)

// TableConfig is fixed for the life of a table.
type TableConfig struct {
	Name       string
	Stacks     []int    // initial buy-in per seat
	Agents     []string // agent name per seat
	SmallBlind int
	BigBlind   int
	AutoReload bool
	// ReloadBelow is the stack under which auto-reload restores the buy-in.
	// Zero means the big blind.
	ReloadBelow int
}

// Validate checks the config.
func (c TableConfig) Validate() error {
	n := len(c.Stacks)
	switch {
	case n < MinSeats || n > MaxSeats:
		return fmt.Errorf("%w: Texas Hold'em tables must have between %d and %d seats, got %d", ErrInvalidConfig, MinSeats, MaxSeats, n)
	case len(c.Agents) != n:
		return fmt.Errorf("%w: %d stacks but %d agents", ErrInvalidConfig, n, len(c.Agents))
	case c.SmallBlind <= 0 || c.BigBlind < c.SmallBlind:
		return fmt.Errorf("%w: blinds %d/%d", ErrInvalidConfig, c.SmallBlind, c.BigBlind)
	case c.ReloadBelow < 0:
		return fmt.Errorf("%w: negative reload threshold", ErrInvalidConfig)
	}
	for i, s := range c.Stacks {
		if s <= 0 {
			return fmt.Errorf("%w: seat %d stack %d must be positive", ErrInvalidConfig, i, s)
		}
	}
	for i, a := range c.Agents {
		if a == "" {
			return fmt.Errorf("%w: seat %d has no agent", ErrInvalidConfig, i)
		}
	}
	return nil
}

func (c TableConfig) reloadThreshold() int {
	if c.ReloadBelow > 0 {
		return c.ReloadBelow
	}
	return c.BigBlind
}

// SeatState is the persisted state of one seat.
type SeatState struct {
	Seat       int    `json:"seat"`
	Agent      string `json:"agent"`
	Stack      int    `json:"stack"`
	Eliminated bool   `json:"eliminated,omitempty"`
	Reloads    int    `json:"reloads,omitempty"`
}

// Status reports whether the seat is dealt into the next hand. Eliminated
// and empty seats sit out.
func (s SeatState) Status() game.PlayerStatus {
	if s.Eliminated || s.Stack <= 0 {
		return game.StatusSittingOut
	}
	return game.StatusActive
}

// TableState is everything needed to resume a table.
type TableState struct {
	TableIndex int         `json:"table"`
	NextHand   int         `json:"next_hand"`
	Button     int         `json:"button"`
	Seats      []SeatState `json:"seats"`
}

// Assignment is the seating for one hand.
type Assignment struct {
	TableIndex     int
	HandNumber     int
	Button         int
	SmallBlindSeat int
	BigBlindSeat   int
	SmallBlind     int
	BigBlind       int
	Seats          []game.SeatSpec // seats dealt in, ascending
}

// Task builds the self-contained HandTask for this assignment.
func (a Assignment) Task(sequence int, seed int64) game.HandTask {
	return game.HandTask{
		Sequence:       sequence,
		TableIndex:     a.TableIndex,
		HandNumber:     a.HandNumber,
		Seed:           seed,
		SmallBlind:     a.SmallBlind,
		BigBlind:       a.BigBlind,
		Button:         a.Button,
		SmallBlindSeat: a.SmallBlindSeat,
		BigBlindSeat:   a.BigBlindSeat,
		Seats:          append([]game.SeatSpec(nil), a.Seats...),
	}
}

// Manager rotates the button and persists stacks for one table. It is not
// safe for concurrent use; the batch runner's coordinator owns it.
type Manager struct {
	index int
	cfg   TableConfig
	state TableState
}

// NewManager validates cfg and seats the table for hand 0. Heads-up the
// button is seat 0 and posts the small blind; otherwise the button starts on
// the last seat so that seat 0 posts the small blind.
func NewManager(tableIndex int, cfg TableConfig) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		index: tableIndex,
		cfg:   cfg,
		state: TableState{TableIndex: tableIndex},
	}
	for i, stack := range cfg.Stacks {
		m.state.Seats = append(m.state.Seats, SeatState{Seat: i, Agent: cfg.Agents[i], Stack: stack})
	}
	if len(cfg.Stacks) > 2 {
		m.state.Button = len(cfg.Stacks) - 1
	}
	return m, nil
}

// Config returns the table config.
func (m *Manager) Config() TableConfig { return m.cfg }

// NextHand returns the number of the next hand to be played.
func (m *Manager) NextHand() int { return m.state.NextHand }

// Finished reports whether fewer than two seats can play.
func (m *Manager) Finished() bool {
	return len(m.live()) < 2
}

// CurrentAssignment returns the seating for the next hand without changing
// anything. On a finished table the blind seats are meaningless.
func (m *Manager) CurrentAssignment() Assignment {
	live := m.live()
	a := Assignment{
		TableIndex: m.index,
		HandNumber: m.state.NextHand,
		Button:     m.state.Button,
		SmallBlind: m.cfg.SmallBlind,
		BigBlind:   m.cfg.BigBlind,
	}
	for _, seat := range live {
		s := m.state.Seats[seat]
		a.Seats = append(a.Seats, game.SeatSpec{Seat: s.Seat, Agent: s.Agent, Stack: s.Stack})
	}
	if len(live) < 2 {
		return a
	}
	if len(live) == 2 {
		a.SmallBlindSeat = a.Button
		a.BigBlindSeat = m.nextLive(a.Button)
	} else {
		a.SmallBlindSeat = m.nextLive(a.Button)
		a.BigBlindSeat = m.nextLive(a.SmallBlindSeat)
	}
	return a
}

// NextHandSeating returns the next hand's seating, or ErrTableFinished.
func (m *Manager) NextHandSeating() (Assignment, error) {
	if m.Finished() {
		return Assignment{}, fmt.Errorf("table %d: %w after %d hands", m.index, ErrTableFinished, m.state.NextHand)
	}
	return m.CurrentAssignment(), nil
}

// ApplyResult persists a completed hand's stacks and moves the button. It is
// the only way stacks change, and results must arrive in hand order.
func (m *Manager) ApplyResult(summary game.HandSummary) error {
	if err := m.checkOrder(summary.TableIndex, summary.HandNumber); err != nil {
		return err
	}
	dealt := m.CurrentAssignment().Seats
	if len(summary.Players) != len(dealt) {
		return fmt.Errorf("table %d hand %d: result has %d players, %d were dealt in",
			m.index, summary.HandNumber, len(summary.Players), len(dealt))
	}
	for i, p := range summary.Players {
		if p.Seat != dealt[i].Seat || p.StartingStack != dealt[i].Stack {
			return fmt.Errorf("table %d hand %d: seat %d result does not match persisted state",
				m.index, summary.HandNumber, p.Seat)
		}
		if p.FinalStack < 0 {
			return fmt.Errorf("table %d hand %d: seat %d negative stack", m.index, summary.HandNumber, p.Seat)
		}
	}

	threshold := m.cfg.reloadThreshold()
	for _, p := range summary.Players {
		s := &m.state.Seats[p.Seat]
		s.Stack = p.FinalStack
		switch {
		case m.cfg.AutoReload && s.Stack < threshold:
			s.Stack = m.cfg.Stacks[p.Seat]
			s.Reloads++
		case s.Stack == 0:
			s.Eliminated = true
		}
	}
	m.finishHand()
	return nil
}

// SkipHand records that handNumber produced no result. Stacks are untouched
// and the button still moves so the rest of the run stays deterministic.
func (m *Manager) SkipHand(handNumber int) error {
	if err := m.checkOrder(m.index, handNumber); err != nil {
		return err
	}
	m.finishHand()
	return nil
}

// State returns a copy of the table state for checkpoints.
func (m *Manager) State() TableState {
	s := m.state
	s.Seats = append([]SeatState(nil), m.state.Seats...)
	return s
}

// Restore replaces the table state with one taken from State.
func (m *Manager) Restore(s TableState) error {
	if s.TableIndex != m.index {
		return fmt.Errorf("restore table %d: state is for table %d", m.index, s.TableIndex)
	}
	if len(s.Seats) != len(m.cfg.Stacks) {
		return fmt.Errorf("restore table %d: %d seats, config has %d", m.index, len(s.Seats), len(m.cfg.Stacks))
	}
	for i, seat := range s.Seats {
		if seat.Seat != i || seat.Agent != m.cfg.Agents[i] || seat.Stack < 0 {
			return fmt.Errorf("restore table %d: seat %d does not match config", m.index, i)
		}
	}
	if s.Button < 0 || s.Button >= len(s.Seats) || s.NextHand < 0 {
		return fmt.Errorf("restore table %d: button %d hand %d out of range", m.index, s.Button, s.NextHand)
	}
	m.state = s
	m.state.Seats = append([]SeatState(nil), s.Seats...)
	return nil
}

func (m *Manager) checkOrder(table, hand int) error {
	if table != m.index || hand != m.state.NextHand {
		return fmt.Errorf("%w: got table %d hand %d, expected table %d hand %d",
			ErrOutOfOrder, table, hand, m.index, m.state.NextHand)
	}
	return nil
}

func (m *Manager) finishHand() {
	m.state.NextHand++
	if live := m.live(); len(live) > 0 {
		m.state.Button = m.nextLive(m.state.Button)
	}
}

// live returns the seats that can be dealt in, ascending.
func (m *Manager) live() []int {
	var out []int
	for _, s := range m.state.Seats {
		if s.Status() == game.StatusActive {
			out = append(out, s.Seat)
		}
	}
	return out
}

// nextLive returns the first live seat clockwise after seat.
func (m *Manager) nextLive(seat int) int {
	n := len(m.state.Seats)
	for off := 1; off <= n; off++ {
		s := m.state.Seats[(seat+off)%n]
		if s.Status() == game.StatusActive {
			return s.Seat
		}
	}
	return seat
}
