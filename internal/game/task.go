package game

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidTask is returned when a HandTask cannot be played.
var ErrInvalidTask = errors.New("invalid hand task")

// SeatSpec is one dealt-in seat of a HandTask.
type SeatSpec struct {
	Seat  int    `json:"seat"`
	Agent string `json:"agent"`
	Stack int    `json:"stack"`
}

// HandTask fully describes one hand. It holds plain values only so it can be
// sent to a worker, written to disk, or replayed later.
type HandTask struct {
	Sequence       int        `json:"sequence"`
	TableIndex     int        `json:"table"`
	HandNumber     int        `json:"hand"`
	Seed           int64      `json:"seed"`
	SmallBlind     int        `json:"small_blind"`
	BigBlind       int        `json:"big_blind"`
	Button         int        `json:"button"`
	SmallBlindSeat int        `json:"sb_seat"`
	BigBlindSeat   int        `json:"bb_seat"`
	Seats          []SeatSpec `json:"seats"` // ascending seat order
}

// HandID returns a stable identifier for log records.
func (t HandTask) HandID() string {
	return fmt.Sprintf("t%d-h%d", t.TableIndex, t.HandNumber)
}

// Validate checks that the task describes a playable hand.
func (t HandTask) Validate() error {
	if len(t.Seats) < 2 {
		return fmt.Errorf("%w: need at least 2 seats with chips, have %d", ErrInvalidTask, len(t.Seats))
	}
	if t.SmallBlind <= 0 || t.BigBlind < t.SmallBlind {
		return fmt.Errorf("%w: blinds %d/%d", ErrInvalidTask, t.SmallBlind, t.BigBlind)
	}
	seats := make([]int, len(t.Seats))
	for i, s := range t.Seats {
		if s.Stack <= 0 {
			return fmt.Errorf("%w: seat %d has no chips", ErrInvalidTask, s.Seat)
		}
		if i > 0 && s.Seat <= t.Seats[i-1].Seat {
			return fmt.Errorf("%w: seats must be unique and ascending", ErrInvalidTask)
		}
		seats[i] = s.Seat
	}
	roles := []struct {
		name string
		seat int
	}{{"button", t.Button}, {"small blind", t.SmallBlindSeat}, {"big blind", t.BigBlindSeat}}
	for _, r := range roles {
		if !slices.Contains(seats, r.seat) {
			return fmt.Errorf("%w: %s seat %d is not dealt in", ErrInvalidTask, r.name, r.seat)
		}
	}
	if t.SmallBlindSeat == t.BigBlindSeat {
		return fmt.Errorf("%w: small and big blind share seat %d", ErrInvalidTask, t.SmallBlindSeat)
	}
	return nil
}

// TotalChips sums the stacks brought into the hand.
func (t HandTask) TotalChips() int {
	total := 0
	for _, s := range t.Seats {
		total += s.Stack
	}
	return total
}
