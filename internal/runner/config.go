// Package runner drives many hands across one or more tables with
// reproducible seeding, a worker pool, in-order release and checkpoints.
package runner

import (
	"errors"
	"fmt"

	"github.com/lox/holdemsim/internal/seating"
)

var (
	// ErrInvalidConfig is returned by New for a config that cannot run.
	ErrInvalidConfig = errors.New("invalid runner config")
	// ErrFailureTolerance is returned when too many hands fail.
	ErrFailureTolerance = errors.New("hand failure tolerance exceeded")
)

// Config describes a run.
type Config struct {
	Hands   int   // hands per table
	Seed    int64 // run seed; every hand and agent seed derives from it
	Workers int   // <= 1 plays hands inline
	Tables  []seating.TableConfig

	// CheckpointEvery writes a checkpoint after this many released hands.
	// Zero writes one only at the end of the run.
	CheckpointEvery int
	// ProgressEvery logs throughput after this many released hands.
	ProgressEvery int

	// MaxFailureRate is the fraction of attempted hands allowed to fail once
	// MinHandsForRate hands have been attempted. Zero makes the first
	// failure fatal.
	MaxFailureRate  float64
	MinHandsForRate int
}

// Validate checks the config.
func (c Config) Validate() error {
	switch {
	case c.Hands <= 0:
		return fmt.Errorf("%w: hands must be positive, got %d", ErrInvalidConfig, c.Hands)
	case len(c.Tables) == 0:
		return fmt.Errorf("%w: no tables", ErrInvalidConfig)
	case c.MaxFailureRate < 0 || c.MaxFailureRate > 1:
		return fmt.Errorf("%w: max failure rate %v outside [0, 1]", ErrInvalidConfig, c.MaxFailureRate)
	case c.CheckpointEvery < 0 || c.ProgressEvery < 0 || c.MinHandsForRate < 0:
		return fmt.Errorf("%w: negative interval", ErrInvalidConfig)
	}
	for i, t := range c.Tables {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("table %d: %w", i, err)
		}
	}
	return nil
}

// Sequence returns the global release position of a table's hand.
func (c Config) Sequence(table, hand int) int {
	return hand*len(c.Tables) + table
}

// TotalHands is the number of sequence slots in the run.
func (c Config) TotalHands() int {
	return c.Hands * len(c.Tables)
}
