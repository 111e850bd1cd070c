package runner

import (
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdemsim/internal/actionlog"
	"github.com/lox/holdemsim/internal/evaluator"
	"github.com/lox/holdemsim/internal/game"
)

// Observer is told about every released hand, in sequence order, from the
// coordinating goroutine.
type Observer interface {
	ObserveHand(game.HandSummary)
}

// ObserverFunc adapts a function into an Observer.
type ObserverFunc func(game.HandSummary)

// ObserveHand implements Observer.
func (f ObserverFunc) ObserveHand(s game.HandSummary) { f(s) }

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock sets the clock used for progress timing.
func WithClock(clock quartz.Clock) Option {
	return func(r *Runner) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithObserver adds an observer.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		r.observers = append(r.observers, o)
	}
}

// WithBackend sends every released hand's events to b. The caller owns b
// and closes it after Run returns.
func WithBackend(b actionlog.Backend) Option {
	return func(r *Runner) {
		if b != nil {
			r.backend = b
		}
	}
}

// WithCheckpointStore persists checkpoints to s.
func WithCheckpointStore(s CheckpointStore) Option {
	return func(r *Runner) {
		r.store = s
	}
}

// WithResume continues the run recorded in cp.
func WithResume(cp *Checkpoint) Option {
	return func(r *Runner) {
		r.resume = cp
	}
}

// WithOracle sets the showdown evaluator.
func WithOracle(o evaluator.Oracle) Option {
	return func(r *Runner) {
		if o != nil {
			r.oracle = o
		}
	}
}

// WithAgents sets the agent factory. Names in the table configs are
// resolved through it.
func WithAgents(f game.AgentFactory) Option {
	return func(r *Runner) {
		if f != nil {
			r.agents = f
		}
	}
}

// WithRunID sets the run id for a fresh run. Resumed runs keep theirs.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}
