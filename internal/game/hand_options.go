package game

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/holdemsim/poker"
)

// HandOption configures a HandRunner.
type HandOption func(*HandRunner)

// SinkOpener opens the event sink for one hand.
type SinkOpener func(HandTask) (EventSink, error)

// WithSink sends every hand's events to the sink returned by open, in
// addition to the events recorded in HandResult.
func WithSink(open SinkOpener) HandOption {
	return func(r *HandRunner) {
		r.openSink = open
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) HandOption {
	return func(r *HandRunner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithStackedDeck deals from a fixed card order instead of shuffling with the
// task seed. Cards after top follow in canonical order.
func WithStackedDeck(top ...poker.Card) HandOption {
	return func(r *HandRunner) {
		r.stacked = append([]poker.Card(nil), top...)
	}
}

func defaultHandRunner() HandRunner {
	return HandRunner{
		logger:   log.New(io.Discard),
		openSink: func(HandTask) (EventSink, error) { return discardSink{}, nil },
	}
}
