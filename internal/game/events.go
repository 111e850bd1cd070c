package game

import (
	"errors"

	"github.com/lox/holdemsim/poker"
)

// EventType identifies a hand event.
type EventType string

const (
	EventTypeAction   EventType = "action"
	EventTypeShowdown EventType = "showdown"
)

// ActionEvent records one blind post or decision with enough context to
// reconstruct the hand.
type ActionEvent struct {
	HandID     string       `json:"hand_id"`
	TableIndex int          `json:"table"`
	HandNumber int          `json:"hand"`
	Index      int          `json:"index"` // position within the hand's event stream
	Street     Street       `json:"street"`
	Seat       int          `json:"seat"`
	Agent      string       `json:"agent"`
	Action     ActionType   `json:"action"`
	Amount     int          `json:"amount"` // chips committed by this action
	ToCall     int          `json:"to_call"`
	Pot        int          `json:"pot"` // after the action
	Stack      int          `json:"stack"`
	Board      []poker.Card `json:"board"`
	Hole       []poker.Card `json:"hole_cards"`
	Stacks     map[int]int  `json:"stacks"`
}

// ShowdownEvent is the terminal record of a hand.
type ShowdownEvent struct {
	HandID        string               `json:"hand_id"`
	TableIndex    int                  `json:"table"`
	HandNumber    int                  `json:"hand"`
	Index         int                  `json:"index"`
	Board         []poker.Card         `json:"board"`
	Contributions map[int]int          `json:"contributions"`
	Holes         map[int][]poker.Card `json:"holes"` // seats still in the hand
	Pots          []PotResult          `json:"side_pots"`
	Winners       []int                `json:"winners"`
	Showdown      bool                 `json:"showdown"`
}

// EventSink receives a hand's events. A sink is opened for one hand and
// closed when the hand ends, whether or not it succeeded.
type EventSink interface {
	RecordAction(ActionEvent) error
	RecordShowdown(ShowdownEvent) error
	Close() error
}

// Event is a recorded ActionEvent or ShowdownEvent.
type Event struct {
	Type     EventType      `json:"type"`
	Action   *ActionEvent   `json:"action,omitempty"`
	Showdown *ShowdownEvent `json:"showdown,omitempty"`
}

// Recorder is an in-memory EventSink. Workers record into one so that the
// coordinating side can replay events into the real backend in hand order.
type Recorder struct {
	events []Event
	closed bool
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordAction implements EventSink.
func (r *Recorder) RecordAction(e ActionEvent) error {
	if r.closed {
		return errSinkClosed
	}
	r.events = append(r.events, Event{Type: EventTypeAction, Action: &e})
	return nil
}

// RecordShowdown implements EventSink.
func (r *Recorder) RecordShowdown(e ShowdownEvent) error {
	if r.closed {
		return errSinkClosed
	}
	r.events = append(r.events, Event{Type: EventTypeShowdown, Showdown: &e})
	return nil
}

// Close implements EventSink.
func (r *Recorder) Close() error {
	r.closed = true
	return nil
}

// Events returns the recorded events.
func (r *Recorder) Events() []Event {
	return r.events
}

var errSinkClosed = errors.New("event sink closed")

// Replay sends events to sink in order. The sink is not closed.
func Replay(events []Event, sink EventSink) error {
	for _, e := range events {
		var err error
		switch e.Type {
		case EventTypeAction:
			err = sink.RecordAction(*e.Action)
		case EventTypeShowdown:
			err = sink.RecordShowdown(*e.Showdown)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

type discardSink struct{}

func (discardSink) RecordAction(ActionEvent) error     { return nil }
func (discardSink) RecordShowdown(ShowdownEvent) error { return nil }
func (discardSink) Close() error                       { return nil }

// teeSink writes to a recorder and to a caller-provided sink.
type teeSink struct {
	rec  *Recorder
	next EventSink
}

func (t teeSink) RecordAction(e ActionEvent) error {
	if err := t.rec.RecordAction(e); err != nil {
		return err
	}
	return t.next.RecordAction(e)
}

func (t teeSink) RecordShowdown(e ShowdownEvent) error {
	if err := t.rec.RecordShowdown(e); err != nil {
		return err
	}
	return t.next.RecordShowdown(e)
}

func (t teeSink) Close() error {
	return errors.Join(t.rec.Close(), t.next.Close())
}
