package game

import "github.com/lox/holdemsim/poker"

// Snapshot is the read-only view an agent decides from. Slices are copies;
// agents cannot reach engine state through them.
type Snapshot struct {
	Seat       int
	Street     Street
	Hole       []poker.Card
	Board      []poker.Card
	Pot        int
	ToCall     int
	Stack      int
	Bet        int // already committed this street
	CurrentBet int // high bet this street
	MinRaise   int // smallest legal raise increment
	BigBlind   int
	InHand     int // seats that can still win
}

// Agent makes betting decisions. Agents must be deterministic given their
// construction seed and the snapshots they receive.
type Agent interface {
	Decide(Snapshot) (Action, error)
}

// AgentFunc adapts a function into an Agent.
type AgentFunc func(Snapshot) (Action, error)

// Decide implements Agent.
func (f AgentFunc) Decide(s Snapshot) (Action, error) {
	return f(s)
}

// AgentFactory builds the agent named name for one seat of one hand.
type AgentFactory func(name string, seed int64) (Agent, error)
