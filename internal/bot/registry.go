// Package bot provides the built-in betting agents and a registry that
// resolves them by name.
package bot

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sort"

	"github.com/lox/holdemsim/internal/game"
	"github.com/lox/holdemsim/internal/randutil"
)

// ErrUnknownAgent is returned for a name with no registered factory.
var ErrUnknownAgent = errors.New("unknown agent")

// Factory builds an agent from its private random source. Deterministic
// agents ignore rng.
type Factory func(rng *rand.Rand) game.Agent

// Registry maps agent names to factories. Names are resolved when a run is
// configured, not when a hand is played.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry holding the built-in agents.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.factories["fold"] = func(*rand.Rand) game.Agent { return FoldBot{} }
	r.factories["call"] = func(*rand.Rand) game.Agent { return CallBot{} }
	r.factories["random"] = func(rng *rand.Rand) game.Agent { return NewRandBot(rng) }
	r.factories["tag"] = func(*rand.Rand) game.Agent { return TagBot{} }
	r.factories["lag"] = func(rng *rand.Rand) game.Agent { return NewLagBot(rng) }
	r.factories["conservative-tag"] = func(*rand.Rand) game.Agent { return ConservativeTagBot{} }
	r.factories["deterministic-lag"] = func(*rand.Rand) game.Agent { return DeterministicLagBot{} }
	r.factories["short-stack"] = func(*rand.Rand) game.Agent { return ShortStackBot{} }
	return r
}

// Register adds a factory under name.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return fmt.Errorf("register agent: name and factory are required")
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("register agent: %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// New builds the agent called name seeded with seed. It satisfies
// game.AgentFactory.
func (r *Registry) New(name string, seed int64) (game.Agent, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownAgent, name)
	}
	return f(randutil.New(seed)), nil
}

// Validate checks that every name is registered.
func (r *Registry) Validate(names ...string) error {
	for _, name := range names {
		if _, ok := r.factories[name]; !ok {
			return fmt.Errorf("%w %q (available: %v)", ErrUnknownAgent, name, r.Names())
		}
	}
	return nil
}

// Names lists registered agents in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
