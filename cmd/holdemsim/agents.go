package main

import (
	"fmt"
	"strings"

	"github.com/lox/holdemsim/internal/actionlog"
	"github.com/lox/holdemsim/internal/bot"
	"github.com/lox/holdemsim/internal/evaluator"
)

// AgentsCmd lists the names accepted in config files.
type AgentsCmd struct{}

func (c *AgentsCmd) Run() error {
	modes := make([]string, 0, len(actionlog.Modes()))
	for _, m := range actionlog.Modes() {
		modes = append(modes, string(m))
	}
	fmt.Printf("agents:     %s\n", strings.Join(bot.NewRegistry().Names(), ", "))
	fmt.Printf("evaluators: %s\n", strings.Join(evaluator.Names(), ", "))
	fmt.Printf("action log: %s\n", strings.Join(modes, ", "))
	return nil
}
