package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lox/holdemsim/internal/display"
	"github.com/lox/holdemsim/internal/runner"
)

// InspectCmd prints what a checkpoint holds.
type InspectCmd struct {
	Checkpoint string `arg:"" type:"existingfile" help:"Checkpoint file"`
	JSON       bool   `help:"Print the raw checkpoint as JSON"`
}

func (c *InspectCmd) Run() error {
	cp, err := runner.LoadCheckpoint(c.Checkpoint)
	if err != nil {
		return err
	}
	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cp)
	}

	display.NewPrinter(os.Stdout).Report(display.Report{
		RunID:    cp.RunID,
		Complete: cp.Complete,
		Stats:    cp.Stats,
	})
	fmt.Printf("seed %d, %d hands per table, next sequence %d, saved %s\n",
		cp.Seed, cp.Hands, cp.NextSequence, cp.SavedAt.Format("2006-01-02 15:04:05 MST"))
	for _, t := range cp.Tables {
		fmt.Printf("table %d: next hand %d, button %d\n", t.TableIndex, t.NextHand, t.Button)
		for _, s := range t.Seats {
			state := ""
			switch {
			case s.Eliminated:
				state = " eliminated"
			case s.Reloads > 0:
				state = fmt.Sprintf(" reloaded %dx", s.Reloads)
			}
			fmt.Printf("  seat %d %-18s %6d %-11s%s\n", s.Seat, s.Agent, s.Stack, s.Status(), state)
		}
	}
	return nil
}
