// Package game resolves single Texas Hold'em hands.
//
// A hand is described by a HandTask, a plain value holding the seats, stacks,
// blinds, button and RNG seed. HandRunner.Play executes the task and returns
// an immutable HandSummary together with the events the hand produced:
//
//	runner := game.NewHandRunner(oracle, agents)
//	res, err := runner.Play(task)
//	if err != nil {
//	    // the hand failed; no summary is produced
//	}
//	fmt.Println(res.Summary.TotalPot, res.Summary.Winners)
//
// # Architecture
//
// Play delegates to specialised components:
//   - poker.Deck: shuffled with the task seed, one deck per hand
//   - BettingRound: the per-street action loop and legality rules
//   - BuildPots: partitions contributions into main and side pots
//   - Settle: awards each pot using an evaluator.Oracle
//
// Agents only see a Snapshot copy of the state. Every blind post and decision
// is emitted as an ActionEvent, and each hand ends with one ShowdownEvent.
// Hands share nothing mutable, so any number can run concurrently.
package game
