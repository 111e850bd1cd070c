package actionlog

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/holdemsim/internal/game"
	"github.com/lox/holdemsim/poker"
)

// jsonBackend writes one JSON object per event.
type jsonBackend struct {
	mode   Mode
	out    io.WriteCloser
	logger zerolog.Logger
	clock  quartz.Clock
}

func newJSONBackend(mode Mode, out io.WriteCloser, cfg Config) *jsonBackend {
	ctx := zerolog.New(out).With()
	if cfg.RunID != "" {
		ctx = ctx.Str("run_id", cfg.RunID)
	}
	return &jsonBackend{mode: mode, out: out, logger: ctx.Logger(), clock: cfg.Clock}
}

func (b *jsonBackend) Mode() Mode { return b.mode }

func (b *jsonBackend) RecordAction(e game.ActionEvent) error {
	ev := b.logger.Log().
		Time("timestamp", b.clock.Now()).
		Str("event", string(game.EventTypeAction)).
		Str("hand_id", e.HandID).
		Int("table", e.TableIndex).
		Int("hand", e.HandNumber).
		Int("index", e.Index).
		Str("street", e.Street.String()).
		Int("seat", e.Seat).
		Str("agent", e.Agent).
		Str("action", e.Action.String()).
		Int("bet_size", e.Amount).
		Int("to_call", e.ToCall).
		Int("pot", e.Pot).
		Int("stack", e.Stack).
		Strs("board", cardStrings(e.Board)).
		Dict("stacks", seatInts(e.Stacks))
	if len(e.Hole) > 0 {
		ev = ev.Strs("hole_cards", cardStrings(e.Hole))
	}
	ev.Send()
	return nil
}

func (b *jsonBackend) RecordShowdown(e game.ShowdownEvent) error {
	holes := zerolog.Dict()
	for _, seat := range sortedSeats(e.Holes) {
		holes = holes.Strs(strconv.Itoa(seat), cardStrings(e.Holes[seat]))
	}
	b.logger.Log().
		Time("timestamp", b.clock.Now()).
		Str("event", string(game.EventTypeShowdown)).
		Str("hand_id", e.HandID).
		Int("table", e.TableIndex).
		Int("hand", e.HandNumber).
		Int("index", e.Index).
		Strs("board", cardStrings(e.Board)).
		Dict("contributions", seatInts(e.Contributions)).
		Dict("holes", holes).
		Interface("side_pots", e.Pots).
		Ints("winners", e.Winners).
		Bool("showdown", e.Showdown).
		Send()
	return nil
}

func (b *jsonBackend) Close() error {
	return b.out.Close()
}

func openAppend(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func cardStrings(cards []poker.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

// seatInts renders a seat map with keys in seat order.
func seatInts(m map[int]int) *zerolog.Event {
	d := zerolog.Dict()
	for _, seat := range sortedSeats(m) {
		d = d.Int(strconv.Itoa(seat), m[seat])
	}
	return d
}

func sortedSeats[V any](m map[int]V) []int {
	return slices.Sorted(maps.Keys(m))
}
