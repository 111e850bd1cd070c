// Package actionlog writes hand events to the configured backend. The batch
// runner replays each hand's recorded events into a single Backend in hand
// sequence order, so backends see a deterministic stream.
package actionlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/coder/quartz"

	"github.com/lox/holdemsim/internal/game"
)

var (
	// ErrUnknownMode is returned for a mode that is not supported.
	ErrUnknownMode = errors.New("unknown action log mode")
	// ErrBackendUnavailable is returned at startup when a backend's
	// dependency or destination is missing.
	ErrBackendUnavailable = errors.New("action log backend unavailable")
)

// Mode selects a backend.
type Mode string

const (
	ModeNone     Mode = "none"
	ModeStdout   Mode = "stdout"
	ModeJSONL    Mode = "jsonl"
	ModePHH      Mode = "phh"
	ModePostgres Mode = "postgres"
)

var modes = []Mode{ModeNone, ModeStdout, ModeJSONL, ModePHH, ModePostgres}

// Modes lists the supported modes.
func Modes() []Mode {
	return slices.Clone(modes)
}

// ParseMode parses a mode name, case-insensitively. Empty means none.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ModeNone, nil
	}
	if !slices.Contains(modes, m) {
		return "", fmt.Errorf("%w %q (want one of %v)", ErrUnknownMode, s, modes)
	}
	return m, nil
}

// Config configures Open.
type Config struct {
	Mode        Mode
	Path        string // jsonl and phh destination
	DSN         string // postgres connection string
	RunID       string
	Table       string // PHH table name
	RevealHoles bool   // PHH: deal hole cards face up
	Stdout      io.Writer
	Clock       quartz.Clock
}

// Backend receives the events of every hand in a run. Close flushes and
// releases the destination.
type Backend interface {
	game.EventSink
	Mode() Mode
}

// Check verifies that cfg names a usable backend without opening it.
func Check(cfg Config) error {
	switch cfg.Mode {
	case ModeNone, "", ModeStdout:
		return nil
	case ModeJSONL, ModePHH:
		if cfg.Path == "" {
			return fmt.Errorf("%w: %s logging requires a destination path", ErrBackendUnavailable, cfg.Mode)
		}
		return nil
	case ModePostgres:
		if cfg.DSN == "" {
			return fmt.Errorf("%w: postgres logging requires a DSN", ErrBackendUnavailable)
		}
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownMode, cfg.Mode)
	}
}

// Open checks cfg and opens the backend.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	if err := Check(cfg); err != nil {
		return nil, err
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	switch cfg.Mode {
	case ModeStdout:
		w := cfg.Stdout
		if w == nil {
			w = os.Stdout
		}
		return newJSONBackend(ModeStdout, nopCloser{w}, cfg), nil
	case ModeJSONL:
		f, err := openAppend(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
		}
		return newJSONBackend(ModeJSONL, f, cfg), nil
	case ModePHH:
		return openPHH(cfg)
	case ModePostgres:
		return openPostgres(ctx, cfg)
	default:
		return Discard(), nil
	}
}

// Discard returns a backend that drops every event.
func Discard() Backend { return discard{} }

type discard struct{}

func (discard) RecordAction(game.ActionEvent) error     { return nil }
func (discard) RecordShowdown(game.ShowdownEvent) error { return nil }
func (discard) Close() error                            { return nil }
func (discard) Mode() Mode                              { return ModeNone }

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
