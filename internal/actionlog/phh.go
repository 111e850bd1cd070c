package actionlog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/coder/quartz"

	"github.com/lox/holdemsim/internal/game"
	"github.com/lox/holdemsim/internal/phh"
)

// phhBackend appends one numbered PHH section per hand to a .phhs file.
type phhBackend struct {
	file    *os.File
	w       *bufio.Writer
	opts    phh.BuildOptions
	clock   quartz.Clock
	section int
	pending []game.ActionEvent
}

func openPHH(cfg Config) (*phhBackend, error) {
	last, err := lastSection(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	f, err := openAppend(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	return &phhBackend{
		file:    f,
		w:       bufio.NewWriter(f),
		opts:    phh.BuildOptions{Table: cfg.Table, RevealHoles: cfg.RevealHoles},
		clock:   cfg.Clock,
		section: last,
	}, nil
}

func (b *phhBackend) Mode() Mode { return ModePHH }

func (b *phhBackend) RecordAction(e game.ActionEvent) error {
	if len(b.pending) > 0 && b.pending[0].HandID != e.HandID {
		return fmt.Errorf("phh: hand %s started before %s finished", e.HandID, b.pending[0].HandID)
	}
	b.pending = append(b.pending, e)
	return nil
}

func (b *phhBackend) RecordShowdown(e game.ShowdownEvent) error {
	actions := b.pending
	b.pending = nil

	opts := b.opts
	opts.Time = b.clock.Now()
	hand, err := phh.Build(actions, e, opts)
	if err != nil {
		return err
	}
	b.section++
	if err := phh.WriteSection(b.w, b.section, hand); err != nil {
		return fmt.Errorf("phh: write %s: %w", e.HandID, err)
	}
	return b.w.Flush()
}

func (b *phhBackend) Close() error {
	var err error
	if len(b.pending) > 0 {
		err = fmt.Errorf("phh: hand %s closed without a showdown record", b.pending[0].HandID)
	}
	return errors.Join(err, b.w.Flush(), b.file.Close())
}

// lastSection returns the highest [n] header in an existing file so that
// appended hands keep counting up.
func lastSection(path string) (int, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()

	last := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) >= 3 && line[0] == '[' && line[len(line)-1] == ']' {
			if n, err := strconv.Atoi(line[1 : len(line)-1]); err == nil && n > last {
				last = n
			}
		}
	}
	return last, scanner.Err()
}
