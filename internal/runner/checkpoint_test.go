package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemsim/internal/seating"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run", "checkpoint.json")
	cfg := Config{Hands: 6, Seed: 11, CheckpointEvery: 4, Tables: []seating.TableConfig{table("tag", "random", "lag")}}
	r, err := New(cfg, WithCheckpointStore(FileStore{Path: path}))
	require.NoError(t, err)
	res, err := r.Run(context.Background())
	require.NoError(t, err)

	cp, err := LoadCheckpoint(path)
	require.NoError(t, err)
	assert.Equal(t, CheckpointVersion, cp.Version)
	assert.Equal(t, r.RunID(), cp.RunID)
	assert.True(t, cp.Complete)
	assert.Equal(t, 6, cp.NextSequence)
	assert.Equal(t, res.Tables, cp.Tables)
	assert.Equal(t, res.Stats.HandsPlayed, cp.Stats.HandsPlayed)
	assert.Equal(t, res.Stats.Seats, cp.Stats.Seats)
}

func TestLoadCheckpointErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := LoadCheckpoint(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"version": 99}`), 0o644))
	_, err = LoadCheckpoint(bad)
	assert.ErrorContains(t, err, "unsupported version")
}

func TestResumeCompleteRunWithMoreHands(t *testing.T) {
	t.Parallel()

	store := &MemoryStore{}
	cfg := Config{Hands: 5, Seed: 4, Tables: []seating.TableConfig{table("call", "tag")}}
	r, err := New(cfg, WithCheckpointStore(store))
	require.NoError(t, err)
	_, err = r.Run(context.Background())
	require.NoError(t, err)
	cp, ok := store.Last()
	require.True(t, ok)
	require.True(t, cp.Complete)

	cfg.Hands = 8
	c := &collect{}
	r, err = New(cfg, WithResume(&cp), WithObserver(c))
	require.NoError(t, err)
	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, res.Stats.HandsPlayed)
	require.Len(t, c.hands, 3)
	assert.Equal(t, 5, c.hands[0].HandNumber)
}

func TestCheckpointMismatch(t *testing.T) {
	t.Parallel()

	cfg := Config{Hands: 2, Seed: 1, Tables: []seating.TableConfig{table("call", "call")}}
	good := Checkpoint{Version: CheckpointVersion, Seed: 1, Tables: []seating.TableState{{
		Seats: []seating.SeatState{{Seat: 0, Agent: "call", Stack: 100}, {Seat: 1, Agent: "call", Stack: 300}},
	}}}
	_, err := New(cfg, WithResume(&good))
	require.NoError(t, err)

	for name, mutate := range map[string]func(*Checkpoint){
		"version": func(cp *Checkpoint) { cp.Version = 0 },
		"tables":  func(cp *Checkpoint) { cp.Tables = nil },
		"agent":   func(cp *Checkpoint) { cp.Tables[0].Seats[1].Agent = "tag" },
		"button":  func(cp *Checkpoint) { cp.Tables[0].Button = 5 },
	} {
		cp := good
		cp.Tables = []seating.TableState{good.Tables[0]}
		cp.Tables[0].Seats = append([]seating.SeatState(nil), good.Tables[0].Seats...)
		mutate(&cp)
		_, err := New(cfg, WithResume(&cp))
		assert.ErrorIs(t, err, ErrCheckpointMismatch, name)
	}
}
