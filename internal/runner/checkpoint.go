package runner

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/lox/holdemsim/internal/fileutil"
	"github.com/lox/holdemsim/internal/seating"
	"github.com/lox/holdemsim/internal/statistics"
)

// CheckpointVersion is the current checkpoint format.
const CheckpointVersion = 1

// ErrCheckpointMismatch is returned when a checkpoint does not belong to the
// configured run.
var ErrCheckpointMismatch = errors.New("checkpoint does not match run config")

// Checkpoint is everything needed to continue a run.
type Checkpoint struct {
	Version      int                        `json:"version"`
	RunID        string                     `json:"run_id"`
	Seed         int64                      `json:"seed"`
	Hands        int                        `json:"hands"`
	NextSequence int                        `json:"next_sequence"`
	LastHand     int                        `json:"last_hand"` // -1 before the first hand
	Complete     bool                       `json:"complete"`
	SavedAt      time.Time                  `json:"saved_at"`
	Stats        statistics.SimulationStats `json:"stats"`
	Tables       []seating.TableState       `json:"tables"`
}

// CheckpointStore persists checkpoints.
type CheckpointStore interface {
	Save(Checkpoint) error
}

// FileStore writes the checkpoint to Path, replacing it atomically.
type FileStore struct {
	Path string
}

// Save implements CheckpointStore.
func (s FileStore) Save(cp Checkpoint) error {
	return fileutil.WriteJSONAtomic(s.Path, cp)
}

// LoadCheckpoint reads a checkpoint written by FileStore.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	var cp Checkpoint
	if err := fileutil.ReadJSON(path, &cp); err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	if cp.Version != CheckpointVersion {
		return nil, fmt.Errorf("load checkpoint: unsupported version %d", cp.Version)
	}
	return &cp, nil
}

// MemoryStore keeps every saved checkpoint.
type MemoryStore struct {
	mu    sync.Mutex
	saved []Checkpoint
}

// Save implements CheckpointStore.
func (s *MemoryStore) Save(cp Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, cp)
	return nil
}

// Saved returns the checkpoints saved so far.
func (s *MemoryStore) Saved() []Checkpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.saved)
}

// Last returns the most recent checkpoint.
func (s *MemoryStore) Last() (Checkpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saved) == 0 {
		return Checkpoint{}, false
	}
	return s.saved[len(s.saved)-1], true
}

func (cp *Checkpoint) check(cfg Config) error {
	switch {
	case cp.Version != CheckpointVersion:
		return fmt.Errorf("%w: version %d", ErrCheckpointMismatch, cp.Version)
	case cp.Seed != cfg.Seed:
		return fmt.Errorf("%w: seed %d, config seed %d", ErrCheckpointMismatch, cp.Seed, cfg.Seed)
	case len(cp.Tables) != len(cfg.Tables):
		return fmt.Errorf("%w: %d tables, config has %d", ErrCheckpointMismatch, len(cp.Tables), len(cfg.Tables))
	case cp.NextSequence < 0:
		return fmt.Errorf("%w: next sequence %d", ErrCheckpointMismatch, cp.NextSequence)
	}
	return nil
}
