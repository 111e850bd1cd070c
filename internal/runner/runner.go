package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdemsim/internal/actionlog"
	"github.com/lox/holdemsim/internal/bot"
	"github.com/lox/holdemsim/internal/evaluator"
	"github.com/lox/holdemsim/internal/game"
	"github.com/lox/holdemsim/internal/randutil"
	"github.com/lox/holdemsim/internal/seating"
	"github.com/lox/holdemsim/internal/statistics"
)

// Result is the state of a run when Run returns.
type Result struct {
	RunID        string
	Stats        statistics.SimulationStats
	Tables       []seating.TableState
	NextSequence int
	Complete     bool
	Elapsed      time.Duration
}

// Runner plays the hands described by a Config. A Runner is used once.
type Runner struct {
	cfg       Config
	logger    *log.Logger
	clock     quartz.Clock
	observers []Observer
	backend   actionlog.Backend
	store     CheckpointStore
	resume    *Checkpoint
	oracle    evaluator.Oracle
	agents    game.AgentFactory
	runID     string

	hands  *game.HandRunner
	tables []*seating.Manager
	used   bool
}

// New validates cfg, resolves every agent name and restores the resume
// checkpoint if one is given.
func New(cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{
		cfg:     cfg,
		logger:  log.New(io.Discard),
		clock:   quartz.NewReal(),
		backend: actionlog.Discard(),
		oracle:  evaluator.Native{},
		agents:  bot.NewRegistry().New,
	}
	for _, opt := range opts {
		opt(r)
	}

	for i, t := range cfg.Tables {
		for seat, name := range t.Agents {
			if _, err := r.agents(name, 0); err != nil {
				return nil, fmt.Errorf("table %d seat %d: %w", i, seat, err)
			}
		}
		m, err := seating.NewManager(i, t)
		if err != nil {
			return nil, fmt.Errorf("table %d: %w", i, err)
		}
		r.tables = append(r.tables, m)
	}

	if cp := r.resume; cp != nil {
		if err := cp.check(cfg); err != nil {
			return nil, err
		}
		for i, state := range cp.Tables {
			if err := r.tables[i].Restore(state); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrCheckpointMismatch, err)
			}
		}
		r.runID = cp.RunID
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}

	r.hands = game.NewHandRunner(r.oracle, r.agents, game.WithLogger(r.logger.WithPrefix("hand")))
	return r, nil
}

// RunID identifies the run in checkpoints and action logs.
func (r *Runner) RunID() string { return r.runID }

type outcome struct {
	task game.HandTask
	res  game.HandResult
	err  error
}

// run is the coordinator's state. Only the goroutine inside Run touches it.
type run struct {
	*Runner
	stats     statistics.SimulationStats
	next      int
	lastHand  int
	released  int
	start     time.Time
	pending   map[int]outcome
	submitted []int // sequence in flight per table, -1 when none
	finished  []bool
	submit    func(game.HandTask)
	results   <-chan outcome
}

// Run plays hands until every table has played cfg.Hands hands or finished,
// ctx is cancelled, or the failure tolerance is exceeded. Results are
// released in sequence order regardless of the worker count. On cancellation
// hands already in flight finish, contiguous results are released, and a
// final checkpoint is written.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.used {
		return Result{}, errors.New("runner already used")
	}
	r.used = true

	st := &run{
		Runner:    r,
		lastHand:  -1,
		start:     r.clock.Now(),
		pending:   make(map[int]outcome),
		submitted: make([]int, len(r.tables)),
		finished:  make([]bool, len(r.tables)),
	}
	if cp := r.resume; cp != nil {
		st.stats = cp.Stats.Clone()
		st.next = cp.NextSequence
		st.lastHand = cp.LastHand
	}
	r.logger.Info("run starting",
		"run", r.runID,
		"tables", len(r.tables),
		"hands", r.cfg.Hands,
		"workers", max(r.cfg.Workers, 1),
		"from_sequence", st.next)

	if r.cfg.Workers <= 1 {
		st.submit = func(task game.HandTask) {
			st.pending[task.Sequence] = r.play(task)
		}
		return st.finish(st.loop(ctx))
	}

	// At most one hand per table is in flight, so neither channel blocks
	// the coordinator.
	tasks := make(chan game.HandTask, len(r.tables))
	results := make(chan outcome, len(r.tables))
	poolCtx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(poolCtx)
	for range r.cfg.Workers {
		g.Go(func() error {
			for task := range tasks {
				out := r.play(task)
				select {
				case results <- out:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	st.submit = func(task game.HandTask) { tasks <- task }
	st.results = results

	err := st.loop(ctx)
	close(tasks)
	cancel()
	_ = g.Wait()
	return st.finish(err)
}

func (st *run) loop(ctx context.Context) error {
	for t := range st.tables {
		st.submitNext(ctx, t)
	}
	total := st.cfg.TotalHands()
	for st.next < total {
		t := st.next % len(st.tables)
		if st.submitted[t] != st.next {
			if st.finished[t] {
				st.next++
				continue
			}
			return fmt.Errorf("run stopped at sequence %d: %w", st.next, context.Cause(ctx))
		}
		out, err := st.await(st.next)
		if err != nil {
			return err
		}
		err = st.release(out)
		st.next++
		if err != nil {
			return err
		}
		if err := st.tick(); err != nil {
			return err
		}
		st.submitNext(ctx, t)
	}
	return nil
}

// submitNext queues table t's next hand unless the table is done or the run
// is stopping.
func (st *run) submitNext(ctx context.Context, t int) {
	st.submitted[t] = -1
	m := st.tables[t]
	if m.NextHand() >= st.cfg.Hands {
		st.finished[t] = true
		return
	}
	a, err := m.NextHandSeating()
	if err != nil {
		st.finished[t] = true
		st.logger.Info("table finished", "table", t, "hands", m.NextHand(), "err", err)
		return
	}
	if ctx.Err() != nil {
		return
	}
	seq := st.cfg.Sequence(t, a.HandNumber)
	seed := randutil.Derive(st.cfg.Seed, int64(t), int64(a.HandNumber))
	st.submitted[t] = seq
	st.submit(a.Task(seq, seed))
}

func (st *run) await(seq int) (outcome, error) {
	for {
		if out, ok := st.pending[seq]; ok {
			delete(st.pending, seq)
			return out, nil
		}
		if st.results == nil {
			return outcome{}, fmt.Errorf("sequence %d was never played", seq)
		}
		out := <-st.results
		st.pending[out.task.Sequence] = out
	}
}

func (st *run) release(out outcome) error {
	task := out.task
	m := st.tables[task.TableIndex]

	if out.err != nil {
		st.logger.Warn("hand failed", "hand", task.HandID(), "seed", task.Seed, "err", out.err)
		st.stats.RecordFailure(statistics.Anomaly{
			Sequence: task.Sequence,
			Table:    task.TableIndex,
			Hand:     task.HandNumber,
			Seed:     task.Seed,
			Error:    out.err.Error(),
		})
		if err := m.SkipHand(task.HandNumber); err != nil {
			return err
		}
		if err := st.checkTolerance(); err != nil {
			return fmt.Errorf("%w: last failure %s: %w", err, task.HandID(), out.err)
		}
	} else {
		s := out.res.Summary
		st.stats.Add(s)
		if err := m.ApplyResult(s); err != nil {
			return fmt.Errorf("apply %s: %w", task.HandID(), err)
		}
		if err := game.Replay(out.res.Events, st.backend); err != nil {
			return fmt.Errorf("action log %s: %w", task.HandID(), err)
		}
		for _, o := range st.observers {
			o.ObserveHand(s)
		}
		st.lastHand = max(st.lastHand, s.HandNumber)
	}
	return nil
}

// tick runs the periodic work after a release.
func (st *run) tick() error {
	st.released++
	if every := st.cfg.CheckpointEvery; every > 0 && st.released%every == 0 && st.store != nil {
		if err := st.checkpoint(false); err != nil {
			return err
		}
	}
	if every := st.cfg.ProgressEvery; every > 0 && st.released%every == 0 {
		st.progress()
	}
	return nil
}

func (st *run) checkTolerance() error {
	failed, attempted := st.stats.HandsFailed, st.stats.Attempted()
	if st.cfg.MaxFailureRate == 0 {
		return fmt.Errorf("%w: %d of %d hands failed", ErrFailureTolerance, failed, attempted)
	}
	if attempted >= st.cfg.MinHandsForRate && float64(failed)/float64(attempted) > st.cfg.MaxFailureRate {
		return fmt.Errorf("%w: %d of %d hands failed, limit %.2f%%",
			ErrFailureTolerance, failed, attempted, 100*st.cfg.MaxFailureRate)
	}
	return nil
}

func (st *run) progress() {
	elapsed := st.clock.Now().Sub(st.start)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(st.released) / elapsed.Seconds()
	}
	st.logger.Info("progress",
		"sequence", st.next,
		"of", st.cfg.TotalHands(),
		"played", st.stats.HandsPlayed,
		"failed", st.stats.HandsFailed,
		"hands_per_sec", fmt.Sprintf("%.1f", rate))
}

func (st *run) tableStates() []seating.TableState {
	out := make([]seating.TableState, len(st.tables))
	for i, m := range st.tables {
		out[i] = m.State()
	}
	return out
}

func (st *run) checkpoint(complete bool) error {
	cp := Checkpoint{
		Version:      CheckpointVersion,
		RunID:        st.runID,
		Seed:         st.cfg.Seed,
		Hands:        st.cfg.Hands,
		NextSequence: st.next,
		LastHand:     st.lastHand,
		Complete:     complete,
		SavedAt:      st.clock.Now().UTC(),
		Stats:        st.stats.Clone(),
		Tables:       st.tableStates(),
	}
	if err := st.store.Save(cp); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	st.logger.Debug("checkpoint saved", "sequence", st.next, "complete", complete)
	return nil
}

func (st *run) finish(err error) (Result, error) {
	complete := err == nil && st.next >= st.cfg.TotalHands()
	if st.store != nil {
		if cerr := st.checkpoint(complete); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}
	res := Result{
		RunID:        st.runID,
		Stats:        st.stats.Clone(),
		Tables:       st.tableStates(),
		NextSequence: st.next,
		Complete:     complete,
		Elapsed:      st.clock.Now().Sub(st.start),
	}
	if err != nil {
		st.logger.Error("run stopped", "run", st.runID, "played", res.Stats.HandsPlayed, "failed", res.Stats.HandsFailed, "err", err)
	} else {
		st.logger.Info("run complete", "run", st.runID, "played", res.Stats.HandsPlayed, "failed", res.Stats.HandsFailed, "elapsed", res.Elapsed)
	}
	return res, err
}

// play runs one hand, turning a panicking agent into a hand failure.
func (r *Runner) play(task game.HandTask) (out outcome) {
	out.task = task
	defer func() {
		if p := recover(); p != nil {
			out.res, out.err = game.HandResult{}, fmt.Errorf("%s: panic: %v", task.HandID(), p)
		}
	}()
	out.res, out.err = r.hands.Play(task)
	return out
}
