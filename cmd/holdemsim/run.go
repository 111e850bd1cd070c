package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdemsim/internal/actionlog"
	"github.com/lox/holdemsim/internal/config"
	"github.com/lox/holdemsim/internal/display"
	"github.com/lox/holdemsim/internal/evaluator"
	"github.com/lox/holdemsim/internal/monitor"
	"github.com/lox/holdemsim/internal/runner"
	"github.com/lox/holdemsim/internal/statistics"
)

// SimFlags override values from the config file.
type SimFlags struct {
	Config          string   `short:"c" type:"existingfile" help:"HCL config file (defaults to a heads-up tag vs lag table)"`
	EnvFile         []string `name:"env-file" default:".env" help:"Dotenv files to load before reading the config"`
	Hands           *int     `help:"Hands per table"`
	Workers         *int     `short:"w" help:"Worker goroutines (1 plays inline)"`
	Oracle          string   `help:"Hand evaluator: native or paulhankin"`
	CheckpointEvery *int     `name:"checkpoint-every" help:"Write a checkpoint every N released hands"`
	ProgressEvery   *int     `name:"progress-every" help:"Log progress every N released hands"`
	ActionLog       string   `name:"action-log" help:"Action log mode: none, stdout, jsonl, phh, postgres"`
	ActionLogPath   string   `name:"action-log-path" help:"Destination for jsonl and phh logs"`
	Monitor         string   `help:"Serve /stats and /ws on this address"`
	Verbose         bool     `help:"Print every hand as it is released"`
	Debug           bool     `help:"Enable debug logging"`
}

func (f *SimFlags) load() (*config.Config, error) {
	if err := config.LoadDotEnv(f.EnvFile...); err != nil {
		return nil, err
	}
	cfg := config.Default()
	if f.Config != "" {
		var err error
		if cfg, err = config.Load(f.Config); err != nil {
			return nil, err
		}
	}

	s := cfg.Simulation
	if f.Hands != nil {
		s.Hands = *f.Hands
	}
	if f.Workers != nil {
		s.Workers = *f.Workers
	}
	if f.Oracle != "" {
		s.Oracle = f.Oracle
	}
	if f.CheckpointEvery != nil {
		s.CheckpointEvery = *f.CheckpointEvery
	}
	if f.ProgressEvery != nil {
		s.ProgressEvery = *f.ProgressEvery
	}
	if f.Debug {
		s.LogLevel = "debug"
	}
	if f.ActionLog != "" {
		cfg.ActionLog.Mode = f.ActionLog
	}
	if f.ActionLogPath != "" {
		cfg.ActionLog.Path = f.ActionLogPath
	}
	if f.Monitor != "" {
		cfg.Monitor.Address = f.Monitor
	}
	return cfg, cfg.Validate()
}

// RunCmd starts a fresh run.
type RunCmd struct {
	SimFlags
	Seed       *int64 `help:"Run seed (defaults to the config file, then 0)"`
	Checkpoint string `help:"Checkpoint file (overrides the config file)"`
}

func (c *RunCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	if c.Seed != nil {
		cfg.Simulation.Seed = *c.Seed
	}
	if c.Checkpoint != "" {
		cfg.Simulation.Checkpoint = c.Checkpoint
	}
	return simulate(cfg, &c.SimFlags, nil)
}

// ResumeCmd continues a run recorded in a checkpoint.
type ResumeCmd struct {
	SimFlags
	Checkpoint string `arg:"" type:"existingfile" help:"Checkpoint written by a previous run"`
}

func (c *ResumeCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	cp, err := runner.LoadCheckpoint(c.Checkpoint)
	if err != nil {
		return err
	}
	if c.Hands == nil && cp.Hands > cfg.Simulation.Hands {
		cfg.Simulation.Hands = cp.Hands
	}
	cfg.Simulation.Seed = cp.Seed
	cfg.Simulation.Checkpoint = c.Checkpoint
	return simulate(cfg, &c.SimFlags, cp)
}

func simulate(cfg *config.Config, flags *SimFlags, resume *runner.Checkpoint) error {
	logger := setupLogger(cfg.LogLevel())
	ctx, stop := setupSignalHandler(logger)
	defer stop()

	runID := uuid.NewString()
	if resume != nil {
		runID = resume.RunID
	}

	oracle, err := evaluator.Lookup(cfg.Simulation.Oracle)
	if err != nil {
		return err
	}
	acfg, err := cfg.ActionLogConfig(runID)
	if err != nil {
		return err
	}
	backend, err := actionlog.Open(ctx, acfg)
	if err != nil {
		return err
	}

	ev := statistics.NewEVTracker(cfg.Monitor.Window)
	opts := []runner.Option{
		runner.WithLogger(logger.WithPrefix("runner")),
		runner.WithRunID(runID),
		runner.WithOracle(oracle),
		runner.WithBackend(backend),
		runner.WithObserver(ev),
	}
	if path := cfg.Simulation.Checkpoint; path != "" {
		opts = append(opts, runner.WithCheckpointStore(runner.FileStore{Path: path}))
	}
	if resume != nil {
		opts = append(opts, runner.WithResume(resume))
	}
	if flags.Verbose {
		opts = append(opts, runner.WithObserver(display.NewPrinter(os.Stdout)))
	}

	var hub *monitor.Hub
	if addr := cfg.Monitor.Address; addr != "" {
		hub = monitor.NewHub(monitor.WithLogger(logger), monitor.WithRunID(runID), monitor.WithWindow(cfg.Monitor.Window))
		opts = append(opts, runner.WithObserver(hub))
	}

	r, err := runner.New(cfg.RunnerConfig(), opts...)
	if err != nil {
		return errors.Join(err, backend.Close())
	}

	g, gctx := errgroup.WithContext(context.Background())
	monitorCtx, stopMonitor := context.WithCancel(gctx)
	defer stopMonitor()
	if hub != nil {
		g.Go(func() error { return hub.Serve(monitorCtx, cfg.Monitor.Address) })
	}

	res, runErr := r.Run(ctx)
	if cerr := backend.Close(); cerr != nil {
		runErr = errors.Join(runErr, fmt.Errorf("close action log: %w", cerr))
	}
	stopMonitor()
	if merr := g.Wait(); merr != nil {
		logger.Error("monitor stopped", "err", merr)
	}

	names := make([]string, len(cfg.Tables))
	for i, t := range cfg.Tables {
		names[i] = t.Name
	}
	display.NewPrinter(os.Stdout).Report(display.Report{
		RunID:      res.RunID,
		Complete:   res.Complete,
		Elapsed:    res.Elapsed,
		Stats:      res.Stats,
		EV:         ev.Report(),
		TableNames: names,
		Err:        runErr,
	})
	if runErr != nil && errors.Is(runErr, context.Canceled) && cfg.Simulation.Checkpoint != "" {
		logger.Info("resume with", "cmd", "holdemsim resume "+cfg.Simulation.Checkpoint)
	}
	return runErr
}
