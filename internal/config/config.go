// Package config loads simulation settings from HCL.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdemsim/internal/actionlog"
	"github.com/lox/holdemsim/internal/bot"
	"github.com/lox/holdemsim/internal/evaluator"
	"github.com/lox/holdemsim/internal/runner"
	"github.com/lox/holdemsim/internal/seating"
)

// EnvDSN supplies the postgres DSN when the file does not.
const EnvDSN = "HOLDEMSIM_PG_DSN"

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config is the complete simulation configuration.
type Config struct {
	Simulation *SimulationConfig `hcl:"simulation,block"`
	ActionLog  *ActionLogConfig  `hcl:"action_log,block"`
	Monitor    *MonitorConfig    `hcl:"monitor,block"`
	Tables     []TableConfig     `hcl:"table,block"`
}

// SimulationConfig holds run-level settings.
type SimulationConfig struct {
	Hands           int     `hcl:"hands,optional"`
	Seed            int64   `hcl:"seed,optional"`
	Workers         int     `hcl:"workers,optional"`
	Oracle          string  `hcl:"oracle,optional"`
	Checkpoint      string  `hcl:"checkpoint,optional"`
	CheckpointEvery int     `hcl:"checkpoint_every,optional"`
	ProgressEvery   int     `hcl:"progress_every,optional"`
	MaxFailureRate  float64 `hcl:"max_failure_rate,optional"`
	MinHandsForRate int     `hcl:"min_hands_for_rate,optional"`
	LogLevel        string  `hcl:"log_level,optional"`
}

// ActionLogConfig selects the action log backend.
type ActionLogConfig struct {
	Mode        string `hcl:"mode,optional"`
	Path        string `hcl:"path,optional"`
	DSN         string `hcl:"dsn,optional"`
	RevealHoles bool   `hcl:"reveal_holes,optional"`
}

// MonitorConfig enables the live HTTP monitor. An empty address disables it.
type MonitorConfig struct {
	Address string `hcl:"address,optional"`
	Window  int    `hcl:"window,optional"`
}

// TableConfig describes one table. Stacks wins over BuyIn when both are set.
type TableConfig struct {
	Name        string   `hcl:"name,label"`
	Agents      []string `hcl:"agents"`
	SmallBlind  int      `hcl:"small_blind,optional"`
	BigBlind    int      `hcl:"big_blind,optional"`
	BuyIn       int      `hcl:"buy_in,optional"`
	Stacks      []int    `hcl:"stacks,optional"`
	AutoReload  *bool    `hcl:"auto_reload,optional"`
	ReloadBelow int      `hcl:"reload_below,optional"`
}

// Default returns a heads-up configuration that plays 1000 hands.
func Default() *Config {
	c := &Config{
		Tables: []TableConfig{{Name: "main", Agents: []string{"tag", "lag"}}},
	}
	c.applyDefaults()
	return c
}

// Load reads and decodes the HCL file at filename, then applies defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. filename is used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diagnostics(diags))
	}
	config.applyDefaults()
	return &config, nil
}

func diagnostics(diags hcl.Diagnostics) string {
	if len(diags) == 1 {
		return diags[0].Error()
	}
	return diags.Error()
}

func (c *Config) applyDefaults() {
	if c.Simulation == nil {
		c.Simulation = &SimulationConfig{}
	}
	if c.ActionLog == nil {
		c.ActionLog = &ActionLogConfig{}
	}
	if c.Monitor == nil {
		c.Monitor = &MonitorConfig{}
	}

	s := c.Simulation
	if s.Hands == 0 {
		s.Hands = 1000
	}
	if s.Workers == 0 {
		s.Workers = 1
	}
	if s.Oracle == "" {
		s.Oracle = evaluator.DefaultOracle
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}

	if c.ActionLog.Mode == "" {
		c.ActionLog.Mode = string(actionlog.ModeNone)
	}
	if c.ActionLog.DSN == "" {
		c.ActionLog.DSN = os.Getenv(EnvDSN)
	}

	for i := range c.Tables {
		t := &c.Tables[i]
		if t.SmallBlind == 0 {
			t.SmallBlind = 1
		}
		if t.BigBlind == 0 {
			t.BigBlind = 2 * t.SmallBlind
		}
		if t.BuyIn == 0 {
			t.BuyIn = t.BigBlind * 100 // 100 big blinds
		}
		if len(t.Stacks) == 0 {
			for range t.Agents {
				t.Stacks = append(t.Stacks, t.BuyIn)
			}
		}
		if t.AutoReload == nil {
			reload := true
			t.AutoReload = &reload
		}
	}
}

// Validate resolves every agent, oracle and backend name and checks the
// run and table settings.
func (c *Config) Validate() error {
	if len(c.Tables) == 0 {
		return fmt.Errorf("%w: at least one table must be configured", ErrInvalid)
	}
	if _, err := log.ParseLevel(c.Simulation.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := evaluator.Lookup(c.Simulation.Oracle); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	agents := bot.NewRegistry()
	seen := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if seen[t.Name] {
			return fmt.Errorf("%w: duplicate table %q", ErrInvalid, t.Name)
		}
		seen[t.Name] = true
		if err := agents.Validate(t.Agents...); err != nil {
			return fmt.Errorf("%w: table %s: %w", ErrInvalid, t.Name, err)
		}
	}

	if _, err := c.ActionLogConfig(""); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Monitor.Window < 0 {
		return fmt.Errorf("%w: monitor window must not be negative", ErrInvalid)
	}
	if err := c.RunnerConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Simulation.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// RunnerConfig converts the file into a runner config.
func (c *Config) RunnerConfig() runner.Config {
	s := c.Simulation
	rc := runner.Config{
		Hands:           s.Hands,
		Seed:            s.Seed,
		Workers:         s.Workers,
		CheckpointEvery: s.CheckpointEvery,
		ProgressEvery:   s.ProgressEvery,
		MaxFailureRate:  s.MaxFailureRate,
		MinHandsForRate: s.MinHandsForRate,
	}
	for _, t := range c.Tables {
		rc.Tables = append(rc.Tables, seating.TableConfig{
			Name:        t.Name,
			Stacks:      append([]int(nil), t.Stacks...),
			Agents:      append([]string(nil), t.Agents...),
			SmallBlind:  t.SmallBlind,
			BigBlind:    t.BigBlind,
			AutoReload:  t.AutoReload == nil || *t.AutoReload,
			ReloadBelow: t.ReloadBelow,
		})
	}
	return rc
}

// ActionLogConfig converts the action_log block into a backend config,
// checking that the backend can be opened.
func (c *Config) ActionLogConfig(runID string) (actionlog.Config, error) {
	mode, err := actionlog.ParseMode(c.ActionLog.Mode)
	if err != nil {
		return actionlog.Config{}, err
	}
	ac := actionlog.Config{
		Mode:        mode,
		Path:        c.ActionLog.Path,
		DSN:         c.ActionLog.DSN,
		RunID:       runID,
		RevealHoles: c.ActionLog.RevealHoles,
	}
	if len(c.Tables) == 1 {
		ac.Table = c.Tables[0].Name
	}
	if err := actionlog.Check(ac); err != nil {
		return actionlog.Config{}, err
	}
	return ac, nil
}
