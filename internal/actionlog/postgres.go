package actionlog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lox/holdemsim/internal/game"
)

//go:embed schema.sql
var schema string

const writeTimeout = 30 * time.Second

var eventColumns = []string{
	"run_id", "hand_id", "table_index", "hand_number", "event_index",
	"event", "seat", "action", "amount", "pot", "payload", "recorded_at",
}

// pgBackend buffers a hand's rows and copies them in when the hand ends.
type pgBackend struct {
	pool  *pgxpool.Pool
	runID string
	clock quartz.Clock
	rows  [][]any
}

func openPostgres(ctx context.Context, cfg Config) (*pgBackend, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %w", ErrBackendUnavailable, err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("action log migrate: %w", err)
	}
	return &pgBackend{pool: pool, runID: cfg.RunID, clock: cfg.Clock}, nil
}

func (b *pgBackend) Mode() Mode { return ModePostgres }

func (b *pgBackend) RecordAction(e game.ActionEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	b.rows = append(b.rows, []any{
		b.runID, e.HandID, e.TableIndex, e.HandNumber, e.Index,
		string(game.EventTypeAction), e.Seat, e.Action.String(), e.Amount, e.Pot,
		payload, b.clock.Now(),
	})
	return nil
}

func (b *pgBackend) RecordShowdown(e game.ShowdownEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	pot := 0
	for _, p := range e.Pots {
		pot += p.Amount
	}
	b.rows = append(b.rows, []any{
		b.runID, e.HandID, e.TableIndex, e.HandNumber, e.Index,
		string(game.EventTypeShowdown), nil, nil, nil, pot,
		payload, b.clock.Now(),
	})
	return b.flush()
}

func (b *pgBackend) flush() error {
	if len(b.rows) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	_, err := b.pool.CopyFrom(ctx, pgx.Identifier{"hand_events"}, eventColumns, pgx.CopyFromRows(b.rows))
	b.rows = b.rows[:0]
	if err != nil {
		return fmt.Errorf("action log copy: %w", err)
	}
	return nil
}

func (b *pgBackend) Close() error {
	err := b.flush()
	b.pool.Close()
	return err
}
