package actionlog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemsim/internal/bot"
	"github.com/lox/holdemsim/internal/evaluator"
	"github.com/lox/holdemsim/internal/game"
	"github.com/lox/holdemsim/poker"
)

var stamp = time.Date(2025, time.March, 2, 10, 30, 0, 0, time.UTC)

func mockClock(t *testing.T) quartz.Clock {
	t.Helper()
	c := quartz.NewMock(t)
	c.Set(stamp)
	return c
}

// playHand plays one heads-up hand between calling agents.
func playHand(t *testing.T, handNumber int) []game.Event {
	t.Helper()
	task := game.HandTask{
		HandNumber:     handNumber,
		Seed:           int64(handNumber),
		SmallBlind:     5,
		BigBlind:       10,
		Button:         0,
		SmallBlindSeat: 0,
		BigBlindSeat:   1,
		Seats: []game.SeatSpec{
			{Seat: 0, Agent: "call", Stack: 100},
			{Seat: 1, Agent: "call", Stack: 100},
		},
	}
	runner := game.NewHandRunner(evaluator.Native{}, bot.NewRegistry().New,
		game.WithStackedDeck(poker.MustParseCards("Kc Ah Kd Ad 4s 2c 7d 9h 5s Jc 6s 3s")...))
	res, err := runner.Play(task)
	require.NoError(t, err)
	return res.Events
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Mode{"": ModeNone, "NONE": ModeNone, " jsonl ": ModeJSONL, "phh": ModePHH, "postgres": ModePostgres} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("parquet")
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.Len(t, Modes(), 5)
}

func TestCheck(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Check(Config{Mode: ModeNone}))
	assert.NoError(t, Check(Config{Mode: ModeStdout}))
	assert.ErrorIs(t, Check(Config{Mode: ModeJSONL}), ErrBackendUnavailable)
	assert.ErrorIs(t, Check(Config{Mode: ModePHH}), ErrBackendUnavailable)
	assert.ErrorIs(t, Check(Config{Mode: ModePostgres}), ErrBackendUnavailable)
	assert.ErrorIs(t, Check(Config{Mode: "csv"}), ErrUnknownMode)
}

func TestOpenPostgresUnavailable(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{Mode: ModePostgres})
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	_, err = Open(context.Background(), Config{Mode: ModePostgres, DSN: "not a dsn"})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestStdoutBackend(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	b, err := Open(context.Background(), Config{Mode: ModeStdout, Stdout: &buf, RunID: "run-1", Clock: mockClock(t)})
	require.NoError(t, err)
	assert.Equal(t, ModeStdout, b.Mode())

	events := playHand(t, 0)
	require.NoError(t, game.Replay(events, b))
	require.NoError(t, b.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(events))

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "run-1", first["run_id"])
	assert.Equal(t, "action", first["event"])
	assert.Equal(t, "post_sb", first["action"])
	assert.Equal(t, "t0-h0", first["hand_id"])
	assert.EqualValues(t, 5, first["bet_size"])
	assert.Equal(t, stamp.Format(time.RFC3339), first["timestamp"])
	assert.Equal(t, map[string]any{"0": float64(95), "1": float64(100)}, first["stacks"])

	var last map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &last))
	assert.Equal(t, "showdown", last["event"])
	assert.Equal(t, []any{"2c", "7d", "9h", "Jc", "3s"}, last["board"])
	assert.Equal(t, []any{float64(0)}, last["winners"])
	assert.Equal(t, []any{"Ah", "Ad"}, last["holes"].(map[string]any)["0"])
}

func TestJSONLBackendAppends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "actions.jsonl")
	for hand := range 2 {
		b, err := Open(context.Background(), Config{Mode: ModeJSONL, Path: path, Clock: mockClock(t)})
		require.NoError(t, err)
		require.NoError(t, game.Replay(playHand(t, hand), b))
		require.NoError(t, b.Close())
	}

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	hands := map[string]int{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec struct {
			HandID string `json:"hand_id"`
		}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		hands[rec.HandID]++
	}
	require.NoError(t, scanner.Err())
	assert.Len(t, hands, 2)
	assert.Equal(t, hands["t0-h0"], hands["t0-h1"])
}

func TestPHHBackendContinuesSections(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.phhs")
	open := func() Backend {
		b, err := Open(context.Background(), Config{Mode: ModePHH, Path: path, Table: "main", Clock: mockClock(t)})
		require.NoError(t, err)
		return b
	}

	b := open()
	require.NoError(t, game.Replay(playHand(t, 0), b))
	require.NoError(t, game.Replay(playHand(t, 1), b))
	require.NoError(t, b.Close())

	b = open()
	require.NoError(t, game.Replay(playHand(t, 2), b))
	require.NoError(t, b.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	for _, header := range []string{"[1]\n", "[2]\n", "[3]\n"} {
		assert.Contains(t, text, header)
	}
	assert.Contains(t, text, `hand = "t0-h2"`)
	assert.Contains(t, text, `table = "main"`)
	assert.Contains(t, text, `"d dh p1 ????"`)
	assert.Contains(t, text, `time = "10:30:00"`)
}

func TestPHHBackendIncompleteHand(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.phhs")
	b, err := Open(context.Background(), Config{Mode: ModePHH, Path: path, Clock: mockClock(t)})
	require.NoError(t, err)

	events := playHand(t, 0)
	require.NoError(t, b.RecordAction(*events[0].Action))
	other := *events[1].Action
	other.HandID = "t0-h9"
	assert.Error(t, b.RecordAction(other))
	assert.Error(t, b.Close())
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	b, err := Open(context.Background(), Config{})
	require.NoError(t, err)
	assert.Equal(t, ModeNone, b.Mode())
	require.NoError(t, game.Replay(playHand(t, 0), b))
	require.NoError(t, b.Close())
}
