package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemsim/poker"
)

func TestActionEventsDescribeTheHand(t *testing.T) {
	t.Parallel()

	scripts := map[string][]Action{
		"s0": {RaiseAction(20)},
		"s1": {CallAction()},
	}
	deal := poker.MustParseCards("Kc Ah Kd Ad 4s 2c 7d 9h")
	res, err := NewHandRunner(native(t), scripted(scripts), WithStackedDeck(deal...)).Play(headsUpTask(100, 100))
	require.NoError(t, err)

	var actions []ActionEvent
	for _, e := range res.Events {
		if e.Type == EventTypeAction {
			actions = append(actions, *e.Action)
		}
	}
	require.GreaterOrEqual(t, len(actions), 4)

	sb := actions[0]
	assert.Equal(t, PostSmallBlind, sb.Action)
	assert.Equal(t, 5, sb.Amount)
	assert.Equal(t, 5, sb.Pot)
	assert.Empty(t, sb.Hole, "blinds are posted before the deal")

	raise := actions[2]
	assert.Equal(t, Raise, raise.Action)
	assert.Equal(t, 25, raise.Amount, "5 to call plus a 20 raise")
	assert.Equal(t, 5, raise.ToCall)
	assert.Equal(t, 40, raise.Pot)
	assert.Equal(t, 70, raise.Stack)
	assert.Equal(t, map[int]int{0: 70, 1: 90}, raise.Stacks)
	assert.Equal(t, "Ah Ad", poker.FormatCards(raise.Hole))

	call := actions[3]
	assert.Equal(t, Call, call.Action)
	assert.Equal(t, 20, call.Amount)
	assert.Equal(t, 60, call.Pot)

	// Flop actions carry the board.
	if len(actions) > 4 {
		assert.Equal(t, Flop, actions[4].Street)
		assert.Equal(t, "2c 7d 9h", poker.FormatCards(actions[4].Board))
	}

	for i, e := range res.Events {
		switch e.Type {
		case EventTypeAction:
			assert.Equal(t, i, e.Action.Index)
		case EventTypeShowdown:
			assert.Equal(t, i, e.Showdown.Index)
			assert.Equal(t, len(res.Events)-1, i, "showdown is last")
		}
	}
}

func TestReplay(t *testing.T) {
	t.Parallel()

	res, err := NewHandRunner(native(t), randomLegal).Play(headsUpTask(100, 100, 100))
	require.NoError(t, err)

	rec := NewRecorder()
	require.NoError(t, Replay(res.Events, rec))
	assert.Equal(t, res.Events, rec.Events())

	require.NoError(t, rec.Close())
	assert.Error(t, rec.RecordAction(ActionEvent{}), "closed recorder rejects events")
}
