package poker

import (
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestNewDeckHas52UniqueCards(t *testing.T) {
	t.Parallel()

	d := NewDeck()
	require.Equal(t, 52, d.Remaining())

	cards, err := d.Deal(52)
	require.NoError(t, err)

	seen := make(map[Card]bool, 52)
	for _, c := range cards {
		require.True(t, c.Valid(), "invalid card %v", c)
		require.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.Equal(t, 0, d.Remaining())
}

func TestDeckShuffleDeterministic(t *testing.T) {
	t.Parallel()

	a := NewDeck()
	a.Shuffle(newTestRNG(42))
	b := NewDeck()
	b.Shuffle(newTestRNG(42))
	c := NewDeck()
	c.Shuffle(newTestRNG(43))

	ac, err := a.Deal(52)
	require.NoError(t, err)
	bc, err := b.Deal(52)
	require.NoError(t, err)
	cc, err := c.Deal(52)
	require.NoError(t, err)

	assert.Equal(t, ac, bc, "same seed should give same order")
	assert.NotEqual(t, ac, cc, "different seeds should give different orders")
}

func TestDeckDealAndBurn(t *testing.T) {
	t.Parallel()

	d := NewDeck()
	d.Shuffle(newTestRNG(7))

	hole, err := d.Deal(2)
	require.NoError(t, err)
	require.NoError(t, d.Burn())
	flop, err := d.Deal(3)
	require.NoError(t, err)

	assert.Equal(t, 46, d.Remaining())
	for _, h := range hole {
		assert.NotContains(t, flop, h)
	}

	// Dealt slices must not alias the deck's storage.
	hole[0] = Card{}
	more, err := d.Deal(1)
	require.NoError(t, err)
	assert.True(t, more[0].Valid())
}

func TestDeckExhaustion(t *testing.T) {
	t.Parallel()

	d := NewDeck()
	_, err := d.Deal(51)
	require.NoError(t, err)

	_, err = d.Deal(2)
	require.ErrorIs(t, err, ErrDeckExhausted)
	assert.Equal(t, 1, d.Remaining(), "failed deal must not consume cards")

	require.NoError(t, d.Burn())
	require.ErrorIs(t, d.Burn(), ErrDeckExhausted)

	_, err = d.Deal(-1)
	assert.Error(t, err)
}

func TestNewStackedDeck(t *testing.T) {
	t.Parallel()

	top := MustParseCards("As Ks Qs")
	d, err := NewStackedDeck(top)
	require.NoError(t, err)

	got, err := d.Deal(3)
	require.NoError(t, err)
	assert.Equal(t, top, got)

	rest, err := d.Deal(49)
	require.NoError(t, err)
	for _, c := range rest {
		assert.NotContains(t, top, c)
	}

	_, err = NewStackedDeck(MustParseCards("As As"))
	assert.Error(t, err)
}
