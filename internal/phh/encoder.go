package phh

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lox/holdemsim/internal/game"
	"github.com/lox/holdemsim/poker"
)

// Encode writes the hand history to w in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return errors.New("phh: hand history is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// WriteSection writes hand as a numbered section of a .phhs file.
func WriteSection(w io.Writer, section int, hand *HandHistory) error {
	if _, err := fmt.Fprintf(w, "[%d]\n", section); err != nil {
		return err
	}
	if err := Encode(w, hand); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// FormatAction converts an action to a PHH action string. streetTotal is the
// player's total bet on the street after the action. Blind posts are carried
// by blinds_or_straddles and are not emitted.
func FormatAction(player int, action game.ActionType, streetTotal int) (string, bool) {
	p := fmt.Sprintf("p%d", player+1)
	switch action {
	case game.Fold:
		return p + " f", true
	case game.Check, game.Call:
		return p + " cc", true
	case game.Bet, game.Raise:
		if streetTotal <= 0 {
			return "", false
		}
		return fmt.Sprintf("%s cbr %d", p, streetTotal), true
	case game.PostSmallBlind, game.PostBigBlind:
		return "", false
	default:
		return fmt.Sprintf("# %s %s %d", p, action, streetTotal), true
	}
}

// DealHole formats a hole card deal. Cards are masked unless reveal is set.
func DealHole(player int, hole []poker.Card, reveal bool) string {
	cards := "????"
	if reveal && len(hole) == 2 {
		cards = joinCards(hole)
	}
	return fmt.Sprintf("d dh p%d %s", player+1, cards)
}

// DealBoard formats a board deal.
func DealBoard(cards []poker.Card) string {
	return "d db " + joinCards(cards)
}

// ShowCards formats a showdown reveal.
func ShowCards(player int, hole []poker.Card) string {
	return fmt.Sprintf("p%d sm %s", player+1, joinCards(hole))
}

func joinCards(cards []poker.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.String())
	}
	return b.String()
}
