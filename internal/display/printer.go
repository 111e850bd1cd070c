// Package display renders run reports and per-hand lines for the terminal.
package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/holdemsim/internal/game"
	"github.com/lox/holdemsim/internal/statistics"
	"github.com/lox/holdemsim/poker"
)

// Printer writes styled output to w. Colour is only used when w is a
// terminal.
type Printer struct {
	w     io.Writer
	style styles
}

// NewPrinter returns a printer for w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, style: newStyles(lipgloss.NewRenderer(w))}
}

// ObserveHand prints one line per released hand.
func (p *Printer) ObserveHand(s game.HandSummary) {
	fmt.Fprintln(p.w, p.FormatHand(s))
}

// FormatHand renders a hand summary on one line.
func (p *Printer) FormatHand(s game.HandSummary) string {
	var b strings.Builder
	b.WriteString(p.style.handInfo.Render(fmt.Sprintf("#%d t%d h%d", s.Sequence, s.TableIndex, s.HandNumber)))
	fmt.Fprintf(&b, " btn %d blinds %d/%d", s.Button, s.SmallBlind, s.BigBlind)
	if len(s.Board) > 0 {
		b.WriteString(" board " + p.cards(s.Board))
	}
	fmt.Fprintf(&b, " pot %d %s", s.TotalPot, s.FinalStreet)
	for _, pl := range s.Players {
		fmt.Fprintf(&b, " | s%d %s %s", pl.Seat, pl.Agent, p.net(pl.Net()))
		switch {
		case pl.Folded:
			b.WriteString(" folded")
		case s.Showdown && len(pl.Hole) > 0:
			b.WriteString(" " + p.cards(pl.Hole))
		}
		if pl.AllIn {
			b.WriteString(" all-in")
		}
	}
	return b.String()
}

func (p *Printer) cards(cards []poker.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.Suit == poker.Hearts || c.Suit == poker.Diamonds {
			parts[i] = p.style.redCard.Render(c.String())
		} else {
			parts[i] = p.style.blackCard.Render(c.String())
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (p *Printer) net(n int) string {
	switch {
	case n > 0:
		return p.style.success.Render("+" + strconv.Itoa(n))
	case n < 0:
		return p.style.errorText.Render(strconv.Itoa(n))
	}
	return "0"
}

// Report is the end-of-run summary.
type Report struct {
	RunID      string
	Complete   bool
	Elapsed    time.Duration
	Stats      statistics.SimulationStats
	EV         []statistics.SeatEV
	TableNames []string
	Err        error
}

// Report prints the run summary: totals, a per-seat table and anomalies.
func (p *Printer) Report(r Report) {
	status := p.style.success.Render("complete")
	if !r.Complete {
		status = p.style.warning.Render("incomplete")
	}
	fmt.Fprintln(p.w, p.style.header.Render("holdemsim run "+r.RunID)+" "+status)

	st := r.Stats
	rate := 0.0
	if secs := r.Elapsed.Seconds(); secs > 0 {
		rate = float64(st.Attempted()) / secs
	}
	fmt.Fprintf(p.w, "hands %d played, %d failed, %d showdowns, aggregate pot %d\n",
		st.HandsPlayed, st.HandsFailed, st.Showdowns, st.AggregatePot)
	fmt.Fprintln(p.w, p.style.info.Render(fmt.Sprintf("%s elapsed, %.0f hands/sec", r.Elapsed.Round(time.Millisecond), rate)))

	if len(st.Seats) > 0 {
		fmt.Fprintln(p.w, p.seatTable(r))
	}

	if n := len(st.Anomalies); n > 0 {
		fmt.Fprintln(p.w, p.style.warning.Render(fmt.Sprintf("%d failed hands", n)))
		for _, a := range st.Anomalies {
			fmt.Fprintf(p.w, "  seq %d table %d hand %d seed %d: %s\n", a.Sequence, a.Table, a.Hand, a.Seed, a.Error)
		}
	}
	if r.Err != nil {
		fmt.Fprintln(p.w, p.style.errorText.Render("error: "+r.Err.Error()))
	}
}

func (p *Printer) seatTable(r Report) string {
	ev := make(map[[2]int]statistics.SeatEV, len(r.EV))
	for _, e := range r.EV {
		ev[[2]int{e.Table, e.Seat}] = e
	}

	rows := make([][]string, 0, len(r.Stats.Seats))
	for _, s := range r.Stats.Seats {
		name := strconv.Itoa(s.Table)
		if s.Table < len(r.TableNames) && r.TableNames[s.Table] != "" {
			name = r.TableNames[s.Table]
		}
		row := []string{
			name,
			strconv.Itoa(s.Seat),
			s.Agent,
			strconv.Itoa(s.Hands),
			strconv.Itoa(s.Net),
			strconv.FormatFloat(s.Wins, 'f', 2, 64),
		}
		if e, ok := ev[[2]int{s.Table, s.Seat}]; ok {
			row = append(row,
				fmt.Sprintf("%.2f", e.BBPer100),
				fmt.Sprintf("[%.3f, %.3f]", e.CI95Low, e.CI95High),
				fmt.Sprintf("%.2f", e.RollingBBPer100))
		} else {
			row = append(row, "-", "-", "-")
		}
		rows = append(rows, row)
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("table", "seat", "agent", "hands", "net", "wins", "bb/100", "ci95 bb/hand", "rolling bb/100").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.style.cell.Bold(true)
			}
			return p.style.cell
		}).
		String()
}
