package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPots(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		contribs []Contribution
		want     []Pot
	}{
		{
			name: "single pot",
			contribs: []Contribution{
				{Seat: 0, Amount: 100},
				{Seat: 1, Amount: 100},
			},
			want: []Pot{{Amount: 200, Eligible: []int{0, 1}}},
		},
		{
			name: "three way with short all-in",
			contribs: []Contribution{
				{Seat: 0, Amount: 50},
				{Seat: 1, Amount: 30},
				{Seat: 2, Amount: 50},
			},
			want: []Pot{
				{Amount: 90, Eligible: []int{0, 1, 2}},
				{Amount: 40, Eligible: []int{0, 2}},
			},
		},
		{
			name: "folded chips enlarge pots they cannot win",
			contribs: []Contribution{
				{Seat: 0, Amount: 20, Folded: true},
				{Seat: 1, Amount: 60},
				{Seat: 2, Amount: 60},
			},
			want: []Pot{{Amount: 140, Eligible: []int{1, 2}}},
		},
		{
			name: "folded top contributor merges into previous pot",
			contribs: []Contribution{
				{Seat: 0, Amount: 100, Folded: true},
				{Seat: 1, Amount: 50},
				{Seat: 2, Amount: 80},
			},
			want: []Pot{
				{Amount: 150, Eligible: []int{1, 2}},
				{Amount: 80, Eligible: []int{2}},
			},
		},
		{
			name: "uncalled excess returns to the bettor",
			contribs: []Contribution{
				{Seat: 0, Amount: 5, Folded: true},
				{Seat: 1, Amount: 10},
			},
			want: []Pot{{Amount: 15, Eligible: []int{1}}},
		},
		{
			name: "multiple side pots",
			contribs: []Contribution{
				{Seat: 0, Amount: 10},
				{Seat: 1, Amount: 25},
				{Seat: 2, Amount: 40},
				{Seat: 3, Amount: 40},
				{Seat: 4, Amount: 5, Folded: true},
			},
			want: []Pot{
				{Amount: 45, Eligible: []int{0, 1, 2, 3}},
				{Amount: 45, Eligible: []int{1, 2, 3}},
				{Amount: 30, Eligible: []int{2, 3}},
			},
		},
		{
			name:     "no contributions",
			contribs: []Contribution{{Seat: 0}, {Seat: 1}},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := BuildPots(tt.contribs)
			assert.Equal(t, tt.want, got)

			total := 0
			for _, c := range tt.contribs {
				total += c.Amount
			}
			assert.Equal(t, total, TotalPot(got), "pots must hold every contributed chip")
		})
	}
}
