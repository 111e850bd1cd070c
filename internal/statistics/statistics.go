// Package statistics aggregates hand summaries into run totals and per-seat
// EV metrics.
package statistics

import (
	"math"
	"sort"
)

// Series accumulates a stream of per-hand results in big blinds.
type Series struct {
	Hands  int       `json:"hands"`
	SumBB  float64   `json:"sum_bb"`
	SumBB2 float64   `json:"sum_bb2"` // sum of squares for variance
	Values []float64 `json:"-"`       // kept for median/percentile
}

// Add records one result.
func (s *Series) Add(bb float64) {
	s.Hands++
	s.SumBB += bb
	s.SumBB2 += bb * bb
	s.Values = append(s.Values, bb)
}

// Mean returns the arithmetic mean in big blinds per hand.
func (s *Series) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance.
func (s *Series) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
	if v < 0 {
		return 0
	}
	return v
}

// StdDev returns the sample standard deviation.
func (s *Series) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Series) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Series) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// BBPer100 returns the mean scaled to 100 hands.
func (s *Series) BBPer100() float64 {
	return 100 * s.Mean()
}

// Median returns the median result.
func (s *Series) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at p (0.0 to 1.0), interpolating between
// neighbouring results.
func (s *Series) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
