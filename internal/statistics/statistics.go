package statistics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lox/holdem-mcts/internal/evaluator"
)

const numCategories = int(evaluator.StraightFlush) + 1

// Statistics tracks showdown outcomes for the hero across simulated rounds
type Statistics struct {
	Samples    int
	Wins       int
	Ties       int
	Losses     int
	SumReward  float64
	SumReward2 float64 // Sum of squares for variance calculation

	// Categories counts the hero's final made hand per category
	Categories [numCategories]int
}

// Add incorporates one showdown outcome and the hero's made-hand category
func (s *Statistics) Add(outcome evaluator.Outcome, category evaluator.Category) {
	reward := float64(outcome)
	s.Samples++
	s.SumReward += reward
	s.SumReward2 += reward * reward

	switch outcome {
	case evaluator.Win:
		s.Wins++
	case evaluator.Tie:
		s.Ties++
	default:
		s.Losses++
	}

	if int(category) < numCategories {
		s.Categories[category]++
	}
}

// Merge folds another set of statistics into s
func (s *Statistics) Merge(other *Statistics) {
	s.Samples += other.Samples
	s.Wins += other.Wins
	s.Ties += other.Ties
	s.Losses += other.Losses
	s.SumReward += other.SumReward
	s.SumReward2 += other.SumReward2
	for i, n := range other.Categories {
		s.Categories[i] += n
	}
}

// Mean returns the average reward, which is the equity estimate
func (s *Statistics) Mean() float64 {
	if s.Samples == 0 {
		return 0
	}
	return s.SumReward / float64(s.Samples)
}

// Variance returns the sample variance of rewards
func (s *Statistics) Variance() float64 {
	if s.Samples < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumReward2 - float64(s.Samples)*mean*mean) / float64(s.Samples-1)
	return math.Max(v, 0)
}

// StdDev returns the sample standard deviation of rewards
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Samples == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Samples))
}

// ConfidenceInterval returns a two-sided normal interval for the mean at the
// given level (e.g. 0.95), clamped to [0, 1].
func (s *Statistics) ConfidenceInterval(level float64) (float64, float64) {
	z := distuv.UnitNormal.Quantile(0.5 + level/2)
	mean := s.Mean()
	margin := z * s.StdError()
	return math.Max(0, mean-margin), math.Min(1, mean+margin)
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	return s.ConfidenceInterval(0.95)
}

// WinRate returns the fraction of rounds won outright
func (s *Statistics) WinRate() float64 {
	return s.rate(s.Wins)
}

// TieRate returns the fraction of rounds split
func (s *Statistics) TieRate() float64 {
	return s.rate(s.Ties)
}

// LossRate returns the fraction of rounds lost
func (s *Statistics) LossRate() float64 {
	return s.rate(s.Losses)
}

// CategoryFrequency returns how often the hero finished with category c
func (s *Statistics) CategoryFrequency(c evaluator.Category) float64 {
	if int(c) >= numCategories {
		return 0
	}
	return s.rate(s.Categories[c])
}

func (s *Statistics) rate(n int) float64 {
	if s.Samples == 0 {
		return 0
	}
	return float64(n) / float64(s.Samples)
}

// Validate checks that the counters are mutually consistent
func (s *Statistics) Validate() error {
	if s.Wins+s.Ties+s.Losses != s.Samples {
		return fmt.Errorf("outcome counts %d+%d+%d do not match samples %d",
			s.Wins, s.Ties, s.Losses, s.Samples)
	}

	expected := float64(s.Wins) + float64(s.Ties)/2
	if math.Abs(expected-s.SumReward) > 1e-6 {
		return fmt.Errorf("reward sum %.6f does not match outcomes %.6f", s.SumReward, expected)
	}

	total := 0
	for _, n := range s.Categories {
		total += n
	}
	if total != s.Samples {
		return fmt.Errorf("category total (%d) does not match samples (%d)", total, s.Samples)
	}
	return nil
}
