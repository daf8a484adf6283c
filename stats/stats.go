// Package stats keeps running statistics for simulations.
package stats

import "math"

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic is a running mean and variance over pushed samples.
type Statistic struct {
	totalIterations int
	last            float64
	min, max        float64

	// For Welford's algorithm:
	oldM float64
	newM float64
	oldS float64
	newS float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.totalIterations++
	if s.totalIterations == 1 {
		s.oldM = val
		s.newM = val
		s.oldS = 0
		s.min, s.max = val, val
	} else {
		s.newM = s.oldM + (val-s.oldM)/float64(s.totalIterations)
		s.newS = s.oldS + (val-s.oldM)*(val-s.newM)
		s.oldM = s.newM
		s.oldS = s.newS
		s.min = math.Min(s.min, val)
		s.max = math.Max(s.max, val)
	}
}

// PushBool pushes 1 for true and 0 for false, so the mean is a rate.
func (s *Statistic) PushBool(b bool) {
	if b {
		s.Push(1)
		return
	}
	s.Push(0)
}

// Merge folds the samples of o into s, as if they had been pushed here.
func (s *Statistic) Merge(o *Statistic) {
	if o.totalIterations == 0 {
		return
	}
	if s.totalIterations == 0 {
		*s = *o
		return
	}
	n1, n2 := float64(s.totalIterations), float64(o.totalIterations)
	n := n1 + n2
	delta := o.newM - s.newM
	mean := s.newM + delta*n2/n
	m2 := s.newS + o.newS + delta*delta*n1*n2/n

	s.totalIterations += o.totalIterations
	s.oldM, s.newM = mean, mean
	s.oldS, s.newS = m2, m2
	s.last = o.last
	s.min = math.Min(s.min, o.min)
	s.max = math.Max(s.max, o.max)
}

func (s *Statistic) Mean() float64 {
	if s.totalIterations > 0 {
		return s.newM
	}
	return 0.0
}

func (s *Statistic) Variance() float64 {
	if s.totalIterations <= 1 {
		return 0.0
	}
	return s.newS / float64(s.totalIterations-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 {
	return s.last
}

func (s *Statistic) Min() float64 {
	return s.min
}

func (s *Statistic) Max() float64 {
	return s.max
}

// StandardError returns the standard error of the mean.
func (s *Statistic) StandardError() float64 {
	if s.totalIterations == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.totalIterations))
}

// Interval returns the half-width of the confidence interval around the mean
// for the given z-value.
func (s *Statistic) Interval(z float64) float64 {
	return z * s.StandardError()
}

func (s *Statistic) Iterations() int {
	return s.totalIterations
}
