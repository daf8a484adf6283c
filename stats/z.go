package stats

import "gonum.org/v1/gonum/stat/distuv"

// Two-tailed z-values for common confidence levels.
var (
	Z95 = ZVal(95)
	Z98 = ZVal(98)
	Z99 = ZVal(99)
)

// ZVal returns the two-tailed Z-value associated with a specific confidence interval.
// The interval is a number from 0 to 100 percent.
func ZVal(confidenceInterval float64) float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1,
	}
	area := (1 + (confidenceInterval / 100)) / 2
	return dist.Quantile(area)
}

// Separated returns true if the interval of mean a lies entirely above the
// interval of mean b at the given z-value.
func Separated(a, b *Statistic, z float64) bool {
	return a.Mean()-a.Interval(z) > b.Mean()+b.Interval(z)
}
