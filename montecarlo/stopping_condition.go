package montecarlo

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tenpai/stats"
)

type StoppingCondition int

const (
	StopNone StoppingCondition = iota
	Stop95
	Stop98
	Stop99
)

// StoppingConditionFromString parses the names used by the config and the
// shell: none, 95, 98 or 99.
func StoppingConditionFromString(s string) (StoppingCondition, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "%") {
	case "", "none", "0":
		return StopNone, nil
	case "95":
		return Stop95, nil
	case "98":
		return Stop98, nil
	case "99":
		return Stop99, nil
	}
	return StopNone, fmt.Errorf("stopping condition %q not recognized", s)
}

// IterationsCutoff stops an automatically stopped simulation no matter what
// the statistics say.
const IterationsCutoff = 20000

// DefaultCheckInterval is how often, in iterations, the stopping condition
// is checked.
const DefaultCheckInterval = 500

// minIterationsForCutoff keeps candidates from being cut off on tiny samples.
const minIterationsForCutoff = 200

// shouldStop cuts off every candidate whose win rate is clearly below the
// leader's and returns true once at most one candidate is left.
func shouldStop(candidates []*Candidate, sc StoppingCondition, iterationCount uint64) bool {
	if len(candidates) < 2 {
		return true
	}
	if iterationCount > IterationsCutoff {
		return true
	}
	if iterationCount < minIterationsForCutoff {
		return false
	}
	c := slices.Clone(candidates)
	ignored := 0
	for _, p := range c {
		if p.Ignored() {
			ignored++
		}
	}
	if ignored >= len(c)-1 {
		return true
	}
	slices.SortFunc(c, func(a, b *Candidate) int {
		wa, wb := a.WinRate(), b.WinRate()
		switch {
		case wa > wb:
			return -1
		case wa < wb:
			return 1
		}
		return 0
	})

	var z float64
	switch sc {
	case Stop95:
		z = stats.Z95
	case Stop98:
		z = stats.Z98
	case Stop99:
		z = stats.Z99
	}

	leader := c[0]
	leader.RLock()
	leaderStats := leader.winStats
	leader.RUnlock()

	newIgnored := 0
	for _, p := range c[1:] {
		p.Lock()
		if !p.ignore && stats.Separated(&leaderStats, &p.winStats, z) {
			p.ignore = true
			newIgnored++
		}
		p.Unlock()
	}
	if newIgnored > 0 {
		log.Debug().Int("newIgnored", newIgnored).Msg("winrate-cut-off")
	}
	return ignored+newIgnored >= len(c)-1
}
