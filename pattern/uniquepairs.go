package pattern

import (
	"fmt"

	"github.com/domino14/tenpai/tilemapping"
)

// SevenPairsCount is the number of pairs in the seven-pairs hand.
const SevenPairsCount = 7

// UniquePairs needs a number of pairs, each of a different kind.
type UniquePairs struct {
	pairs int
	used  tilemapping.KindSet
}

// NewUniquePairs creates a pattern needing the given number of distinct pairs.
func NewUniquePairs(pairs int) (UniquePairs, error) {
	if err := validateGroups(pairs, 0); err != nil {
		return UniquePairs{}, err
	}
	return UniquePairs{pairs: pairs}, nil
}

// SevenPairs is the seven distinct pairs hand.
func SevenPairs() UniquePairs {
	return UniquePairs{pairs: SevenPairsCount}
}

func (u UniquePairs) Pairs() int                { return u.pairs }
func (u UniquePairs) Used() tilemapping.KindSet { return u.used }

func (u UniquePairs) HasWin() bool {
	return u.pairs == 0
}

func (u UniquePairs) NextStates(k tilemapping.TileKind) []Transition {
	if u.pairs == 0 || u.used.Has(k) {
		return nil
	}
	return []Transition{{
		Group: pairOf[k],
		Next:  UniquePairs{pairs: u.pairs - 1, used: u.used.Add(k)},
	}}
}

func (u UniquePairs) NeedCount() int {
	return u.pairs * PairLength
}

func (u UniquePairs) MaxUnitLength() int {
	if u.pairs == 0 {
		return 0
	}
	return PairLength
}

func (u UniquePairs) NeedUnits() int {
	return u.pairs
}

func (u UniquePairs) String() string {
	if u.used == 0 {
		return fmt.Sprintf("unique-pairs(pairs=%d)", u.pairs)
	}
	return fmt.Sprintf("unique-pairs(pairs=%d,used=%s)", u.pairs, u.used)
}

func (UniquePairs) sealed() {}
