package pattern

import (
	"fmt"

	"github.com/domino14/tenpai/tilemapping"
)

// Group shapes are the same for every state, so they are built once.
var (
	pairOf    [tilemapping.NumKinds]tilemapping.TileSet
	tripletOf [tilemapping.NumKinds]tilemapping.TileSet
	runFrom   [tilemapping.NumKinds]tilemapping.TileSet
	hasRun    [tilemapping.NumKinds]bool
)

func init() {
	for _, k := range tilemapping.AllKinds() {
		pairOf[k] = tilemapping.TileSet{}.With(k, PairLength)
		tripletOf[k] = tilemapping.TileSet{}.With(k, TripletLength)
		if !k.IsHonor() && k.Rank() <= tilemapping.NumSuitRanks-RunLength+1 {
			hasRun[k] = true
			for i := 0; i < RunLength; i++ {
				runFrom[k] = runFrom[k].With(k+tilemapping.TileKind(i), 1)
			}
		}
	}
}

// Pair returns the pair of k.
func Pair(k tilemapping.TileKind) tilemapping.TileSet { return pairOf[k] }

// Triplet returns the triplet of k.
func Triplet(k tilemapping.TileKind) tilemapping.TileSet { return tripletOf[k] }

// Run returns the sequence that starts at k, if there is one.
func Run(k tilemapping.TileKind) (tilemapping.TileSet, bool) {
	return runFrom[k], hasRun[k]
}

// Standard is the usual shape of some melds and pairs. A meld is a triplet
// or a run of three consecutive ranks in one numbered suit.
//
// Runs are anchored at their lowest rank. Every search over patterns visits
// anchors in ascending kind order, so a run never has to be anchored at its
// middle or upper tile.
type Standard struct {
	pairs int
	melds int
}

// NewStandard creates a standard pattern needing the given pairs and melds.
func NewStandard(pairs, melds int) (Standard, error) {
	if err := validateGroups(pairs, melds); err != nil {
		return Standard{}, err
	}
	return Standard{pairs: pairs, melds: melds}, nil
}

// DefaultStandard is four melds and a pair.
func DefaultStandard() Standard {
	return Standard{pairs: 1, melds: 4}
}

func (s Standard) Pairs() int { return s.pairs }
func (s Standard) Melds() int { return s.melds }

func (s Standard) HasWin() bool {
	return s.pairs == 0 && s.melds == 0
}

func (s Standard) NextStates(k tilemapping.TileKind) []Transition {
	ts := make([]Transition, 0, 3)
	if s.pairs > 0 {
		ts = append(ts, Transition{Group: pairOf[k], Next: Standard{s.pairs - 1, s.melds}})
	}
	if s.melds > 0 {
		next := Standard{s.pairs, s.melds - 1}
		if hasRun[k] {
			ts = append(ts, Transition{Group: runFrom[k], Next: next})
		}
		ts = append(ts, Transition{Group: tripletOf[k], Next: next})
	}
	return ts
}

func (s Standard) NeedCount() int {
	return s.pairs*PairLength + s.melds*TripletLength
}

func (s Standard) MaxUnitLength() int {
	switch {
	case s.melds > 0:
		return TripletLength
	case s.pairs > 0:
		return PairLength
	}
	return 0
}

func (s Standard) NeedUnits() int {
	return s.pairs + s.melds
}

func (s Standard) String() string {
	return fmt.Sprintf("standard(pairs=%d,melds=%d)", s.pairs, s.melds)
}

func (Standard) sealed() {}
