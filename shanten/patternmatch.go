package shanten

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/tenpai/pattern"
	"github.com/domino14/tenpai/tilemapping"
)

// PatternMatch searches the pattern's transitions directly, with iterative
// deepening over the number of borrowed tiles. At depth d it enumerates every
// winning shape that borrows at most d tiles; the first depth with a shape is
// the answer.
type PatternMatch struct {
	pattern pattern.WinPattern
}

func NewPatternMatch(p pattern.WinPattern) *PatternMatch {
	return &PatternMatch{pattern: p}
}

func (pm *PatternMatch) Pattern() pattern.WinPattern { return pm.pattern }

// borrowSearch is the state of one deepening pass.
type borrowSearch struct {
	maxBorrow int
	limit     tilemapping.TileSet
	// stopAtFirst ends the pass as soon as one shape is found.
	stopAtFirst bool

	found  bool
	useful tilemapping.KindSet
	nodes  int
}

// search walks the transitions of state. held is what is left of the hand,
// borrowed what the groups placed so far had to take from the wall. It
// returns false when the pass should stop.
func (bs *borrowSearch) search(held, borrowed tilemapping.TileSet, nborrowed int,
	state pattern.WinPattern, start int) bool {

	bs.nodes++
	if nborrowed > bs.maxBorrow {
		return true
	}
	for i, c := range borrowed {
		if c > bs.limit[i] {
			return true
		}
	}
	if state.HasWin() {
		bs.found = true
		bs.useful = bs.useful.Union(borrowed.KindSet())
		return !bs.stopAtFirst
	}
	heldSize := held.Size()
	if state.NeedCount() > heldSize+bs.maxBorrow-nborrowed {
		return true
	}
	for i := start; i < tilemapping.NumKinds; i++ {
		for _, t := range state.NextStates(tilemapping.TileKind(i)) {
			nextHeld, nextBorrowed, n := take(held, borrowed, t.Group)
			if !bs.search(nextHeld, nextBorrowed, nborrowed+n, t.Next, i) {
				return false
			}
		}
		// Later anchors only build groups from kinds above i, so the held
		// copies of i can no longer be used at this level.
		heldSize -= held[i]
		held[i] = 0
		if state.NeedCount() > heldSize+bs.maxBorrow-nborrowed {
			return true
		}
	}
	return true
}

// take removes group from held, borrowing whatever held cannot supply. It
// returns the new held and borrowed sets and the number of tiles borrowed.
func take(held, borrowed, group tilemapping.TileSet) (tilemapping.TileSet, tilemapping.TileSet, int) {
	n := 0
	for i, need := range group {
		if need == 0 {
			continue
		}
		if held[i] >= need {
			held[i] -= need
			continue
		}
		short := need - held[i]
		held[i] = 0
		borrowed[i] += short
		n += short
	}
	return held, borrowed, n
}

func (pm *PatternMatch) deepen(hand tilemapping.TileSet, stopAtFirst bool) (int, tilemapping.KindSet, error) {
	if err := validate(hand); err != nil {
		return 0, 0, err
	}
	limit := BorrowLimit(hand)
	ceiling := maxBorrowCeiling(hand)
	nodes := 0
	for maxBorrow := 0; maxBorrow <= ceiling; maxBorrow++ {
		bs := &borrowSearch{maxBorrow: maxBorrow, limit: limit, stopAtFirst: stopAtFirst}
		bs.search(hand, tilemapping.TileSet{}, 0, pm.pattern, 0)
		nodes += bs.nodes
		if bs.found {
			log.Debug().Int("depth", maxBorrow).Int("nodes", nodes).
				Str("hand", hand.String()).Msg("patternmatch-found")
			return maxBorrow - 1, bs.useful, nil
		}
	}
	return 0, 0, ErrNoWinningShape
}

func (pm *PatternMatch) Shanten(hand tilemapping.TileSet) (int, error) {
	s, _, err := pm.deepen(hand, true)
	return s, err
}

func (pm *PatternMatch) UsefulTiles(hand tilemapping.TileSet) (tilemapping.KindSet, error) {
	_, useful, err := pm.deepen(hand, false)
	return useful, err
}

func (pm *PatternMatch) ShantenAndUsefulTiles(hand tilemapping.TileSet) (int, tilemapping.KindSet, error) {
	return pm.deepen(hand, false)
}

func (*PatternMatch) sealed() {}
