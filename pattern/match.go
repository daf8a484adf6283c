package pattern

import (
	"iter"
	"slices"

	"github.com/domino14/tenpai/tilemapping"
)

// WinSelections returns every way to pick groups out of hand that completes
// p. Each selection is a list of groups; tiles of the hand that are not part
// of any group are left over. Kinds are visited in ascending order, and once
// every group anchored at a kind has been tried the kind is dropped, so the
// same partition is not produced again in a different group order. It may
// still be produced more than once if it can be anchored differently; see
// UniqueWinSelections.
//
// The sequence is computed lazily and can be ranged over any number of times.
func WinSelections(hand tilemapping.TileSet, p WinPattern) iter.Seq[[]tilemapping.TileSet] {
	return func(yield func([]tilemapping.TileSet) bool) {
		groups := make([]tilemapping.TileSet, 0, p.NeedUnits())
		walkSelections(hand.Positive(), p, groups, yield)
	}
}

// walkSelections returns false once the consumer asked to stop.
func walkSelections(hand tilemapping.TileSet, p WinPattern, groups []tilemapping.TileSet,
	yield func([]tilemapping.TileSet) bool) bool {

	if p.HasWin() {
		return yield(slices.Clone(groups))
	}
	remaining := hand.Size()
	if p.NeedCount() > remaining {
		return true
	}
	for i := range hand {
		if hand[i] == 0 {
			continue
		}
		for _, t := range p.NextStates(tilemapping.TileKind(i)) {
			if !hand.Contains(t.Group) {
				continue
			}
			if !walkSelections(hand.Sub(t.Group), t.Next, append(groups, t.Group), yield) {
				return false
			}
		}
		remaining -= hand[i]
		hand[i] = 0
		if p.NeedCount() > remaining {
			return true
		}
	}
	return true
}

// Match returns true if some subset of hand completes p.
func Match(hand tilemapping.TileSet, p WinPattern) bool {
	for range WinSelections(hand, p) {
		return true
	}
	return false
}

// MatchAny returns true if hand completes any of the patterns.
func MatchAny(hand tilemapping.TileSet, ps []WinPattern) bool {
	for _, p := range ps {
		if Match(hand, p) {
			return true
		}
	}
	return false
}

// CompareSelections orders selections whose groups are already sorted.
func CompareSelections(a, b []tilemapping.TileSet) int {
	return slices.CompareFunc(a, b, tilemapping.Compare)
}

// UniqueWinSelections is WinSelections with duplicates removed. Two
// selections are duplicates if they hold the same groups in any order. Groups
// of each returned selection are sorted.
//
// Selections already produced are kept in a sorted slice and looked up by
// binary search; the underlying sequence is still pulled one selection at a
// time.
func UniqueWinSelections(hand tilemapping.TileSet, p WinPattern) iter.Seq[[]tilemapping.TileSet] {
	return func(yield func([]tilemapping.TileSet) bool) {
		var seen [][]tilemapping.TileSet
		for sel := range WinSelections(hand, p) {
			slices.SortFunc(sel, tilemapping.Compare)
			idx, found := slices.BinarySearchFunc(seen, sel, CompareSelections)
			if found {
				continue
			}
			seen = slices.Insert(seen, idx, sel)
			if !yield(slices.Clone(sel)) {
				return
			}
		}
	}
}
