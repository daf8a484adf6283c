package tilemapping

import (
	"strings"
)

// TileSet is a multiset over the tile alphabet, indexed by kind. It is a
// value type: every operation returns a new set and never changes its
// receiver.
//
// Counts are normally non-negative. Sub is signed arithmetic and may leave
// negative counts behind; callers that need a deficit should split the result
// with Positive and Negative instead of carrying negative counts around.
type TileSet [NumKinds]int

// NewTileSet creates a set holding the given kinds, one copy per occurrence.
func NewTileSet(kinds ...TileKind) TileSet {
	var ts TileSet
	for _, k := range kinds {
		ts[k]++
	}
	return ts
}

// FromTiles creates a set from physical tiles. Red fives count as fives.
func FromTiles(tiles []Tile) TileSet {
	var ts TileSet
	for _, t := range tiles {
		ts[t.Kind()]++
	}
	return ts
}

// Count returns how many copies of k are in the set.
func (ts TileSet) Count(k TileKind) int {
	return ts[k]
}

// With returns a copy of the set with n more copies of k (n may be negative).
func (ts TileSet) With(k TileKind, n int) TileSet {
	ts[k] += n
	return ts
}

// Add returns the sum of two sets.
func (ts TileSet) Add(other TileSet) TileSet {
	for i := range ts {
		ts[i] += other[i]
	}
	return ts
}

// Sub returns ts minus other. Counts may go negative.
func (ts TileSet) Sub(other TileSet) TileSet {
	for i := range ts {
		ts[i] -= other[i]
	}
	return ts
}

// Intersect keeps the smaller count of every kind.
func (ts TileSet) Intersect(other TileSet) TileSet {
	for i := range ts {
		ts[i] = min(ts[i], other[i])
	}
	return ts
}

// Union keeps the larger count of every kind.
func (ts TileSet) Union(other TileSet) TileSet {
	for i := range ts {
		ts[i] = max(ts[i], other[i])
	}
	return ts
}

// Positive keeps only the positive counts.
func (ts TileSet) Positive() TileSet {
	for i := range ts {
		ts[i] = max(ts[i], 0)
	}
	return ts
}

// Negative returns the deficit of the set: for every negative count, its
// absolute value.
func (ts TileSet) Negative() TileSet {
	for i := range ts {
		ts[i] = max(-ts[i], 0)
	}
	return ts
}

// Contains returns true if every count of ts is at least other's.
func (ts TileSet) Contains(other TileSet) bool {
	for i := range ts {
		if ts[i] < other[i] {
			return false
		}
	}
	return true
}

// Size returns the sum of all counts.
func (ts TileSet) Size() int {
	n := 0
	for _, c := range ts {
		n += c
	}
	return n
}

// Empty returns true if there are no tiles in the set.
func (ts TileSet) Empty() bool {
	return ts == TileSet{}
}

// Kinds returns the kinds with a positive count, in order.
func (ts TileSet) Kinds() []TileKind {
	kinds := make([]TileKind, 0, NumKinds)
	for i, c := range ts {
		if c > 0 {
			kinds = append(kinds, TileKind(i))
		}
	}
	return kinds
}

// KindSet returns the kinds with a positive count as a bit set.
func (ts TileSet) KindSet() KindSet {
	var ks KindSet
	for i, c := range ts {
		if c > 0 {
			ks = ks.Add(TileKind(i))
		}
	}
	return ks
}

// Tiles expands the set into a sorted list of kinds, one entry per copy.
func (ts TileSet) Tiles() []TileKind {
	kinds := make([]TileKind, 0, ts.Positive().Size())
	for i, c := range ts {
		for j := 0; j < c; j++ {
			kinds = append(kinds, TileKind(i))
		}
	}
	return kinds
}

// Compare orders sets by the list of their (kind, count) entries with a
// non-zero count, compared lexicographically. It returns -1, 0 or 1.
func Compare(a, b TileSet) int {
	i, j := 0, 0
	for {
		for i < NumKinds && a[i] == 0 {
			i++
		}
		for j < NumKinds && b[j] == 0 {
			j++
		}
		switch {
		case i == NumKinds && j == NumKinds:
			return 0
		case i == NumKinds:
			return -1
		case j == NumKinds:
			return 1
		case i != j:
			// The set whose next entry has the smaller kind comes first.
			if i < j {
				return -1
			}
			return 1
		case a[i] != b[j]:
			if a[i] < b[j] {
				return -1
			}
			return 1
		}
		i++
		j++
	}
}

// Less reports whether ts sorts before other.
func (ts TileSet) Less(other TileSet) bool {
	return Compare(ts, other) < 0
}

// String returns tile text for the positive part of the set, such as
// "123m55p777z". Suits without tiles are left out.
func (ts TileSet) String() string {
	var sb strings.Builder
	for s := SuitMan; s <= SuitHonor; s++ {
		wrote := false
		for r := 1; r <= s.NumRanks(); r++ {
			k := TileKind(int(s)*NumSuitRanks + r - 1)
			for c := 0; c < ts[k]; c++ {
				sb.WriteByte(byte('0' + r))
				wrote = true
			}
		}
		if wrote {
			sb.WriteByte(s.Letter())
		}
	}
	return sb.String()
}

// ValidHand returns true if every count is between zero and the physical
// supply of a kind.
func (ts TileSet) ValidHand() bool {
	for _, c := range ts {
		if c < 0 || c > CopiesPerKind {
			return false
		}
	}
	return true
}
