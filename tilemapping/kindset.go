package tilemapping

import "math/bits"

// KindSet is a bit mask of tile kinds, with bit i standing for TileKind(i).
type KindSet uint64

// KindSetOf builds a set from the given kinds.
func KindSetOf(kinds ...TileKind) KindSet {
	var ks KindSet
	for _, k := range kinds {
		ks = ks.Add(k)
	}
	return ks
}

func (ks KindSet) Add(k TileKind) KindSet {
	return ks | 1<<k
}

func (ks KindSet) Remove(k TileKind) KindSet {
	return ks &^ (1 << k)
}

func (ks KindSet) Has(k TileKind) bool {
	return ks&(1<<k) != 0
}

func (ks KindSet) Union(other KindSet) KindSet {
	return ks | other
}

// Len returns the number of kinds in the set.
func (ks KindSet) Len() int {
	return bits.OnesCount64(uint64(ks))
}

// Kinds returns the members in ascending order.
func (ks KindSet) Kinds() []TileKind {
	kinds := make([]TileKind, 0, ks.Len())
	for rest := uint64(ks); rest != 0; rest &= rest - 1 {
		kinds = append(kinds, TileKind(bits.TrailingZeros64(rest)))
	}
	return kinds
}

// TileSet returns a set with one copy of every member.
func (ks KindSet) TileSet() TileSet {
	return NewTileSet(ks.Kinds()...)
}

// String renders the members as tile text, e.g. "12m7p".
func (ks KindSet) String() string {
	return ks.TileSet().String()
}
