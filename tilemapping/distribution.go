package tilemapping

import (
	"iter"
)

// TileDistribution is the remaining supply of an abstract wall.
type TileDistribution interface {
	// WeightOf returns how many copies of k can still be drawn.
	WeightOf(k TileKind) int
	// Pick returns the distribution left after drawing one k.
	Pick(k TileKind) TileDistribution
}

// Intner is a source of uniform random integers in [0, n). A *frand.RNG
// satisfies it.
type Intner interface {
	Intn(n int) int
}

// StaticWall is a distribution backed by a fixed set of tiles.
type StaticWall struct {
	tiles TileSet
}

// NewStaticWall creates a wall from the given tiles. Negative counts are
// treated as zero.
func NewStaticWall(tiles TileSet) StaticWall {
	return StaticWall{tiles: tiles.Positive()}
}

// FullWall returns a wall with every copy of every kind.
func FullWall() StaticWall {
	var ts TileSet
	for i := range ts {
		ts[i] = CopiesPerKind
	}
	return StaticWall{tiles: ts}
}

// RemainingWall returns the full wall minus the visible tiles.
func RemainingWall(visible TileSet) StaticWall {
	return NewStaticWall(FullWall().tiles.Sub(visible))
}

func (w StaticWall) WeightOf(k TileKind) int {
	return w.tiles[k]
}

// Pick removes one copy of k. Picking a kind with no copies left returns the
// wall unchanged.
func (w StaticWall) Pick(k TileKind) TileDistribution {
	if w.tiles[k] == 0 {
		return w
	}
	return StaticWall{tiles: w.tiles.With(k, -1)}
}

// Tiles returns the tiles left in the wall.
func (w StaticWall) Tiles() TileSet {
	return w.tiles
}

// Size returns the number of tiles left in the wall.
func (w StaticWall) Size() int {
	return w.tiles.Size()
}

// Weights returns the weight of every kind, indexed by kind.
func Weights(d TileDistribution) [NumKinds]int {
	var ws [NumKinds]int
	for i := range ws {
		ws[i] = d.WeightOf(TileKind(i))
	}
	return ws
}

// Sample draws up to n kinds from d without replacement: each draw picks a
// kind with probability proportional to its weight, and the distribution is
// updated before the next draw. The sequence stops early if the distribution
// runs out of tiles. Every iteration of the returned sequence draws afresh.
func Sample(d TileDistribution, n int, rng Intner) iter.Seq[TileKind] {
	return func(yield func(TileKind) bool) {
		current := d
		for i := 0; i < n; i++ {
			k, ok := weightedChoice(current, rng)
			if !ok {
				return
			}
			if !yield(k) {
				return
			}
			current = current.Pick(k)
		}
	}
}

func weightedChoice(d TileDistribution, rng Intner) (TileKind, bool) {
	ws := Weights(d)
	total := 0
	for _, w := range ws {
		total += w
	}
	if total <= 0 {
		return 0, false
	}
	r := rng.Intn(total)
	for i, w := range ws {
		if w <= 0 {
			continue
		}
		if r < w {
			return TileKind(i), true
		}
		r -= w
	}
	// unreachable as long as weights don't change under us
	return 0, false
}
