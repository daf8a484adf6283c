package tilemapping

import (
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"
)

func seededRNG() *frand.RNG {
	return frand.NewCustom(make([]byte, 32), 1024, 12)
}

func TestFullWall(t *testing.T) {
	is := is.New(t)
	w := FullWall()
	is.Equal(w.Size(), NumKinds*CopiesPerKind)
	is.Equal(w.WeightOf(20), CopiesPerKind)
}

func TestRemainingWall(t *testing.T) {
	is := is.New(t)
	visible := MustFromString("1111m5p")
	w := RemainingWall(visible)
	is.Equal(w.WeightOf(0), 0)
	is.Equal(w.WeightOf(13), 3)
	is.Equal(w.Size(), NumKinds*CopiesPerKind-5)

	// A set claiming more copies than exist leaves none, not a negative count.
	w = RemainingWall(TileSet{}.With(0, 6))
	is.Equal(w.WeightOf(0), 0)
}

func TestPick(t *testing.T) {
	is := is.New(t)
	w := NewStaticWall(MustFromString("12m"))
	next := w.Pick(0)
	is.Equal(next.WeightOf(0), 0)
	is.Equal(w.WeightOf(0), 1)
	is.Equal(next.Pick(0).WeightOf(1), 1)
	is.Equal(Weights(next)[1], 1)
}

func TestSampleWithoutReplacement(t *testing.T) {
	is := is.New(t)
	w := NewStaticWall(MustFromString("112z"))
	rng := seededRNG()
	for range 20 {
		var drawn TileSet
		for k := range Sample(w, 10, rng) {
			drawn[k]++
		}
		// Only three tiles exist, so the draw stops early and uses all of them.
		is.Equal(drawn, MustFromString("112z"))
	}
}

func TestSampleStopsAtN(t *testing.T) {
	is := is.New(t)
	rng := seededRNG()
	n := 0
	var drawn TileSet
	for k := range Sample(FullWall(), 13, rng) {
		n++
		drawn[k]++
	}
	is.Equal(n, 13)
	is.True(drawn.ValidHand())
}

func TestSampleFollowsWeights(t *testing.T) {
	is := is.New(t)
	w := NewStaticWall(MustFromString("1111m1p"))
	rng := seededRNG()
	man := 0
	const trials = 2000
	for range trials {
		for k := range Sample(w, 1, rng) {
			if k == 0 {
				man++
			}
		}
	}
	// 1m carries four fifths of the weight.
	is.True(man > trials*7/10)
	is.True(man < trials*9/10)
}

func TestSampleEmpty(t *testing.T) {
	is := is.New(t)
	for range Sample(NewStaticWall(TileSet{}), 5, seededRNG()) {
		t.Fatal("nothing to draw")
	}
	is.Equal(NewStaticWall(TileSet{}).Size(), 0)
}
