package tilemapping

import (
	"slices"
	"testing"

	"github.com/matryer/is"
)

func TestKinds(t *testing.T) {
	is := is.New(t)
	k, err := KindOf(SuitPin, 5)
	is.NoErr(err)
	is.Equal(k, TileKind(13))
	is.Equal(k.Suit(), SuitPin)
	is.Equal(k.Rank(), 5)
	is.Equal(k.String(), "5p")
	is.True(!k.IsHonor())

	k, err = KindOf(SuitHonor, 7)
	is.NoErr(err)
	is.Equal(k, TileKind(NumKinds-1))
	is.True(k.IsHonor())

	_, err = KindOf(SuitHonor, 8)
	is.True(err != nil)
	_, err = KindOf(SuitSou, 0)
	is.True(err != nil)
	is.Equal(len(AllKinds()), NumKinds)
}

func TestRedOnlyForFives(t *testing.T) {
	is := is.New(t)
	five, _ := KindOf(SuitSou, 5)
	is.True(Tile(five).Red().IsRed())
	is.Equal(Tile(five).Red().Kind(), five)
	four, _ := KindOf(SuitSou, 4)
	is.True(!Tile(four).Red().IsRed())
}

func TestArithmetic(t *testing.T) {
	is := is.New(t)
	a := MustFromString("1123m")
	b := MustFromString("1344m")
	is.Equal(a.Add(b).String(), "11123344m")
	is.Equal(a.Intersect(b).String(), "13m")
	is.Equal(a.Union(b).String(), "112344m")

	d := a.Sub(b)
	is.Equal(d.Positive().String(), "12m")
	is.Equal(d.Negative().String(), "44m")
	is.Equal(d.Size(), 0)

	is.True(a.Contains(MustFromString("12m")))
	is.True(!a.Contains(MustFromString("111m")))
	is.Equal(a.Count(0), 2)
	is.Equal(a.With(0, -2).String(), "23m")
	is.Equal(a.Kinds(), []TileKind{0, 1, 2})
	is.Equal(a.Tiles(), []TileKind{0, 0, 1, 2})
	is.Equal(a.KindSet(), KindSetOf(0, 1, 2))
	is.Equal(NewTileSet(0, 0, 1, 2), a)
}

func TestCompare(t *testing.T) {
	is := is.New(t)
	pair := MustFromString("55p")
	run := MustFromString("567p")
	is.Equal(Compare(pair, run), 1)
	is.Equal(Compare(run, pair), -1)
	is.Equal(Compare(pair, pair), 0)
	is.True(MustFromString("1m").Less(MustFromString("2m")))
	is.True(MustFromString("1m").Less(MustFromString("12m")))
	is.Equal(Compare(TileSet{}, TileSet{}), 0)

	sets := []TileSet{
		MustFromString("777z"),
		MustFromString("123m"),
		MustFromString("55p"),
		MustFromString("11m"),
	}
	slices.SortFunc(sets, Compare)
	// Entries compare kind first, then count, so 123m sorts before 11m.
	is.Equal(sets[0].String(), "123m")
	is.Equal(sets[1].String(), "11m")
	is.Equal(sets[3].String(), "777z")
}

func TestValidHand(t *testing.T) {
	is := is.New(t)
	is.True(MustFromString("1111m").ValidHand())
	is.True(!MustFromString("11111m").ValidHand())
	is.True(!TileSet{}.With(3, -1).ValidHand())
}

func TestKindSet(t *testing.T) {
	is := is.New(t)
	ks := KindSetOf(0, 33, 13)
	is.Equal(ks.Len(), 3)
	is.True(ks.Has(33))
	is.Equal(ks.Kinds(), []TileKind{0, 13, 33})
	is.Equal(ks.String(), "1m5p7z")
	ks = ks.Remove(33)
	is.True(!ks.Has(33))
	is.Equal(ks.Union(KindSetOf(1)).Len(), 3)
	is.Equal(ks.TileSet().Size(), 2)
}
