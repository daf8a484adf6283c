package shanten

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"lukechampine.com/frand"

	"github.com/domino14/tenpai/pattern"
	"github.com/domino14/tenpai/tilemapping"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

type referenceHand struct {
	hand       string
	standard   int
	sevenPairs int
	useful     string
}

var referenceHands = []referenceHand{
	{"11266677788992m", 0, 1, "12m"},
	{"11246667778992m", 1, 1, "123789m"},
	{"4677m2357p668s6z6s", 2, 4, "5m146p"},
	{"477m2357p668s46z6m", 3, 4, "57m146p67s"},
	{"79m899p24668s256z", 4, 4, "8m6789p123456789s256z"},
	{"79m899p246689s56z", 3, 4, "8m79p367s"},
	{"1115555s456m111z", 1, 4, "123456789m123456789p2346789s234567z"},
	{"4677m2307p668s6z6s", 2, 4, "5m146p"},
	{"477m2307p668s46z6m", 3, 4, "57m146p67s"},
	{"1110555s406m111z", 1, 4, "123456789m123456789p2346789s234567z"},
}

func strategies(p pattern.WinPattern) []Waiting {
	return []Waiting{NewHeuristic(p), NewPatternMatch(p)}
}

func TestReferenceStandard(t *testing.T) {
	is := is.New(t)
	for _, w := range strategies(pattern.DefaultStandard()) {
		for _, tc := range referenceHands {
			hand := tilemapping.MustFromString(tc.hand)
			s, useful, err := w.ShantenAndUsefulTiles(hand)
			is.NoErr(err)
			assert.Equal(t, tc.standard, s, "%T %s", w, tc.hand)
			expected, err := tilemapping.KindSetFromString(tc.useful)
			is.NoErr(err)
			assert.Equal(t, expected.String(), useful.String(), "%T %s", w, tc.hand)

			alone, err := w.Shanten(hand)
			is.NoErr(err)
			is.Equal(alone, s)
		}
	}
}

func TestReferenceSevenPairs(t *testing.T) {
	is := is.New(t)
	for _, w := range strategies(pattern.SevenPairs()) {
		for _, tc := range referenceHands {
			s, err := w.Shanten(tilemapping.MustFromString(tc.hand))
			is.NoErr(err)
			assert.Equal(t, tc.sevenPairs, s, "%T %s", w, tc.hand)
		}
	}
}

func TestBruteForceReference(t *testing.T) {
	is := is.New(t)
	bf := NewBruteForce(pattern.DefaultStandard())
	s, err := bf.Shanten(tilemapping.MustFromString("112466677788992m"))
	is.NoErr(err)
	is.Equal(s, 0)

	for _, tc := range referenceHands {
		if tc.standard > 1 {
			continue
		}
		s, useful, err := bf.ShantenAndUsefulTiles(tilemapping.MustFromString(tc.hand))
		is.NoErr(err)
		is.Equal(s, tc.standard)
		expected := tilemapping.MustFromString(tc.useful).KindSet()
		is.Equal(useful, expected)
	}
}

func TestTenpaiScenario(t *testing.T) {
	is := is.New(t)
	hand := tilemapping.MustFromString("11266677788992m")
	for _, w := range strategies(pattern.DefaultStandard()) {
		s, useful, err := w.ShantenAndUsefulTiles(hand)
		is.NoErr(err)
		is.Equal(s, Tenpai)
		is.Equal(useful, tilemapping.KindSetOf(0, 1)) // 1m 2m
	}
}

func TestCompleteHand(t *testing.T) {
	is := is.New(t)
	hand := tilemapping.MustFromString("111123456s55567p")
	all := append(strategies(pattern.DefaultStandard()), NewBruteForce(pattern.DefaultStandard()))
	for _, w := range all {
		s, useful, err := w.ShantenAndUsefulTiles(hand)
		is.NoErr(err)
		is.Equal(s, Complete)
		is.Equal(useful.Len(), 0)
	}
}

func TestEmptyHand(t *testing.T) {
	is := is.New(t)
	s, useful, err := NewHeuristic(pattern.DefaultStandard()).ShantenAndUsefulTiles(tilemapping.TileSet{})
	is.NoErr(err)
	// Every one of the fourteen tiles must be drawn.
	is.Equal(s, 13)
	is.Equal(useful.Len(), tilemapping.NumKinds)

	for _, p := range []pattern.WinPattern{pattern.DefaultStandard(), pattern.SevenPairs()} {
		for _, w := range strategies(p) {
			s, err := w.Shanten(tilemapping.TileSet{})
			is.NoErr(err)
			is.Equal(s, 13)
		}
	}
}

func TestInvalidHand(t *testing.T) {
	is := is.New(t)
	var hand tilemapping.TileSet
	hand[3] = 5
	all := append(strategies(pattern.DefaultStandard()), NewBruteForce(pattern.DefaultStandard()))
	for _, w := range all {
		_, err := w.Shanten(hand)
		is.True(errors.Is(err, ErrInvalidHand))
		_, _, err = w.ShantenAndUsefulTiles(hand)
		is.True(errors.Is(err, ErrInvalidHand))
	}
	hand[3] = -1
	_, err := NewHeuristic(pattern.SevenPairs()).UsefulTiles(hand)
	is.True(errors.Is(err, ErrInvalidHand))
}

func TestSupplyCap(t *testing.T) {
	is := is.New(t)
	// Four copies of 1z still make a single pair.
	hand := tilemapping.MustFromString("1111z")
	s, useful, err := NewHeuristic(pattern.SevenPairs()).ShantenAndUsefulTiles(hand)
	is.NoErr(err)
	is.Equal(s, 11)
	is.True(!useful.Has(tilemapping.TileKind(27)))
	is.Equal(useful.Len(), tilemapping.NumKinds-1)

	s, err = NewPatternMatch(pattern.SevenPairs()).Shanten(hand)
	is.NoErr(err)
	is.Equal(s, 11)
}

func TestStrategyFromString(t *testing.T) {
	is := is.New(t)
	for name, expected := range map[string]Strategy{
		"heuristic":    HeuristicStrategy,
		"":             HeuristicStrategy,
		"PatternMatch": PatternMatchStrategy,
		"bf":           BruteForceStrategy,
	} {
		s, err := StrategyFromString(name)
		is.NoErr(err)
		is.Equal(s, expected)
	}
	_, err := StrategyFromString("oracle")
	is.True(errors.Is(err, ErrUnknownStrategy))

	w, err := New(BruteForceStrategy, pattern.SevenPairs())
	is.NoErr(err)
	is.Equal(w.Pattern().String(), pattern.SevenPairs().String())
	_, err = New(Strategy(9), pattern.SevenPairs())
	is.True(errors.Is(err, ErrUnknownStrategy))
}

func randomHand(rng *frand.RNG, n int) tilemapping.TileSet {
	var hand tilemapping.TileSet
	for k := range tilemapping.Sample(tilemapping.FullWall(), n, rng) {
		hand[k]++
	}
	return hand
}

func TestStrategiesAgree(t *testing.T) {
	is := is.New(t)
	small, err := pattern.NewStandard(1, 1)
	is.NoErr(err)
	pairs, err := pattern.NewUniquePairs(2)
	is.NoErr(err)

	rng := frand.NewCustom(make([]byte, 32), 1024, 12)
	for _, p := range []pattern.WinPattern{small, pairs} {
		bf, pm, h := NewBruteForce(p), NewPatternMatch(p), NewHeuristic(p)
		for i := range 40 {
			hand := randomHand(rng, 2+i%4)
			want, wantUseful, err := bf.ShantenAndUsefulTiles(hand)
			is.NoErr(err)
			for _, w := range []Waiting{pm, h} {
				got, gotUseful, err := w.ShantenAndUsefulTiles(hand)
				is.NoErr(err)
				assert.Equal(t, want, got, "%T %v %v", w, p, hand)
				assert.Equal(t, wantUseful.String(), gotUseful.String(), "%T %v %v", w, p, hand)
			}
		}
	}
}

func TestHeuristicAgreesWithPatternMatch(t *testing.T) {
	rng := frand.NewCustom([]byte("0123456789abcdef0123456789abcdef"), 1024, 12)
	for _, p := range []pattern.WinPattern{pattern.DefaultStandard(), pattern.SevenPairs()} {
		pm, h := NewPatternMatch(p), NewHeuristic(p)
		for i := range 8 {
			hand := randomHand(rng, 13+i%2)
			t.Run(fmt.Sprintf("%v/%v", p, hand), func(t *testing.T) {
				is := is.New(t)
				want, wantUseful, err := pm.ShantenAndUsefulTiles(hand)
				is.NoErr(err)
				got, gotUseful, err := h.ShantenAndUsefulTiles(hand)
				is.NoErr(err)
				is.Equal(got, want)
				is.Equal(gotUseful, wantUseful)
			})
		}
	}
}

func TestMonotonic(t *testing.T) {
	is := is.New(t)
	h := NewHeuristic(pattern.DefaultStandard())
	hand := tilemapping.MustFromString("79m899p246689s56z")
	base, useful, err := h.ShantenAndUsefulTiles(hand)
	is.NoErr(err)
	for _, k := range tilemapping.AllKinds() {
		if hand[k] == tilemapping.CopiesPerKind {
			continue
		}
		s, err := h.Shanten(hand.With(k, 1))
		is.NoErr(err)
		is.True(s <= base)
		is.True(s >= base-1)
		is.Equal(s < base, useful.Has(k))
	}
}
