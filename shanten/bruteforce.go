package shanten

import (
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/domino14/tenpai/pattern"
	"github.com/domino14/tenpai/tilemapping"
)

// BruteForce tries every multiset of extra tiles, smallest first. It is
// exponential in the shanten number and exists to check the other
// strategies.
type BruteForce struct {
	pattern pattern.WinPattern
}

func NewBruteForce(p pattern.WinPattern) *BruteForce {
	return &BruteForce{pattern: p}
}

func (b *BruteForce) Pattern() pattern.WinPattern { return b.pattern }

func (b *BruteForce) Shanten(hand tilemapping.TileSet) (int, error) {
	if err := validate(hand); err != nil {
		return 0, err
	}
	return b.shanten(hand)
}

func (b *BruteForce) shanten(hand tilemapping.TileSet) (int, error) {
	if pattern.Match(hand, b.pattern) {
		return Complete, nil
	}
	ceiling := maxBorrowCeiling(hand)
	extra := make([]int, 0, ceiling)
	tried := 0
	for need := 1; need <= ceiling; need++ {
		// Combinations with repetition of `need` kinds out of n are the
		// plain combinations of `need` out of n+need-1, shifted down by
		// their position.
		gen := combin.NewCombinationGenerator(tilemapping.NumKinds+need-1, need)
		for gen.Next() {
			extra = gen.Combination(extra[:need])
			tried++
			added := hand
			ok := true
			for i, c := range extra {
				k := tilemapping.TileKind(c - i)
				added[k]++
				if added[k] > tilemapping.CopiesPerKind {
					ok = false
					break
				}
			}
			if ok && pattern.Match(added, b.pattern) {
				log.Debug().Int("need", need).Int("tried", tried).
					Str("hand", hand.String()).Msg("bruteforce-found")
				return need - 1, nil
			}
		}
	}
	return 0, ErrNoWinningShape
}

func (b *BruteForce) UsefulTiles(hand tilemapping.TileSet) (tilemapping.KindSet, error) {
	_, useful, err := b.ShantenAndUsefulTiles(hand)
	return useful, err
}

func (b *BruteForce) ShantenAndUsefulTiles(hand tilemapping.TileSet) (int, tilemapping.KindSet, error) {
	if err := validate(hand); err != nil {
		return 0, 0, err
	}
	base, err := b.shanten(hand)
	if err != nil {
		return 0, 0, err
	}
	useful, err := usefulByAddition(hand, base, b.shanten)
	if err != nil {
		return 0, 0, err
	}
	return base, useful, nil
}

func (*BruteForce) sealed() {}
