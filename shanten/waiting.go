// Package shanten computes how far a hand is from completing a win pattern,
// and which tile kinds bring it closer.
//
// There are three strategies. BruteForce adds every combination of tiles
// until the hand matches and serves as the reference. PatternMatch drives an
// iterative-deepening search through the pattern's transitions. Heuristic
// does the same search as a branch and bound. All three return the same
// answers; they differ only in speed.
//
// The search borrows tiles: a group that the hand cannot fully supply takes
// the missing tiles from an imaginary wall. The number of borrowed tiles of
// the cheapest winning shape, minus one, is the shanten number. No kind can
// be borrowed past its physical supply of four copies.
package shanten

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/tenpai/pattern"
	"github.com/domino14/tenpai/tilemapping"
)

// Tenpai is the shanten number of a hand one tile away from winning.
const Tenpai = 0

// Complete is the shanten number of a hand that already wins.
const Complete = -1

var (
	ErrInvalidHand     = errors.New("hand must hold between 0 and 4 copies of every kind")
	ErrNoWinningShape  = errors.New("no winning shape within reach")
	ErrUnknownStrategy = errors.New("unknown waiting strategy")
)

// Waiting is implemented by BruteForce, PatternMatch and Heuristic only.
// Implementations hold nothing but their pattern, so a single value may be
// used from several goroutines at once.
type Waiting interface {
	// Shanten returns the number of tile exchanges the hand is away from
	// tenpai; -1 if it already wins.
	Shanten(hand tilemapping.TileSet) (int, error)
	// UsefulTiles returns the kinds whose addition lowers the shanten number.
	UsefulTiles(hand tilemapping.TileSet) (tilemapping.KindSet, error)
	// ShantenAndUsefulTiles returns both values, sharing work where it can.
	ShantenAndUsefulTiles(hand tilemapping.TileSet) (int, tilemapping.KindSet, error)
	// Pattern returns the win pattern the strategy searches for.
	Pattern() pattern.WinPattern

	sealed()
}

// Strategy names a Waiting implementation.
type Strategy int

const (
	HeuristicStrategy Strategy = iota
	PatternMatchStrategy
	BruteForceStrategy
)

func (s Strategy) String() string {
	switch s {
	case HeuristicStrategy:
		return "heuristic"
	case PatternMatchStrategy:
		return "patternmatch"
	case BruteForceStrategy:
		return "bruteforce"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// StrategyFromString parses a strategy name.
func StrategyFromString(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "heuristic", "bb", "branchandbound":
		return HeuristicStrategy, nil
	case "patternmatch", "pattern", "pm":
		return PatternMatchStrategy, nil
	case "bruteforce", "brute", "bf":
		return BruteForceStrategy, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// New returns the strategy s searching for p.
func New(s Strategy, p pattern.WinPattern) (Waiting, error) {
	switch s {
	case HeuristicStrategy:
		return NewHeuristic(p), nil
	case PatternMatchStrategy:
		return NewPatternMatch(p), nil
	case BruteForceStrategy:
		return NewBruteForce(p), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownStrategy, s)
}

// BorrowLimit returns how many more copies of every kind could still be
// drawn given the hand.
func BorrowLimit(hand tilemapping.TileSet) tilemapping.TileSet {
	var limit tilemapping.TileSet
	for i, c := range hand {
		limit[i] = tilemapping.CopiesPerKind - c
	}
	return limit
}

// maxBorrowCeiling bounds any possible shanten number for the hand.
func maxBorrowCeiling(hand tilemapping.TileSet) int {
	return hand.Size() + tilemapping.CopiesPerKind*tilemapping.NumKinds
}

func validate(hand tilemapping.TileSet) error {
	if !hand.ValidHand() {
		return fmt.Errorf("%w: %v", ErrInvalidHand, hand)
	}
	return nil
}

// usefulByAddition collects the kinds whose addition to hand gives a
// shanten number below base. shantenOf must compute the shanten number of a
// valid hand.
func usefulByAddition(hand tilemapping.TileSet, base int,
	shantenOf func(tilemapping.TileSet) (int, error)) (tilemapping.KindSet, error) {

	var useful tilemapping.KindSet
	for _, k := range tilemapping.AllKinds() {
		if hand[k] >= tilemapping.CopiesPerKind {
			continue
		}
		s, err := shantenOf(hand.With(k, 1))
		if err != nil {
			return 0, err
		}
		if s < base {
			useful = useful.Add(k)
		}
	}
	return useful, nil
}
