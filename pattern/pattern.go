// Package pattern describes the structural shapes a winning hand can take
// and finds the ways a hand satisfies them.
//
// A WinPattern is an immutable state: it records which groups are still
// needed. NextStates anchors one more group at a tile kind and returns the
// group together with the state that remains once the group is in place.
// Every transition lowers NeedUnits by one, so any chain of transitions is
// finite.
package pattern

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/tenpai/tilemapping"
)

const (
	PairLength    = 2
	TripletLength = 3
	RunLength     = 3
)

var (
	ErrNegativeGroups = errors.New("group counts cannot be negative")
	ErrTooManyGroups  = errors.New("pattern asks for more groups than there are tile kinds")
	ErrUnknownPattern = errors.New("unknown win pattern")
)

// Transition is one way to place a group: the tiles of the group and the
// pattern state that is left once it is placed.
type Transition struct {
	Group tilemapping.TileSet
	Next  WinPattern
}

// WinPattern is implemented by Standard and UniquePairs only.
type WinPattern interface {
	// HasWin returns true once no more groups are needed.
	HasWin() bool
	// NextStates returns every group this state can anchor at k.
	NextStates(k tilemapping.TileKind) []Transition
	// NeedCount is the number of tiles still required.
	NeedCount() int
	// MaxUnitLength is the size of the largest group that can still be
	// requested, or 0 if the pattern is complete.
	MaxUnitLength() int
	// NeedUnits is the number of groups still required.
	NeedUnits() int
	String() string

	sealed()
}

// FromName returns the pattern for a configuration or shell name.
func FromName(name string) (WinPattern, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "standard", "normal", "std":
		return DefaultStandard(), nil
	case "pairs", "sevenpairs", "seven-pairs", "chiitoi", "chiitoitsu":
		return SevenPairs(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
}

// FromNames parses a comma-separated list of pattern names.
func FromNames(names string) ([]WinPattern, error) {
	var ps []WinPattern
	for _, n := range strings.Split(names, ",") {
		p, err := FromName(n)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, nil
}

func validateGroups(pairs, melds int) error {
	if pairs < 0 || melds < 0 {
		return ErrNegativeGroups
	}
	// One group per kind always fits under the four-copy cap, so any
	// pattern within this limit has a reachable winning shape.
	if pairs+melds > tilemapping.NumKinds {
		return ErrTooManyGroups
	}
	return nil
}
