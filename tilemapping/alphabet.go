package tilemapping

import "fmt"

// A tile kind is internally represented by a byte from 0 to NumKinds-1.
// Kinds are numbered suit by suit: characters (m), dots (p), bamboo (s),
// and then the honors (z). Ordering kinds by value is the same as ordering
// them by (suit, rank).
//
// A physical Tile is a kind with an optional red-five marker in the high bit,
// the same way a designated blank is marked on a machine letter.
const (
	// NumKinds is the size of the tile alphabet.
	NumKinds = 34
	// NumSuitRanks is the number of ranks in a numbered suit.
	NumSuitRanks = 9
	// NumHonorRanks is the number of honor tiles.
	NumHonorRanks = 7
	// CopiesPerKind is the physical supply of every kind.
	CopiesPerKind = 4
	// RedFiveDigit is the digit used in tile text for a red five.
	RedFiveDigit = '0'
)

const (
	RedMask   = 0x80
	UnredMask = (0x80 - 1)
)

// Suit is one of the four tile suits.
type Suit uint8

const (
	SuitMan Suit = iota
	SuitPin
	SuitSou
	SuitHonor
)

var suitLetters = [...]byte{'m', 'p', 's', 'z'}

// Letter returns the letter used for this suit in tile text.
func (s Suit) Letter() byte {
	return suitLetters[s]
}

// NumRanks returns how many ranks the suit has.
func (s Suit) NumRanks() int {
	if s == SuitHonor {
		return NumHonorRanks
	}
	return NumSuitRanks
}

func suitFromLetter(b byte) (Suit, bool) {
	for i, l := range suitLetters {
		if l == b {
			return Suit(i), true
		}
	}
	return 0, false
}

// TileKind is one of the 34 distinguishable tiles.
type TileKind uint8

// KindOf returns the kind with the given suit and 1-based rank.
func KindOf(s Suit, rank int) (TileKind, error) {
	if s > SuitHonor {
		return 0, fmt.Errorf("suit %d out of range", s)
	}
	if rank < 1 || rank > s.NumRanks() {
		return 0, fmt.Errorf("rank %d out of range for suit %c", rank, s.Letter())
	}
	return TileKind(int(s)*NumSuitRanks + rank - 1), nil
}

// Suit returns the suit of this kind.
func (k TileKind) Suit() Suit {
	return Suit(k / NumSuitRanks)
}

// Rank returns the 1-based rank of this kind within its suit.
func (k TileKind) Rank() int {
	return int(k%NumSuitRanks) + 1
}

// IsHonor returns true for the wind and dragon tiles.
func (k TileKind) IsHonor() bool {
	return k.Suit() == SuitHonor
}

// Valid returns true if the kind is inside the alphabet.
func (k TileKind) Valid() bool {
	return k < NumKinds
}

func (k TileKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("?%d", uint8(k))
	}
	return fmt.Sprintf("%d%c", k.Rank(), k.Suit().Letter())
}

// AllKinds returns every kind of the alphabet in order.
func AllKinds() []TileKind {
	kinds := make([]TileKind, NumKinds)
	for i := range kinds {
		kinds[i] = TileKind(i)
	}
	return kinds
}

// Tile is a physical tile: a kind, possibly marked as a red five. The red
// marker only matters for display; all matching is done on kinds.
type Tile uint8

// Red turns the tile into its red version. Only fives of a numbered suit can
// be red; other tiles are returned unchanged.
func (t Tile) Red() Tile {
	k := t.Kind()
	if k.IsHonor() || k.Rank() != 5 {
		return t
	}
	return t | RedMask
}

// Kind returns the tile's kind, dropping the red marker.
func (t Tile) Kind() TileKind {
	return TileKind(t & UnredMask)
}

// IsRed returns true if the tile is a red five.
func (t Tile) IsRed() bool {
	return t&RedMask > 0
}

func (t Tile) String() string {
	if t.IsRed() {
		return fmt.Sprintf("%c%c", RedFiveDigit, t.Kind().Suit().Letter())
	}
	return t.Kind().String()
}
