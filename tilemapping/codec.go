package tilemapping

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrMalformedTiles is wrapped by every error returned from the tile text
// parser.
var ErrMalformedTiles = errors.New("malformed tile text")

// ParseError describes where tile text could not be parsed.
type ParseError struct {
	Text   string
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q at offset %d: %s", ErrMalformedTiles, e.Text, e.Offset, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedTiles
}

// ToTiles parses tile text into physical tiles. Text is a sequence of runs,
// each made of digits followed by a suit letter: "123m" is three sequential
// characters, "0p" is a red five of dots, "77z" is a pair of the seventh
// honor. Runs may be separated by whitespace.
func ToTiles(text string) ([]Tile, error) {
	tiles := []Tile{}
	pending := []byte{}
	pendingStart := 0
	for idx, ch := range text {
		switch {
		case ch >= '0' && ch <= '9':
			if len(pending) == 0 {
				pendingStart = idx
			}
			pending = append(pending, byte(ch))
		case unicode.IsSpace(ch):
			if len(pending) > 0 {
				return nil, &ParseError{text, idx, "digits without a suit letter"}
			}
		default:
			if ch > unicode.MaxASCII {
				return nil, &ParseError{text, idx, fmt.Sprintf("unexpected character %q", ch)}
			}
			suit, ok := suitFromLetter(byte(ch))
			if !ok {
				return nil, &ParseError{text, idx, fmt.Sprintf("unknown suit %q", ch)}
			}
			if len(pending) == 0 {
				return nil, &ParseError{text, idx, fmt.Sprintf("suit %q without digits", ch)}
			}
			for i, d := range pending {
				t, err := tileFromDigit(d, suit)
				if err != nil {
					return nil, &ParseError{text, pendingStart + i, err.Error()}
				}
				tiles = append(tiles, t)
			}
			pending = pending[:0]
		}
	}
	if len(pending) > 0 {
		return nil, &ParseError{text, pendingStart, "digits without a suit letter"}
	}
	return tiles, nil
}

func tileFromDigit(d byte, suit Suit) (Tile, error) {
	if d == RedFiveDigit {
		if suit == SuitHonor {
			return 0, errors.New("honors have no red five")
		}
		k, _ := KindOf(suit, 5)
		return Tile(k).Red(), nil
	}
	k, err := KindOf(suit, int(d-'0'))
	if err != nil {
		return 0, err
	}
	return Tile(k), nil
}

// FromString parses tile text into a TileSet. Red fives count as fives.
func FromString(text string) (TileSet, error) {
	tiles, err := ToTiles(text)
	if err != nil {
		return TileSet{}, err
	}
	return FromTiles(tiles), nil
}

// MustFromString is like FromString but panics on malformed text. It is
// meant for constant tile text in tests and tables.
func MustFromString(text string) TileSet {
	ts, err := FromString(text)
	if err != nil {
		panic(err)
	}
	return ts
}

// KindSetFromString parses tile text and returns the kinds it mentions.
func KindSetFromString(text string) (KindSet, error) {
	ts, err := FromString(text)
	if err != nil {
		return 0, err
	}
	return ts.KindSet(), nil
}

// TilesString renders physical tiles in the order given, merging adjacent
// tiles of the same suit into one run.
func TilesString(tiles []Tile) string {
	bts := make([]byte, 0, len(tiles)*2)
	for i, t := range tiles {
		if t.IsRed() {
			bts = append(bts, RedFiveDigit)
		} else {
			bts = append(bts, byte('0'+t.Kind().Rank()))
		}
		if i == len(tiles)-1 || tiles[i+1].Kind().Suit() != t.Kind().Suit() {
			bts = append(bts, t.Kind().Suit().Letter())
		}
	}
	return string(bts)
}
