// Package analyzer ranks the discards of a hand by how close each leaves
// the hand to winning and by how many unseen tiles would bring it closer.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/tenpai/tilemapping"
)

var (
	ErrNoCalculators = errors.New("analyzer needs at least one calculator")
	ErrInvalidTiles  = errors.New("more than four copies of a kind")
	ErrEmptyHand     = errors.New("hand is empty")
)

// Calculator computes the shanten number and useful kinds of a hand for one
// win pattern. Every shanten strategy and every memoized strategy is one.
type Calculator interface {
	ShantenAndUsefulTiles(hand tilemapping.TileSet) (int, tilemapping.KindSet, error)
}

// Result is the combined evaluation of a hand over all patterns.
type Result struct {
	Shanten int
	// Useful is the union of the useful kinds of every pattern that
	// reaches Shanten.
	Useful tilemapping.KindSet
	// UsefulCount is the number of unseen tiles of the useful kinds.
	UsefulCount int
	// Patterns holds the indices of the calculators that reach Shanten.
	Patterns []int
}

// Discard is the result of discarding one kind.
type Discard struct {
	Result
	Tile tilemapping.TileKind
}

type JsonDiscard struct {
	Discard     string
	Shanten     int
	Useful      string
	UsefulCount int
}

func MakeJsonDiscard(d Discard) JsonDiscard {
	return JsonDiscard{
		Discard:     d.Tile.String(),
		Shanten:     d.Shanten,
		Useful:      d.Useful.String(),
		UsefulCount: d.UsefulCount,
	}
}

type Analyzer struct {
	calculators []Calculator
	threads     int
}

// NewAnalyzer creates an analyzer that evaluates every hand with each
// calculator and keeps the best.
func NewAnalyzer(calculators []Calculator, threads int) (*Analyzer, error) {
	if len(calculators) == 0 {
		return nil, ErrNoCalculators
	}
	return &Analyzer{calculators: calculators, threads: max(1, threads)}, nil
}

func validate(hand, visible tilemapping.TileSet) error {
	if !hand.ValidHand() || !visible.ValidHand() || !hand.Add(visible).ValidHand() {
		return fmt.Errorf("hand %v with visible %v: %w", hand, visible, ErrInvalidTiles)
	}
	return nil
}

// Evaluate returns the shanten number of hand over all patterns, with the
// useful kinds counted against the tiles not in hand or visible.
func (an *Analyzer) Evaluate(hand, visible tilemapping.TileSet) (Result, error) {
	if err := validate(hand, visible); err != nil {
		return Result{}, err
	}
	return an.evaluate(hand, tilemapping.RemainingWall(hand.Add(visible)))
}

func (an *Analyzer) evaluate(hand tilemapping.TileSet, wall tilemapping.StaticWall) (Result, error) {
	res := Result{Shanten: -2}
	for i, c := range an.calculators {
		s, useful, err := c.ShantenAndUsefulTiles(hand)
		if err != nil {
			return Result{}, err
		}
		switch {
		case res.Shanten == -2 || s < res.Shanten:
			res = Result{Shanten: s, Useful: useful, Patterns: []int{i}}
		case s == res.Shanten:
			res.Useful = res.Useful.Union(useful)
			res.Patterns = append(res.Patterns, i)
		}
	}
	res.UsefulCount = lo.SumBy(res.Useful.Kinds(), wall.WeightOf)
	return res, nil
}

// Analyze evaluates every distinct discard of hand, best first: lowest
// shanten, then most unseen useful tiles, then lowest kind. Discards are
// evaluated in parallel.
func (an *Analyzer) Analyze(ctx context.Context, hand, visible tilemapping.TileSet) ([]Discard, error) {
	logger := zerolog.Ctx(ctx)
	if err := validate(hand, visible); err != nil {
		return nil, err
	}
	kinds := hand.Kinds()
	if len(kinds) == 0 {
		return nil, ErrEmptyHand
	}
	// The discarded tile is on the table, so it stays out of the wall.
	wall := tilemapping.RemainingWall(hand.Add(visible))

	out := make([]Discard, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(an.threads)
	for i, k := range kinds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := an.evaluate(hand.With(k, -1), wall)
			if err != nil {
				return fmt.Errorf("discard %v: %w", k, err)
			}
			out[i] = Discard{Result: res, Tile: k}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	SortDiscards(out)
	logger.Debug().Str("hand", hand.String()).Int("discards", len(out)).Msg("analyzed-discards")
	return out, nil
}

func SortDiscards(ds []Discard) {
	slices.SortFunc(ds, func(a, b Discard) int {
		if a.Shanten != b.Shanten {
			return a.Shanten - b.Shanten
		}
		if a.UsefulCount != b.UsefulCount {
			return b.UsefulCount - a.UsefulCount
		}
		return int(a.Tile) - int(b.Tile)
	})
}

// Table renders discards one per line.
func Table(ds []Discard) string {
	var ss strings.Builder
	fmt.Fprintf(&ss, "%-9s%-9s%-8s%s\n", "Discard", "Shanten", "Tiles", "Useful")
	for _, d := range ds {
		fmt.Fprintf(&ss, "%-9s%-9d%-8d%s\n", d.Tile, d.Shanten, d.UsefulCount, d.Useful)
	}
	return ss.String()
}

// JSON renders discards as a JSON array.
func JSON(ds []Discard) ([]byte, error) {
	return json.Marshal(lo.Map(ds, func(d Discard, _ int) JsonDiscard {
		return MakeJsonDiscard(d)
	}))
}
