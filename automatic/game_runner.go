// Package automatic plays solo hands to the end with the discard analyzer
// choosing every discard, and collects what happened so that strategies and
// patterns can be compared over many deals.
package automatic

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tenpai/analyzer"
	"github.com/domino14/tenpai/pattern"
	"github.com/domino14/tenpai/tilemapping"
)

const (
	// HandSize is the number of tiles dealt.
	HandSize = 13
	// DefaultMaxTurns is the number of draws a player gets from a full
	// wall after the dead wall and three opponents take their share.
	DefaultMaxTurns = 18
)

var ErrShortWall = errors.New("wall ran out before the deal")

// GameResult is the outcome of one game.
type GameResult struct {
	GameID string
	// WonAt is the turn the hand won on, or 0 if it never did.
	WonAt int
	// FinalShanten is the shanten number after the last turn.
	FinalShanten int
}

// GameRunner plays games one at a time.
type GameRunner struct {
	analyzer *analyzer.Analyzer
	patterns []pattern.WinPattern
	maxTurns int
	logchan  chan string
}

// NewGameRunner makes a runner that sends one CSV line per turn to logchan,
// if it is not nil.
func NewGameRunner(logchan chan string, an *analyzer.Analyzer, patterns []pattern.WinPattern, maxTurns int) *GameRunner {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &GameRunner{analyzer: an, patterns: patterns, maxTurns: maxTurns, logchan: logchan}
}

// Deal draws the starting hand and the draws of a game from a full wall.
func (r *GameRunner) Deal(rng tilemapping.Intner) (tilemapping.TileSet, []tilemapping.TileKind, error) {
	tiles := slices.Collect(tilemapping.Sample(tilemapping.FullWall(), HandSize+r.maxTurns, rng))
	if len(tiles) < HandSize+r.maxTurns {
		return tilemapping.TileSet{}, nil, ErrShortWall
	}
	return tilemapping.NewTileSet(tiles[:HandSize]...), tiles[HandSize:], nil
}

// PlayGame deals a hand and plays it out. Each turn draws a tile, stops if
// the hand wins, and otherwise discards the analyzer's best discard. The
// player's own discards count as visible tiles.
func (r *GameRunner) PlayGame(ctx context.Context, gameID string, rng tilemapping.Intner) (GameResult, error) {
	hand, draws, err := r.Deal(rng)
	if err != nil {
		return GameResult{}, err
	}
	res := GameResult{GameID: gameID}
	var discarded tilemapping.TileSet
	for turn, draw := range draws {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		hand[draw]++
		if pattern.MatchAny(hand, r.patterns) {
			res.WonAt = turn + 1
			res.FinalShanten = -1
			r.logTurn(gameID, turn+1, hand, draw, "-", -1, 0)
			break
		}
		ds, err := r.analyzer.Analyze(ctx, hand, discarded)
		if err != nil {
			return res, fmt.Errorf("game %s turn %d: %w", gameID, turn+1, err)
		}
		best := ds[0]
		r.logTurn(gameID, turn+1, hand, draw, best.Tile.String(), best.Shanten, best.UsefulCount)
		hand[best.Tile]--
		discarded[best.Tile]++
		res.FinalShanten = best.Shanten
	}
	log.Debug().Str("game", gameID).Int("wonAt", res.WonAt).Int("shanten", res.FinalShanten).Msg("game-over")
	return res, nil
}

func (r *GameRunner) logTurn(gameID string, turn int, hand tilemapping.TileSet, draw tilemapping.TileKind,
	discard string, shanten, useful int) {
	if r.logchan == nil {
		return
	}
	r.logchan <- fmt.Sprintf("%v,%v,%v,%v,%v,%v,%v\n",
		gameID, turn, hand, draw, discard, shanten, useful)
}
