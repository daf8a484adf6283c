// Package montecarlo estimates how often each discard of a hand goes on to
// win within a number of draws.
package montecarlo

/*
	How to estimate:

	For iteration in iterations:
		draw `draws` tiles from the unseen wall, the same tiles for
		every discard so that candidates are compared on equal terms.
		For discard in candidates:
			hand := hand - discard
			for each drawn tile, add it to hand and stop at the first
			draw at which some pattern matches.
		record win / no win and the draw that won.
*/

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/domino14/tenpai/pattern"
	"github.com/domino14/tenpai/stats"
	"github.com/domino14/tenpai/tilemapping"
)

var (
	ErrNotInitialized = errors.New("please initialize the estimator first")
	ErrNoCandidates   = errors.New("hand has no tile to discard")
	ErrNoDraws        = errors.New("draws must be positive")
	ErrNoWins         = errors.New("no winning iterations recorded for this discard")
	ErrInvalidTiles   = errors.New("more than four copies of a kind")
)

// Candidate is one discard and what the simulation found for it.
type Candidate struct {
	sync.RWMutex
	discard tilemapping.TileKind
	// winStats holds 1 for every iteration that won, 0 otherwise.
	winStats stats.Statistic
	// drawStats holds the draw number of every winning iteration.
	drawStats stats.Statistic
	// winsAt[i] counts the iterations that won on draw i+1.
	winsAt []int
	ignore bool
}

func (c *Candidate) Discard() tilemapping.TileKind { return c.discard }

// WinRate returns the fraction of iterations that won, from 0 to 1.
func (c *Candidate) WinRate() float64 {
	c.RLock()
	defer c.RUnlock()
	return c.winStats.Mean()
}

// MeanDraws returns the mean draw number among winning iterations.
func (c *Candidate) MeanDraws() float64 {
	c.RLock()
	defer c.RUnlock()
	return c.drawStats.Mean()
}

// Ignored returns true if the candidate was cut off by the stopping
// condition.
func (c *Candidate) Ignored() bool {
	c.RLock()
	defer c.RUnlock()
	return c.ignore
}

func (c *Candidate) record(wonAt int) {
	c.Lock()
	defer c.Unlock()
	c.winStats.PushBool(wonAt > 0)
	if wonAt > 0 {
		c.drawStats.Push(float64(wonAt))
		c.winsAt[wonAt-1]++
	}
}

func (c *Candidate) String() string {
	c.RLock()
	defer c.RUnlock()
	return fmt.Sprintf("<candidate %v: win %.4f (%d iters)>", c.discard,
		c.winStats.Mean(), c.winStats.Iterations())
}

// Estimator runs the simulation. It is not safe to change its setup while
// Simulate is running.
type Estimator struct {
	hand     tilemapping.TileSet
	wall     tilemapping.StaticWall
	patterns []pattern.WinPattern
	draws    int
	threads  int
	seed     []byte

	stoppingCondition StoppingCondition
	checkInterval     uint64

	candidates     []*Candidate
	iterationCount atomic.Uint64
	simming        atomic.Bool
	initialized    bool
}

// Init prepares a simulation of hand, whose owner can also see the visible
// tiles (discards, melds, dora indicators). Every distinct kind in the hand
// is a discard candidate. draws is the number of tiles drawn per iteration.
func (e *Estimator) Init(hand, visible tilemapping.TileSet, patterns []pattern.WinPattern, draws int) error {
	if !hand.ValidHand() || !hand.Add(visible).ValidHand() {
		return fmt.Errorf("hand %v with visible %v: %w", hand, visible, ErrInvalidTiles)
	}
	if draws <= 0 {
		return ErrNoDraws
	}
	kinds := hand.Kinds()
	if len(kinds) == 0 {
		return ErrNoCandidates
	}
	if len(patterns) == 0 {
		patterns = []pattern.WinPattern{pattern.DefaultStandard()}
	}
	e.hand = hand
	e.wall = tilemapping.RemainingWall(hand.Add(visible))
	e.patterns = patterns
	e.draws = draws
	if e.threads == 0 {
		e.threads = max(1, runtime.NumCPU())
	}
	if e.checkInterval == 0 {
		e.checkInterval = DefaultCheckInterval
	}
	e.candidates = make([]*Candidate, len(kinds))
	for i, k := range kinds {
		e.candidates[i] = &Candidate{discard: k, winsAt: make([]int, draws)}
	}
	e.iterationCount.Store(0)
	e.initialized = true
	return nil
}

func (e *Estimator) SetThreads(threads int) {
	e.threads = max(1, threads)
}

func (e *Estimator) Threads() int {
	return e.threads
}

// SetSeed makes the simulation reproducible for a given seed and thread
// count. seed must be 32 bytes; nil goes back to system randomness.
func (e *Estimator) SetSeed(seed []byte) error {
	if seed != nil && len(seed) != 32 {
		return fmt.Errorf("seed must be 32 bytes, got %d", len(seed))
	}
	e.seed = seed
	return nil
}

func (e *Estimator) SetStoppingCondition(sc StoppingCondition) {
	e.stoppingCondition = sc
}

func (e *Estimator) SetCheckInterval(n uint64) {
	e.checkInterval = max(1, n)
}

func (e *Estimator) IsSimming() bool {
	return e.simming.Load()
}

func (e *Estimator) Iterations() int {
	return int(e.iterationCount.Load())
}

func (e *Estimator) rngFor(thread int) *frand.RNG {
	if e.seed == nil {
		return frand.New()
	}
	seed := slices.Clone(e.seed)
	seed[0] ^= byte(thread)
	seed[1] ^= byte(thread >> 8)
	return frand.NewCustom(seed, 1024, 12)
}

// Simulate runs iterations more iterations, split among the threads. It
// blocks until they are done, the stopping condition is met, or ctx is
// cancelled. Cancellation is not an error.
func (e *Estimator) Simulate(ctx context.Context, iterations int) error {
	logger := zerolog.Ctx(ctx)
	if !e.initialized {
		return ErrNotInitialized
	}
	if !e.simming.CompareAndSwap(false, true) {
		return errors.New("a simulation is already running")
	}
	defer e.simming.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var remaining atomic.Int64
	remaining.Store(int64(iterations))

	tstart := time.Now()
	logger.Debug().Int("threads", e.threads).Int("iterations", iterations).
		Int("draws", e.draws).Msg("winrate-sim-starting")

	g := errgroup.Group{}
	for t := range e.threads {
		rng := e.rngFor(t)
		g.Go(func() error {
			drawn := make([]tilemapping.TileKind, 0, e.draws)
			for remaining.Add(-1) >= 0 {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				drawn = e.simSingleIteration(rng, drawn[:0])
				numIters := e.iterationCount.Add(1)
				if e.stoppingCondition != StopNone && numIters%e.checkInterval == 0 {
					if shouldStop(e.candidates, e.stoppingCondition, numIters) {
						logger.Debug().Uint64("numIters", numIters).Msg("reached-stopping-condition")
						cancel()
					}
				}
			}
			return nil
		})
	}
	err := g.Wait()
	elapsed := time.Since(tstart)
	logger.Info().Uint64("iterations", e.iterationCount.Load()).
		Float64("seconds", elapsed.Seconds()).Msg("winrate-sim-ended")
	return err
}

// simSingleIteration draws one wall sample and scores every candidate on it.
func (e *Estimator) simSingleIteration(rng *frand.RNG, drawn []tilemapping.TileKind) []tilemapping.TileKind {
	for k := range tilemapping.Sample(e.wall, e.draws, rng) {
		drawn = append(drawn, k)
	}
	for _, c := range e.candidates {
		if c.Ignored() {
			continue
		}
		c.record(firstWin(e.hand.With(c.discard, -1), drawn, e.patterns))
	}
	return drawn
}

// firstWin returns the 1-based draw after which hand plus the drawn tiles so
// far matches one of the patterns, or 0 if it never does.
func firstWin(hand tilemapping.TileSet, drawn []tilemapping.TileKind, patterns []pattern.WinPattern) int {
	for i, k := range drawn {
		hand[k]++
		if pattern.MatchAny(hand, patterns) {
			return i + 1
		}
	}
	return 0
}

// Results returns the candidates sorted by win rate, best first. Ties go to
// the candidate that wins sooner, then to the lower kind.
func (e *Estimator) Results() []*Candidate {
	cs := slices.Clone(e.candidates)
	slices.SortStableFunc(cs, func(a, b *Candidate) int {
		wa, wb := a.WinRate(), b.WinRate()
		switch {
		case wa > wb:
			return -1
		case wa < wb:
			return 1
		}
		da, db := a.MeanDraws(), b.MeanDraws()
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return int(a.discard) - int(b.discard)
	})
	return cs
}

// Candidate returns the candidate for discarding k, if k is in the hand.
func (e *Estimator) Candidate(k tilemapping.TileKind) (*Candidate, bool) {
	for _, c := range e.candidates {
		if c.discard == k {
			return c, true
		}
	}
	return nil, false
}

// Summary renders the results as a table with 99% intervals.
func (e *Estimator) Summary() string {
	var ss strings.Builder
	fmt.Fprintf(&ss, "%-9s%-18s%-14s%-10s\n", "Discard", "Win%", "Mean draws", "Wins")
	for _, c := range e.Results() {
		c.RLock()
		win := fmt.Sprintf("%.2f±%.2f", 100.0*c.winStats.Mean(), 100.0*c.winStats.Interval(stats.Z99))
		draws := "-"
		if c.drawStats.Iterations() > 0 {
			draws = fmt.Sprintf("%.2f", c.drawStats.Mean())
		}
		ignore := ""
		if c.ignore {
			ignore = "❌"
		}
		fmt.Fprintf(&ss, "%-9s%-18s%-14s%-10d%s\n", c.discard, win, draws, c.drawStats.Iterations(), ignore)
		c.RUnlock()
	}
	fmt.Fprintf(&ss, "Iterations: %d, draws: %d (intervals are 99%% confidence, ❌ marks discards cut off early)\n",
		e.iterationCount.Load(), e.draws)
	return ss.String()
}

// Histogram writes a histogram of the winning draw for discard k.
func (e *Estimator) Histogram(w io.Writer, k tilemapping.TileKind, width int) error {
	c, ok := e.Candidate(k)
	if !ok {
		return fmt.Errorf("%v is not in the hand", k)
	}
	c.RLock()
	data := make([]float64, 0, c.drawStats.Iterations())
	for i, n := range c.winsAt {
		for range n {
			data = append(data, float64(i+1))
		}
	}
	c.RUnlock()
	if len(data) == 0 {
		return ErrNoWins
	}
	h := histogram.Hist(min(e.draws, 15), data)
	return histogram.Fprint(w, h, histogram.Linear(width))
}
