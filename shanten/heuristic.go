package shanten

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/tenpai/pattern"
	"github.com/domino14/tenpai/tilemapping"
)

// Heuristic is a branch and bound over the same search space as
// PatternMatch. It keeps the best borrow count found so far and cuts every
// branch that cannot beat it. Kinds held in the hand are tried as anchors
// before kinds that would have to be borrowed, and at every node the groups
// that borrow nothing are explored before those that borrow one tile, and so
// on, so good bounds are found early.
//
// The bound lives in a searchContext created for every top-level call; the
// Heuristic value itself is never written to.
type Heuristic struct {
	pattern pattern.WinPattern
}

func NewHeuristic(p pattern.WinPattern) *Heuristic {
	return &Heuristic{pattern: p}
}

func (h *Heuristic) Pattern() pattern.WinPattern { return h.pattern }

type searchContext struct {
	// best is the largest borrow count still worth finding. It starts at an
	// upper bound and drops to one below every solution found.
	best  int
	found bool
	limit tilemapping.TileSet
	// order is the anchor order; pos is its inverse.
	order [tilemapping.NumKinds]tilemapping.TileKind
	pos   [tilemapping.NumKinds]int
	nodes int
}

type candidate struct {
	pos  int
	t    pattern.Transition
	cost int
}

func newSearchContext(hand tilemapping.TileSet, best int) *searchContext {
	sc := &searchContext{best: best, limit: BorrowLimit(hand)}
	i := 0
	for _, held := range []bool{true, false} {
		for _, k := range tilemapping.AllKinds() {
			if (hand[k] > 0) == held {
				sc.order[i] = k
				sc.pos[k] = i
				i++
			}
		}
	}
	return sc
}

// usableHeld counts the held tiles that a group anchored at or after start
// could still use. A kind is out of reach once neither it nor any run anchor
// below it in the same suit can be an anchor any more.
func (sc *searchContext) usableHeld(held tilemapping.TileSet, start int) int {
	n := 0
	for i, c := range held {
		if c == 0 {
			continue
		}
		k := tilemapping.TileKind(i)
		if sc.pos[k] >= start || sc.runAnchorAlive(k, start) {
			n += c
		}
	}
	return n
}

func (sc *searchContext) runAnchorAlive(k tilemapping.TileKind, start int) bool {
	for d := 1; d < pattern.RunLength; d++ {
		if k.Rank()-d < 1 || k.IsHonor() {
			return false
		}
		a := k - tilemapping.TileKind(d)
		if _, ok := pattern.Run(a); ok && sc.pos[a] >= start {
			return true
		}
	}
	return false
}

func borrowCost(held, group tilemapping.TileSet) int {
	n := 0
	for i, need := range group {
		if need > held[i] {
			n += need - held[i]
		}
	}
	return n
}

func (sc *searchContext) withinLimit(borrowed, group tilemapping.TileSet) bool {
	for i, need := range group {
		if need > 0 && borrowed[i] > sc.limit[i] {
			return false
		}
	}
	return true
}

func (sc *searchContext) search(held, borrowed tilemapping.TileSet, nborrowed int,
	state pattern.WinPattern, start int) {

	sc.nodes++
	if state.HasWin() {
		sc.found = true
		sc.best = nborrowed - 1
		return
	}
	usable := sc.usableHeld(held, start)
	if nborrowed+max(0, state.NeedCount()-usable) > sc.best {
		return
	}

	cands := make([]candidate, 0, 3*(tilemapping.NumKinds-start))
	for p := start; p < tilemapping.NumKinds; p++ {
		for _, t := range state.NextStates(sc.order[p]) {
			cands = append(cands, candidate{pos: p, t: t, cost: borrowCost(held, t.Group)})
		}
	}

	for cost := 0; cost <= state.MaxUnitLength(); cost++ {
		if nborrowed+cost > sc.best {
			return
		}
		for _, c := range cands {
			if c.cost != cost {
				continue
			}
			nextHeld, nextBorrowed, n := take(held, borrowed, c.t.Group)
			if !sc.withinLimit(nextBorrowed, c.t.Group) {
				continue
			}
			nb := nborrowed + n
			rest := c.t.Next.NeedCount() - (usable - (c.t.Group.Size() - n))
			if nb+max(0, rest) > sc.best {
				continue
			}
			sc.search(nextHeld, nextBorrowed, nb, c.t.Next, c.pos)
		}
	}
}

// minBorrow returns the smallest number of tiles that must be borrowed to
// complete the pattern, provided it is at most bound. ok is false if every
// winning shape borrows more than bound.
func (h *Heuristic) minBorrow(hand tilemapping.TileSet, bound int) (n int, ok bool) {
	sc := newSearchContext(hand, bound)
	sc.search(hand, tilemapping.TileSet{}, 0, h.pattern, 0)
	log.Debug().Int("bound", bound).Bool("found", sc.found).Int("best", sc.best+1).
		Int("nodes", sc.nodes).Str("hand", hand.String()).Msg("heuristic-search-done")
	if !sc.found {
		return 0, false
	}
	return sc.best + 1, true
}

func (h *Heuristic) shanten(hand tilemapping.TileSet) (int, error) {
	// Borrowing a whole winning shape is always possible, so its size bounds
	// the answer.
	n, ok := h.minBorrow(hand, h.pattern.NeedCount())
	if !ok {
		return 0, ErrNoWinningShape
	}
	return n - 1, nil
}

func (h *Heuristic) Shanten(hand tilemapping.TileSet) (int, error) {
	if err := validate(hand); err != nil {
		return 0, err
	}
	return h.shanten(hand)
}

func (h *Heuristic) UsefulTiles(hand tilemapping.TileSet) (tilemapping.KindSet, error) {
	_, useful, err := h.ShantenAndUsefulTiles(hand)
	return useful, err
}

// ShantenAndUsefulTiles computes the shanten number once, then checks every
// kind with a search that only accepts shapes strictly better than it. One
// more tile lowers the borrow count by at most one, so a kind is useful iff
// such a shape exists.
func (h *Heuristic) ShantenAndUsefulTiles(hand tilemapping.TileSet) (int, tilemapping.KindSet, error) {
	if err := validate(hand); err != nil {
		return 0, 0, err
	}
	base, err := h.shanten(hand)
	if err != nil {
		return 0, 0, err
	}
	var useful tilemapping.KindSet
	if base == Complete {
		return base, useful, nil
	}
	for _, k := range tilemapping.AllKinds() {
		if hand[k] >= tilemapping.CopiesPerKind {
			continue
		}
		if _, ok := h.minBorrow(hand.With(k, 1), base); ok {
			useful = useful.Add(k)
		}
	}
	return base, useful, nil
}

func (*Heuristic) sealed() {}
