package shell

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/tenpai/analyzer"
	"github.com/domino14/tenpai/cache"
	"github.com/domino14/tenpai/config"
	"github.com/domino14/tenpai/corpus"
	"github.com/domino14/tenpai/pattern"
	"github.com/domino14/tenpai/shanten"
	"github.com/domino14/tenpai/tilemapping"
)

// maxSelections caps how many win selections match prints.
const maxSelections = 20

// calculator is what the shell needs from a shanten strategy, memoized or
// not.
type calculator interface {
	analyzer.Calculator
	Shanten(hand tilemapping.TileSet) (int, error)
	UsefulTiles(hand tilemapping.TileSet) (tilemapping.KindSet, error)
	Pattern() pattern.WinPattern
}

func (sc *ShellController) patterns(cmd *shellcmd) ([]pattern.WinPattern, error) {
	names := sc.config.GetString(config.ConfigPatterns)
	if p, ok := cmd.options["pattern"]; ok {
		names = p
	}
	return pattern.FromNames(names)
}

// calculators builds one calculator per configured pattern, sharing memos
// through the global cache when the cache is on.
func (sc *ShellController) calculators(cmd *shellcmd) ([]calculator, error) {
	name := sc.config.GetString(config.ConfigStrategy)
	if s, ok := cmd.options["strategy"]; ok {
		name = s
	}
	strategy, err := shanten.StrategyFromString(name)
	if err != nil {
		return nil, err
	}
	patterns, err := sc.patterns(cmd)
	if err != nil {
		return nil, err
	}
	fraction := sc.config.GetFloat64(config.ConfigCacheMemoryFraction)
	calcs := make([]calculator, len(patterns))
	for i, p := range patterns {
		if fraction > 0 {
			calcs[i], err = cache.Load(strategy, p, cache.Sized(fraction))
		} else {
			calcs[i], err = shanten.New(strategy, p)
		}
		if err != nil {
			return nil, err
		}
	}
	return calcs, nil
}

func (sc *ShellController) patternsOf(calcs []calculator) []pattern.WinPattern {
	return lo.Map(calcs, func(c calculator, _ int) pattern.WinPattern { return c.Pattern() })
}

// handArg returns the hand named by the arguments, or the current hand.
func (sc *ShellController) handArg(cmd *shellcmd) (tilemapping.TileSet, error) {
	if len(cmd.args) > 0 {
		return tilemapping.FromString(strings.Join(cmd.args, ""))
	}
	if sc.hand.Empty() {
		return tilemapping.TileSet{}, errNoHand
	}
	return sc.hand, nil
}

func (sc *ShellController) setHand(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		if sc.hand.Empty() {
			return msg("no hand"), nil
		}
		return msg(sc.hand.String()), nil
	}
	hand, err := tilemapping.FromString(strings.Join(cmd.args, ""))
	if err != nil {
		return nil, err
	}
	if !hand.ValidHand() || !hand.Add(sc.visible).ValidHand() {
		return nil, fmt.Errorf("hand %v with visible %v has more than four copies of a kind", hand, sc.visible)
	}
	sc.hand = hand
	return msg("hand set to " + hand.String()), nil
}

func (sc *ShellController) setVisible(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg("visible: " + sc.visible.String()), nil
	}
	if cmd.args[0] == "clear" {
		sc.visible = tilemapping.TileSet{}
		return msg("visible tiles cleared"), nil
	}
	vis, err := tilemapping.FromString(strings.Join(cmd.args, ""))
	if err != nil {
		return nil, err
	}
	if !vis.ValidHand() || !vis.Add(sc.hand).ValidHand() {
		return nil, fmt.Errorf("visible %v with hand %v has more than four copies of a kind", vis, sc.hand)
	}
	sc.visible = vis
	return msg("visible set to " + vis.String()), nil
}

func shantenString(s int) string {
	switch s {
	case shanten.Complete:
		return "complete"
	case shanten.Tenpai:
		return "tenpai"
	}
	return strconv.Itoa(s) + "-shanten"
}

func (sc *ShellController) shanten(cmd *shellcmd) (*Response, error) {
	hand, err := sc.handArg(cmd)
	if err != nil {
		return nil, err
	}
	calcs, err := sc.calculators(cmd)
	if err != nil {
		return nil, err
	}
	var ss strings.Builder
	for _, c := range calcs {
		s, err := c.Shanten(hand)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&ss, "%-28s%s\n", c.Pattern(), shantenString(s))
	}
	return msg(strings.TrimRight(ss.String(), "\n")), nil
}

func (sc *ShellController) useful(cmd *shellcmd) (*Response, error) {
	hand, err := sc.handArg(cmd)
	if err != nil {
		return nil, err
	}
	calcs, err := sc.calculators(cmd)
	if err != nil {
		return nil, err
	}
	wall := tilemapping.RemainingWall(hand.Add(sc.visible))
	var ss strings.Builder
	for _, c := range calcs {
		s, useful, err := c.ShantenAndUsefulTiles(hand)
		if err != nil {
			return nil, err
		}
		count := lo.SumBy(useful.Kinds(), wall.WeightOf)
		fmt.Fprintf(&ss, "%-28s%-12s%-4d%s\n", c.Pattern(), shantenString(s), count, useful)
	}
	return msg(strings.TrimRight(ss.String(), "\n")), nil
}

func (sc *ShellController) match(cmd *shellcmd) (*Response, error) {
	hand, err := sc.handArg(cmd)
	if err != nil {
		return nil, err
	}
	patterns, err := sc.patterns(cmd)
	if err != nil {
		return nil, err
	}
	var ss strings.Builder
	for _, p := range patterns {
		n := 0
		for sel := range pattern.UniqueWinSelections(hand, p) {
			if n == maxSelections {
				fmt.Fprintf(&ss, "%s: more than %d selections, stopping\n", p, maxSelections)
				break
			}
			groups := lo.Map(sel, func(g tilemapping.TileSet, _ int) string { return g.String() })
			fmt.Fprintf(&ss, "%s: %s\n", p, strings.Join(groups, " "))
			n++
		}
		if n == 0 {
			fmt.Fprintf(&ss, "%s: no match\n", p)
		}
	}
	return msg(strings.TrimRight(ss.String(), "\n")), nil
}

func (sc *ShellController) discard(cmd *shellcmd) (*Response, error) {
	hand, err := sc.handArg(cmd)
	if err != nil {
		return nil, err
	}
	calcs, err := sc.calculators(cmd)
	if err != nil {
		return nil, err
	}
	an, err := analyzer.NewAnalyzer(lo.Map(calcs, func(c calculator, _ int) analyzer.Calculator { return c }),
		sc.config.GetInt(config.ConfigThreads))
	if err != nil {
		return nil, err
	}
	ds, err := an.Analyze(sc.ctx(), hand, sc.visible)
	if err != nil {
		return nil, err
	}
	if cmd.options["json"] == "true" {
		bts, err := analyzer.JSON(ds)
		if err != nil {
			return nil, err
		}
		return msg(string(bts)), nil
	}
	return msg(strings.TrimRight(analyzer.Table(ds), "\n")), nil
}

// batch checks every case of a corpus file against the configured strategy.
func (sc *ShellController) batch(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: batch <corpus.yaml>")
	}
	c, err := corpus.LoadFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	strategy, err := shanten.StrategyFromString(lo.CoalesceOrEmpty(cmd.options["strategy"],
		sc.config.GetString(config.ConfigStrategy)))
	if err != nil {
		return nil, err
	}
	var ss strings.Builder
	failed := 0
	for i, cs := range c.Cases {
		hand, err := cs.TileSet()
		if err != nil {
			return nil, err
		}
		p, err := cs.WinPattern()
		if err != nil {
			return nil, err
		}
		w, err := shanten.New(strategy, p)
		if err != nil {
			return nil, err
		}
		s, useful, err := w.ShantenAndUsefulTiles(hand)
		if err != nil {
			return nil, fmt.Errorf("case %d (%s): %w", i, cs.Hand, err)
		}
		expUseful, hasUseful, err := cs.UsefulSet()
		if err != nil {
			return nil, err
		}
		bad := cs.Shanten != nil && *cs.Shanten != s || hasUseful && expUseful != useful
		if bad {
			failed++
			fmt.Fprintf(&ss, "FAIL %-20s %-28s got %d %s\n", cs.Hand, p, s, useful)
		} else if cmd.options["verbose"] == "true" {
			fmt.Fprintf(&ss, "ok   %-20s %-28s %d %s\n", cs.Hand, p, s, useful)
		}
	}
	log.Debug().Str("corpus", c.Name).Int("cases", len(c.Cases)).Int("failed", failed).Msg("batch-done")
	fmt.Fprintf(&ss, "%d of %d cases agree", len(c.Cases)-failed, len(c.Cases))
	return msg(ss.String()), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		settings := sc.config.SanitizedSettings()
		keys := lo.Keys(settings)
		slices.Sort(keys)
		var ss strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&ss, "%-24s%v\n", k, settings[k])
		}
		return msg(strings.TrimRight(ss.String(), "\n")), nil
	}
	key := cmd.args[0]
	if len(cmd.args) == 1 {
		return msg(fmt.Sprint(sc.config.Get(key))), nil
	}
	if err := sc.config.SetKey(key, strings.Join(cmd.args[1:], " ")); err != nil {
		return nil, err
	}
	if key == config.ConfigDebug {
		setLogLevel(sc.config.GetBool(config.ConfigDebug))
	}
	return msg(fmt.Sprintf("set %s to %v", key, sc.config.Get(key))), nil
}

func setLogLevel(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Logger.Level(level)
}
