// Command analyze prints the discard analysis of every hand in a corpus
// file, or of the hands given as arguments, as JSON lines.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/tenpai/analyzer"
	"github.com/domino14/tenpai/config"
	"github.com/domino14/tenpai/corpus"
	"github.com/domino14/tenpai/pattern"
	"github.com/domino14/tenpai/shanten"
	"github.com/domino14/tenpai/tilemapping"
)

type output struct {
	Hand     string
	Shanten  int
	Discards []analyzer.JsonDiscard
}

func main() {
	cfg := &config.Config{}
	args, err := cfg.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: analyze [flags] <corpus.yaml | hand...>")
		os.Exit(2)
	}
	if err := run(cfg, args); err != nil {
		log.Fatal().Err(err).Msg("analyze-failed")
	}
}

func hands(args []string) ([]string, error) {
	if len(args) == 1 && (strings.HasSuffix(args[0], ".yaml") || strings.HasSuffix(args[0], ".yml")) {
		c, err := corpus.LoadFile(args[0])
		if err != nil {
			return nil, err
		}
		return lo.Map(c.Cases, func(cs corpus.Case, _ int) string { return cs.Hand }), nil
	}
	return args, nil
}

func run(cfg *config.Config, args []string) error {
	strategy, err := shanten.StrategyFromString(cfg.GetString(config.ConfigStrategy))
	if err != nil {
		return err
	}
	patterns, err := pattern.FromNames(cfg.GetString(config.ConfigPatterns))
	if err != nil {
		return err
	}
	calcs := make([]analyzer.Calculator, len(patterns))
	for i, p := range patterns {
		if calcs[i], err = shanten.New(strategy, p); err != nil {
			return err
		}
	}
	an, err := analyzer.NewAnalyzer(calcs, cfg.GetInt(config.ConfigThreads))
	if err != nil {
		return err
	}
	hs, err := hands(args)
	if err != nil {
		return err
	}
	ctx := log.Logger.WithContext(context.Background())
	enc := json.NewEncoder(os.Stdout)
	for _, h := range hs {
		hand, err := tilemapping.FromString(h)
		if err != nil {
			return err
		}
		res, err := an.Evaluate(hand, tilemapping.TileSet{})
		if err != nil {
			return fmt.Errorf("%s: %w", h, err)
		}
		ds, err := an.Analyze(ctx, hand, tilemapping.TileSet{})
		if err != nil {
			return fmt.Errorf("%s: %w", h, err)
		}
		out := output{
			Hand:     hand.String(),
			Shanten:  res.Shanten,
			Discards: lo.Map(ds, func(d analyzer.Discard, _ int) analyzer.JsonDiscard { return analyzer.MakeJsonDiscard(d) }),
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
	return nil
}
