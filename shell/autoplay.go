package shell

import (
	"context"
	"errors"
	"strconv"

	"github.com/domino14/tenpai/analyzer"
	"github.com/domino14/tenpai/automatic"
	"github.com/domino14/tenpai/config"
)

const defaultAutoplayLog = "/tmp/tenpai_autoplay.csv"

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 {
		switch cmd.args[0] {
		case "stop":
			if sc.autoplayCancel == nil {
				return nil, errors.New("no games are being played")
			}
			sc.autoplayCancel()
			<-sc.autoplayDone
			sc.autoplayCancel = nil
			return msg("autoplay stopped"), nil
		case "analyze":
			file := defaultAutoplayLog
			if len(cmd.args) > 1 {
				file = cmd.args[1]
			}
			out, err := automatic.AnalyzeLogFile(file)
			if err != nil {
				return nil, err
			}
			return msg(out), nil
		}
		return nil, errors.New("autoplay takes stop or analyze")
	}
	if sc.autoplayCancel != nil {
		select {
		case <-sc.autoplayDone:
			sc.autoplayCancel()
			sc.autoplayCancel = nil
		default:
			return nil, errors.New("games are already being played; autoplay stop first")
		}
	}

	opts := automatic.Options{
		NumGames: 100,
		Threads:  sc.config.GetInt(config.ConfigThreads),
	}
	file := defaultAutoplayLog
	var err error
	for opt, val := range cmd.options {
		switch opt {
		case "games":
			opts.NumGames, err = strconv.Atoi(val)
		case "threads":
			opts.Threads, err = strconv.Atoi(val)
		case "turns":
			opts.MaxTurns, err = strconv.Atoi(val)
		case "seeds":
			opts.Seeds, err = automatic.LoadSeeds(val)
		case "file":
			file = val
		case "pattern", "strategy", "wait":
		default:
			return nil, errors.New("option " + opt + " not recognized")
		}
		if err != nil {
			return nil, err
		}
	}

	calcs, err := sc.calculators(cmd)
	if err != nil {
		return nil, err
	}
	acalcs := make([]analyzer.Calculator, len(calcs))
	patterns := sc.patternsOf(calcs)
	for i, c := range calcs {
		acalcs[i] = c
	}
	// Games run one at a time per thread, so each analysis stays serial.
	an, err := analyzer.NewAnalyzer(acalcs, 1)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(sc.ctx())
	done, err := automatic.StartSelfPlayGames(ctx, an, patterns, opts, file)
	if err != nil {
		cancel()
		return nil, err
	}
	sc.autoplayCancel = cancel
	sc.autoplayDone = done
	if cmd.options["wait"] == "true" || !sc.interactive {
		<-done
		cancel()
		sc.autoplayCancel = nil
		out, err := automatic.AnalyzeLogFile(file)
		if err != nil {
			return nil, err
		}
		return msg(out), nil
	}
	return msg("autoplay started, logging to " + file + ". Use `autoplay analyze` when it is done."), nil
}
