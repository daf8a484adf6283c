package shell

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tenpai/config"
	"github.com/domino14/tenpai/montecarlo"
	"github.com/domino14/tenpai/tilemapping"
)

const histogramWidth = 40

// simming is true from startSim until the simulation is collected.
func (sc *ShellController) simming() bool {
	return sc.simCancel != nil
}

func (sc *ShellController) winrate(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 {
		if r, ok, err := sc.winrateControl(cmd.args); ok {
			return r, err
		}
	}
	sc.collectSim()
	if sc.simming() {
		return nil, errSimRunning
	}

	hand, err := sc.handArg(cmd)
	if err != nil {
		return nil, err
	}
	patterns, err := sc.patterns(cmd)
	if err != nil {
		return nil, err
	}
	draws := sc.config.GetInt(config.ConfigDraws)
	iterations := sc.config.GetInt(config.ConfigIterations)
	threads := sc.config.GetInt(config.ConfigThreads)
	stop, err := montecarlo.StoppingConditionFromString(sc.config.GetString(config.ConfigStoppingCondition))
	if err != nil {
		return nil, err
	}
	var seed []byte
	for opt, val := range cmd.options {
		switch opt {
		case "draws":
			draws, err = strconv.Atoi(val)
		case "iterations":
			iterations, err = strconv.Atoi(val)
		case "threads":
			threads, err = strconv.Atoi(val)
		case "stop":
			stop, err = montecarlo.StoppingConditionFromString(val)
		case "seed":
			var n uint64
			n, err = strconv.ParseUint(val, 10, 64)
			seed = make([]byte, 32)
			binary.LittleEndian.PutUint64(seed, n)
		case "wait", "pattern":
		default:
			return nil, errors.New("option " + opt + " not recognized")
		}
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", opt, err)
		}
	}
	if iterations <= 0 {
		return nil, errors.New("iterations must be positive")
	}

	if err := sc.estimator.Init(hand, sc.visible, patterns, draws); err != nil {
		return nil, err
	}
	sc.estimator.SetThreads(threads)
	sc.estimator.SetStoppingCondition(stop)
	if err := sc.estimator.SetSeed(seed); err != nil {
		return nil, err
	}
	log.Debug().Int("draws", draws).Int("iterations", iterations).Int("threads", threads).
		Int("stoppingCondition", int(stop)).Msg("will start winrate sim")

	sc.startSim(iterations)
	if cmd.options["wait"] == "true" || !sc.interactive {
		if err := sc.waitSim(); err != nil {
			return nil, err
		}
		return msg(sc.estimator.Summary()), nil
	}
	return msg("Simulation started. Use `winrate show` to see results and `winrate stop` to stop."), nil
}

func (sc *ShellController) startSim(iterations int) {
	ctx, cancel := context.WithCancel(sc.ctx())
	sc.simCancel = cancel
	sc.simDone = make(chan error, 1)
	ticker := time.NewTicker(10 * time.Second)

	go func() {
		defer ticker.Stop()
		done := make(chan error, 1)
		go func() { done <- sc.estimator.Simulate(ctx, iterations) }()
		for {
			select {
			case err := <-done:
				sc.simDone <- err
				log.Debug().Msg("simulation thread exiting...")
				return
			case <-ticker.C:
				log.Info().Msgf("Estimator is at %v iterations...", sc.estimator.Iterations())
			}
		}
	}()
}

// waitSim blocks until the running simulation ends.
func (sc *ShellController) waitSim() error {
	if sc.simCancel == nil {
		return nil
	}
	err := <-sc.simDone
	sc.simCancel()
	sc.simCancel = nil
	return err
}

// collectSim releases a simulation that has already finished on its own.
func (sc *ShellController) collectSim() {
	if sc.simCancel == nil {
		return
	}
	select {
	case err := <-sc.simDone:
		if err != nil {
			sc.showError(err)
		}
		sc.simCancel()
		sc.simCancel = nil
	default:
	}
}

// winrateControl handles the subcommands of winrate. ok is false if args
// name a hand instead.
func (sc *ShellController) winrateControl(args []string) (r *Response, ok bool, err error) {
	switch args[0] {
	case "stop":
		if sc.simCancel == nil {
			return nil, true, errors.New("no running simulation to stop")
		}
		sc.simCancel()
		if err := sc.waitSim(); err != nil {
			return nil, true, err
		}
		return msg(sc.estimator.Summary()), true, nil
	case "wait":
		if err := sc.waitSim(); err != nil {
			return nil, true, err
		}
		return msg(sc.estimator.Summary()), true, nil
	case "show":
		sc.collectSim()
		if sc.estimator.Iterations() == 0 && !sc.simming() {
			return nil, true, montecarlo.ErrNotInitialized
		}
		return msg(sc.estimator.Summary()), true, nil
	case "histogram":
		if len(args) < 2 {
			return nil, true, errors.New("usage: winrate histogram <tile>")
		}
		ts, err := tilemapping.ToTiles(args[1])
		if err != nil {
			return nil, true, err
		}
		if len(ts) != 1 {
			return nil, true, errors.New("name exactly one tile")
		}
		var ss strings.Builder
		if err := sc.estimator.Histogram(&ss, ts[0].Kind(), histogramWidth); err != nil {
			return nil, true, err
		}
		return msg(strings.TrimRight(ss.String(), "\n")), true, nil
	}
	return nil, false, nil
}
