package automatic

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/tenpai/analyzer"
	"github.com/domino14/tenpai/pattern"
)

var (
	GamesCounter *expvar.Int
	IsPlaying    *expvar.Int
)

func init() {
	GamesCounter = expvar.NewInt("selfPlayGames")
	IsPlaying = expvar.NewInt("selfPlayIsPlaying")
}

// LogHeader is the first line of a self-play log file.
const LogHeader = "gameID,turn,hand,draw,discard,shanten,useful\n"

// Options configures a batch of self-play games.
type Options struct {
	NumGames int
	Threads  int
	MaxTurns int
	// Seeds, if given, makes game i use Seeds[i % len(Seeds)].
	Seeds [][32]byte
}

type job struct {
	id   int
	seed *[32]byte
}

// StartSelfPlayGames plays opts.NumGames games in the background and logs
// every turn to outputFilename. The returned channel is closed once the log
// file is complete.
func StartSelfPlayGames(ctx context.Context, an *analyzer.Analyzer, patterns []pattern.WinPattern,
	opts Options, outputFilename string) (<-chan struct{}, error) {

	if IsPlaying.Value() > 0 {
		return nil, errors.New("games are already being played, please wait till complete")
	}
	if opts.NumGames <= 0 {
		return nil, errors.New("number of games must be positive")
	}
	threads := max(1, opts.Threads)

	logfile, err := os.Create(outputFilename)
	if err != nil {
		return nil, err
	}
	log.Debug().Msgf("Starting %v games, %v threads", opts.NumGames, threads)

	GamesCounter.Set(0)
	jobs := make(chan job, 100)
	logChan := make(chan string, 100)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(threads)

	for range threads {
		IsPlaying.Add(1)
		go func() {
			defer wg.Done()
			defer IsPlaying.Add(-1)
			r := NewGameRunner(logChan, an, patterns, opts.MaxTurns)
			for j := range jobs {
				rng := frand.New()
				if j.seed != nil {
					rng = frand.NewCustom(j.seed[:], 1024, 12)
				}
				if _, err := r.PlayGame(ctx, fmt.Sprint(j.id), rng); err != nil {
					if !errors.Is(err, context.Canceled) {
						log.Err(err).Int("game", j.id).Msg("game-failed")
					}
					continue
				}
				GamesCounter.Add(1)
			}
		}()
	}

	go func() {
	gameLoop:
		for i := range opts.NumGames {
			j := job{id: i + 1}
			if len(opts.Seeds) > 0 {
				j.seed = &opts.Seeds[i%len(opts.Seeds)]
			}
			select {
			case <-ctx.Done():
				log.Info().Msg("Got stop signal, exiting soon...")
				break gameLoop
			case jobs <- j:
			}
			if (i+1)%1000 == 0 {
				log.Info().Msgf("Queued %v jobs", i+1)
			}
		}
		close(jobs)
		log.Debug().Msg("Finished queueing all jobs.")
		wg.Wait()
		log.Info().Int64("games", GamesCounter.Value()).Msg("All games finished.")
		close(logChan)
	}()

	go func() {
		defer close(done)
		logfile.WriteString(LogHeader)
		for msg := range logChan {
			logfile.WriteString(msg)
		}
		if err := logfile.Close(); err != nil {
			log.Err(err).Msg("closing-self-play-log")
		}
		log.Debug().Msg("Exiting turn logger goroutine!")
	}()

	return done, nil
}
