package montecarlo

import (
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tenpai/tilemapping"
)

func candidateWith(k tilemapping.TileKind, wins, iters int) *Candidate {
	c := &Candidate{discard: k, winsAt: make([]int, 1)}
	for i := range iters {
		if i < wins {
			c.record(1)
		} else {
			c.record(0)
		}
	}
	return c
}

func TestShouldStop(t *testing.T) {
	is := is.New(t)
	leader := candidateWith(0, 500, 1000)
	near := candidateWith(1, 490, 1000)
	far := candidateWith(2, 100, 1000)

	is.True(!shouldStop([]*Candidate{leader, near, far}, Stop99, 1000))
	is.True(far.Ignored())
	is.True(!near.Ignored())
	is.True(!leader.Ignored())

	// One candidate left standing ends the simulation.
	is.True(shouldStop([]*Candidate{leader, far}, Stop99, 1000))
	is.True(shouldStop([]*Candidate{leader}, Stop99, 1000))
	is.True(shouldStop([]*Candidate{leader, near}, Stop99, IterationsCutoff+1))
}

func TestShouldStopWaitsForSamples(t *testing.T) {
	is := is.New(t)
	leader := candidateWith(0, 10, 20)
	far := candidateWith(1, 0, 20)
	is.True(!shouldStop([]*Candidate{leader, far}, Stop95, 20))
	is.True(!far.Ignored())
}

func TestSimulateWithStoppingCondition(t *testing.T) {
	is := is.New(t)
	e := &Estimator{}
	is.NoErr(e.Init(tilemapping.MustFromString(nineGates), tilemapping.TileSet{}, nil, 3))
	e.SetThreads(2)
	e.SetStoppingCondition(Stop95)
	e.SetCheckInterval(250)
	is.NoErr(e.SetSeed(testSeed))
	is.NoErr(e.Simulate(context.Background(), 5000))
	is.True(e.Iterations() <= 5000)
	ignored := 0
	for _, c := range e.Results() {
		if c.Ignored() {
			ignored++
		}
	}
	is.True(ignored > 0)
	is.Equal(e.Results()[0].Discard(), tilemapping.TileKind(31))
}

func TestStoppingConditionFromString(t *testing.T) {
	is := is.New(t)
	for s, exp := range map[string]StoppingCondition{"none": StopNone, "": StopNone, "95": Stop95, "98%": Stop98, " 99 ": Stop99} {
		sc, err := StoppingConditionFromString(s)
		is.NoErr(err)
		is.Equal(sc, exp)
	}
	_, err := StoppingConditionFromString("90")
	is.True(err != nil)
}
