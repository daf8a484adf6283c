package pattern

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tenpai/tilemapping"
)

func TestStandardTransitions(t *testing.T) {
	is := is.New(t)
	s := DefaultStandard()
	is.Equal(s.NeedCount(), 14)
	is.Equal(s.NeedUnits(), 5)
	is.Equal(s.MaxUnitLength(), 3)

	// 1m: pair, run and triplet.
	ts := s.NextStates(0)
	is.Equal(len(ts), 3)
	is.Equal(ts[0].Group.String(), "11m")
	is.Equal(ts[1].Group.String(), "123m")
	is.Equal(ts[2].Group.String(), "111m")
	for _, tr := range ts {
		is.Equal(tr.Next.NeedUnits(), s.NeedUnits()-1)
	}

	// 8m cannot start a run; neither can an honor.
	is.Equal(len(s.NextStates(7)), 2)
	is.Equal(len(s.NextStates(27)), 2)

	onlyPair, err := NewStandard(1, 0)
	is.NoErr(err)
	is.Equal(onlyPair.MaxUnitLength(), 2)
	is.Equal(len(onlyPair.NextStates(4)), 1)
	done := onlyPair.NextStates(4)[0].Next
	is.True(done.HasWin())
	is.Equal(done.MaxUnitLength(), 0)
	is.Equal(len(done.NextStates(4)), 0)
}

func TestRunsStayInSuit(t *testing.T) {
	is := is.New(t)
	for _, k := range tilemapping.AllKinds() {
		run, ok := Run(k)
		if !ok {
			is.True(k.IsHonor() || k.Rank() > 7)
			continue
		}
		is.Equal(run.Size(), RunLength)
		for _, m := range run.Kinds() {
			is.Equal(m.Suit(), k.Suit())
		}
	}
}

func TestUniquePairsTransitions(t *testing.T) {
	is := is.New(t)
	u := SevenPairs()
	is.Equal(u.NeedCount(), 14)
	is.Equal(u.NeedUnits(), 7)
	ts := u.NextStates(3)
	is.Equal(len(ts), 1)
	next := ts[0].Next.(UniquePairs)
	is.True(next.Used().Has(3))
	is.Equal(len(next.NextStates(3)), 0)
	is.Equal(len(next.NextStates(4)), 1)
}

func TestValidation(t *testing.T) {
	is := is.New(t)
	_, err := NewStandard(-1, 4)
	is.True(errors.Is(err, ErrNegativeGroups))
	_, err = NewStandard(20, 20)
	is.True(errors.Is(err, ErrTooManyGroups))
	_, err = NewUniquePairs(35)
	is.True(errors.Is(err, ErrTooManyGroups))
	_, err = NewUniquePairs(34)
	is.NoErr(err)
}

func TestFromName(t *testing.T) {
	is := is.New(t)
	p, err := FromName("Standard")
	is.NoErr(err)
	is.Equal(p, WinPattern(DefaultStandard()))
	p, err = FromName("chiitoi")
	is.NoErr(err)
	is.Equal(p, WinPattern(SevenPairs()))
	_, err = FromName("kokushi")
	is.True(errors.Is(err, ErrUnknownPattern))

	ps, err := FromNames("standard, pairs")
	is.NoErr(err)
	is.Equal(len(ps), 2)
	_, err = FromNames("standard,,pairs")
	is.NoErr(err)
}
