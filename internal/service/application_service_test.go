package service

import (
	"errors"
	"testing"
	"time"
)

type fakeScorer struct {
	calls int
	errs  []error
	tally ColorTally
}

func (f *fakeScorer) ScoreApplication(id uint) (ColorTally, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return ColorTally{}, err
		}
	}
	return f.tally, nil
}

func TestRescoreRetriesOnce(t *testing.T) {
	t.Run("transient failure clears on second attempt", func(t *testing.T) {
		scorer := &fakeScorer{
			errs:  []error{errors.New("deadlock")},
			tally: ColorTally{Red: 1, Green: 2},
		}
		s := &ApplicationService{Scoring: scorer, RetryDelay: time.Millisecond}

		tally, err := s.scoreWithRetry(7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if scorer.calls != 2 {
			t.Errorf("scoring pass ran %d times, want 2", scorer.calls)
		}
		if (tally != ColorTally{Red: 1, Green: 2}) {
			t.Errorf("tally = %+v, want the second attempt's result", tally)
		}
	})

	t.Run("persistent failure surfaces after exactly two attempts", func(t *testing.T) {
		wantErr := errors.New("table gone")
		scorer := &fakeScorer{errs: []error{wantErr, wantErr}}
		s := &ApplicationService{Scoring: scorer, RetryDelay: time.Millisecond}

		if _, err := s.scoreWithRetry(7); !errors.Is(err, wantErr) {
			t.Fatalf("err = %v, want %v", err, wantErr)
		}
		if scorer.calls != 2 {
			t.Errorf("scoring pass ran %d times, want exactly 2", scorer.calls)
		}
	})
}
