package sentiment

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

var ErrOutOfRange = errors.New("sentiment score out of range")

// Score is a (polarity, subjectivity) pair.
type Score struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

// Neutral is returned for empty or degenerate text.
var Neutral = Score{}

func (s Score) Validate() error {
	if math.IsNaN(s.Polarity) || math.IsNaN(s.Subjectivity) {
		return errors.Wrap(ErrOutOfRange, "NaN component")
	}
	if s.Polarity < -1 || s.Polarity > 1 {
		return errors.Wrapf(ErrOutOfRange, "polarity %f", s.Polarity)
	}
	if s.Subjectivity < 0 || s.Subjectivity > 1 {
		return errors.Wrapf(ErrOutOfRange, "subjectivity %f", s.Subjectivity)
	}
	return nil
}

// Scorer rates a text blob. Implementations must be safe for concurrent use.
type Scorer interface {
	Score(text string) (Score, error)
}

// Safe wraps a Scorer so that errors, panics and invalid values turn into a
// neutral score. Failures are counted instead of returned.
type Safe struct {
	inner    Scorer
	failures atomic.Int64
}

func NewSafe(inner Scorer) *Safe {
	return &Safe{inner: inner}
}

// Score never fails. The second return reports whether the inner scorer
// produced the value.
func (s *Safe) Score(text string) (score Score, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.failures.Add(1)
			score, ok = Neutral, false
		}
	}()

	if s.inner == nil {
		return Neutral, true
	}

	got, err := s.inner.Score(text)
	if err == nil {
		err = got.Validate()
	}
	if err != nil {
		s.failures.Add(1)
		return Neutral, false
	}
	return got, true
}

func (s *Safe) Failures() int64 {
	return s.failures.Load()
}

func (s Score) String() string {
	return fmt.Sprintf("polarity=%.3f subjectivity=%.3f", s.Polarity, s.Subjectivity)
}
