package memo

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-commentary/internal/domain/sentiment"
	"github.com/riskibarqy/match-commentary/internal/platform/resilience"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockScorer struct {
	mock.Mock
}

func (m *mockScorer) Score(text string) (sentiment.Score, error) {
	args := m.Called(text)
	return args.Get(0).(sentiment.Score), args.Error(1)
}

func TestScorer_ScoresEachTextOnce(t *testing.T) {
	inner := &mockScorer{}
	inner.On("Score", "Corner,  Arsenal.").Return(sentiment.Score{Polarity: 0.1}, nil).Once()
	inner.On("Score", "Foul by Smith.").Return(sentiment.Score{Polarity: -0.2, Subjectivity: 0.3}, nil).Once()

	scorer := New(inner)
	for i := 0; i < 3; i++ {
		got, err := scorer.Score("Corner,  Arsenal.")
		require.NoError(t, err)
		require.Equal(t, 0.1, got.Polarity)
	}
	got, err := scorer.Score("Foul by Smith.")
	require.NoError(t, err)
	require.Equal(t, sentiment.Score{Polarity: -0.2, Subjectivity: 0.3}, got)

	hits, misses := scorer.Stats()
	require.Equal(t, int64(2), hits)
	require.Equal(t, int64(2), misses)
	inner.AssertExpectations(t)
}

func TestScorer_PropagatesErrorsWithoutCaching(t *testing.T) {
	inner := &mockScorer{}
	inner.On("Score", "x").Return(sentiment.Score{}, errors.New("offline")).Once()
	inner.On("Score", "x").Return(sentiment.Score{Polarity: 0.5}, nil).Once()

	scorer := New(inner)
	_, err := scorer.Score("x")
	require.Error(t, err)

	got, err := scorer.Score("x")
	require.NoError(t, err)
	require.Equal(t, 0.5, got.Polarity)
}

type panicScorer struct{}

func (panicScorer) Score(string) (sentiment.Score, error) {
	panic("lexicon corrupted")
}

func TestScorer_PanicIsReportedAsError(t *testing.T) {
	safe := sentiment.NewSafe(New(panicScorer{}))

	got, ok := safe.Score("anything")
	require.False(t, ok)
	require.Equal(t, sentiment.Neutral, got)
	require.Equal(t, int64(1), safe.Failures())

	_, err := New(panicScorer{}).Score("anything")
	require.True(t, errors.Is(err, resilience.ErrPanicked))
}
