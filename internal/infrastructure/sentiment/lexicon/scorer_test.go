package lexicon

import (
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/riskibarqy/match-commentary/internal/domain/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	scorer := New()

	tests := []struct {
		name    string
		input   string
		wantPos bool
		wantNeg bool
		neutral bool
	}{
		{name: "empty", input: "", neutral: true},
		{name: "punctuation only", input: "!!! ... 1-0 (90+2')", neutral: true},
		{name: "no lexicon words", input: "Corner, Arsenal. Conceded by Gary Cahill.", neutral: true},
		{name: "positive", input: "Brilliant goal, a superb finish", wantPos: true},
		{name: "negative", input: "Terrible defending and a poor pass", wantNeg: true},
		{name: "negated positive", input: "That was not good", wantNeg: true},
		{name: "contraction negation", input: "He didn't look comfortable", wantNeg: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scorer.Score(tt.input)
			require.NoError(t, err)
			require.NoError(t, got.Validate())

			if tt.neutral {
				assert.Equal(t, sentiment.Neutral, got)
			}
			if tt.wantPos {
				assert.Greater(t, got.Polarity, 0.0)
			}
			if tt.wantNeg {
				assert.Less(t, got.Polarity, 0.0)
			}
		})
	}
}

func TestScore_IntensifierIncreasesMagnitude(t *testing.T) {
	scorer := New()

	plain, err := scorer.Score("good")
	require.NoError(t, err)
	intense, err := scorer.Score("very good")
	require.NoError(t, err)

	assert.Greater(t, intense.Polarity, plain.Polarity)
	assert.InDelta(t, 0.7, plain.Polarity, 1e-9)
	assert.InDelta(t, 0.6, plain.Subjectivity, 1e-9)
}

func TestScore_StaysInRangeForLongText(t *testing.T) {
	scorer := New()
	text := strings.Repeat("extremely incredibly very perfect ", 500)

	got, err := scorer.Score(text)
	require.NoError(t, err)
	assert.LessOrEqual(t, got.Polarity, 1.0)
	assert.LessOrEqual(t, got.Subjectivity, 1.0)
	assert.False(t, math.IsNaN(got.Polarity))
}

func TestScore_ConcurrentUse(t *testing.T) {
	scorer := New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := scorer.Score("a great save and a terrible miss"); err != nil {
				t.Errorf("score: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestParseLexicon_SkipsMalformedLines(t *testing.T) {
	got := parseLexicon("# header\ngood\t0.7\t0.6\nbroken line\nbad\tx\t0.5\n\nGreat\t0.8\t0.75\n")

	require.Len(t, got, 2)
	assert.Equal(t, entry{polarity: 0.7, subjectivity: 0.6}, got["good"])
	assert.Contains(t, got, "great")
}
