package memo

import (
	"github.com/riskibarqy/match-commentary/internal/domain/sentiment"
	"github.com/riskibarqy/match-commentary/internal/platform/cache"
)

// Scorer remembers the score of every text it has seen.
type Scorer struct {
	inner sentiment.Scorer
	memo  *cache.Memo[sentiment.Score]
}

var _ sentiment.Scorer = (*Scorer)(nil)

func New(inner sentiment.Scorer) *Scorer {
	return &Scorer{inner: inner, memo: cache.NewMemo[sentiment.Score]()}
}

func (s *Scorer) Score(text string) (sentiment.Score, error) {
	return s.memo.GetOrLoad(text, func() (sentiment.Score, error) {
		return s.inner.Score(text)
	})
}

func (s *Scorer) Stats() (hits, misses int64) {
	return s.memo.Stats()
}
