// Package lexicon scores English commentary text with an embedded word
// lexicon.
//
// Each lexicon word carries a polarity in [-1, 1] and a subjectivity in
// [0, 1]. A preceding intensifier ("very", "really") scales the word, and a
// preceding negation ("not", "never", "didn't") flips and halves its
// polarity. The text score is the mean over all matched words; text with no
// matched words scores (0, 0).
//
// Scorer is safe for concurrent use.
package lexicon

import (
	_ "embed"
	"strconv"
	"strings"
	"unicode"

	"github.com/riskibarqy/match-commentary/internal/domain/sentiment"
)

//go:embed lexicon.tsv
var rawLexicon string

const (
	negationFactor = -0.5
	// negationWindow is how many following words a negation can reach.
	negationWindow = 3
)

type entry struct {
	polarity     float64
	subjectivity float64
}

var intensifiers = map[string]float64{
	"very":       1.3,
	"really":     1.3,
	"extremely":  1.5,
	"incredibly": 1.5,
	"so":         1.2,
	"too":        1.2,
	"quite":      1.1,
	"slightly":   0.7,
	"fairly":     0.9,
}

var negations = map[string]struct{}{
	"not":    {},
	"no":     {},
	"never":  {},
	"nor":    {},
	"cannot": {},
}

type Scorer struct {
	words map[string]entry
}

var _ sentiment.Scorer = (*Scorer)(nil)

// New returns a scorer backed by the embedded lexicon.
func New() *Scorer {
	return &Scorer{words: parseLexicon(rawLexicon)}
}

// parseLexicon parses tab-separated "word\tpolarity\tsubjectivity" lines.
func parseLexicon(raw string) map[string]entry {
	out := make(map[string]entry, 128)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) != 3 {
			continue
		}
		polarity, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			continue
		}
		subjectivity, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(parts[0]))] = entry{polarity: polarity, subjectivity: subjectivity}
	}
	return out
}

func (s *Scorer) Score(text string) (sentiment.Score, error) {
	words := tokenize(text)
	if len(words) == 0 {
		return sentiment.Neutral, nil
	}

	var (
		sumPolarity     float64
		sumSubjectivity float64
		scored          int
		multiplier      = 1.0
		negateLeft      int
	)

	for _, word := range words {
		if isNegation(word) {
			negateLeft = negationWindow
			continue
		}
		if factor, ok := intensifiers[word]; ok {
			multiplier *= factor
			continue
		}

		e, ok := s.words[word]
		if !ok {
			multiplier = 1.0
			if negateLeft > 0 {
				negateLeft--
			}
			continue
		}

		polarity := e.polarity * multiplier
		if negateLeft > 0 {
			polarity *= negationFactor
		}
		sumPolarity += clamp(polarity, -1, 1)
		sumSubjectivity += clamp(e.subjectivity*multiplier, 0, 1)
		scored++

		multiplier = 1.0
		negateLeft = 0
	}

	if scored == 0 {
		return sentiment.Neutral, nil
	}

	return sentiment.Score{
		Polarity:     clamp(sumPolarity/float64(scored), -1, 1),
		Subjectivity: clamp(sumSubjectivity/float64(scored), 0, 1),
	}, nil
}

// tokenize lower-cases text and keeps runs of letters and apostrophes.
// Tokens without any letter are dropped.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	out := fields[:0]
	for _, field := range fields {
		field = strings.Trim(field, "'")
		if field == "" {
			continue
		}
		out = append(out, field)
	}
	return out
}

func isNegation(word string) bool {
	if _, ok := negations[word]; ok {
		return true
	}
	return strings.HasSuffix(word, "n't")
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
