package usecase

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-commentary/internal/domain/commentary"
)

// RunSummary reports what one pipeline run did, including every defect that
// was tolerated instead of aborting the run.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMs int64     `json:"duration_ms"`

	Events         int `json:"events"`
	OwnGoals       int `json:"own_goals"`
	Sides          int `json:"sides"`
	Matches        int `json:"matches"`
	MatchesWritten int `json:"matches_written"`
	Rows           int `json:"rows"`
	RedactedSpans  int `json:"redacted_spans"`

	Labels   map[commentary.Label]int `json:"labels"`
	Excluded []ExcludedMatch          `json:"excluded"`

	ScoredRows        int      `json:"scored_rows"`
	ScorerFailures    int64    `json:"scorer_failures"`
	MeanEventPolarity *float64 `json:"mean_event_polarity,omitempty"`
}

type ExcludedMatch struct {
	MatchID string `json:"match_id"`
	Reason  string `json:"reason"`
	Detail  string `json:"detail"`
}

func newRunSummary(runID string, started time.Time) RunSummary {
	labels := make(map[commentary.Label]int, len(commentary.AllLabels))
	for label := range commentary.AllLabels {
		labels[label] = 0
	}
	return RunSummary{
		RunID:     runID,
		StartedAt: started.UTC(),
		Labels:    labels,
		Excluded:  []ExcludedMatch{},
	}
}

func (s *RunSummary) addExcluded(matchID string, err error) {
	s.Excluded = append(s.Excluded, ExcludedMatch{
		MatchID: matchID,
		Reason:  defectReason(err),
		Detail:  err.Error(),
	})
}

func (s *RunSummary) finish(at time.Time) {
	s.FinishedAt = at.UTC()
	s.DurationMs = s.FinishedAt.Sub(s.StartedAt).Milliseconds()
}

// Defects counts excluded matches plus failed sentiment scores.
func (s RunSummary) Defects() int64 {
	return int64(len(s.Excluded)) + s.ScorerFailures
}

// WriteSummary stores the summary as indented JSON at path.
func WriteSummary(path string, summary RunSummary) error {
	payload, err := sonic.ConfigStd.MarshalIndent(summary, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode run summary")
	}
	payload = append(payload, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &commentary.OutputError{Target: path, Err: err}
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return &commentary.OutputError{Target: path, Err: err}
	}
	return nil
}
