package usecase

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/match-commentary/internal/domain/commentary"
	"github.com/riskibarqy/match-commentary/internal/domain/sentiment"
	"github.com/riskibarqy/match-commentary/internal/platform/logging"
	"github.com/sourcegraph/conc/iter"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defectSideCount     = "side_count"
	defectDuplicateSide = "duplicate_side"
	defectInvalidMatch  = "invalid_match"
)

type PipelineConfig struct {
	OwnGoalPolicy     commentary.OwnGoalPolicy
	MaxWorkers        int
	SentimentEnabled  bool
	SentimentPerEvent bool
}

// PipelineService turns the raw event log into the labeled long-format
// dataset and hands it to every configured repository.
type PipelineService struct {
	source  commentary.EventSource
	sinks   []commentary.DatasetRepository
	scorer  *sentiment.Safe
	cfg     PipelineConfig
	logger  *logging.Logger
	now     func() time.Time
	newUUID func() string
}

// NewPipelineService builds the service. scorer may be nil when sentiment is
// disabled. sinks are written in order; the first failure aborts the run.
func NewPipelineService(
	source commentary.EventSource,
	scorer sentiment.Scorer,
	cfg PipelineConfig,
	logger *logging.Logger,
	sinks ...commentary.DatasetRepository,
) *PipelineService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = 1
	}
	if cfg.OwnGoalPolicy == "" {
		cfg.OwnGoalPolicy = commentary.OwnGoalBeneficiary
	}

	var safe *sentiment.Safe
	if cfg.SentimentEnabled {
		safe = sentiment.NewSafe(scorer)
	}

	return &PipelineService{
		source:  source,
		sinks:   sinks,
		scorer:  safe,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		newUUID: uuid.NewString,
	}
}

type matchResult struct {
	matchID string
	rows    [2]commentary.SideLongRecord
	spans   int
	err     error
}

// Run executes one full pipeline pass. Per-match problems are reported in
// the summary; only loading and persisting errors abort the run.
func (s *PipelineService) Run(ctx context.Context) (RunSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.Run")
	defer span.End()

	if s.source == nil || len(s.sinks) == 0 {
		return RunSummary{}, errors.Wrap(ErrInvalidInput, "pipeline needs an event source and at least one dataset sink")
	}

	started := s.now()
	summary := newRunSummary(s.newUUID(), started)
	logger := s.logger.With("run_id", summary.RunID)
	span.SetAttributes(attribute.String("pipeline.run_id", summary.RunID))

	events, err := s.source.LoadEvents(ctx)
	if err != nil {
		return summary, errors.Wrap(err, "load events")
	}
	summary.Events = len(events)
	for _, event := range events {
		if event.OwnGoal {
			summary.OwnGoals++
		}
	}
	logger.InfoContext(ctx, "events loaded", "events", len(events), "own_goals", summary.OwnGoals)

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	attributed := commentary.AttributeOwnGoals(events, s.cfg.OwnGoalPolicy)
	sides := commentary.Aggregate(attributed)
	order, groups := commentary.GroupByMatch(sides)
	summary.Sides = len(sides)
	summary.Matches = len(order)

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	results, err := s.buildMatches(ctx, order, groups)
	if err != nil {
		return summary, err
	}

	rows := make([]commentary.SideLongRecord, 0, len(results)*2)
	for _, res := range results {
		if res.err != nil {
			summary.addExcluded(res.matchID, res.err)
			logger.WarnContext(ctx, "match excluded", "match_id", res.matchID, "reason", defectReason(res.err), "error", res.err)
			continue
		}
		summary.RedactedSpans += res.spans
		summary.Labels[res.rows[0].Label]++
		rows = append(rows, res.rows[0], res.rows[1])
	}
	sortLongRows(rows)
	summary.MatchesWritten = len(rows) / 2

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	dataset := s.score(ctx, rows, &summary)
	if s.scorer != nil && s.cfg.SentimentPerEvent {
		s.scoreEvents(ctx, events, &summary, logger)
	}

	for _, sink := range s.sinks {
		if err := sink.ReplaceAll(ctx, dataset); err != nil {
			return summary, errors.Wrap(err, "persist dataset")
		}
	}
	summary.Rows = len(dataset)

	summary.finish(s.now())
	s.logSummary(ctx, logger, summary)
	return summary, nil
}

// buildMatches runs side assignment, labeling, unpivot and redaction for each
// match on a bounded worker pool. Results come back in input order.
func (s *PipelineService) buildMatches(
	ctx context.Context,
	order []string,
	groups map[string][]commentary.SideAggregate,
) ([]matchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.buildMatches")
	defer span.End()

	if len(order) == 0 {
		return nil, nil
	}

	workerCount := min(s.cfg.MaxWorkers, len(order))
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, errors.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	type indexed struct {
		index  int
		result matchResult
	}
	collected := make(chan indexed, len(order))

	var processed atomic.Int64
	var workers sync.WaitGroup
	for i, matchID := range order {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			collected <- indexed{index: i, result: buildMatch(matchID, groups[matchID])}
			processed.Add(1)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, errors.Wrap(err, "submit match to worker pool")
		}
	}

	workers.Wait()
	close(collected)

	out := make([]matchResult, len(order))
	for item := range collected {
		out[item.index] = item.result
	}

	s.logger.DebugContext(ctx, "matches processed", "matches", processed.Load(), "workers", workerCount)
	return out, nil
}

func buildMatch(matchID string, group []commentary.SideAggregate) matchResult {
	res := matchResult{matchID: matchID}

	event, opponent, err := commentary.AssignSides(group)
	if err != nil {
		res.err = err
		return res
	}
	record, err := commentary.Join(event, opponent)
	if err != nil {
		res.err = err
		return res
	}

	long := commentary.Unpivot(record)
	for i := range long {
		res.spans += commentary.CountSpans(long[i].Text)
		res.rows[i] = long[i].Redacted()
	}
	return res
}

func (s *PipelineService) score(ctx context.Context, rows []commentary.SideLongRecord, summary *RunSummary) []commentary.DatasetRow {
	dataset := make([]commentary.DatasetRow, len(rows))
	for i, row := range rows {
		dataset[i] = commentary.DatasetRow{SideLongRecord: row}
	}
	if s.scorer == nil || len(rows) == 0 {
		return dataset
	}

	_, span := startUsecaseSpan(ctx, "usecase.PipelineService.score")
	defer span.End()

	var failures atomic.Int64
	mapper := iter.Mapper[commentary.SideLongRecord, sentiment.Score]{MaxGoroutines: s.cfg.MaxWorkers}
	scores := mapper.Map(rows, func(row *commentary.SideLongRecord) sentiment.Score {
		score, ok := s.scorer.Score(row.Text)
		if !ok {
			failures.Add(1)
		}
		return score
	})

	for i, score := range scores {
		dataset[i].Scored = true
		dataset[i].Polarity = score.Polarity
		dataset[i].Subjectivity = score.Subjectivity
	}
	summary.ScoredRows = len(scores)
	summary.ScorerFailures += failures.Load()
	return dataset
}

// scoreEvents rates every raw event on its own. Only the mean lands in the
// summary.
func (s *PipelineService) scoreEvents(ctx context.Context, events []commentary.RawEvent, summary *RunSummary, logger *logging.Logger) {
	if len(events) == 0 {
		return
	}

	_, span := startUsecaseSpan(ctx, "usecase.PipelineService.scoreEvents")
	defer span.End()

	var failures atomic.Int64
	mapper := iter.Mapper[commentary.RawEvent, float64]{MaxGoroutines: s.cfg.MaxWorkers}
	polarities := mapper.Map(events, func(event *commentary.RawEvent) float64 {
		score, ok := s.scorer.Score(event.Text)
		if !ok {
			failures.Add(1)
		}
		return score.Polarity
	})

	var total float64
	for _, p := range polarities {
		total += p
	}
	mean := total / float64(len(polarities))
	summary.MeanEventPolarity = &mean
	summary.ScorerFailures += failures.Load()

	logger.DebugContext(ctx, "event sentiment scored", "events", len(polarities), "mean_polarity", mean)
}

func (s *PipelineService) logSummary(ctx context.Context, logger *logging.Logger, summary RunSummary) {
	args := []any{
		"events", summary.Events,
		"matches", summary.Matches,
		"matches_written", summary.MatchesWritten,
		"matches_excluded", len(summary.Excluded),
		"rows", summary.Rows,
		"scorer_failures", summary.ScorerFailures,
		"duration_ms", summary.DurationMs,
	}
	if summary.Defects() > 0 {
		logger.WarnContext(ctx, "pipeline finished with defects", args...)
		return
	}
	logger.InfoContext(ctx, "pipeline finished", args...)
}

func sortLongRows(rows []commentary.SideLongRecord) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].MatchID != rows[j].MatchID {
			return rows[i].MatchID < rows[j].MatchID
		}
		return rows[i].Side < rows[j].Side
	})
}

func defectReason(err error) string {
	var sideCount *commentary.SideCountError
	switch {
	case errors.As(err, &sideCount):
		return defectSideCount
	case errors.Is(err, commentary.ErrDuplicateSide):
		return defectDuplicateSide
	default:
		return defectInvalidMatch
	}
}
