package app

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-commentary/internal/config"
	"github.com/riskibarqy/match-commentary/internal/domain/commentary"
	"github.com/riskibarqy/match-commentary/internal/domain/sentiment"
	"github.com/riskibarqy/match-commentary/internal/infrastructure/dataset"
	"github.com/riskibarqy/match-commentary/internal/infrastructure/eventlog"
	"github.com/riskibarqy/match-commentary/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/match-commentary/internal/infrastructure/sentiment/lexicon"
	"github.com/riskibarqy/match-commentary/internal/infrastructure/sentiment/memo"
	"github.com/riskibarqy/match-commentary/internal/platform/logging"
	"github.com/riskibarqy/match-commentary/internal/usecase"
)

// Pipeline bundles the wired service with the resources it owns.
type Pipeline struct {
	Service *usecase.PipelineService
	closers []func() error
}

// Close releases database handles opened by NewPipeline.
func (p *Pipeline) Close() error {
	var errs error
	for i := len(p.closers) - 1; i >= 0; i-- {
		errs = errors.CombineErrors(errs, p.closers[i]())
	}
	return errs
}

func NewPipeline(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Mark(err, usecase.ErrInvalidInput)
	}
	if logger == nil {
		logger = logging.Default()
	}

	source := eventlog.NewCSVSource(eventlog.CSVSourceConfig{
		Path: cfg.InputPath,
		Columns: eventlog.Columns{
			MatchID:  cfg.Columns.MatchID,
			Team:     cfg.Columns.Team,
			Opponent: cfg.Columns.Opponent,
			Text:     cfg.Columns.Text,
			IsGoal:   cfg.Columns.IsGoal,
			OwnGoal:  cfg.Columns.OwnGoal,
		},
		OwnGoalValues: cfg.OwnGoalValues,
	}, logger.Named("eventlog"))

	pipeline := &Pipeline{}
	sinks := []commentary.DatasetRepository{
		dataset.NewCSVWriter(cfg.OutputPath, cfg.SentimentEnabled, logger.Named("dataset")),
	}

	if cfg.DatasetDBDriver != "" {
		db, err := openDatasetDB(ctx, cfg)
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "open dataset db"), usecase.ErrDependencyUnavailable)
		}
		pipeline.closers = append(pipeline.closers, db.Close)

		repo := sqlstore.NewDatasetRepository(db)
		if cfg.DatasetDBDriver == config.DBDriverSQLite {
			if err := repo.EnsureSchema(ctx); err != nil {
				_ = pipeline.Close()
				return nil, errors.Wrap(err, "ensure sqlite dataset schema")
			}
		}
		sinks = append(sinks, repo)
		logger.Info("dataset mirror enabled", "driver", cfg.DatasetDBDriver, "db_name", dbNameFromURL(cfg.DatasetDBURL))
	}

	var scorer sentiment.Scorer
	if cfg.SentimentEnabled {
		scorer = memo.New(lexicon.New())
	}

	pipeline.Service = usecase.NewPipelineService(source, scorer, usecase.PipelineConfig{
		OwnGoalPolicy:     cfg.OwnGoalPolicy,
		MaxWorkers:        cfg.MaxWorkers,
		SentimentEnabled:  cfg.SentimentEnabled,
		SentimentPerEvent: cfg.SentimentPerEvent,
	}, logger.Named("pipeline"), sinks...)

	return pipeline, nil
}
