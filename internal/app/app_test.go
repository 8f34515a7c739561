package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-commentary/internal/config"
	"github.com/riskibarqy/match-commentary/internal/domain/commentary"
	"github.com/riskibarqy/match-commentary/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/match-commentary/internal/platform/logging"
	"github.com/riskibarqy/match-commentary/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(dir string) config.Config {
	return config.Config{
		AppEnv:        config.EnvDev,
		InputPath:     filepath.Join(dir, "events.csv"),
		OutputPath:    filepath.Join(dir, "sides.csv"),
		MaxWorkers:    2,
		OwnGoalPolicy: commentary.OwnGoalBeneficiary,
		OwnGoalValues: []string{"15"},
		Columns: config.ColumnConfig{
			MatchID:  "id_odsp",
			Team:     "event_team",
			Opponent: "opponent",
			Text:     "text",
			IsGoal:   "is_goal",
			OwnGoal:  "event_type2",
		},
		DatasetDBTimeout: 5 * time.Second,
	}
}

func TestNewPipeline_WithSQLiteMirrorAndSentiment(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.SentimentEnabled = true
	cfg.DatasetDBDriver = config.DBDriverSQLite
	cfg.DatasetDBURL = "sqlite://" + filepath.Join(dir, "dataset.db")

	require.NoError(t, os.WriteFile(cfg.InputPath, []byte(
		"id_odsp,event_team,opponent,text,is_goal,event_type2\n"+
			"M1,Roma,Lazio,Great goal by (Roma) striker,1,\n"+
			"M1,Lazio,Roma,Poor clearance,0,\n"+
			"M1,Lazio,Roma,Own goal by defender,1,15\n",
	), 0o600))

	ctx := context.Background()
	pipeline, err := NewPipeline(ctx, cfg, logging.NewNop())
	require.NoError(t, err)

	summary, err := pipeline.Service.Run(ctx)
	require.NoError(t, err)
	require.NoError(t, pipeline.Close())

	assert.Equal(t, 1, summary.MatchesWritten)
	assert.Equal(t, 2, summary.ScoredRows)
	assert.Zero(t, summary.ScorerFailures)

	db, err := sqlx.Open("sqlite", filepath.Join(dir, "dataset.db"))
	require.NoError(t, err)
	defer db.Close()

	rows, err := sqlstore.NewDatasetRepository(db).ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	lazio, roma := rows[0], rows[1]
	assert.Equal(t, "Lazio", lazio.Team)
	assert.Equal(t, commentary.SideEvent, lazio.Side)
	assert.Equal(t, "Poor clearance", lazio.Text)
	assert.Equal(t, commentary.LabelOpponentWin, lazio.Label)
	assert.Equal(t, "Roma", roma.Team)
	assert.Equal(t, "Great goal by (opponent) striker Own goal by defender", roma.Text)
	assert.True(t, roma.Scored)
	assert.Greater(t, roma.Polarity, 0.0)

	csvOut, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(csvOut), "match_id,team,side,text,label,polarity,subjectivity\n")
}

func TestNewPipeline_RejectsInvalidPaths(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.OutputPath = cfg.InputPath

	_, err := NewPipeline(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrInvalidInput))
}

func TestNewPipeline_UnreachableDatabase(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.DatasetDBDriver = config.DBDriverSQLite
	cfg.DatasetDBURL = filepath.Join(t.TempDir(), "missing-dir", "dataset.db")

	_, err := NewPipeline(context.Background(), cfg, nil)
	require.Error(t, err)
}
