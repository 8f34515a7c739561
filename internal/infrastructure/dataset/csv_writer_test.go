package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/riskibarqy/match-commentary/internal/domain/commentary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []commentary.DatasetRow {
	return []commentary.DatasetRow{
		{SideLongRecord: commentary.SideLongRecord{
			MatchID: "M1", Team: "A", Side: commentary.SideEvent, Text: "Goal by A", Label: commentary.LabelEventWin,
		}, Scored: true, Polarity: 0.5, Subjectivity: 0.25},
		{SideLongRecord: commentary.SideLongRecord{
			MatchID: "M1", Team: "B", Side: commentary.SideOpponent, Text: "Shot saved, (opponent)", Label: commentary.LabelEventWin,
		}, Scored: true},
	}
}

func TestCSVWriter_ReplaceAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "dataset.csv")

	err := NewCSVWriter(path, false, nil).ReplaceAll(context.Background(), sampleRows())
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "match_id,team,side,text,label\n"+
		"M1,A,event,Goal by A,event_win\n"+
		"M1,B,opponent,\"Shot saved, (opponent)\",event_win\n", string(got))
}

func TestCSVWriter_WithSentimentColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")

	err := NewCSVWriter(path, true, nil).ReplaceAll(context.Background(), sampleRows()[:1])
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "match_id,team,side,text,label,polarity,subjectivity\n"+
		"M1,A,event,Goal by A,event_win,0.500000,0.250000\n", string(got))
}

func TestCSVWriter_OverwritesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer than the new file\n"), 0o600))

	require.NoError(t, NewCSVWriter(path, false, nil).ReplaceAll(context.Background(), nil))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "match_id,team,side,text,label\n", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestCSVWriter_FailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0o600))

	writer := NewCSVWriter(path, false, nil)
	writer.createTempFile = func(string, string) (*os.File, error) {
		return nil, os.ErrPermission
	}

	err := writer.ReplaceAll(context.Background(), sampleRows())
	require.ErrorIs(t, err, commentary.ErrOutputWrite)
	require.ErrorIs(t, err, os.ErrPermission)

	got, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "previous\n", string(got))
}

func TestCSVWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "dataset.csv")
	err := NewCSVWriter(path, false, nil).ReplaceAll(ctx, sampleRows())
	require.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}
