package commentary

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssignSides(t *testing.T) {
	tests := []struct {
		name         string
		rows         []SideAggregate
		wantEvent    string
		wantOpponent string
		wantErr      error
		wantCount    int
	}{
		{
			name: "already ordered",
			rows: []SideAggregate{
				{MatchID: "M1", Team: "Arsenal"},
				{MatchID: "M1", Team: "Chelsea"},
			},
			wantEvent:    "Arsenal",
			wantOpponent: "Chelsea",
		},
		{
			name: "reversed input",
			rows: []SideAggregate{
				{MatchID: "M1", Team: "Chelsea"},
				{MatchID: "M1", Team: "Arsenal"},
			},
			wantEvent:    "Arsenal",
			wantOpponent: "Chelsea",
		},
		{
			name: "byte-wise ordering puts upper case first",
			rows: []SideAggregate{
				{MatchID: "M1", Team: "alaves"},
				{MatchID: "M1", Team: "Zaragoza"},
			},
			wantEvent:    "Zaragoza",
			wantOpponent: "alaves",
		},
		{
			name:      "single side",
			rows:      []SideAggregate{{MatchID: "M1", Team: "A"}},
			wantCount: 1,
		},
		{
			name: "three sides",
			rows: []SideAggregate{
				{MatchID: "M1", Team: "A"},
				{MatchID: "M1", Team: "B"},
				{MatchID: "M1", Team: "C"},
			},
			wantCount: 3,
		},
		{
			name: "duplicate team",
			rows: []SideAggregate{
				{MatchID: "M1", Team: "A", Opponent: "B"},
				{MatchID: "M1", Team: "A", Opponent: "C"},
			},
			wantErr: ErrDuplicateSide,
		},
		{
			name: "different matches",
			rows: []SideAggregate{
				{MatchID: "M1", Team: "A"},
				{MatchID: "M2", Team: "B"},
			},
			wantErr: ErrMatchMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, opponent, err := AssignSides(tt.rows)

			if tt.wantCount > 0 {
				var countErr *SideCountError
				require.True(t, errors.As(err, &countErr), "expected SideCountError, got %v", err)
				require.Equal(t, tt.wantCount, countErr.Count)
				require.Equal(t, "M1", countErr.MatchID)
				return
			}
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantEvent, event.Team)
			require.Equal(t, tt.wantOpponent, opponent.Team)
			require.Equal(t, OrdinalEvent, event.Ordinal)
			require.Equal(t, OrdinalOpponent, opponent.Ordinal)
		})
	}
}

func TestAssignSides_DoesNotModifyInput(t *testing.T) {
	rows := []SideAggregate{
		{MatchID: "M1", Team: "B"},
		{MatchID: "M1", Team: "A"},
	}

	_, _, err := AssignSides(rows)
	require.NoError(t, err)
	require.Equal(t, "B", rows[0].Team)
	require.Zero(t, rows[0].Ordinal)
}
