package commentary

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// AssignSides orders the two aggregates of a match by team name (byte-wise,
// case-sensitive) and returns them as event side and opponent side.
func AssignSides(rows []SideAggregate) (SideAggregate, SideAggregate, error) {
	if len(rows) != 2 {
		matchID := ""
		teams := make([]string, 0, len(rows))
		for _, row := range rows {
			matchID = row.MatchID
			teams = append(teams, row.Team)
		}
		sort.Strings(teams)
		return SideAggregate{}, SideAggregate{}, &SideCountError{MatchID: matchID, Count: len(rows), Teams: teams}
	}

	first, second := rows[0], rows[1]
	if first.MatchID != second.MatchID {
		return SideAggregate{}, SideAggregate{}, errors.Wrapf(ErrMatchMismatch, "%s vs %s", first.MatchID, second.MatchID)
	}
	if first.Team == second.Team {
		return SideAggregate{}, SideAggregate{}, errors.Wrapf(ErrDuplicateSide, "match %s team %s", first.MatchID, first.Team)
	}
	if second.Team < first.Team {
		first, second = second, first
	}

	first.Ordinal = OrdinalEvent
	second.Ordinal = OrdinalOpponent
	return first, second, nil
}
