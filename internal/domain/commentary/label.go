package commentary

import "github.com/cockroachdb/errors"

// LabelFor compares event goals against opponent goals.
func LabelFor(eventGoals, opponentGoals int) Label {
	switch {
	case eventGoals > opponentGoals:
		return LabelEventWin
	case eventGoals == opponentGoals:
		return LabelDraw
	default:
		return LabelOpponentWin
	}
}

// Join builds the wide match record from the ordinal-1 and ordinal-2 rows.
func Join(event, opponent SideAggregate) (MatchRecord, error) {
	if event.MatchID != opponent.MatchID {
		return MatchRecord{}, errors.Wrapf(ErrMatchMismatch, "join %s with %s", event.MatchID, opponent.MatchID)
	}
	if event.Ordinal != OrdinalEvent || opponent.Ordinal != OrdinalOpponent {
		return MatchRecord{}, errors.Newf("match %s: join expects ordinals 1 and 2, got %d and %d", event.MatchID, event.Ordinal, opponent.Ordinal)
	}

	return MatchRecord{
		MatchID:       event.MatchID,
		EventTeam:     event.Team,
		EventGoals:    event.Goals,
		EventText:     event.Text,
		OpponentTeam:  opponent.Team,
		OpponentGoals: opponent.Goals,
		OpponentText:  opponent.Text,
		Label:         LabelFor(event.Goals, opponent.Goals),
	}, nil
}
