package commentary

import "github.com/cockroachdb/errors"

// Unpivot splits a match into its event row followed by its opponent row.
func Unpivot(record MatchRecord) [2]SideLongRecord {
	return [2]SideLongRecord{
		{
			MatchID: record.MatchID,
			Team:    record.EventTeam,
			Side:    SideEvent,
			Text:    record.EventText,
			Label:   record.Label,
		},
		{
			MatchID: record.MatchID,
			Team:    record.OpponentTeam,
			Side:    SideOpponent,
			Text:    record.OpponentText,
			Label:   record.Label,
		},
	}
}

// Rejoin rebuilds the wide form from the two long rows of one match. Goal
// counts are not carried by long rows and stay zero.
func Rejoin(rows []SideLongRecord) (MatchRecord, error) {
	if len(rows) != 2 {
		return MatchRecord{}, errors.Wrapf(ErrInconsistentRows, "got %d rows, want 2", len(rows))
	}

	var (
		out                MatchRecord
		haveEvent, haveOpp bool
	)
	for _, row := range rows {
		switch row.Side {
		case SideEvent:
			if haveEvent {
				return MatchRecord{}, errors.Wrapf(ErrInconsistentRows, "match %s has two event rows", row.MatchID)
			}
			haveEvent = true
			out.EventTeam = row.Team
			out.EventText = row.Text
		case SideOpponent:
			if haveOpp {
				return MatchRecord{}, errors.Wrapf(ErrInconsistentRows, "match %s has two opponent rows", row.MatchID)
			}
			haveOpp = true
			out.OpponentTeam = row.Team
			out.OpponentText = row.Text
		default:
			return MatchRecord{}, errors.Wrapf(ErrInconsistentRows, "match %s has unknown side %q", row.MatchID, row.Side)
		}
	}

	if rows[0].MatchID != rows[1].MatchID {
		return MatchRecord{}, errors.Wrapf(ErrMatchMismatch, "%s vs %s", rows[0].MatchID, rows[1].MatchID)
	}
	if rows[0].Label != rows[1].Label {
		return MatchRecord{}, errors.Wrapf(ErrInconsistentRows, "match %s labels differ: %s vs %s", rows[0].MatchID, rows[0].Label, rows[1].Label)
	}

	out.MatchID = rows[0].MatchID
	out.Label = rows[0].Label
	return out, nil
}
