package commentary

import (
	"github.com/valyala/bytebufferpool"
)

type sideKey struct {
	matchID  string
	team     string
	opponent string
}

type sideGroup struct {
	key   sideKey
	texts []string
	goals int
}

// Aggregate collapses events into one row per (match, team, opponent).
// Texts keep their original row order joined by a single space, and groups
// are returned in order of first appearance.
func Aggregate(events []RawEvent) []SideAggregate {
	index := make(map[sideKey]int)
	groups := make([]*sideGroup, 0)

	for _, event := range events {
		key := sideKey{matchID: event.MatchID, team: event.Team, opponent: event.Opponent}
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, &sideGroup{key: key})
		}

		group := groups[pos]
		group.texts = append(group.texts, event.Text)
		if event.IsGoal {
			group.goals++
		}
	}

	out := make([]SideAggregate, 0, len(groups))
	for _, group := range groups {
		out = append(out, SideAggregate{
			MatchID:  group.key.matchID,
			Team:     group.key.team,
			Opponent: group.key.opponent,
			Text:     joinTexts(group.texts),
			Goals:    group.goals,
			Events:   len(group.texts),
		})
	}
	return out
}

func joinTexts(parts []string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for idx, part := range parts {
		if idx > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	return buf.String()
}

// GroupByMatch partitions aggregates by match id. Keys are returned in order
// of first appearance so callers can iterate deterministically.
func GroupByMatch(rows []SideAggregate) ([]string, map[string][]SideAggregate) {
	keys := make([]string, 0)
	byMatch := make(map[string][]SideAggregate)
	for _, row := range rows {
		if _, ok := byMatch[row.MatchID]; !ok {
			keys = append(keys, row.MatchID)
		}
		byMatch[row.MatchID] = append(byMatch[row.MatchID], row)
	}
	return keys, byMatch
}
