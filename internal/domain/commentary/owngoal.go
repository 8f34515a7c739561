package commentary

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// OwnGoalPolicy decides which team an own-goal row is credited to.
type OwnGoalPolicy string

const (
	// OwnGoalBeneficiary credits own-goal rows to the team that benefited.
	OwnGoalBeneficiary OwnGoalPolicy = "beneficiary"
	// OwnGoalAsRecorded keeps the producing team from the event log.
	OwnGoalAsRecorded OwnGoalPolicy = "as_recorded"
)

func ParseOwnGoalPolicy(v string) (OwnGoalPolicy, error) {
	switch OwnGoalPolicy(strings.ToLower(strings.TrimSpace(v))) {
	case OwnGoalBeneficiary:
		return OwnGoalBeneficiary, nil
	case OwnGoalAsRecorded:
		return OwnGoalAsRecorded, nil
	default:
		return "", errors.Newf("invalid own goal policy %q: valid values are %s, %s", v, OwnGoalBeneficiary, OwnGoalAsRecorded)
	}
}

// AttributeOwnGoals returns a new slice where own-goal rows are re-attributed
// according to policy. The input is never modified.
func AttributeOwnGoals(events []RawEvent, policy OwnGoalPolicy) []RawEvent {
	out := make([]RawEvent, len(events))
	copy(out, events)
	if policy != OwnGoalBeneficiary {
		return out
	}

	for idx := range out {
		if !out[idx].OwnGoal {
			continue
		}
		out[idx].Team, out[idx].Opponent = out[idx].Opponent, out[idx].Team
	}
	return out
}
