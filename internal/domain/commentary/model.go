package commentary

// Side identifies which half of a match a long-format row represents.
type Side string

const (
	SideEvent    Side = "event"
	SideOpponent Side = "opponent"
)

// Ordinal is the deterministic rank of a side within its match.
type Ordinal int

const (
	OrdinalEvent    Ordinal = 1
	OrdinalOpponent Ordinal = 2
)

// Label is the match outcome seen from the event side.
type Label string

const (
	LabelEventWin    Label = "event_win"
	LabelDraw        Label = "draw"
	LabelOpponentWin Label = "opponent_win"
)

var AllLabels = map[Label]struct{}{
	LabelEventWin:    {},
	LabelDraw:        {},
	LabelOpponentWin: {},
}

// RawEvent is one row of the event log.
type RawEvent struct {
	MatchID  string `validate:"required"`
	Team     string `validate:"required"`
	Opponent string `validate:"required"`
	Text     string
	IsGoal   bool
	OwnGoal  bool
	// Line is the 1-based line in the source file, zero when unknown.
	Line int
}

// SideAggregate holds all commentary of one team in one match.
type SideAggregate struct {
	MatchID  string
	Team     string
	Opponent string
	Text     string
	Goals    int
	Events   int
	Ordinal  Ordinal
}

// MatchRecord is the wide, two-sided view of a match.
type MatchRecord struct {
	MatchID       string
	EventTeam     string
	EventGoals    int
	EventText     string
	OpponentTeam  string
	OpponentGoals int
	OpponentText  string
	Label         Label
}

// SideLongRecord is one side of a match in long format.
type SideLongRecord struct {
	MatchID string
	Team    string
	Side    Side
	Text    string
	Label   Label
}

// Redacted returns a copy of the record with parenthetical team mentions
// replaced by the side marker.
func (r SideLongRecord) Redacted() SideLongRecord {
	r.Text = Redact(r.Text, r.Side)
	return r
}

func (s Side) Valid() bool {
	return s == SideEvent || s == SideOpponent
}
