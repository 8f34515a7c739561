package eventlog

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/match-commentary/internal/domain/commentary"
	"github.com/riskibarqy/match-commentary/internal/platform/logging"
)

const ctxCheckEvery = 4096

// Columns names the header cells the loader reads.
type Columns struct {
	MatchID  string
	Team     string
	Opponent string
	Text     string
	IsGoal   string
	OwnGoal  string
}

// DefaultColumns follows the public football-events dataset layout.
func DefaultColumns() Columns {
	return Columns{
		MatchID:  "id_odsp",
		Team:     "event_team",
		Opponent: "opponent",
		Text:     "text",
		IsGoal:   "is_goal",
		OwnGoal:  "event_type2",
	}
}

func (c Columns) required() []string {
	return []string{c.MatchID, c.Team, c.Opponent, c.Text, c.IsGoal, c.OwnGoal}
}

type CSVSourceConfig struct {
	Path    string
	Columns Columns
	// OwnGoalValues are the cell values of the own-goal column that mark an own goal.
	OwnGoalValues []string
}

type CSVSource struct {
	cfg       CSVSourceConfig
	ownGoal   map[string]struct{}
	validator *validator.Validate
	logger    *logging.Logger
}

var _ commentary.EventSource = (*CSVSource)(nil)

func NewCSVSource(cfg CSVSourceConfig, logger *logging.Logger) *CSVSource {
	if logger == nil {
		logger = logging.Default()
	}
	ownGoal := make(map[string]struct{}, len(cfg.OwnGoalValues))
	for _, value := range cfg.OwnGoalValues {
		ownGoal[normalizeCode(value)] = struct{}{}
	}

	return &CSVSource{
		cfg:       cfg,
		ownGoal:   ownGoal,
		validator: validator.New(),
		logger:    logger,
	}
}

func (s *CSVSource) LoadEvents(ctx context.Context) ([]commentary.RawEvent, error) {
	file, err := os.Open(s.cfg.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "open event log %s", s.cfg.Path)
	}
	defer file.Close()

	events, err := s.ReadEvents(ctx, file)
	if err != nil {
		return nil, errors.Wrapf(err, "read event log %s", s.cfg.Path)
	}

	s.logger.InfoContext(ctx, "event log loaded", "path", s.cfg.Path, "events", len(events))
	return events, nil
}

// ReadEvents parses a CSV stream with a header row. Any schema problem is
// fatal and reported with its line number.
func (s *CSVSource) ReadEvents(ctx context.Context, r io.Reader) ([]commentary.RawEvent, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.Wrap(commentary.ErrSchemaViolation, "missing header row")
	}
	if err != nil {
		return nil, errors.Wrapf(commentary.ErrSchemaViolation, "read header: %v", err)
	}

	index, err := s.indexColumns(header)
	if err != nil {
		return nil, err
	}

	events := make([]commentary.RawEvent, 0, 1024)
	for rows := 0; ; rows++ {
		if rows%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(commentary.ErrSchemaViolation, "malformed row: %v", err)
		}
		line, _ := reader.FieldPos(0)

		event, err := s.parseRecord(ctx, record, index, line)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

type columnIndex struct {
	matchID, team, opponent, text, isGoal, ownGoal int
}

func (s *CSVSource) indexColumns(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for idx, name := range header {
		if idx == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		positions[strings.TrimSpace(name)] = idx
	}

	for _, name := range s.cfg.Columns.required() {
		if _, ok := positions[name]; !ok {
			return columnIndex{}, errors.Wrapf(commentary.ErrSchemaViolation, "missing required column %q", name)
		}
	}

	cols := s.cfg.Columns
	return columnIndex{
		matchID:  positions[cols.MatchID],
		team:     positions[cols.Team],
		opponent: positions[cols.Opponent],
		text:     positions[cols.Text],
		isGoal:   positions[cols.IsGoal],
		ownGoal:  positions[cols.OwnGoal],
	}, nil
}

func (s *CSVSource) parseRecord(ctx context.Context, record []string, index columnIndex, line int) (commentary.RawEvent, error) {
	isGoal, err := parseFlag(record[index.isGoal])
	if err != nil {
		return commentary.RawEvent{}, errors.Wrapf(commentary.ErrSchemaViolation, "line %d column %q: %v", line, s.cfg.Columns.IsGoal, err)
	}

	_, ownGoal := s.ownGoal[normalizeCode(record[index.ownGoal])]

	event := commentary.RawEvent{
		MatchID:  strings.TrimSpace(record[index.matchID]),
		Team:     strings.TrimSpace(record[index.team]),
		Opponent: strings.TrimSpace(record[index.opponent]),
		Text:     record[index.text],
		IsGoal:   isGoal,
		OwnGoal:  ownGoal,
		Line:     line,
	}

	if err := s.validator.StructCtx(ctx, event); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return commentary.RawEvent{}, errors.Wrapf(commentary.ErrSchemaViolation, "line %d: field %s is %s", line, s.columnFor(verrs[0].Field()), verrs[0].Tag())
		}
		return commentary.RawEvent{}, errors.Wrapf(commentary.ErrSchemaViolation, "line %d: %v", line, err)
	}

	return event, nil
}

func (s *CSVSource) columnFor(field string) string {
	switch field {
	case "MatchID":
		return strconv.Quote(s.cfg.Columns.MatchID)
	case "Team":
		return strconv.Quote(s.cfg.Columns.Team)
	case "Opponent":
		return strconv.Quote(s.cfg.Columns.Opponent)
	default:
		return field
	}
}

// parseFlag accepts 0/1, boolean words and their float forms (1.0).
func parseFlag(raw string) (bool, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return false, errors.New("empty goal flag")
	}
	if out, err := strconv.ParseBool(value); err == nil {
		return out, nil
	}

	number, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return false, errors.Newf("invalid goal flag %q", raw)
	}
	switch number {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.Newf("goal flag must be 0 or 1, got %q", raw)
	}
}

// normalizeCode makes "15", " 15 " and "15.0" compare equal.
func normalizeCode(raw string) string {
	value := strings.TrimSpace(raw)
	number, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) || number != math.Trunc(number) {
		return strings.ToLower(value)
	}
	return strconv.FormatInt(int64(number), 10)
}
