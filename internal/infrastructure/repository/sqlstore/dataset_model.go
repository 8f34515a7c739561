package sqlstore

import (
	"database/sql"
	"strings"

	"github.com/riskibarqy/match-commentary/internal/domain/commentary"
)

var datasetColumns = []string{"match_id", "team", "side", "text", "label", "polarity", "subjectivity"}

var insertDatasetQuery = "INSERT INTO " + datasetTable + " (" + strings.Join(datasetColumns, ", ") + ") VALUES (:" +
	strings.Join(datasetColumns, ", :") + ")"

type datasetRowModel struct {
	MatchID      string          `db:"match_id"`
	Team         string          `db:"team"`
	Side         string          `db:"side"`
	Text         string          `db:"text"`
	Label        string          `db:"label"`
	Polarity     sql.NullFloat64 `db:"polarity"`
	Subjectivity sql.NullFloat64 `db:"subjectivity"`
}

func toDatasetRowModel(row commentary.DatasetRow) datasetRowModel {
	return datasetRowModel{
		MatchID:      row.MatchID,
		Team:         row.Team,
		Side:         string(row.Side),
		Text:         row.Text,
		Label:        string(row.Label),
		Polarity:     sql.NullFloat64{Float64: row.Polarity, Valid: row.Scored},
		Subjectivity: sql.NullFloat64{Float64: row.Subjectivity, Valid: row.Scored},
	}
}

func (m datasetRowModel) toDomain() commentary.DatasetRow {
	return commentary.DatasetRow{
		SideLongRecord: commentary.SideLongRecord{
			MatchID: m.MatchID,
			Team:    m.Team,
			Side:    commentary.Side(m.Side),
			Text:    m.Text,
			Label:   commentary.Label(m.Label),
		},
		Scored:       m.Polarity.Valid,
		Polarity:     m.Polarity.Float64,
		Subjectivity: m.Subjectivity.Float64,
	}
}
