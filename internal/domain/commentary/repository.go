package commentary

import "context"

// EventSource loads the raw event log.
type EventSource interface {
	LoadEvents(ctx context.Context) ([]RawEvent, error)
}

// DatasetRepository persists the final long-format dataset, replacing any
// previous content.
type DatasetRepository interface {
	ReplaceAll(ctx context.Context, rows []DatasetRow) error
}

// DatasetRow is one persisted output row.
type DatasetRow struct {
	SideLongRecord
	Scored       bool
	Polarity     float64
	Subjectivity float64
}
