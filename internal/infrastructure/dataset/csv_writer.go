package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/riskibarqy/match-commentary/internal/domain/commentary"
	"github.com/riskibarqy/match-commentary/internal/platform/logging"
)

var (
	baseHeader      = []string{"match_id", "team", "side", "text", "label"}
	sentimentHeader = []string{"polarity", "subjectivity"}
)

// CSVWriter persists the long-format dataset as a CSV file. The target is
// replaced atomically: rows go to a temp file in the same directory which is
// renamed over the target once fully flushed.
type CSVWriter struct {
	path           string
	withSentiment  bool
	logger         *logging.Logger
	createTempFile func(dir, pattern string) (*os.File, error)
}

func NewCSVWriter(path string, withSentiment bool, logger *logging.Logger) *CSVWriter {
	if logger == nil {
		logger = logging.Default()
	}
	return &CSVWriter{
		path:           path,
		withSentiment:  withSentiment,
		logger:         logger,
		createTempFile: os.CreateTemp,
	}
}

func (w *CSVWriter) Path() string {
	return w.path
}

func (w *CSVWriter) ReplaceAll(ctx context.Context, rows []commentary.DatasetRow) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return outputErr(err, "create output dir %s", dir)
	}

	tmp, err := w.createTempFile(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return outputErr(err, "create temp file for %s", w.path)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := w.encode(tmp, rows); err != nil {
		return outputErr(err, "write %s", w.path)
	}
	if err := tmp.Sync(); err != nil {
		return outputErr(err, "sync %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		return outputErr(err, "close %s", tmpPath)
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		return outputErr(err, "replace %s", w.path)
	}

	w.logger.InfoContext(ctx, "dataset written", "path", w.path, "rows", len(rows))
	return nil
}

func (w *CSVWriter) encode(f *os.File, rows []commentary.DatasetRow) error {
	out := csv.NewWriter(f)

	header := baseHeader
	if w.withSentiment {
		header = append(append([]string{}, baseHeader...), sentimentHeader...)
	}
	if err := out.Write(header); err != nil {
		return err
	}

	record := make([]string, 0, len(header))
	for _, row := range rows {
		record = append(record[:0], row.MatchID, row.Team, string(row.Side), row.Text, string(row.Label))
		if w.withSentiment {
			record = append(record, formatScore(row.Polarity), formatScore(row.Subjectivity))
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}

	out.Flush()
	return out.Error()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func outputErr(err error, format string, args ...any) error {
	return &commentary.OutputError{Target: fmt.Sprintf(format, args...), Err: err}
}
