package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-commentary/internal/domain/commentary"
)

const (
	datasetTable    = "commentary_sides"
	insertBatchSize = 500
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func init() {
	// modernc registers itself as "sqlite", which sqlx does not map to a bindvar.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Migrations returns the dataset schema migrations in golang-migrate layout.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(fmt.Sprintf("migrations dir missing from embed: %v", err))
	}
	return sub
}

type DatasetRepository struct {
	db *sqlx.DB
}

func NewDatasetRepository(db *sqlx.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

// EnsureSchema applies every up migration in order. The statements are
// idempotent, which lets embedded databases skip the migration tool.
func (r *DatasetRepository) EnsureSchema(ctx context.Context) error {
	names, err := fs.Glob(Migrations(), "*.up.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		raw, err := fs.ReadFile(Migrations(), name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := r.db.ExecContext(ctx, string(raw)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}

	return nil
}

// ReplaceAll swaps the table content for rows inside one transaction.
func (r *DatasetRepository) ReplaceAll(ctx context.Context, rows []commentary.DatasetRow) error {
	if err := r.replaceAll(ctx, rows); err != nil {
		return &commentary.OutputError{Target: "table " + datasetTable, Err: err}
	}
	return nil
}

func (r *DatasetRepository) replaceAll(ctx context.Context, rows []commentary.DatasetRow) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace dataset: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+datasetTable); err != nil {
		return fmt.Errorf("clear dataset: %w", err)
	}

	models := make([]datasetRowModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, toDatasetRowModel(row))
	}
	for start := 0; start < len(models); start += insertBatchSize {
		end := min(start+insertBatchSize, len(models))
		if _, err := tx.NamedExecContext(ctx, insertDatasetQuery, models[start:end]); err != nil {
			return fmt.Errorf("insert dataset rows %d-%d: %w", start, end-1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace dataset tx: %w", err)
	}

	return nil
}

// ListAll reads the stored dataset ordered by match and side.
func (r *DatasetRepository) ListAll(ctx context.Context) ([]commentary.DatasetRow, error) {
	var models []datasetRowModel
	query := "SELECT " + strings.Join(datasetColumns, ", ") + " FROM " + datasetTable + " ORDER BY match_id, side"
	if err := r.db.SelectContext(ctx, &models, query); err != nil {
		return nil, fmt.Errorf("select dataset rows: %w", err)
	}

	out := make([]commentary.DatasetRow, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}
