package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/match-commentary/internal/config"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	_ "modernc.org/sqlite"
)

func openDatasetDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := cfg.DatasetDBURL
	system := semconv.DBSystemPostgreSQL
	if cfg.DatasetDBDriver == config.DBDriverSQLite {
		dsn = sqliteDSN(dsn)
		system = semconv.DBSystemSqlite
	}

	db, err := otelsqlx.Open(cfg.DatasetDBDriver, dsn,
		otelsql.WithAttributes(system),
		otelsql.WithDBName(dbNameFromURL(cfg.DatasetDBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DatasetDBDriver, err)
	}
	if cfg.DatasetDBDriver == config.DBDriverSQLite {
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DatasetDBTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.DatasetDBDriver, err)
	}

	return db, nil
}
