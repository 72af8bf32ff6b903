package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/reconcile/internal/core"
)

// DBTX is the subset of pgx used by Postgres.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

var _ DBTX = (*pgxpool.Pool)(nil)

// Schema creates the run history table. EnsureSchema applies it.
const Schema = `
CREATE TABLE IF NOT EXISTS reconcile_runs (
	id               UUID PRIMARY KEY,
	old_file         TEXT,
	new_file         TEXT,
	option_threshold DOUBLE PRECISION NOT NULL,
	merge_threshold  DOUBLE PRECISION NOT NULL,
	old_rows         INTEGER NOT NULL DEFAULT 0,
	new_rows         INTEGER NOT NULL DEFAULT 0,
	merged           INTEGER NOT NULL DEFAULT 0,
	added            INTEGER NOT NULL DEFAULT 0,
	removed          INTEGER NOT NULL DEFAULT 0,
	status           TEXT NOT NULL,
	error_code       TEXT,
	started_at       TIMESTAMPTZ NOT NULL,
	duration_ms      BIGINT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS reconcile_runs_started_at_idx ON reconcile_runs (started_at DESC);
`

const runColumns = `id, old_file, new_file, option_threshold, merge_threshold,
	old_rows, new_rows, merged, added, removed,
	status, error_code, started_at, duration_ms`

// Postgres is a RunStore backed by PostgreSQL.
type Postgres struct {
	db DBTX
}

var _ core.RunStore = (*Postgres)(nil)

// NewPostgres creates a store on db, usually a *pgxpool.Pool.
func NewPostgres(db DBTX) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the run history table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveRun inserts run, or replaces the run with the same ID.
func (p *Postgres) SaveRun(ctx context.Context, run core.RunRecord) error {
	id := ToPgUUID(run.ID)
	if !id.Valid {
		return fmt.Errorf("save run: invalid id %q", run.ID)
	}

	query := `INSERT INTO reconcile_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			old_rows = EXCLUDED.old_rows,
			new_rows = EXCLUDED.new_rows,
			merged = EXCLUDED.merged,
			added = EXCLUDED.added,
			removed = EXCLUDED.removed,
			status = EXCLUDED.status,
			error_code = EXCLUDED.error_code,
			duration_ms = EXCLUDED.duration_ms`

	_, err := p.db.Exec(ctx, query,
		id,
		ToPgText(run.OldFile),
		ToPgText(run.NewFile),
		run.OptionThreshold,
		run.MergeThreshold,
		int32(run.OldRows),
		int32(run.NewRows),
		int32(run.Merged),
		int32(run.Added),
		int32(run.Removed),
		string(run.Status),
		ToPgText(run.ErrorCode),
		pgtype.Timestamptz{Time: run.StartedAt, Valid: !run.StartedAt.IsZero()},
		run.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun returns the run with the given ID.
func (p *Postgres) GetRun(ctx context.Context, id string) (core.RunRecord, error) {
	pgID := ToPgUUID(id)
	if !pgID.Valid {
		return core.RunRecord{}, core.ErrRunNotFound
	}

	rows, err := p.db.Query(ctx, `SELECT `+runColumns+` FROM reconcile_runs WHERE id = $1`, pgID)
	if err != nil {
		return core.RunRecord{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return core.RunRecord{}, err
		}
		return core.RunRecord{}, core.ErrRunNotFound
	}
	return scanRun(rows)
}

// ListRuns returns up to limit runs, newest first.
func (p *Postgres) ListRuns(ctx context.Context, limit int) ([]core.RunRecord, error) {
	if limit <= 0 {
		limit = core.DefaultHistoryLimit
	}

	rows, err := p.db.Query(ctx,
		`SELECT `+runColumns+` FROM reconcile_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]core.RunRecord, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// scanRun scans one reconcile_runs row.
func scanRun(rows pgx.Rows) (core.RunRecord, error) {
	var (
		id              pgtype.UUID
		oldFile         pgtype.Text
		newFile         pgtype.Text
		optionThreshold float64
		mergeThreshold  float64
		oldRows         int32
		newRows         int32
		merged          int32
		added           int32
		removed         int32
		status          string
		errorCode       pgtype.Text
		startedAt       pgtype.Timestamptz
		durationMS      int64
	)

	err := rows.Scan(
		&id, &oldFile, &newFile, &optionThreshold, &mergeThreshold,
		&oldRows, &newRows, &merged, &added, &removed,
		&status, &errorCode, &startedAt, &durationMS,
	)
	if err != nil {
		return core.RunRecord{}, err
	}

	run := core.RunRecord{
		ID:              PgUUIDToString(id),
		OptionThreshold: optionThreshold,
		MergeThreshold:  mergeThreshold,
		OldRows:         int(oldRows),
		NewRows:         int(newRows),
		Merged:          int(merged),
		Added:           int(added),
		Removed:         int(removed),
		Status:          core.RunStatus(status),
		DurationMS:      durationMS,
	}
	if oldFile.Valid {
		run.OldFile = oldFile.String
	}
	if newFile.Valid {
		run.NewFile = newFile.String
	}
	if errorCode.Valid {
		run.ErrorCode = errorCode.String
	}
	if startedAt.Valid {
		run.StartedAt = startedAt.Time.UTC()
	}
	return run, nil
}

// Connect opens a pool with the given settings and verifies it with a ping.
func Connect(ctx context.Context, url string, opts PoolOptions) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(opts.MaxConns)
	poolConfig.MinConns = int32(opts.MinConns)
	poolConfig.MaxConnLifetime = opts.MaxConnLifetime
	poolConfig.MaxConnIdleTime = opts.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// PoolOptions mirrors the pool settings in config.DatabaseConfig.
type PoolOptions struct {
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}
