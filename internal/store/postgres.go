package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/sourcing-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. Tests substitute a
// pgxmock pool through it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_report":        `INSERT INTO reports (id, status, category, product_name, baseline, signals, input_status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
	"get_report":           `SELECT id, status, category, product_name, baseline, signals, input_status, created_at, updated_at FROM reports WHERE id = $1`,
	"update_report_status": `UPDATE reports SET status = $1, updated_at = $2 WHERE id = $3`,
	"save_decision":        `INSERT INTO decisions (report_id, record) VALUES ($1, $2) ON CONFLICT (report_id) DO UPDATE SET record = $2`,
	"get_decision":         `SELECT record FROM decisions WHERE report_id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: pool.Close}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS reports (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	status       TEXT NOT NULL DEFAULT 'draft',
	category     TEXT NOT NULL,
	product_name TEXT,
	baseline     JSONB NOT NULL,
	signals      JSONB NOT NULL,
	input_status JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS decisions (
	report_id TEXT PRIMARY KEY REFERENCES reports(id),
	record    JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);
CREATE INDEX IF NOT EXISTS idx_reports_category ON reports(category);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateReport(ctx context.Context, r *model.Report) error {
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	if r.Status == "" {
		r.Status = model.ReportStatusDraft
	}

	baselineJSON, err := json.Marshal(r.Baseline)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal baseline")
	}
	signalsJSON, err := json.Marshal(r.Signals)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal signals")
	}
	inputJSON, err := json.Marshal(r.InputStatus)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal input status")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO reports (id, status, category, product_name, baseline, signals, input_status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, string(r.Status), r.Category, r.ProductName,
		baselineJSON, signalsJSON, inputJSON, r.CreatedAt, r.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: insert report %s", r.ID)
}

func (s *PostgresStore) GetReport(ctx context.Context, id string) (*model.Report, error) {
	var r model.Report
	var productName *string
	var baselineJSON, signalsJSON, inputJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, status, category, product_name, baseline, signals, input_status, created_at, updated_at
		 FROM reports WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.Status, &r.Category, &productName,
		&baselineJSON, &signalsJSON, &inputJSON, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "postgres: get report %s", id)
	}
	if productName != nil {
		r.ProductName = *productName
	}

	if err := json.Unmarshal(baselineJSON, &r.Baseline); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal baseline")
	}
	if err := json.Unmarshal(signalsJSON, &r.Signals); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal signals")
	}
	if err := json.Unmarshal(inputJSON, &r.InputStatus); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal input status")
	}
	return &r, nil
}

func (s *PostgresStore) UpdateReportStatus(ctx context.Context, id string, status model.ReportStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE reports SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update report status %s", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListReports(ctx context.Context, status model.ReportStatus, limit int) ([]model.Report, error) {
	query := `SELECT id, status, category, product_name, baseline, signals, input_status, created_at, updated_at
	          FROM reports WHERE true`
	args := []any{}
	argIdx := 1

	if status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(status))
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list reports")
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		var r model.Report
		var productName *string
		var baselineJSON, signalsJSON, inputJSON []byte

		if err := rows.Scan(&r.ID, &r.Status, &r.Category, &productName,
			&baselineJSON, &signalsJSON, &inputJSON, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan report")
		}
		if productName != nil {
			r.ProductName = *productName
		}
		if err := json.Unmarshal(baselineJSON, &r.Baseline); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal baseline")
		}
		if err := json.Unmarshal(signalsJSON, &r.Signals); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal signals")
		}
		if err := json.Unmarshal(inputJSON, &r.InputStatus); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal input status")
		}
		reports = append(reports, r)
	}
	return reports, eris.Wrap(rows.Err(), "postgres: list reports iterate")
}

func (s *PostgresStore) SaveDecision(ctx context.Context, rec *model.DecisionRecord) error {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal decision")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO decisions (report_id, record) VALUES ($1, $2)
		 ON CONFLICT (report_id) DO UPDATE SET record = $2`,
		rec.ReportID, recordJSON,
	)
	return eris.Wrapf(err, "postgres: save decision %s", rec.ReportID)
}

func (s *PostgresStore) GetDecision(ctx context.Context, reportID string) (*model.DecisionRecord, error) {
	var recordJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT record FROM decisions WHERE report_id = $1`,
		reportID,
	).Scan(&recordJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "postgres: get decision %s", reportID)
	}

	var rec model.DecisionRecord
	if err := json.Unmarshal(recordJSON, &rec); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal decision")
	}
	return &rec, nil
}
