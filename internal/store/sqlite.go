package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/sourcing-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS reports (
	id           TEXT PRIMARY KEY,
	status       TEXT NOT NULL DEFAULT 'draft',
	category     TEXT NOT NULL,
	product_name TEXT,
	baseline     TEXT NOT NULL,
	signals      TEXT NOT NULL,
	input_status TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS decisions (
	report_id TEXT PRIMARY KEY REFERENCES reports(id),
	record    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);
CREATE INDEX IF NOT EXISTS idx_reports_category ON reports(category);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateReport(ctx context.Context, r *model.Report) error {
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	if r.Status == "" {
		r.Status = model.ReportStatusDraft
	}

	baselineJSON, signalsJSON, inputJSON, err := marshalReportBlobs(r)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, status, category, product_name, baseline, signals, input_status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, string(r.Status), r.Category, r.ProductName,
		baselineJSON, signalsJSON, inputJSON, r.CreatedAt, r.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert report %s", r.ID)
}

func (s *SQLiteStore) GetReport(ctx context.Context, id string) (*model.Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, status, category, product_name, baseline, signals, input_status, created_at, updated_at
		 FROM reports WHERE id = ?`,
		id,
	)
	return scanReport(row)
}

func (s *SQLiteStore) UpdateReportStatus(ctx context.Context, id string, status model.ReportStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reports SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update report status %s", id)
	}
	return checkRowsAffected(res, "report", id)
}

func (s *SQLiteStore) ListReports(ctx context.Context, status model.ReportStatus, limit int) ([]model.Report, error) {
	query := `SELECT id, status, category, product_name, baseline, signals, input_status, created_at, updated_at
	          FROM reports WHERE 1=1`
	var args []any

	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list reports")
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, eris.Wrap(rows.Err(), "sqlite: list reports iterate")
}

func (s *SQLiteStore) SaveDecision(ctx context.Context, rec *model.DecisionRecord) error {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal decision")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO decisions (report_id, record) VALUES (?, ?)
		 ON CONFLICT(report_id) DO UPDATE SET record = excluded.record`,
		rec.ReportID, string(recordJSON),
	)
	return eris.Wrapf(err, "sqlite: save decision %s", rec.ReportID)
}

func (s *SQLiteStore) GetDecision(ctx context.Context, reportID string) (*model.DecisionRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT record FROM decisions WHERE report_id = ?`,
		reportID,
	)

	var recordJSON string
	err := row.Scan(&recordJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get decision %s", reportID)
	}

	var rec model.DecisionRecord
	if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal decision")
	}
	return &rec, nil
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalReportBlobs(r *model.Report) (baseline, signals, input string, err error) {
	b, err := json.Marshal(r.Baseline)
	if err != nil {
		return "", "", "", eris.Wrap(err, "marshal baseline")
	}
	s, err := json.Marshal(r.Signals)
	if err != nil {
		return "", "", "", eris.Wrap(err, "marshal signals")
	}
	i, err := json.Marshal(r.InputStatus)
	if err != nil {
		return "", "", "", eris.Wrap(err, "marshal input status")
	}
	return string(b), string(s), string(i), nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanReport(row scannable) (*model.Report, error) {
	var r model.Report
	var productName sql.NullString
	var baselineJSON, signalsJSON, inputJSON string

	err := row.Scan(&r.ID, &r.Status, &r.Category, &productName,
		&baselineJSON, &signalsJSON, &inputJSON, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan report")
	}
	r.ProductName = productName.String

	if err := json.Unmarshal([]byte(baselineJSON), &r.Baseline); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal baseline")
	}
	if err := json.Unmarshal([]byte(signalsJSON), &r.Signals); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal signals")
	}
	if err := json.Unmarshal([]byte(inputJSON), &r.InputStatus); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal input status")
	}
	return &r, nil
}
