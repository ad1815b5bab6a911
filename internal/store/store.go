// Package store persists reports and decision records. Two backends are
// provided: SQLite for local single-operator use and Postgres for shared
// deployments. Both serialize the decision record as a JSON blob so the
// schema does not chase every model change.
package store

import (
	"context"
	"errors"

	"github.com/sells-group/sourcing-cli/internal/model"
)

// ErrNotFound is returned when a report or decision does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence contract shared by both backends.
type Store interface {
	// Migrate creates or upgrades the schema. Safe to call repeatedly.
	Migrate(ctx context.Context) error

	CreateReport(ctx context.Context, r *model.Report) error
	GetReport(ctx context.Context, id string) (*model.Report, error)
	UpdateReportStatus(ctx context.Context, id string, status model.ReportStatus) error
	ListReports(ctx context.Context, status model.ReportStatus, limit int) ([]model.Report, error)

	// SaveDecision upserts the decision record for a report. Synthesis is
	// deterministic, so overwriting with a recomputed record is harmless.
	SaveDecision(ctx context.Context, rec *model.DecisionRecord) error
	GetDecision(ctx context.Context, reportID string) (*model.DecisionRecord, error)

	Close() error
}
