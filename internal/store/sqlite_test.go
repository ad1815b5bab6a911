package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sourcing-cli/internal/model"
)

func f64(v float64) *float64 { return &v }

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "sourcing.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleReport(id string) *model.Report {
	return &model.Report{
		ID:          id,
		Category:    "candy",
		ProductName: "Sour Gummy Worms",
		Baseline: model.Baseline{
			CostRange:   model.CostRange{Min: 1.20, Best: 1.40, Max: 1.65},
			TargetPrice: f64(4.99),
		},
		Signals: model.Signals{
			SupplierMatches: 4,
			ExactMatches:    2,
			DutyMinPct:      5,
			DutyMaxPct:      8,
		},
		InputStatus: model.InputStatus{LabelPhoto: true},
	}
}

func TestSQLiteReportRoundtrip(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	in := sampleReport("rep-1")
	require.NoError(t, s.CreateReport(ctx, in))
	assert.Equal(t, model.ReportStatusDraft, in.Status)
	assert.False(t, in.CreatedAt.IsZero())

	got, err := s.GetReport(ctx, "rep-1")
	require.NoError(t, err)
	assert.Equal(t, in.ID, got.ID)
	assert.Equal(t, in.Category, got.Category)
	assert.Equal(t, in.ProductName, got.ProductName)
	assert.Equal(t, in.Baseline, got.Baseline)
	assert.Equal(t, in.Signals, got.Signals)
	assert.Equal(t, in.InputStatus, got.InputStatus)
}

func TestSQLiteMigrateIdempotent(t *testing.T) {
	s := openTestSQLite(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestSQLiteGetReportNotFound(t *testing.T) {
	s := openTestSQLite(t)

	_, err := s.GetReport(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteUpdateReportStatus(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()
	require.NoError(t, s.CreateReport(ctx, sampleReport("rep-1")))

	require.NoError(t, s.UpdateReportStatus(ctx, "rep-1", model.ReportStatusDecided))

	got, err := s.GetReport(ctx, "rep-1")
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusDecided, got.Status)
}

func TestSQLiteUpdateReportStatusNotFound(t *testing.T) {
	s := openTestSQLite(t)

	err := s.UpdateReportStatus(context.Background(), "missing", model.ReportStatusDecided)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteListReports(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	for _, id := range []string{"rep-1", "rep-2", "rep-3"} {
		require.NoError(t, s.CreateReport(ctx, sampleReport(id)))
	}
	require.NoError(t, s.UpdateReportStatus(ctx, "rep-2", model.ReportStatusDecided))

	all, err := s.ListReports(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	decided, err := s.ListReports(ctx, model.ReportStatusDecided, 0)
	require.NoError(t, err)
	require.Len(t, decided, 1)
	assert.Equal(t, "rep-2", decided[0].ID)

	limited, err := s.ListReports(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSQLiteDecisionRoundtripAndUpsert(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()
	require.NoError(t, s.CreateReport(ctx, sampleReport("rep-1")))

	rec := &model.DecisionRecord{
		ReportID: "rep-1",
		Verdict:  model.Verdict{Decision: model.DecisionHold, Reasons: []string{"thin evidence"}, Confidence: 40},
	}
	require.NoError(t, s.SaveDecision(ctx, rec))

	got, err := s.GetDecision(ctx, "rep-1")
	require.NoError(t, err)
	assert.Equal(t, model.DecisionHold, got.Verdict.Decision)

	// Saving again overwrites, it does not duplicate.
	rec.Verdict = model.Verdict{Decision: model.DecisionGo, Confidence: 80}
	require.NoError(t, s.SaveDecision(ctx, rec))

	got, err = s.GetDecision(ctx, "rep-1")
	require.NoError(t, err)
	assert.Equal(t, model.DecisionGo, got.Verdict.Decision)
	assert.Equal(t, 80, got.Verdict.Confidence)
}

func TestSQLiteGetDecisionNotFound(t *testing.T) {
	s := openTestSQLite(t)

	_, err := s.GetDecision(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
