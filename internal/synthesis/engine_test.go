package synthesis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sourcing-cli/internal/content"
	"github.com/sells-group/sourcing-cli/internal/extraction"
	"github.com/sells-group/sourcing-cli/internal/fallback"
	"github.com/sells-group/sourcing-cli/internal/model"
	"github.com/sells-group/sourcing-cli/internal/rates"
	"github.com/sells-group/sourcing-cli/internal/store"
)

// memStore is an in-memory Store for engine tests.
type memStore struct {
	reports   map[string]*model.Report
	decisions map[string]*model.DecisionRecord
	statuses  []model.ReportStatus

	saveErr error
}

func newMemStore() *memStore {
	return &memStore{
		reports:   make(map[string]*model.Report),
		decisions: make(map[string]*model.DecisionRecord),
	}
}

func (m *memStore) Migrate(ctx context.Context) error { return nil }

func (m *memStore) CreateReport(ctx context.Context, r *model.Report) error {
	m.reports[r.ID] = r
	return nil
}

func (m *memStore) GetReport(ctx context.Context, id string) (*model.Report, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) UpdateReportStatus(ctx context.Context, id string, status model.ReportStatus) error {
	r, ok := m.reports[id]
	if !ok {
		return store.ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = time.Now().UTC()
	m.statuses = append(m.statuses, status)
	return nil
}

func (m *memStore) ListReports(ctx context.Context, status model.ReportStatus, limit int) ([]model.Report, error) {
	var out []model.Report
	for _, r := range m.reports {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) SaveDecision(ctx context.Context, rec *model.DecisionRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.decisions[rec.ReportID] = rec
	return nil
}

func (m *memStore) GetDecision(ctx context.Context, reportID string) (*model.DecisionRecord, error) {
	rec, ok := m.decisions[reportID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rec, nil
}

func (m *memStore) Close() error { return nil }

func testCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	cat, err := content.Load()
	require.NoError(t, err)
	return cat
}

func f64(v float64) *float64 { return &v }

func healthyReport() *model.Report {
	return &model.Report{
		ID:          "rep-1",
		Status:      model.ReportStatusDraft,
		Category:    "candy",
		ProductName: "Sour Gummy Worms",
		Baseline: model.Baseline{
			CostRange:   model.CostRange{Min: 1.20, Best: 1.40, Max: 1.65},
			TargetPrice: f64(4.99),
		},
		Signals: model.Signals{
			SupplierMatches: 4,
			ExactMatches:    3,
			DutyMinPct:      5,
			DutyMaxPct:      8,
		},
	}
}

func TestSynthesizeHappyPath(t *testing.T) {
	st := newMemStore()
	require.NoError(t, st.CreateReport(context.Background(), healthyReport()))
	eng := NewEngine(st, nil, testCatalog(t), nil)

	rec, err := eng.Synthesize(context.Background(), "rep-1", extraction.Inputs{})
	require.NoError(t, err)

	assert.Equal(t, "rep-1", rec.ReportID)
	assert.Contains(t, []model.Decision{model.DecisionGo, model.DecisionHold, model.DecisionNo}, rec.Verdict.Decision)
	assert.Len(t, rec.Sensitivity, 3)
	assert.NotEmpty(t, rec.VerdictText)
	assert.NotZero(t, rec.VerdictTemplateID)

	// draft -> synthesizing -> decided.
	assert.Equal(t, []model.ReportStatus{
		model.ReportStatusSynthesizing,
		model.ReportStatusDecided,
	}, st.statuses)

	stored, err := st.GetDecision(context.Background(), "rep-1")
	require.NoError(t, err)
	assert.Equal(t, rec, stored)
}

func TestSynthesizeUserWeightWithoutRunner(t *testing.T) {
	st := newMemStore()
	require.NoError(t, st.CreateReport(context.Background(), healthyReport()))
	eng := NewEngine(st, nil, testCatalog(t), nil)

	rec, err := eng.Synthesize(context.Background(), "rep-1", extraction.Inputs{
		UserWeight: &model.WeightValue{Amount: 120, Unit: model.UnitGrams},
	})
	require.NoError(t, err)

	require.NotNil(t, rec.Draft.Weight.Grams.Value)
	assert.InDelta(t, 120, *rec.Draft.Weight.Grams.Value, 0.001)
	assert.Equal(t, model.SourceUserInput, rec.Draft.Weight.Grams.Source)
}

func TestSynthesizeUnknownReport(t *testing.T) {
	eng := NewEngine(newMemStore(), nil, testCatalog(t), nil)

	_, err := eng.Synthesize(context.Background(), "missing", extraction.Inputs{})
	require.Error(t, err)
	assert.ErrorIs(t, eris.Cause(err), store.ErrNotFound)
}

func TestSynthesizeSaveFailureMarksReportFailed(t *testing.T) {
	st := newMemStore()
	require.NoError(t, st.CreateReport(context.Background(), healthyReport()))
	st.saveErr = eris.New("disk full")
	eng := NewEngine(st, nil, testCatalog(t), nil)

	_, err := eng.Synthesize(context.Background(), "rep-1", extraction.Inputs{})
	require.Error(t, err)

	assert.Equal(t, model.ReportStatusFailed, st.reports["rep-1"].Status)
}

func TestSynthesizeMergesInputStatus(t *testing.T) {
	st := newMemStore()
	r := healthyReport()
	r.InputStatus.LabelPhoto = true
	require.NoError(t, st.CreateReport(context.Background(), r))
	eng := NewEngine(st, nil, testCatalog(t), nil)

	_, err := eng.Synthesize(context.Background(), "rep-1", extraction.Inputs{
		BarcodeImage: []byte("img"),
	})
	require.NoError(t, err)
}

func TestComposeDeterministic(t *testing.T) {
	eng := NewEngine(newMemStore(), nil, testCatalog(t), nil)
	report := healthyReport()

	a := eng.Compose(report, fallback.Attempts{})
	b := eng.Compose(report, fallback.Attempts{})

	aj, err := json.Marshal(a)
	require.NoError(t, err)
	bj, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, aj, bj)
}

func TestComposeProvenanceCoversAllAttributes(t *testing.T) {
	eng := NewEngine(newMemStore(), nil, testCatalog(t), nil)

	rec := eng.Compose(healthyReport(), fallback.Attempts{})
	assert.Len(t, rec.Provenance, 5)
}

func TestComposeNudgeReflectsMissingEvidence(t *testing.T) {
	eng := NewEngine(newMemStore(), nil, testCatalog(t), nil)

	// Nothing supplied: the barcode ask wins on priority.
	rec := eng.Compose(healthyReport(), fallback.Attempts{})
	assert.Equal(t, model.TargetBarcode, rec.Nudge.Target)
}

func TestDutyRangePrefersReportSignals(t *testing.T) {
	table := rates.NewTable([]rates.DutyRate{{HSPrefix: "1704", MinPct: 2, MaxPct: 3}})
	eng := NewEngine(newMemStore(), nil, testCatalog(t), table)

	report := healthyReport()
	d := model.DraftInference{HSCandidates: []model.HSCandidate{{HSCode: "1704.90"}}}

	min, max := eng.dutyRange(report, d)
	assert.InDelta(t, 5, min, 0.001)
	assert.InDelta(t, 8, max, 0.001)
}

func TestDutyRangeFallsBackToTable(t *testing.T) {
	table := rates.NewTable([]rates.DutyRate{{HSPrefix: "1704", MinPct: 2, MaxPct: 3}})
	eng := NewEngine(newMemStore(), nil, testCatalog(t), table)

	report := healthyReport()
	report.Signals.DutyMinPct = 0
	report.Signals.DutyMaxPct = 0
	d := model.DraftInference{HSCandidates: []model.HSCandidate{{HSCode: "1704.90.35"}}}

	min, max := eng.dutyRange(report, d)
	assert.InDelta(t, 2, min, 0.001)
	assert.InDelta(t, 3, max, 0.001)
}

func TestDutyRangeNoTableNoCandidates(t *testing.T) {
	eng := NewEngine(newMemStore(), nil, testCatalog(t), nil)

	report := healthyReport()
	report.Signals.DutyMinPct = 0
	report.Signals.DutyMaxPct = 0

	min, max := eng.dutyRange(report, model.DraftInference{})
	assert.Zero(t, min)
	assert.Zero(t, max)
}

func TestMergeInputStatusNeverUnsets(t *testing.T) {
	s := model.InputStatus{LabelPhoto: true, WeightProvided: true}

	got := mergeInputStatus(s, extraction.Inputs{BarcodeImage: []byte("img")})

	assert.True(t, got.LabelPhoto)
	assert.True(t, got.WeightProvided)
	assert.True(t, got.BarcodePhoto)
	assert.False(t, got.BoxPhoto)
}

func TestMissingEvidenceMapsFacts(t *testing.T) {
	report := healthyReport()
	report.ProductName = ""
	report.Baseline.TargetPrice = nil

	ev := model.EvidenceSummary{
		Barcode: model.FactItem{State: model.FactCaptured},
		Label:   model.FactItem{State: model.FactUnreadable},
		Weight:  model.FactItem{State: model.FactInferred},
		Origin:  model.FactItem{State: model.FactNotProvided},
	}

	got := missingEvidence(report, ev)
	assert.False(t, got.Barcode)
	assert.True(t, got.Label)
	assert.False(t, got.Weight)
	assert.True(t, got.Origin)
	assert.True(t, got.Box)
	assert.True(t, got.Name)
	assert.True(t, got.Pricing)
}
