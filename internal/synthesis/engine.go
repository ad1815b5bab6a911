// Package synthesis runs the full decision pass for one report: resolve
// the raw extraction attempts into a draft, normalize the evidence,
// classify the verdict, and assemble the immutable decision record.
package synthesis

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sourcing-cli/internal/content"
	"github.com/sells-group/sourcing-cli/internal/cost"
	"github.com/sells-group/sourcing-cli/internal/decide"
	"github.com/sells-group/sourcing-cli/internal/draft"
	"github.com/sells-group/sourcing-cli/internal/extraction"
	"github.com/sells-group/sourcing-cli/internal/facts"
	"github.com/sells-group/sourcing-cli/internal/fallback"
	"github.com/sells-group/sourcing-cli/internal/model"
	"github.com/sells-group/sourcing-cli/internal/rates"
	"github.com/sells-group/sourcing-cli/internal/store"
)

// Engine wires extraction, fallback resolution, and decision synthesis
// against the store.
type Engine struct {
	store   store.Store
	runner  *extraction.Runner
	catalog *content.Catalog
	rates   *rates.Table
}

// NewEngine creates an Engine. The runner may be nil for callers that
// only recompute from stored attempts; the duty table may be nil when
// no spreadsheet is configured.
func NewEngine(st store.Store, runner *extraction.Runner, catalog *content.Catalog, table *rates.Table) *Engine {
	return &Engine{store: st, runner: runner, catalog: catalog, rates: table}
}

// Synthesize runs the full pass for a report: extraction, composition,
// and persistence. The report moves draft -> synthesizing -> decided,
// or to failed if the store rejects the record. Extraction itself
// cannot fail the pass; missing evidence degrades to defaults.
func (e *Engine) Synthesize(ctx context.Context, reportID string, in extraction.Inputs) (*model.DecisionRecord, error) {
	report, err := e.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, eris.Wrapf(err, "synthesis: load report %s", reportID)
	}

	if err := e.store.UpdateReportStatus(ctx, reportID, model.ReportStatusSynthesizing); err != nil {
		return nil, eris.Wrapf(err, "synthesis: mark synthesizing %s", reportID)
	}

	if in.Category == "" {
		in.Category = report.Category
	}
	if in.ProductName == "" {
		in.ProductName = report.ProductName
	}

	report.InputStatus = mergeInputStatus(report.InputStatus, in)

	// User-supplied evidence resolves even without a runner; only the
	// provider-backed attempts need one.
	attempts := extraction.OfflineAttempts(in)
	if e.runner != nil {
		attempts = e.runner.Run(ctx, reportID, in)
	}

	rec := e.Compose(report, attempts)

	if err := e.store.SaveDecision(ctx, rec); err != nil {
		if serr := e.store.UpdateReportStatus(ctx, reportID, model.ReportStatusFailed); serr != nil {
			zap.L().Warn("failed to mark report failed",
				zap.String("report_id", reportID), zap.Error(serr))
		}
		return nil, eris.Wrapf(err, "synthesis: save decision %s", reportID)
	}
	if err := e.store.UpdateReportStatus(ctx, reportID, model.ReportStatusDecided); err != nil {
		return nil, eris.Wrapf(err, "synthesis: mark decided %s", reportID)
	}

	zap.L().Info("report synthesized",
		zap.String("report_id", reportID),
		zap.String("decision", string(rec.Verdict.Decision)),
		zap.Int("confidence", rec.Verdict.Confidence))

	return rec, nil
}

// Compose is the pure core of the pass: given a report and its raw
// extraction attempts it deterministically produces the decision
// record. Identical inputs yield byte-identical records.
func (e *Engine) Compose(report *model.Report, attempts fallback.Attempts) *model.DecisionRecord {
	resolved := fallback.Resolve(attempts, report.Category)
	d := draft.Build(resolved)
	evidence := facts.Normalize(facts.FromDraft(d, report.InputStatus))

	dutyMin, dutyMax := e.dutyRange(report, d)

	signals := buildSignals(report, d, evidence)
	signals.DutyMinPct = dutyMin
	signals.DutyMaxPct = dutyMax
	verdict := decide.Decide(signals)
	plan := decide.Plan(verdict, signals)
	sensitivity := decide.Analyze(decide.CostSignals{
		DutyMinPct:      dutyMin,
		DutyMaxPct:      dutyMax,
		BestEstimate:    report.Baseline.CostRange.Best,
		MinCost:         report.Baseline.CostRange.Min,
		MaxCost:         report.Baseline.CostRange.Max,
		TargetPrice:     report.Baseline.TargetPrice,
		OriginConfirmed: report.Signals.OriginConfirmed || evidence.Origin.State == model.FactCaptured,
	})

	quality := content.DataQuality{
		Tier:                content.TierFor(report.Signals.ExactMatches),
		ComplianceSuspected: signals.ComplianceSuspected(),
	}
	template := e.catalog.Select(report.ID, report.Category, verdict.Decision, quality)
	nudge := e.catalog.SelectNudge(report.ID, missingEvidence(report, evidence))

	return &model.DecisionRecord{
		ReportID:          report.ID,
		Draft:             d,
		Evidence:          evidence,
		Verdict:           verdict,
		ActionPlan48h:     plan,
		Sensitivity:       sensitivity,
		Nudge:             nudge,
		VerdictText:       template.Statement,
		VerdictTemplateID: template.ID,
		Provenance:        resolved.Resolutions,
	}
}

// dutyRange prefers the report's upstream duty signals; when those are
// absent it falls back to a duty-table lookup on the top HS candidate.
func (e *Engine) dutyRange(report *model.Report, d model.DraftInference) (float64, float64) {
	if report.Signals.DutyMinPct != 0 || report.Signals.DutyMaxPct != 0 {
		return report.Signals.DutyMinPct, report.Signals.DutyMaxPct
	}
	if e.rates == nil || len(d.HSCandidates) == 0 {
		return 0, 0
	}
	r, ok := e.rates.Lookup(d.HSCandidates[0].HSCode)
	if !ok {
		return 0, 0
	}
	return r.MinPct, r.MaxPct
}

// mergeInputStatus ORs the evidence supplied with this pass into the
// report's stored flags. Evidence never un-happens.
func mergeInputStatus(s model.InputStatus, in extraction.Inputs) model.InputStatus {
	s.BarcodePhoto = s.BarcodePhoto || len(in.BarcodeImage) > 0
	s.LabelPhoto = s.LabelPhoto || len(in.LabelImage) > 0
	s.PackagePhoto = s.PackagePhoto || len(in.PackageImage) > 0
	s.BoxPhoto = s.BoxPhoto || len(in.BoxImage) > 0
	s.WeightProvided = s.WeightProvided || in.UserWeight != nil
	return s
}

// buildSignals folds the report's upstream signals and the resolved
// draft into the classifier input. A fact counts as OK when it is
// captured or at least inferred; unreadable and missing facts do not.
func buildSignals(report *model.Report, d model.DraftInference, ev model.EvidenceSummary) decide.Signals {
	margin := report.Signals.MarginEstimate
	if margin == nil {
		margin = cost.MarginPct(report.Baseline.TargetPrice, report.Baseline.CostRange.Best)
	}

	return decide.Signals{
		SupplierMatches: report.Signals.SupplierMatches,
		ExactMatches:    report.Signals.ExactMatches,

		BarcodeOK: factOK(ev.Barcode),
		LabelOK:   factOK(ev.Label),
		WeightOK:  factOK(ev.Weight),
		OriginOK:  factOK(ev.Origin),

		WeightDefaulted:   d.Weight.Grams.IsDefault(),
		CasePackDefaulted: d.CasePack.Selected.IsDefault(),

		DutyMinPct: report.Signals.DutyMinPct,
		DutyMaxPct: report.Signals.DutyMaxPct,

		MarginEstimate:   margin,
		BestEstimateCost: report.Baseline.CostRange.Best,

		ComplianceRisk: report.Signals.ComplianceRisk,
		Category:       report.Category,
	}
}

func factOK(f model.FactItem) bool {
	return f.State == model.FactCaptured || f.State == model.FactInferred
}

// missingEvidence maps the normalized facts and report metadata onto
// the nudge targets still worth asking for.
func missingEvidence(report *model.Report, ev model.EvidenceSummary) content.MissingEvidence {
	return content.MissingEvidence{
		Barcode: !factOK(ev.Barcode),
		Label:   !factOK(ev.Label),
		Weight:  !factOK(ev.Weight),
		Origin:  !factOK(ev.Origin),
		Box:     !report.InputStatus.BoxPhoto,
		Name:    report.ProductName == "",
		Pricing: report.Baseline.TargetPrice == nil,
	}
}
