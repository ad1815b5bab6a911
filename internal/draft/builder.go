// Package draft assembles resolved attribute fields into one complete
// DraftInference and applies the final normalization pass.
package draft

import (
	"github.com/sells-group/sourcing-cli/internal/fallback"
	"github.com/sells-group/sourcing-cli/internal/model"
)

// Build assembles a DraftInference from coordinator output. It is total
// and defined for all inputs: the zero Resolved value yields the
// canonical empty draft, normalized.
func Build(r fallback.Resolved) model.DraftInference {
	d := model.EmptyDraftInference()

	if r.Label.Status != "" {
		d.Label = r.Label
	}
	if r.Barcode.HasValue() {
		d.Barcode = r.Barcode
	}
	if r.Weight.Grams.HasValue() {
		d.Weight = r.Weight
	}
	if len(r.CasePack.Candidates) > 0 || r.CasePack.Selected.HasValue() {
		d.CasePack = r.CasePack
	}
	if r.Customs.HasValue() {
		d.Customs = r.Customs
	}
	if len(r.HS) > 0 {
		d.HSCandidates = r.HS
	}

	return Normalize(d)
}

// Normalize enforces the draft invariants: weight in grams, at least
// two case-pack candidates, a non-nil selected case pack, and non-nil
// slices everywhere. It is idempotent: Normalize(Normalize(d)) == Normalize(d).
func Normalize(d model.DraftInference) model.DraftInference {
	d.Weight = normalizeWeight(d.Weight)
	d.CasePack = normalizeCasePack(d.CasePack)

	if d.HSCandidates == nil {
		d.HSCandidates = []model.HSCandidate{}
	}
	if d.Label.Status == "" {
		d.Label.Status = model.LabelStatusEmpty
	}

	return d
}

// normalizeWeight converts any unit to grams. Kilograms scale by 1000;
// milliliters are carried over 1:1, which holds for the water-density
// categories the defaults cover.
func normalizeWeight(w model.WeightDraft) model.WeightDraft {
	if !w.Grams.HasValue() {
		w.Unit = model.UnitGrams
		return w
	}
	switch w.Unit {
	case model.UnitKilograms:
		grams := *w.Grams.Value * 1000
		w.Grams.Value = &grams
	case model.UnitMilliliter, model.UnitGrams, "":
		// already gram-equivalent
	}
	w.Unit = model.UnitGrams
	return w
}

// normalizeCasePack tops candidates up to two with the standard 12/24
// defaults and selects the first candidate when nothing was selected.
func normalizeCasePack(cp model.CasePackDraft) model.CasePackDraft {
	if cp.Candidates == nil {
		cp.Candidates = []model.Field[int]{}
	}

	for _, n := range fallback.DefaultCasePackCounts {
		if len(cp.Candidates) >= 2 {
			break
		}
		if hasCandidate(cp.Candidates, n) {
			continue
		}
		cp.Candidates = append(cp.Candidates,
			model.NewField(n, 0.2, model.SourceDefault, "standard case size"))
	}

	if !cp.Selected.HasValue() && len(cp.Candidates) > 0 {
		cp.Selected = cp.Candidates[0]
	}

	return cp
}

func hasCandidate(candidates []model.Field[int], n int) bool {
	for _, c := range candidates {
		if c.HasValue() && *c.Value == n {
			return true
		}
	}
	return false
}
