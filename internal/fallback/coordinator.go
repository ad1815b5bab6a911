package fallback

import (
	"go.uber.org/zap"

	"github.com/sells-group/sourcing-cli/internal/model"
)

// LabelFields is the structured payload a label extraction yields.
// Empty strings mean the extractor could not read that sub-field.
type LabelFields struct {
	OriginCountry string
	NetWeight     string
	Allergens     []string
	Brand         string
	ProductName   string
}

// CustomsGuess is the payload of the single reasoning-based customs
// classification attempt.
type CustomsGuess struct {
	Category   string
	Candidates []model.HSCandidate
}

// Attempts holds every raw extraction attempt for one report, exactly
// as the providers returned them. Sources the caller never tried are
// ReasonNotAttempted results.
type Attempts struct {
	WeightUser   Result[model.WeightValue]
	WeightLabel  Result[model.WeightValue]
	WeightVision Result[model.WeightValue]

	BarcodeOCR    Result[string]
	BarcodeVision Result[string]

	LabelOCR    Result[LabelFields]
	LabelVision Result[LabelFields]

	CasePackVision Result[[]int]

	Customs Result[CustomsGuess]
}

// Resolved is the coordinator's output: one resolved draft slot per
// attribute plus its provenance trail.
type Resolved struct {
	Weight   model.WeightDraft
	Barcode  model.Field[string]
	Label    model.LabelDraft
	CasePack model.CasePackDraft
	Customs  model.Field[string]
	HS       []model.HSCandidate

	Resolutions []model.Resolution
}

// Resolve runs every attribute chain. It is total: any combination of
// failed attempts resolves to defaults, never to an error.
func Resolve(a Attempts, category string) Resolved {
	var out Resolved
	out.Weight = resolveWeight(a, category, &out.Resolutions)
	out.Barcode = resolveBarcode(a, &out.Resolutions)
	out.Label = resolveLabel(a, &out.Resolutions)
	out.CasePack = resolveCasePack(a, &out.Resolutions)
	out.Customs, out.HS = resolveCustoms(a, &out.Resolutions)
	return out
}

// resolveWeight runs user input -> label text -> vision -> category
// default.
func resolveWeight(a Attempts, category string, resolutions *[]model.Resolution) model.WeightDraft {
	res := model.Resolution{Attribute: "weight"}
	chain := []Result[model.WeightValue]{a.WeightUser, a.WeightLabel, a.WeightVision}

	for _, attempt := range chain {
		record(&res, attempt)
		if attempt.OK() {
			win(&res, attempt)
			*resolutions = append(*resolutions, res)
			v := *attempt.Value
			return model.WeightDraft{
				Grams: model.NewField(v.Amount, attempt.Confidence, attempt.Source, attempt.Snippet),
				Unit:  v.Unit,
			}
		}
	}

	def := DefaultWeight(category)
	record(&res, def)
	win(&res, def)
	*resolutions = append(*resolutions, res)
	zap.L().Debug("fallback: weight defaulted",
		zap.String("category", category),
		zap.Float64("grams", def.Value.Amount),
	)
	return model.WeightDraft{
		Grams: model.NewField(def.Value.Amount, def.Confidence, model.SourceDefault, def.Snippet),
		Unit:  def.Value.Unit,
	}
}

// resolveBarcode runs OCR -> vision -> none. Exhaustion yields the
// canonical absent field rather than a missing slot.
func resolveBarcode(a Attempts, resolutions *[]model.Resolution) model.Field[string] {
	res := model.Resolution{Attribute: "barcode"}
	for _, attempt := range []Result[string]{a.BarcodeOCR, a.BarcodeVision} {
		record(&res, attempt)
		if attempt.OK() {
			win(&res, attempt)
			*resolutions = append(*resolutions, res)
			return field(attempt)
		}
	}
	res.WinnerSource = model.SourceDefault
	res.Defaulted = true
	*resolutions = append(*resolutions, res)
	return model.EmptyField[string]()
}

// resolveLabel runs OCR -> vision. A vision-derived label stays a
// draft; only the confirmation endpoint may promote it to confirmed.
func resolveLabel(a Attempts, resolutions *[]model.Resolution) model.LabelDraft {
	res := model.Resolution{Attribute: "label"}
	empty := model.EmptyDraftInference().Label

	for _, attempt := range []Result[LabelFields]{a.LabelOCR, a.LabelVision} {
		record(&res, attempt)
		if !attempt.OK() {
			continue
		}
		win(&res, attempt)
		*resolutions = append(*resolutions, res)

		lf := *attempt.Value
		draft := empty
		draft.OriginCountry = labelField(lf.OriginCountry, attempt)
		draft.NetWeight = labelField(lf.NetWeight, attempt)
		if len(lf.Allergens) > 0 {
			draft.Allergens = model.NewField(lf.Allergens, attempt.Confidence, attempt.Source, attempt.Snippet)
		}
		draft.Brand = labelField(lf.Brand, attempt)
		draft.ProductName = labelField(lf.ProductName, attempt)
		draft.Status = model.LabelStatusDraft
		return draft
	}

	res.WinnerSource = model.SourceDefault
	res.Defaulted = true
	*resolutions = append(*resolutions, res)
	return empty
}

// labelField wraps one non-empty label sub-field in the attempt's
// provenance, or leaves it absent.
func labelField(value string, attempt Result[LabelFields]) model.Field[string] {
	if value == "" {
		return model.EmptyField[string]()
	}
	return model.NewField(value, attempt.Confidence, attempt.Source, attempt.Snippet)
}

// resolveCasePack seeds the hard-coded defaults, then overwrites them
// with vision candidates when the result is a well-formed list.
// Malformed or empty responses are discarded and the defaults kept.
func resolveCasePack(a Attempts, resolutions *[]model.Resolution) model.CasePackDraft {
	res := model.Resolution{Attribute: "case_pack"}
	draft := model.CasePackDraft{
		Candidates: DefaultCasePackCandidates(),
		Selected:   model.EmptyField[int](),
	}

	attempt := a.CasePackVision
	record(&res, attempt)
	if attempt.OK() && usableCounts(*attempt.Value) {
		win(&res, attempt)
		draft.Candidates = draft.Candidates[:0]
		for _, n := range *attempt.Value {
			draft.Candidates = append(draft.Candidates,
				model.NewField(n, attempt.Confidence, attempt.Source, attempt.Snippet))
		}
	} else {
		if attempt.OK() {
			zap.L().Warn("fallback: discarding malformed case-pack candidates",
				zap.Ints("counts", *attempt.Value))
		}
		res.WinnerSource = model.SourceDefault
		res.WinnerValue = ""
		res.Defaulted = true
		res.Confidence = defaultCasePackConfidence
	}
	*resolutions = append(*resolutions, res)
	return draft
}

// usableCounts reports whether a vision case-pack list is well formed:
// non-empty with strictly positive counts.
func usableCounts(counts []int) bool {
	if len(counts) == 0 {
		return false
	}
	for _, n := range counts {
		if n <= 0 {
			return false
		}
	}
	return true
}

// resolveCustoms is a single reasoning attempt; failure leaves the
// category absent with an empty candidate list.
func resolveCustoms(a Attempts, resolutions *[]model.Resolution) (model.Field[string], []model.HSCandidate) {
	res := model.Resolution{Attribute: "customs"}
	attempt := a.Customs
	record(&res, attempt)

	if attempt.OK() && attempt.Value.Category != "" {
		win(&res, attempt)
		res.WinnerValue = attempt.Value.Category
		*resolutions = append(*resolutions, res)
		cands := attempt.Value.Candidates
		if cands == nil {
			cands = []model.HSCandidate{}
		}
		return model.NewField(attempt.Value.Category, attempt.Confidence, attempt.Source, attempt.Snippet), cands
	}

	res.WinnerSource = model.SourceDefault
	res.Defaulted = true
	*resolutions = append(*resolutions, res)
	return model.EmptyField[string](), []model.HSCandidate{}
}
