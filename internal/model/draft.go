package model

// WeightUnit is the unit attached to a weight or volume reading.
type WeightUnit string

const (
	UnitGrams      WeightUnit = "g"
	UnitKilograms  WeightUnit = "kg"
	UnitMilliliter WeightUnit = "ml"
)

// WeightValue is a raw weight reading before normalization.
type WeightValue struct {
	Amount float64    `json:"amount"`
	Unit   WeightUnit `json:"unit"`
}

// LabelStatus marks whether label-critical fields are user-confirmed.
// Vision-derived drafts stay at LabelStatusDraft until the confirmation
// endpoint promotes them; this engine never auto-promotes.
type LabelStatus string

const (
	LabelStatusEmpty     LabelStatus = "empty"
	LabelStatusDraft     LabelStatus = "draft"
	LabelStatusConfirmed LabelStatus = "confirmed"
)

// LabelDraft holds the five label-critical fields.
type LabelDraft struct {
	OriginCountry Field[string]   `json:"origin_country"`
	NetWeight     Field[string]   `json:"net_weight"`
	Allergens     Field[[]string] `json:"allergens"`
	Brand         Field[string]   `json:"brand"`
	ProductName   Field[string]   `json:"product_name"`
	Status        LabelStatus     `json:"status"`
}

// WeightDraft is the resolved product weight. After normalization the
// unit is always grams; kg readings are converted, ml readings are
// treated 1:1 as grams.
type WeightDraft struct {
	Grams Field[float64] `json:"grams"`
	Unit  WeightUnit     `json:"unit"`
}

// CasePackDraft holds candidate units-per-case counts plus the selected
// one. Candidates never number fewer than two; defaults of 12 and 24 are
// synthesized when evidence is missing.
type CasePackDraft struct {
	Candidates []Field[int] `json:"candidates"`
	Selected   Field[int]   `json:"selected"`
}

// HSCandidate is one candidate customs classification.
type HSCandidate struct {
	HSCode     string  `json:"hs_code"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale,omitempty"`
	Source     Source  `json:"source"`
}

// DraftInference is the complete record of all resolved or defaulted
// product attributes. Every slot is always populated: absence is an
// empty Field, never a missing key.
type DraftInference struct {
	Label        LabelDraft    `json:"label_draft"`
	Barcode      Field[string] `json:"barcode_draft"`
	Weight       WeightDraft   `json:"weight_draft"`
	CasePack     CasePackDraft `json:"case_pack_draft"`
	Customs      Field[string] `json:"customs_category_draft"`
	HSCandidates []HSCandidate `json:"hs_candidates_draft"`
}

// EmptyDraftInference returns the canonical empty draft: every slot at
// its defaulted, zero-confidence state.
func EmptyDraftInference() DraftInference {
	return DraftInference{
		Label: LabelDraft{
			OriginCountry: EmptyField[string](),
			NetWeight:     EmptyField[string](),
			Allergens:     EmptyField[[]string](),
			Brand:         EmptyField[string](),
			ProductName:   EmptyField[string](),
			Status:        LabelStatusEmpty,
		},
		Barcode:      EmptyField[string](),
		Weight:       WeightDraft{Grams: EmptyField[float64](), Unit: UnitGrams},
		CasePack:     CasePackDraft{Selected: EmptyField[int]()},
		Customs:      EmptyField[string](),
		HSCandidates: []HSCandidate{},
	}
}
