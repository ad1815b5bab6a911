package model

// Decision is the sourcing recommendation.
type Decision string

const (
	DecisionGo   Decision = "GO"
	DecisionHold Decision = "HOLD"
	DecisionNo   Decision = "NO"
)

// Verdict is the GO/HOLD/NO recommendation with supporting reasons and
// a 0-100 confidence score.
type Verdict struct {
	Decision   Decision `json:"decision"`
	Reasons    []string `json:"reasons"`
	Confidence int      `json:"confidence"`
}

// CostImpact quantifies a landed-cost change in a sensitivity scenario.
type CostImpact struct {
	ChangePct float64  `json:"change_pct"`
	NewCost   *float64 `json:"new_cost"`
}

// MarginImpact quantifies a margin change. Both fields stay nil when no
// target sell price exists; margins are never guessed.
type MarginImpact struct {
	ChangePct *float64 `json:"change_pct"`
	NewMargin *float64 `json:"new_margin"`
}

// SensitivityScenario is one quantified "what if this assumption
// changes" projection.
type SensitivityScenario struct {
	Label              string       `json:"label"`
	AssumptionChange   string       `json:"assumption_change"`
	ImpactOnLandedCost CostImpact   `json:"impact_on_landed_cost"`
	ImpactOnMargin     MarginImpact `json:"impact_on_margin"`
}

// ActionPlan is the 48-hour task split. Both lists hold at most three
// items.
type ActionPlan struct {
	Today    []string `json:"today"`
	Tomorrow []string `json:"tomorrow"`
}

// NudgeSeverity ranks how urgent a missing-evidence nudge is.
type NudgeSeverity string

const (
	SeverityHigh   NudgeSeverity = "high"
	SeverityMedium NudgeSeverity = "medium"
	SeverityLow    NudgeSeverity = "low"
)

// NudgeTarget names the evidence a nudge asks for.
type NudgeTarget string

const (
	TargetBarcode NudgeTarget = "barcode"
	TargetLabel   NudgeTarget = "label"
	TargetWeight  NudgeTarget = "weight"
	TargetBox     NudgeTarget = "box"
	TargetOrigin  NudgeTarget = "origin"
	TargetName    NudgeTarget = "name"
	TargetPricing NudgeTarget = "pricing"
	TargetGeneral NudgeTarget = "general"
)

// ReportNudge is the single most useful next-evidence prompt shown with
// a report.
type ReportNudge struct {
	ActionKey  string        `json:"action_key"`
	ActionText string        `json:"action_text"`
	TipText    string        `json:"tip_text"`
	Severity   NudgeSeverity `json:"severity"`
	Target     NudgeTarget   `json:"target"`
}

// ContentTemplate is one pre-written verdict explanation from the static
// catalog.
type ContentTemplate struct {
	ID            int      `json:"id"`
	Decision      Decision `json:"decision"`
	Statement     string   `json:"statement"`
	CategoryHints []string `json:"category_hints,omitempty"`
}

// DecisionRecord is the single immutable decision-support record
// produced per synthesis pass. It carries no timestamps so that
// re-running synthesis with identical inputs yields a byte-identical
// blob; the store tracks created_at separately.
type DecisionRecord struct {
	ReportID          string                `json:"report_id"`
	Draft             DraftInference        `json:"draft_inference"`
	Evidence          EvidenceSummary       `json:"evidence"`
	Verdict           Verdict               `json:"verdict"`
	ActionPlan48h     ActionPlan            `json:"action_plan_48h"`
	Sensitivity       []SensitivityScenario `json:"sensitivity"`
	Nudge             ReportNudge           `json:"nudge"`
	VerdictText       string                `json:"verdict_text"`
	VerdictTemplateID int                   `json:"verdict_template_id"`
	Provenance        []Resolution          `json:"provenance"`
}
