package model

// Signals are the upstream supplier-match and cost signals attached to
// a report. Missing data is its zero value; the synthesizer treats
// every zero as "unknown", never as an error.
type Signals struct {
	SupplierMatches int      `json:"supplier_matches"`
	ExactMatches    int      `json:"exact_matches"`
	DutyMinPct      float64  `json:"duty_min_pct"`
	DutyMaxPct      float64  `json:"duty_max_pct"`
	MarginEstimate  *float64 `json:"margin_estimate,omitempty"`
	ComplianceRisk  bool     `json:"compliance_risk"`
	OriginConfirmed bool     `json:"origin_confirmed"`
}
