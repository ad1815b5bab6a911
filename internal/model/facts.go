package model

// FactState is the canonical readiness level of one user-facing fact.
// It is recomputed fresh from the raw facts on every call; there are no
// transitions over time.
type FactState string

const (
	FactNotProvided FactState = "not_provided"
	FactUnreadable  FactState = "unreadable"
	FactCaptured    FactState = "captured"
	FactInferred    FactState = "inferred"
)

// FactItem pairs a fact's state with its display value.
type FactItem struct {
	State   FactState `json:"state"`
	Display string    `json:"display,omitempty"`
}

// EvidenceSummary is the normalized per-fact view of the raw evidence.
type EvidenceSummary struct {
	Barcode FactItem `json:"barcode"`
	Label   FactItem `json:"label"`
	Weight  FactItem `json:"weight"`
	Origin  FactItem `json:"origin"`
}
