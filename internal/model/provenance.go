package model

// AttemptRecord is one extraction attempt for an attribute: the source
// tried, what it yielded, and why it failed if it did.
type AttemptRecord struct {
	Source     Source  `json:"source"`
	Value      string  `json:"value,omitempty"`
	Confidence float64 `json:"confidence"`
	Snippet    string  `json:"snippet,omitempty"`
	Failure    string  `json:"failure,omitempty"`
}

// Resolution is the per-attribute audit trail: every attempt in chain
// order plus the winning source. The UI uses this for evidence labels.
type Resolution struct {
	Attribute    string          `json:"attribute"`
	WinnerSource Source          `json:"winner_source"`
	WinnerValue  string          `json:"winner_value,omitempty"`
	Confidence   float64         `json:"confidence"`
	Defaulted    bool            `json:"defaulted"`
	Attempts     []AttemptRecord `json:"attempts"`
}
