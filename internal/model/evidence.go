package model

// Source identifies which extraction method produced a value.
type Source string

const (
	SourceUserInput Source = "user_input"
	SourceOCR       Source = "ocr"
	SourceLabelText Source = "label_text"
	SourceVision    Source = "vision_inference"
	SourceDefault   Source = "default"
	SourceReasoning Source = "reasoning"
)

// HighTrust reports whether the source counts as directly captured
// evidence rather than an inference or a fallback default.
func (s Source) HighTrust() bool {
	switch s {
	case SourceUserInput, SourceOCR, SourceLabelText:
		return true
	}
	return false
}

// Field is a single piece of evidence: a value with its confidence and
// provenance. A nil Value with SourceDefault and zero confidence is the
// canonical "absent" state; fields are never omitted from a draft.
type Field[T any] struct {
	Value      *T      `json:"value"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
	Snippet    string  `json:"evidence_snippet,omitempty"`
}

// NewField builds a populated Field with confidence clamped to [0,1].
func NewField[T any](value T, confidence float64, source Source, snippet string) Field[T] {
	return Field[T]{
		Value:      &value,
		Confidence: ClampConfidence(confidence),
		Source:     source,
		Snippet:    snippet,
	}
}

// EmptyField returns the canonical absent field: nil value, zero
// confidence, default provenance.
func EmptyField[T any]() Field[T] {
	return Field[T]{Source: SourceDefault}
}

// HasValue reports whether the field carries a resolved value.
func (f Field[T]) HasValue() bool {
	return f.Value != nil
}

// Get returns the value, or the zero value of T when absent.
func (f Field[T]) Get() T {
	if f.Value != nil {
		return *f.Value
	}
	var zero T
	return zero
}

// IsDefault reports whether the field was resolved by a fallback default
// rather than real evidence.
func (f Field[T]) IsDefault() bool {
	return f.Source == SourceDefault
}

// ClampConfidence bounds a confidence score to [0,1].
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
