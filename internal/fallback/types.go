// Package fallback resolves each product attribute through a
// priority-ordered chain of evidence sources, stopping at the first
// success and degrading to a category-aware default on exhaustion.
package fallback

import (
	"fmt"

	"github.com/sells-group/sourcing-cli/internal/model"
)

// FailureReason classifies why an extraction attempt produced no value.
// Failures are values here, not errors: the coordinator pattern-matches
// on the reason and falls through to the next source.
type FailureReason string

const (
	ReasonNone          FailureReason = ""
	ReasonNotAttempted  FailureReason = "not_attempted"
	ReasonNoInput       FailureReason = "no_input"
	ReasonUnreadable    FailureReason = "unreadable"
	ReasonMalformed     FailureReason = "malformed"
	ReasonTimeout       FailureReason = "timeout"
	ReasonProviderError FailureReason = "provider_error"
)

// Result is the outcome of a single extraction attempt for one source.
type Result[T any] struct {
	Value      *T
	Confidence float64
	Source     model.Source
	Snippet    string
	Reason     FailureReason
}

// OK reports whether the attempt yielded a usable value.
func (r Result[T]) OK() bool {
	return r.Reason == ReasonNone && r.Value != nil
}

// Ok builds a successful Result.
func Ok[T any](value T, confidence float64, source model.Source, snippet string) Result[T] {
	return Result[T]{
		Value:      &value,
		Confidence: model.ClampConfidence(confidence),
		Source:     source,
		Snippet:    snippet,
	}
}

// NotAttempted marks a source the caller never tried, e.g. user input
// that was not supplied.
func NotAttempted[T any](source model.Source) Result[T] {
	return Result[T]{Source: source, Reason: ReasonNotAttempted}
}

// Fail builds a failed Result attributed to a source.
func Fail[T any](source model.Source, reason FailureReason) Result[T] {
	if reason == ReasonNone {
		reason = ReasonProviderError
	}
	return Result[T]{Source: source, Reason: reason}
}

// field converts a Result into its model Field.
func field[T any](r Result[T]) model.Field[T] {
	if !r.OK() {
		return model.EmptyField[T]()
	}
	return model.NewField(*r.Value, r.Confidence, r.Source, r.Snippet)
}

// record appends one attempt to a resolution's audit trail.
func record[T any](res *model.Resolution, r Result[T]) {
	a := model.AttemptRecord{
		Source:     r.Source,
		Confidence: r.Confidence,
		Snippet:    r.Snippet,
	}
	if r.OK() {
		a.Value = fmt.Sprintf("%v", *r.Value)
	} else {
		a.Failure = string(r.Reason)
	}
	res.Attempts = append(res.Attempts, a)
}

// win marks the resolution's winner.
func win[T any](res *model.Resolution, r Result[T]) {
	res.WinnerSource = r.Source
	res.Confidence = r.Confidence
	res.Defaulted = r.Source == model.SourceDefault
	if r.OK() {
		res.WinnerValue = fmt.Sprintf("%v", *r.Value)
	}
}
