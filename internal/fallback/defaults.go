package fallback

import (
	"strings"

	"github.com/sells-group/sourcing-cli/internal/model"
)

// categoryDefault is one entry in the category-keyword weight lookup.
type categoryDefault struct {
	keywords   []string
	amount     float64
	unit       model.WeightUnit
	confidence float64
}

// categoryDefaults is checked in order; the first keyword substring
// match wins. The generic fallback carries a slightly lower confidence
// than a keyword match.
var categoryDefaults = []categoryDefault{
	{keywords: []string{"candy", "chocolate"}, amount: 25, unit: model.UnitGrams, confidence: 0.25},
	{keywords: []string{"beverage", "drink"}, amount: 250, unit: model.UnitMilliliter, confidence: 0.25},
	{keywords: []string{"snack"}, amount: 30, unit: model.UnitGrams, confidence: 0.25},
	{keywords: []string{"supplement"}, amount: 5, unit: model.UnitGrams, confidence: 0.25},
}

const (
	genericDefaultGrams      = 50
	genericDefaultConfidence = 0.2
)

// DefaultWeight returns the category-aware default weight used when
// every weight source in the chain has failed.
func DefaultWeight(category string) Result[model.WeightValue] {
	lower := strings.ToLower(category)
	for _, d := range categoryDefaults {
		for _, kw := range d.keywords {
			if strings.Contains(lower, kw) {
				return Ok(model.WeightValue{Amount: d.amount, Unit: d.unit},
					d.confidence, model.SourceDefault, "category default: "+kw)
			}
		}
	}
	return Ok(model.WeightValue{Amount: genericDefaultGrams, Unit: model.UnitGrams},
		genericDefaultConfidence, model.SourceDefault, "category default")
}

// DefaultCasePackCounts are the hard-coded candidate counts seeded so a
// case-pack draft is never a bare empty list.
var DefaultCasePackCounts = []int{12, 24}

const defaultCasePackConfidence = 0.2

// DefaultCasePackCandidates returns the seeded low-confidence case-pack
// candidates.
func DefaultCasePackCandidates() []model.Field[int] {
	out := make([]model.Field[int], 0, len(DefaultCasePackCounts))
	for _, n := range DefaultCasePackCounts {
		out = append(out, model.NewField(n, defaultCasePackConfidence, model.SourceDefault, "standard case size"))
	}
	return out
}
