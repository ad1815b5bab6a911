// Package decide turns completeness and evidence-strength signals into
// the GO/HOLD/NO verdict, the sensitivity panel, and the 48-hour action
// plan. Every function here is total: no input shape can fail.
package decide

import (
	"fmt"
	"strings"

	"github.com/sells-group/sourcing-cli/internal/model"
)

// complianceKeywords flag categories that commonly carry regulatory
// triggers (certifications, battery transport rules, toy safety).
var complianceKeywords = []string{"electronic", "battery", "toy", "hybrid"}

// Signals is the full input to verdict classification.
type Signals struct {
	SupplierMatches int
	ExactMatches    int

	BarcodeOK bool
	LabelOK   bool
	WeightOK  bool
	OriginOK  bool

	WeightDefaulted   bool
	CasePackDefaulted bool

	DutyMinPct float64
	DutyMaxPct float64

	MarginEstimate   *float64
	BestEstimateCost float64

	ComplianceRisk bool
	Category       string
}

// ComplianceSuspected reports whether the category or an explicit flag
// suggests a compliance trigger.
func (s Signals) ComplianceSuspected() bool {
	if s.ComplianceRisk {
		return true
	}
	lower := strings.ToLower(s.Category)
	for _, kw := range complianceKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (s Signals) completeCount() int {
	n := 0
	for _, ok := range []bool{s.BarcodeOK, s.LabelOK, s.WeightOK, s.OriginOK} {
		if ok {
			n++
		}
	}
	return n
}

// Decide applies the ordered business rules; the first matching rule
// wins.
func Decide(s Signals) model.Verdict {
	decision := classify(s)
	return model.Verdict{
		Decision:   decision,
		Reasons:    reasons(s, decision),
		Confidence: confidence(s),
	}
}

func classify(s Signals) model.Decision {
	// 1. Suspected compliance trigger with no readable label.
	if s.ComplianceSuspected() && !s.LabelOK {
		return model.DecisionNo
	}
	// 2. Known margin at or below zero. A nil margin (no price data)
	// does not disqualify; only an actual non-positive estimate does.
	if s.MarginEstimate != nil && *s.MarginEstimate <= 0 {
		return model.DecisionNo
	}
	// 3. Neither barcode nor label readable.
	if !s.BarcodeOK && !s.LabelOK {
		return model.DecisionHold
	}
	// 4. Defaulted weight and case pack with zero supplier matches.
	if s.WeightDefaulted && s.CasePackDefaulted && s.SupplierMatches == 0 {
		return model.DecisionHold
	}
	return model.DecisionGo
}

// confidence scores the verdict 0-100.
func confidence(s Signals) int {
	if s.BestEstimateCost == 0 {
		return 0
	}

	var score int
	switch {
	case s.SupplierMatches == 0:
		score = 30
	case s.ExactMatches == 0:
		score = 40
	case s.ExactMatches >= 3:
		score = 75
	case s.ExactMatches >= 1:
		score = 60
	default:
		score = 40
	}

	complete := s.completeCount()
	if complete == 4 {
		score += 20
	} else if complete < 2 {
		score -= 15
	}

	if s.DutyMaxPct-s.DutyMinPct > 5 {
		score -= 10
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// reasons derives up to three short reason strings from the same
// signals. These are the fallback narration; the human-facing statement
// normally comes from the content catalog.
func reasons(s Signals, decision model.Decision) []string {
	var out []string
	add := func(r string) {
		if len(out) < 3 {
			out = append(out, r)
		}
	}

	switch decision {
	case model.DecisionNo:
		if s.ComplianceSuspected() && !s.LabelOK {
			add("Risk factors present: possible compliance trigger without a readable label")
		}
		if s.MarginEstimate != nil && *s.MarginEstimate <= 0 {
			add("Estimated margin is zero or negative at current costs")
		}
		if s.DutyMaxPct-s.DutyMinPct > 5 {
			add("Wide duty-rate range adds cost risk")
		}

	case model.DecisionHold:
		if !s.BarcodeOK && !s.LabelOK {
			add("Neither barcode nor label could be read")
		}
		if s.SupplierMatches == 0 {
			add("No supplier matches found")
		}
		if s.WeightDefaulted {
			add("Weight is an assumed default, not measured")
		}
		if s.CasePackDefaulted {
			add("Case pack is an assumed default")
		}

	case model.DecisionGo:
		if s.ExactMatches > 0 {
			add(fmt.Sprintf("%d exact supplier matches found", s.ExactMatches))
		} else if s.SupplierMatches > 0 {
			add(fmt.Sprintf("%d supplier matches found", s.SupplierMatches))
		}
		if s.completeCount() == 4 {
			add("All four evidence inputs captured")
		}
		if s.DutyMaxPct-s.DutyMinPct <= 5 && s.DutyMaxPct > 0 {
			add("Duty-rate range is narrow")
		}
	}

	if len(out) == 0 {
		add("Based on available evidence")
	}
	return out
}
