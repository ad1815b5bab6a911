package decide

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/sourcing-cli/internal/model"
)

func f64(v float64) *float64 { return &v }

// healthy returns signals that classify GO.
func healthy() Signals {
	return Signals{
		SupplierMatches:  4,
		ExactMatches:     2,
		BarcodeOK:        true,
		LabelOK:          true,
		WeightOK:         true,
		OriginOK:         true,
		DutyMinPct:       5,
		DutyMaxPct:       8,
		MarginEstimate:   f64(22.5),
		BestEstimateCost: 1.40,
		Category:         "candy",
	}
}

func TestDecideGo(t *testing.T) {
	v := Decide(healthy())
	assert.Equal(t, model.DecisionGo, v.Decision)
	assert.NotEmpty(t, v.Reasons)
	assert.LessOrEqual(t, len(v.Reasons), 3)
}

func TestDecideComplianceWithoutLabelIsNo(t *testing.T) {
	s := healthy()
	s.Category = "battery-powered toy"
	s.LabelOK = false

	v := Decide(s)
	assert.Equal(t, model.DecisionNo, v.Decision)
}

func TestDecideComplianceWithReadableLabelIsNotNo(t *testing.T) {
	s := healthy()
	s.Category = "electronic gadget"

	v := Decide(s)
	assert.Equal(t, model.DecisionGo, v.Decision)
}

func TestDecideNegativeMarginIsNo(t *testing.T) {
	s := healthy()
	s.MarginEstimate = f64(-1.5)

	v := Decide(s)
	assert.Equal(t, model.DecisionNo, v.Decision)
}

func TestDecideZeroMarginIsNo(t *testing.T) {
	s := healthy()
	s.MarginEstimate = f64(0)

	assert.Equal(t, model.DecisionNo, Decide(s).Decision)
}

func TestDecideNilMarginDoesNotDisqualify(t *testing.T) {
	s := healthy()
	s.MarginEstimate = nil

	assert.Equal(t, model.DecisionGo, Decide(s).Decision)
}

func TestDecideNoIdentificationIsHold(t *testing.T) {
	s := healthy()
	s.BarcodeOK = false
	s.LabelOK = false

	assert.Equal(t, model.DecisionHold, Decide(s).Decision)
}

func TestDecideAllDefaultsNoMatchesIsHold(t *testing.T) {
	s := healthy()
	s.WeightDefaulted = true
	s.CasePackDefaulted = true
	s.SupplierMatches = 0
	s.ExactMatches = 0

	assert.Equal(t, model.DecisionHold, Decide(s).Decision)
}

func TestDecideRuleOrderComplianceBeforeMargin(t *testing.T) {
	// Both the compliance rule and the margin rule match; the first
	// rule's reasons should appear.
	s := healthy()
	s.Category = "hybrid supplement"
	s.LabelOK = false
	s.MarginEstimate = f64(-3)

	v := Decide(s)
	assert.Equal(t, model.DecisionNo, v.Decision)
	assert.Contains(t, v.Reasons[0], "compliance")
}

func TestConfidenceZeroWithoutCostData(t *testing.T) {
	s := healthy()
	s.BestEstimateCost = 0

	assert.Equal(t, 0, Decide(s).Confidence)
}

func TestConfidenceTiers(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Signals)
		want   int
	}{
		{"no matches, all facts", func(s *Signals) { s.SupplierMatches = 0; s.ExactMatches = 0 }, 50},
		{"matches but none exact", func(s *Signals) { s.ExactMatches = 0 }, 60},
		{"three exact matches", func(s *Signals) { s.ExactMatches = 3 }, 95},
		{"one exact match", func(s *Signals) { s.ExactMatches = 1 }, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := healthy() // four facts OK: +20
			tt.mutate(&s)
			assert.Equal(t, tt.want, Decide(s).Confidence)
		})
	}
}

func TestConfidenceSparseFactsPenalty(t *testing.T) {
	s := healthy()
	s.ExactMatches = 1 // base 60
	s.LabelOK = false
	s.WeightOK = false
	s.OriginOK = false // one fact left: -15

	assert.Equal(t, 45, Decide(s).Confidence)
}

func TestConfidenceWideDutyRangePenalty(t *testing.T) {
	s := healthy()
	s.ExactMatches = 1 // base 60, +20 complete
	s.DutyMinPct = 5
	s.DutyMaxPct = 15 // range 10 > 5: -10

	assert.Equal(t, 70, Decide(s).Confidence)
}

func TestConfidenceClampedToRange(t *testing.T) {
	s := Signals{
		BestEstimateCost: 1,
		SupplierMatches:  0,
		DutyMinPct:       0,
		DutyMaxPct:       50,
	}
	// 30 - 15 - 10 = 5; stays within [0,100].
	v := Decide(s)
	assert.GreaterOrEqual(t, v.Confidence, 0)
	assert.LessOrEqual(t, v.Confidence, 100)
}

func TestComplianceSuspectedKeywords(t *testing.T) {
	for _, category := range []string{"Electronics", "battery pack", "plush TOY", "hybrid snack"} {
		s := Signals{Category: category}
		assert.True(t, s.ComplianceSuspected(), category)
	}
	assert.False(t, Signals{Category: "candy"}.ComplianceSuspected())
	assert.True(t, Signals{Category: "candy", ComplianceRisk: true}.ComplianceSuspected())
}

func TestReasonsCappedAtThree(t *testing.T) {
	s := Signals{
		BestEstimateCost:  1,
		WeightDefaulted:   true,
		CasePackDefaulted: true,
	}
	v := Decide(s)
	assert.LessOrEqual(t, len(v.Reasons), 3)
}
