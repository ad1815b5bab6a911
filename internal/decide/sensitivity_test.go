package decide

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sourcing-cli/internal/model"
)

func TestAnalyzeAlwaysThreeScenarios(t *testing.T) {
	tests := []struct {
		name string
		cs   CostSignals
	}{
		{"no data at all", CostSignals{}},
		{"full data", CostSignals{
			DutyMinPct: 5, DutyMaxPct: 15,
			BestEstimate: 10, MinCost: 8, MaxCost: 12,
			TargetPrice: f64(20),
		}},
		{"origin confirmed", CostSignals{
			DutyMinPct: 5, DutyMaxPct: 15,
			BestEstimate: 10, MinCost: 8, MaxCost: 12,
			OriginConfirmed: true,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Analyze(tt.cs), 3)
		})
	}
}

func TestDutyScenarioArithmetic(t *testing.T) {
	got := Analyze(CostSignals{DutyMinPct: 5, DutyMaxPct: 15, BestEstimate: 10})

	duty := got[0]
	assert.Equal(t, "Duty rate uncertainty", duty.Label)
	// Range 10 over midpoint 10 is a 100% swing.
	assert.InDelta(t, 100, duty.ImpactOnLandedCost.ChangePct, 0.001)
	require.NotNil(t, duty.ImpactOnLandedCost.NewCost)
	// Ceiling is 5 points over the midpoint: 10 * 1.05.
	assert.InDelta(t, 10.5, *duty.ImpactOnLandedCost.NewCost, 0.001)
}

func TestDutyScenarioSkipsNonPositiveMidpoint(t *testing.T) {
	// A mirrored range has midpoint zero; the duty scenario must drop
	// out instead of producing an infinite swing.
	got := Analyze(CostSignals{
		DutyMinPct: -10, DutyMaxPct: 10,
		BestEstimate:    10,
		OriginConfirmed: true,
	})

	require.Len(t, got, 3)
	for _, s := range got {
		assert.NotEqual(t, "Duty rate uncertainty", s.Label)
		assert.False(t, math.IsInf(s.ImpactOnLandedCost.ChangePct, 0))
		assert.False(t, math.IsNaN(s.ImpactOnLandedCost.ChangePct))
	}
	assert.Equal(t, "Needs more data", got[1].Label)

	_, err := json.Marshal(got)
	require.NoError(t, err)
}

func TestPriceScenarioArithmetic(t *testing.T) {
	got := Analyze(CostSignals{
		BestEstimate: 10, MinCost: 8, MaxCost: 12,
		OriginConfirmed: true,
	})

	price := got[0]
	assert.Equal(t, "Supplier price range", price.Label)
	assert.InDelta(t, 40, price.ImpactOnLandedCost.ChangePct, 0.001)
	require.NotNil(t, price.ImpactOnLandedCost.NewCost)
	assert.InDelta(t, 12, *price.ImpactOnLandedCost.NewCost, 0.001)
}

func TestOriginScenarioFixedFivePercent(t *testing.T) {
	got := Analyze(CostSignals{BestEstimate: 10})

	origin := got[0]
	assert.Equal(t, "Origin confirmation", origin.Label)
	assert.InDelta(t, 5, origin.ImpactOnLandedCost.ChangePct, 0.001)
	require.NotNil(t, origin.ImpactOnLandedCost.NewCost)
	assert.InDelta(t, 10.5, *origin.ImpactOnLandedCost.NewCost, 0.001)
}

func TestPlaceholdersPadThePanel(t *testing.T) {
	got := Analyze(CostSignals{})

	for _, s := range got {
		assert.Equal(t, "Needs more data", s.Label)
		assert.Nil(t, s.ImpactOnLandedCost.NewCost)
		assert.Nil(t, s.ImpactOnMargin.ChangePct)
	}
}

func TestMarginImpactOnlyWithTargetPrice(t *testing.T) {
	without := Analyze(CostSignals{DutyMinPct: 5, DutyMaxPct: 15, BestEstimate: 10})
	assert.Nil(t, without[0].ImpactOnMargin.NewMargin)

	with := Analyze(CostSignals{
		DutyMinPct: 5, DutyMaxPct: 15, BestEstimate: 10,
		TargetPrice: f64(20),
	})
	duty := with[0]
	require.NotNil(t, duty.ImpactOnMargin.NewMargin)
	// Current margin 50%, projected (20-10.5)/20 = 47.5%.
	assert.InDelta(t, 47.5, *duty.ImpactOnMargin.NewMargin, 0.001)
	assert.InDelta(t, -2.5, *duty.ImpactOnMargin.ChangePct, 0.001)
}

func TestAnalyzeDeterministic(t *testing.T) {
	cs := CostSignals{DutyMinPct: 5, DutyMaxPct: 15, BestEstimate: 10, TargetPrice: f64(20)}
	assert.Equal(t, Analyze(cs), Analyze(cs))
}

func TestPlanCapsAndBranches(t *testing.T) {
	s := healthy()
	s.BarcodeOK = false
	s.LabelOK = false
	s.WeightOK = false
	s.OriginOK = false

	for _, dec := range []model.Decision{model.DecisionGo, model.DecisionHold, model.DecisionNo} {
		p := Plan(model.Verdict{Decision: dec}, s)
		assert.LessOrEqual(t, len(p.Today), 3, string(dec))
		assert.LessOrEqual(t, len(p.Tomorrow), 3, string(dec))
		assert.NotEmpty(t, p.Today, string(dec))
		assert.NotEmpty(t, p.Tomorrow, string(dec))
	}
}

func TestPlanHoldNoMatchesAsksForEvidence(t *testing.T) {
	s := Signals{}
	p := Plan(model.Verdict{Decision: model.DecisionHold}, s)

	assert.Contains(t, p.Today[0], "barcode")
}
