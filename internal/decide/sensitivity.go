package decide

import (
	"fmt"

	"github.com/sells-group/sourcing-cli/internal/model"
)

// scenarioCount is the fixed length of the sensitivity panel.
const scenarioCount = 3

// CostSignals is the input to sensitivity analysis.
type CostSignals struct {
	DutyMinPct      float64
	DutyMaxPct      float64
	BestEstimate    float64
	MinCost         float64
	MaxCost         float64
	TargetPrice     *float64
	OriginConfirmed bool
}

// Analyze generates exactly three quantified scenarios. Generators that
// lack data are skipped and the panel is padded with neutral
// placeholders, so the caller always renders a full panel.
func Analyze(cs CostSignals) []model.SensitivityScenario {
	scenarios := make([]model.SensitivityScenario, 0, scenarioCount)

	if s, ok := dutyScenario(cs); ok {
		scenarios = append(scenarios, s)
	}
	if s, ok := priceScenario(cs); ok {
		scenarios = append(scenarios, s)
	}
	if s, ok := originScenario(cs); ok {
		scenarios = append(scenarios, s)
	}

	for len(scenarios) < scenarioCount {
		scenarios = append(scenarios, placeholderScenario())
	}
	return scenarios[:scenarioCount]
}

// dutyScenario applies only when a real duty range and a cost estimate
// exist.
func dutyScenario(cs CostSignals) (model.SensitivityScenario, bool) {
	if cs.DutyMaxPct <= cs.DutyMinPct || cs.BestEstimate <= 0 {
		return model.SensitivityScenario{}, false
	}
	mid := (cs.DutyMinPct + cs.DutyMaxPct) / 2
	// A non-positive midpoint (possible with caller-supplied signals)
	// has no meaningful relative change; skip rather than divide by it.
	if mid <= 0 {
		return model.SensitivityScenario{}, false
	}
	changePct := (cs.DutyMaxPct - cs.DutyMinPct) / mid * 100
	newCost := cs.BestEstimate * (1 + (cs.DutyMaxPct-mid)/100)

	return model.SensitivityScenario{
		Label: "Duty rate uncertainty",
		AssumptionChange: fmt.Sprintf("Duty lands at %.1f%% instead of the %.1f%% midpoint",
			cs.DutyMaxPct, mid),
		ImpactOnLandedCost: model.CostImpact{ChangePct: changePct, NewCost: &newCost},
		ImpactOnMargin:     marginImpact(cs, newCost),
	}, true
}

// priceScenario applies only when supplier quotes actually spread.
func priceScenario(cs CostSignals) (model.SensitivityScenario, bool) {
	if cs.MaxCost <= cs.MinCost || cs.BestEstimate <= 0 {
		return model.SensitivityScenario{}, false
	}
	changePct := (cs.MaxCost - cs.MinCost) / cs.BestEstimate * 100
	newCost := cs.MaxCost

	return model.SensitivityScenario{
		Label: "Supplier price range",
		AssumptionChange: fmt.Sprintf("Unit cost comes in at the top quote (%.2f vs %.2f)",
			cs.MaxCost, cs.MinCost),
		ImpactOnLandedCost: model.CostImpact{ChangePct: changePct, NewCost: &newCost},
		ImpactOnMargin:     marginImpact(cs, newCost),
	}, true
}

// originAssumedImpactPct is the fixed cost impact assumed when origin
// is unconfirmed.
const originAssumedImpactPct = 5

func originScenario(cs CostSignals) (model.SensitivityScenario, bool) {
	if cs.OriginConfirmed || cs.BestEstimate <= 0 {
		return model.SensitivityScenario{}, false
	}
	newCost := cs.BestEstimate * (1 + originAssumedImpactPct/100.0)

	return model.SensitivityScenario{
		Label:              "Origin confirmation",
		AssumptionChange:   "Confirmed origin shifts the applicable duty treatment",
		ImpactOnLandedCost: model.CostImpact{ChangePct: originAssumedImpactPct, NewCost: &newCost},
		ImpactOnMargin:     marginImpact(cs, newCost),
	}, true
}

func placeholderScenario() model.SensitivityScenario {
	return model.SensitivityScenario{
		Label:              "Needs more data",
		AssumptionChange:   "Add cost or pricing evidence to unlock this scenario",
		ImpactOnLandedCost: model.CostImpact{ChangePct: 0, NewCost: nil},
		ImpactOnMargin:     model.MarginImpact{},
	}
}

// marginImpact populates margin fields only when a target sell price
// exists; margins are never guessed.
func marginImpact(cs CostSignals, newCost float64) model.MarginImpact {
	if cs.TargetPrice == nil || *cs.TargetPrice <= 0 {
		return model.MarginImpact{}
	}
	price := *cs.TargetPrice
	current := (price - cs.BestEstimate) / price * 100
	projected := (price - newCost) / price * 100
	change := projected - current
	return model.MarginImpact{ChangePct: &change, NewMargin: &projected}
}
